package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/seo-auditor/backend/analyzer"
	"github.com/seo-auditor/backend/audit"
	"github.com/seo-auditor/backend/compare"
	"github.com/seo-auditor/backend/config"
	"github.com/seo-auditor/backend/logging"
	"github.com/seo-auditor/backend/middleware"
)

type server struct {
	auditor *audit.Auditor
	log     *logrus.Logger
}

func loadEnv() {
	// Try .env.development first for local development, then regular .env.
	if err := godotenv.Load(".env.development"); err != nil {
		godotenv.Load()
	}
}

func main() {
	loadEnv()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	log := logging.New(cfg.LogLevel, cfg.LogJSON)
	gin.SetMode(cfg.GinMode)

	auditor, err := audit.New(audit.Options{
		FetchTimeout:  cfg.FetchTimeout,
		CacheTTL:      cfg.CacheTTL,
		MaxCacheSize:  cfg.CacheSize,
		RobotsTTL:     cfg.RobotsTTL,
		MaxRobotsSize: cfg.RobotsSize,
		CheckLinks:    cfg.CheckLinks,
		MaxLinkChecks: cfg.MaxLinkChecks,
		DataDir:       cfg.DataDir,
		Logger:        log,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize auditor")
	}
	defer auditor.Shutdown()

	srv := &server{auditor: auditor, log: log}

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.ErrorHandler(log))
	r.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitBurst).RateLimit())
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	api := r.Group("/api")
	{
		api.GET("/health", srv.health)
		api.POST("/analyze", srv.analyze)
		api.POST("/analyze/site", srv.analyzeSite)
		api.POST("/compare", srv.compare)
		api.GET("/statistics", srv.statistics)
	}

	log.WithField("port", cfg.Port).Info("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := strings.Join(origins, ", ")
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowed)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// traceRequest mirrors the optional Core Web Vitals payload a measuring
// client may attach to an analyze request.
type traceRequest struct {
	LCP        *float64 `json:"lcp"`
	CLS        *float64 `json:"cls"`
	INP        *float64 `json:"inp"`
	FID        *float64 `json:"fid"`
	TTFB       *float64 `json:"ttfb"`
	LCPElement string   `json:"lcpElement"`
}

func (t *traceRequest) toTrace() *analyzer.Trace {
	if t == nil {
		return nil
	}
	return &analyzer.Trace{
		LCP: t.LCP, CLS: t.CLS, INP: t.INP, FID: t.FID, TTFB: t.TTFB,
		LCPElement: t.LCPElement,
	}
}

func (s *server) analyze(c *gin.Context) {
	var request struct {
		URL   string        `json:"url" binding:"required,url"`
		Trace *traceRequest `json:"trace"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL provided"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	result := s.auditor.AuditWithTrace(ctx, request.URL, request.Trace.toTrace())
	if result.Failed {
		c.JSON(http.StatusBadGateway, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *server) analyzeSite(c *gin.Context) {
	var request struct {
		URLs []string `json:"urls" binding:"required,min=1,max=25,dive,url"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide between 1 and 25 valid URLs"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Minute)
	defer cancel()

	audits, site := s.auditor.AuditSite(ctx, request.URLs)
	c.JSON(http.StatusOK, gin.H{
		"site":  site,
		"pages": audits,
	})
}

func (s *server) compare(c *gin.Context) {
	var request struct {
		URL           string `json:"url" binding:"required,url"`
		CompetitorURL string `json:"competitorUrl" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both url and competitorUrl are required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	subject := s.auditor.Audit(ctx, request.URL)
	reference := s.auditor.Audit(ctx, request.CompetitorURL)

	result := compare.Pages(subject, reference)
	s.auditor.Stats().TrackComparison()

	c.JSON(http.StatusOK, result)
}

func (s *server) statistics(c *gin.Context) {
	storage := s.auditor.Stats()
	c.JSON(http.StatusOK, gin.H{
		"current": storage.GetCurrentStats(),
		"months":  storage.GetAllMonths(),
	})
}
