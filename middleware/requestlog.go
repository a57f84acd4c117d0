package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs each request with method, path, status and latency.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"ip":      c.ClientIP(),
			"latency": time.Since(start).String(),
		})

		if c.Writer.Status() >= 500 {
			entry.Error("request failed")
		} else {
			entry.Info("request")
		}
	}
}
