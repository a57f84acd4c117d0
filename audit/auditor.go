// Package audit wires fetching, signal extraction and scoring into page and
// site audits. All scoring stays pure; this package owns the impure edges:
// HTTP fetch, caching and statistics.
package audit

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seo-auditor/backend/analyzer"
	"github.com/seo-auditor/backend/robots"
	"github.com/seo-auditor/backend/scoring"
	"github.com/seo-auditor/backend/stats"
)

const userAgent = "SiteAuditor/1.0"

// PageAudit is the complete result for one page. A failed fetch yields
// Failed=true with zeroed scores and an error message, which is a different
// thing from a page that merely scores low.
type PageAudit struct {
	URL        string            `json:"url"`
	FinalURL   string            `json:"finalUrl,omitempty"`
	StatusCode int               `json:"statusCode,omitempty"`
	LoadTime   float64           `json:"loadTime"`
	PageSize   int               `json:"pageSize"`
	AnalyzedAt time.Time         `json:"analyzedAt"`
	Signals    *analyzer.Signals `json:"signals,omitempty"`
	Score      scoring.PageScore `json:"score"`
	Failed     bool              `json:"failed,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Options configure an Auditor. Zero values fall back to sensible defaults.
type Options struct {
	FetchTimeout  time.Duration
	CacheTTL      time.Duration
	MaxCacheSize  int
	RobotsTTL     time.Duration
	MaxRobotsSize int
	CheckLinks    bool
	MaxLinkChecks int
	DataDir       string
	Logger        *logrus.Logger
}

func (o *Options) applyDefaults() {
	if o.FetchTimeout == 0 {
		o.FetchTimeout = 15 * time.Second
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = 30 * time.Minute
	}
	if o.MaxCacheSize == 0 {
		o.MaxCacheSize = 1000
	}
	if o.RobotsTTL == 0 {
		o.RobotsTTL = time.Hour
	}
	if o.MaxRobotsSize == 0 {
		o.MaxRobotsSize = 1000
	}
	if o.MaxLinkChecks == 0 {
		o.MaxLinkChecks = 50
	}
	if o.DataDir == "" {
		o.DataDir = "data"
	}
	if o.Logger == nil {
		o.Logger = logrus.New()
	}
}

type cacheEntry struct {
	audit     *PageAudit
	timestamp time.Time
}

// Auditor fetches pages and produces audits, memoizing results per URL.
type Auditor struct {
	client   *http.Client
	registry *analyzer.Registry
	robots   *robots.Cache
	stats    *stats.Storage
	log      *logrus.Logger

	cache           map[string]cacheEntry
	cacheMutex      sync.RWMutex
	cacheTTL        time.Duration
	maxCacheSize    int
	lastCleanup     time.Time // guarded by cacheMutex
	cleanupInterval time.Duration

	checkLinks    bool
	maxLinkChecks int

	done      chan struct{}
	closeOnce sync.Once
}

// New creates an Auditor with a pooled HTTP client and background cache
// cleanup.
func New(opts Options) (*Auditor, error) {
	opts.applyDefaults()

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	client := &http.Client{
		Timeout:   opts.FetchTimeout,
		Transport: transport,
	}

	statsStorage, err := stats.NewStorage(opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize stats storage: %w", err)
	}

	a := &Auditor{
		client:          client,
		registry:        analyzer.NewRegistry(opts.Logger),
		stats:           statsStorage,
		log:             opts.Logger,
		cache:           make(map[string]cacheEntry),
		cacheTTL:        opts.CacheTTL,
		maxCacheSize:    opts.MaxCacheSize,
		lastCleanup:     time.Now(),
		cleanupInterval: 5 * time.Minute,
		checkLinks:      opts.CheckLinks,
		maxLinkChecks:   opts.MaxLinkChecks,
		done:            make(chan struct{}),
	}
	a.robots = robots.NewCache(a.fetchRobots, opts.RobotsTTL, opts.MaxRobotsSize)

	go a.periodicCleanup()

	return a, nil
}

// Audit fetches and audits a single page, with a trace-less browser profile.
func (a *Auditor) Audit(ctx context.Context, url string) *PageAudit {
	return a.AuditWithTrace(ctx, url, nil)
}

// AuditWithTrace fetches and audits a page, grading the supplied Core Web
// Vitals trace when one is available. Results are cached per URL; traced
// requests bypass the cache because the trace is request-specific.
func (a *Auditor) AuditWithTrace(ctx context.Context, url string, trace *analyzer.Trace) *PageAudit {
	if a.cleanupDue() {
		go a.cleanup()
	}

	if trace == nil {
		if cached := a.cachedAudit(url); cached != nil {
			a.stats.TrackCache(true)
			return cached
		}
		a.stats.TrackCache(false)
	}

	audit := a.audit(ctx, url, trace)
	a.stats.TrackAudit(audit.Failed)

	if trace == nil && !audit.Failed {
		key := cacheKey(url)
		a.cacheMutex.Lock()
		a.cache[key] = cacheEntry{audit: audit, timestamp: time.Now()}
		a.cacheMutex.Unlock()
	}

	return audit
}

// AuditSite audits every URL and aggregates the page scores into a site
// score. Individual fetch failures do not abort the site audit.
func (a *Auditor) AuditSite(ctx context.Context, urls []string) ([]*PageAudit, scoring.SiteScore) {
	audits := make([]*PageAudit, 0, len(urls))
	scored := make([]scoring.ScoredPage, 0, len(urls))

	for _, url := range urls {
		audit := a.Audit(ctx, url)
		audits = append(audits, audit)
		if !audit.Failed {
			scored = append(scored, scoring.ScoredPage{URL: audit.URL, Score: audit.Score})
		}
	}

	return audits, scoring.ScoreSite(scored)
}

func (a *Auditor) audit(ctx context.Context, url string, trace *analyzer.Trace) *PageAudit {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return failedAudit(url, fmt.Errorf("invalid URL: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return failedAudit(url, fmt.Errorf("fetch failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return failedAudit(url, fmt.Errorf("read failed: %w", err))
	}
	loadTime := time.Since(start).Seconds()

	meta := analyzer.PageMeta{
		URL:        url,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		LoadTime:   loadTime,
		PageSize:   len(body),
		FetchedAt:  start,
	}

	page, err := analyzer.NewPage(body, meta)
	if err != nil {
		return failedAudit(url, err)
	}
	page.Trace = trace

	verdict := a.robots.Verdict(ctx, meta.FinalURL)
	page.Robots = &analyzer.RobotsVerdict{
		Checked: verdict.Checked,
		Allowed: verdict.Allowed,
		Matched: verdict.Matched,
	}

	signals := a.registry.Run(page)

	if a.checkLinks && signals.Links != nil {
		signals.Links.BrokenLinks = a.countBrokenLinks(ctx, page)
	}

	return &PageAudit{
		URL:        url,
		FinalURL:   meta.FinalURL,
		StatusCode: meta.StatusCode,
		LoadTime:   meta.LoadTime,
		PageSize:   meta.PageSize,
		AnalyzedAt: time.Now(),
		Signals:    signals,
		Score:      scoring.ScorePage(signals, meta),
	}
}

func failedAudit(url string, err error) *PageAudit {
	return &PageAudit{
		URL:        url,
		AnalyzedAt: time.Now(),
		Failed:     true,
		Error:      err.Error(),
		Score: scoring.PageScore{
			Categories: map[string]float64{
				scoring.CategoryPerformance: 0,
				scoring.CategorySEO:         0,
				scoring.CategoryContent:     0,
				scoring.CategoryTechnical:   0,
			},
		},
	}
}

// fetchRobots is the injected fetcher for the robots cache.
func (a *Auditor) fetchRobots(ctx context.Context, robotsURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// cachedAudit returns a fresh cache entry or nil.
func (a *Auditor) cachedAudit(url string) *PageAudit {
	a.cacheMutex.RLock()
	defer a.cacheMutex.RUnlock()

	entry, found := a.cache[cacheKey(url)]
	if found && time.Since(entry.timestamp) < a.cacheTTL {
		return entry.audit
	}
	return nil
}

// IsCached checks whether a URL has a fresh cached audit.
func (a *Auditor) IsCached(url string) bool {
	return a.cachedAudit(url) != nil
}

// ClearCache drops every cached audit.
func (a *Auditor) ClearCache() {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	a.cache = make(map[string]cacheEntry)
}

func cacheKey(url string) string {
	hash := md5.Sum([]byte(url))
	return hex.EncodeToString(hash[:])
}

func (a *Auditor) periodicCleanup() {
	ticker := time.NewTicker(a.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.cleanup()
		case <-a.done:
			return
		}
	}
}

func (a *Auditor) cleanupDue() bool {
	a.cacheMutex.RLock()
	defer a.cacheMutex.RUnlock()
	return time.Since(a.lastCleanup) > a.cleanupInterval
}

// cleanup removes expired entries and enforces the cache size limit.
func (a *Auditor) cleanup() {
	now := time.Now()

	a.cacheMutex.Lock()
	for key, entry := range a.cache {
		if now.Sub(entry.timestamp) > a.cacheTTL {
			delete(a.cache, key)
		}
	}

	a.lastCleanup = now

	if len(a.cache) > a.maxCacheSize {
		entries := make([]struct {
			key       string
			timestamp time.Time
		}, 0, len(a.cache))

		for key, entry := range a.cache {
			entries = append(entries, struct {
				key       string
				timestamp time.Time
			}{key, entry.timestamp})
		}

		sort.Slice(entries, func(i, j int) bool {
			return entries[i].timestamp.Before(entries[j].timestamp)
		})

		for i := 0; i < len(entries)-a.maxCacheSize; i++ {
			delete(a.cache, entries[i].key)
		}
	}
	a.cacheMutex.Unlock()
}

// Stats returns the statistics storage instance.
func (a *Auditor) Stats() *stats.Storage {
	return a.stats
}

// Shutdown stops the cleanup goroutine, flushes statistics and drops the
// cached audits. The auditor stays usable for stragglers already in flight.
func (a *Auditor) Shutdown() error {
	if a == nil {
		return nil
	}

	a.closeOnce.Do(func() { close(a.done) })

	if a.stats != nil {
		if err := a.stats.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown stats storage: %w", err)
		}
	}

	a.cacheMutex.Lock()
	a.cache = make(map[string]cacheEntry)
	a.cacheMutex.Unlock()

	return nil
}
