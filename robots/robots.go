// Package robots resolves robots.txt verdicts with a per-domain TTL cache.
// The fetch function is injected so the package performs no network I/O of
// its own, and an in-flight lock guarantees at most one fetch per domain.
package robots

import (
	"context"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// Verdict is the resolved decision for one page path.
type Verdict struct {
	Checked bool   `json:"checked"`
	Allowed bool   `json:"allowed"`
	Matched string `json:"matched,omitempty"`
}

// FetchFunc retrieves a robots.txt body. A non-200 status or an error both
// mean the file is unavailable, which crawlers treat as allow-all.
type FetchFunc func(ctx context.Context, robotsURL string) (status int, body []byte, err error)

type entry struct {
	rules     []rule
	checked   bool
	fetchedAt time.Time
}

type inflight struct {
	wg sync.WaitGroup
}

// Cache resolves and memoizes robots.txt rules per domain.
type Cache struct {
	fetch   FetchFunc
	ttl     time.Duration
	maxSize int

	mu       sync.Mutex
	entries  map[string]*entry
	inflight map[string]*inflight
}

// NewCache builds a cache around the given fetcher.
func NewCache(fetch FetchFunc, ttl time.Duration, maxSize int) *Cache {
	return &Cache{
		fetch:    fetch,
		ttl:      ttl,
		maxSize:  maxSize,
		entries:  make(map[string]*entry),
		inflight: make(map[string]*inflight),
	}
}

// Verdict resolves the robots.txt decision for pageURL, fetching the
// domain's robots.txt at most once per TTL window. Concurrent callers for
// the same domain share a single fetch.
func (c *Cache) Verdict(ctx context.Context, pageURL string) Verdict {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return Verdict{}
	}
	domain := u.Scheme + "://" + u.Host
	path := u.Path
	if path == "" {
		path = "/"
	}

	e := c.lookup(ctx, domain)
	if e == nil || !e.checked {
		return Verdict{}
	}
	return verdictFor(e.rules, path)
}

func (c *Cache) lookup(ctx context.Context, domain string) *entry {
	c.mu.Lock()
	if e, ok := c.entries[domain]; ok && time.Since(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return e
	}

	if fl, ok := c.inflight[domain]; ok {
		// Another goroutine is fetching this domain; wait for it.
		c.mu.Unlock()
		fl.wg.Wait()
		c.mu.Lock()
		e := c.entries[domain]
		c.mu.Unlock()
		return e
	}

	fl := &inflight{}
	fl.wg.Add(1)
	c.inflight[domain] = fl
	c.mu.Unlock()

	e := c.fetchDomain(ctx, domain)

	c.mu.Lock()
	c.store(domain, e)
	delete(c.inflight, domain)
	c.mu.Unlock()
	fl.wg.Done()

	return e
}

func (c *Cache) fetchDomain(ctx context.Context, domain string) *entry {
	e := &entry{fetchedAt: time.Now()}
	if c.fetch == nil {
		return e
	}

	status, body, err := c.fetch(ctx, domain+"/robots.txt")
	if err != nil {
		return e
	}
	e.checked = true
	if status != 200 {
		// Missing robots.txt allows everything.
		return e
	}
	e.rules = parseRules(string(body))
	return e
}

// store inserts under the size cap, evicting the oldest entry when full.
func (c *Cache) store(domain string, e *entry) {
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		if _, exists := c.entries[domain]; !exists {
			oldestKey := ""
			var oldest time.Time
			for k, v := range c.entries {
				if oldestKey == "" || v.fetchedAt.Before(oldest) {
					oldestKey, oldest = k, v.fetchedAt
				}
			}
			delete(c.entries, oldestKey)
		}
	}
	c.entries[domain] = e
}

// Len reports the number of cached domains.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type rule struct {
	pattern string
	re      *regexp.Regexp
}

// parseRules collects the Disallow patterns that apply to the wildcard
// agent or to googlebot, matching the simplified evaluation crawl tools use.
func parseRules(body string) []rule {
	var rules []rule
	applies := false

	for _, line := range strings.Split(body, "\n") {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			agent := strings.ToLower(value)
			applies = agent == "*" || strings.Contains(agent, "googlebot")
		case "disallow":
			if !applies || value == "" {
				continue
			}
			if re := compilePattern(value); re != nil {
				rules = append(rules, rule{pattern: value, re: re})
			}
		}
	}

	// Longest pattern first so Matched reports the most specific rule.
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].pattern) > len(rules[j].pattern)
	})
	return rules
}

// compilePattern turns a robots.txt path pattern into a regexp: "*" matches
// any run of characters, a trailing "$" anchors the end, and everything else
// is a prefix match.
func compilePattern(pattern string) *regexp.Regexp {
	anchored := strings.HasSuffix(pattern, "$")
	pattern = strings.TrimSuffix(pattern, "$")

	var b strings.Builder
	b.WriteString("^")
	for _, part := range strings.Split(pattern, "*") {
		if b.Len() > 1 {
			b.WriteString(".*")
		}
		b.WriteString(regexp.QuoteMeta(part))
	}
	if anchored {
		b.WriteString("$")
	} else {
		b.WriteString(".*")
	}

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil
	}
	return re
}

func verdictFor(rules []rule, path string) Verdict {
	for _, r := range rules {
		if r.re.MatchString(path) {
			return Verdict{Checked: true, Allowed: false, Matched: r.pattern}
		}
	}
	return Verdict{Checked: true, Allowed: true}
}
