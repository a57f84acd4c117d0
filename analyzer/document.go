package analyzer

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PageMeta carries the transport-level facts about a fetched page.
// LoadTime is in seconds, PageSize in bytes.
type PageMeta struct {
	URL        string      `json:"url"`
	FinalURL   string      `json:"finalUrl"`
	StatusCode int         `json:"statusCode"`
	Headers    http.Header `json:"-"`
	LoadTime   float64     `json:"loadTime"`
	PageSize   int         `json:"pageSize"`
	FetchedAt  time.Time   `json:"fetchedAt"`
}

// Header returns a response header value with case-insensitive lookup.
func (m PageMeta) Header(name string) string {
	if m.Headers == nil {
		return ""
	}
	return m.Headers.Get(name)
}

// Trace holds browser-measured Core Web Vitals for a page. Every field is
// optional; a nil pointer means the metric was not observed, which is
// different from a measured zero.
type Trace struct {
	LCP        *float64 `json:"lcp,omitempty"`  // seconds
	CLS        *float64 `json:"cls,omitempty"`  // unitless
	INP        *float64 `json:"inp,omitempty"`  // milliseconds
	FID        *float64 `json:"fid,omitempty"`  // milliseconds
	TTFB       *float64 `json:"ttfb,omitempty"` // seconds
	LCPElement string   `json:"lcpElement,omitempty"`
}

// RobotsVerdict is the resolved robots.txt decision for a page, supplied by
// the caller. Extractors never perform network I/O themselves.
type RobotsVerdict struct {
	Checked bool   `json:"checked"`
	Allowed bool   `json:"allowed"`
	Matched string `json:"matched,omitempty"`
}

// Page is the parsed input to the extractor pipeline: the HTML document plus
// the response metadata and any optional browser trace.
type Page struct {
	Doc    *goquery.Document
	Meta   PageMeta
	Trace  *Trace
	Robots *RobotsVerdict

	base *url.URL
}

// NewPage parses raw HTML into a Page. The base URL for resolving relative
// links is taken from meta.FinalURL, falling back to meta.URL.
func NewPage(html []byte, meta PageMeta) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	rawBase := meta.FinalURL
	if rawBase == "" {
		rawBase = meta.URL
	}
	base, err := url.Parse(rawBase)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", rawBase, err)
	}

	if meta.PageSize == 0 {
		meta.PageSize = len(html)
	}

	return &Page{Doc: doc, Meta: meta, base: base}, nil
}

// IsHTTPS reports whether the page was served over HTTPS.
func (p *Page) IsHTTPS() bool {
	return p.base != nil && p.base.Scheme == "https"
}

// Host returns the hostname of the page URL.
func (p *Page) Host() string {
	if p.base == nil {
		return ""
	}
	return p.base.Hostname()
}

// Path returns the path component of the page URL, defaulting to "/".
func (p *Page) Path() string {
	if p.base == nil || p.base.Path == "" {
		return "/"
	}
	return p.base.Path
}

// ResolveURL resolves href against the page URL. It returns an empty string
// for unusable hrefs (empty, fragment-only, javascript: and mailto: links).
func (p *Page) ResolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if p.base == nil {
		return ref.String()
	}
	return p.base.ResolveReference(ref).String()
}

// IsInternal reports whether the resolved URL points at the page's own host.
// A www prefix difference does not make a link external.
func (p *Page) IsInternal(resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return sameHost(u.Hostname(), p.Host())
}

func sameHost(a, b string) bool {
	a = strings.TrimPrefix(strings.ToLower(a), "www.")
	b = strings.TrimPrefix(strings.ToLower(b), "www.")
	return a != "" && a == b
}
