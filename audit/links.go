package audit

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/seo-auditor/backend/analyzer"
)

// countBrokenLinks probes the page's links with HEAD requests, bounded in
// count and parallelism. A link is broken when it answers with a 4xx/5xx or
// does not answer at all.
func (a *Auditor) countBrokenLinks(ctx context.Context, page *analyzer.Page) int {
	seen := make(map[string]struct{})
	var urls []string

	page.Doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if len(urls) >= a.maxLinkChecks {
			return
		}
		href, _ := sel.Attr("href")
		resolved := page.ResolveURL(href)
		if resolved == "" || !strings.HasPrefix(resolved, "http") {
			return
		}
		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}
		urls = append(urls, resolved)
	})

	if len(urls) == 0 {
		return 0
	}

	linkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 10)
	var mu sync.Mutex
	broken := 0

spawn:
	for _, url := range urls {
		select {
		case <-ctx.Done():
			break spawn
		default:
		}

		wg.Add(1)
		go func(url string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if !a.linkReachable(linkCtx, url) {
				mu.Lock()
				broken++
				mu.Unlock()
			}
		}(url)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}

	// Workers may still be finishing on the cancellation path; take the
	// lock for a consistent snapshot.
	mu.Lock()
	defer mu.Unlock()
	return broken
}

func (a *Auditor) linkReachable(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	client := &http.Client{
		Timeout:   5 * time.Second,
		Transport: a.client.Transport,
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}
