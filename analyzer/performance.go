package analyzer

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// performanceExtractor reads the static performance surface of the markup:
// payload size, DOM weight, implied requests, render-blocking resources,
// resource hints and mobile-friendliness.
type performanceExtractor struct{}

func (performanceExtractor) Name() string { return "performance" }

func (performanceExtractor) Extract(p *Page, s *Signals) error {
	perf := &PerformanceSignals{HTMLSize: p.Meta.PageSize}

	perf.DOMNodes = p.Doc.Find("*").Length()

	perf.Requests.Scripts = p.Doc.Find("script[src]").Length()
	perf.Requests.Stylesheets = p.Doc.Find("link[rel='stylesheet']").Length()
	perf.Requests.Images = p.Doc.Find("img[src]").Length()
	perf.Requests.Iframes = p.Doc.Find("iframe[src]").Length()
	perf.Requests.Total = perf.Requests.Scripts + perf.Requests.Stylesheets +
		perf.Requests.Images + perf.Requests.Iframes

	p.Doc.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
		_, async := sel.Attr("async")
		_, deferred := sel.Attr("defer")
		switch {
		case async:
			perf.AsyncScripts++
		case deferred:
			perf.DeferScripts++
		case !isModuleScript(sel):
			perf.BlockingScripts++
		}
	})

	perf.RenderBlocking = countRenderBlocking(p.Doc)

	p.Doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
		perf.InlineStyleBytes += len(sel.Text())
	})

	perf.Preconnect = p.Doc.Find("link[rel='preconnect']").Length()
	perf.Prefetch = p.Doc.Find("link[rel='prefetch'], link[rel='preload']").Length()
	perf.DNSPrefetch = p.Doc.Find("link[rel='dns-prefetch']").Length()

	viewport := metaName(p.Doc, "viewport")
	perf.HasViewport = viewport != ""
	perf.DeviceWidth = strings.Contains(strings.ToLower(viewport), "width=device-width")
	perf.SrcsetImages = p.Doc.Find("img[srcset]").Length()
	perf.HasTouchIcon = p.Doc.Find("link[rel='apple-touch-icon']").Length() > 0
	perf.MobileScore = mobileScore(perf)

	s.Performance = perf
	return nil
}

func isModuleScript(sel *goquery.Selection) bool {
	t, _ := sel.Attr("type")
	return strings.EqualFold(strings.TrimSpace(t), "module")
}

// countRenderBlocking counts head stylesheets that are not print-only plus
// head scripts that load synchronously. Module scripts defer by default and
// are not counted.
func countRenderBlocking(doc *goquery.Document) int {
	blocking := 0

	doc.Find("head link[rel='stylesheet']").Each(func(_ int, sel *goquery.Selection) {
		if media, ok := sel.Attr("media"); ok && strings.EqualFold(strings.TrimSpace(media), "print") {
			return
		}
		blocking++
	})

	doc.Find("head script[src]").Each(func(_ int, sel *goquery.Selection) {
		if _, async := sel.Attr("async"); async {
			return
		}
		if _, deferred := sel.Attr("defer"); deferred {
			return
		}
		if isModuleScript(sel) {
			return
		}
		blocking++
	})

	return blocking
}

// mobileScore: viewport presence and device-width each earn 30 points, and
// responsive images earn up to 40 at 5 points apiece.
func mobileScore(perf *PerformanceSignals) float64 {
	score := 0.0
	if perf.HasViewport {
		score += 30
	}
	if perf.DeviceWidth {
		score += 30
	}
	score += math.Min(40, float64(perf.SrcsetImages)*5)
	return score
}
