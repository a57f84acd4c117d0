package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// indexabilityExtractor reads the crawl/index directives: meta robots,
// X-Robots-Tag, canonical and the resolved robots.txt verdict.
type indexabilityExtractor struct{}

func (indexabilityExtractor) Name() string { return "indexability" }

func (indexabilityExtractor) Extract(p *Page, s *Signals) error {
	idx := &IndexabilitySignals{}

	idx.MetaRobots = strings.TrimSpace(metaName(p.Doc, "robots"))
	idx.XRobotsTag = strings.TrimSpace(p.Meta.Header("X-Robots-Tag"))

	directives := parseRobotsDirectives(idx.MetaRobots)
	for directive := range parseRobotsDirectives(idx.XRobotsTag) {
		directives[directive] = struct{}{}
	}
	_, idx.Noindex = directives["noindex"]
	_, idx.Nofollow = directives["nofollow"]
	_, idx.Noarchive = directives["noarchive"]
	_, idx.Nosnippet = directives["nosnippet"]

	if href, ok := p.Doc.Find("link[rel='canonical']").First().Attr("href"); ok {
		idx.Canonical = p.ResolveURL(href)
		idx.SelfCanonical = canonicalMatches(idx.Canonical, p)
	}

	if p.Robots != nil {
		idx.RobotsChecked = p.Robots.Checked
		idx.BlockedByRobots = p.Robots.Checked && !p.Robots.Allowed
		idx.MatchedRule = p.Robots.Matched
	}

	// Robots blocking outranks noindex: a blocked page's directives are
	// never even fetched by a crawler.
	switch {
	case idx.BlockedByRobots:
		idx.Status = StatusBlockedByRobots
	case idx.Noindex:
		idx.Status = StatusNoindex
	default:
		idx.Status = StatusIndexable
	}

	// Counted here rather than taken from the link section so this
	// extractor stays independent of the others.
	if idx.Noindex && countInternalAnchors(p) > 0 {
		idx.NoindexConflict = true
	}

	s.Indexability = idx
	return nil
}

func countInternalAnchors(p *Page) int {
	internal := 0
	p.Doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if resolved := p.ResolveURL(href); resolved != "" && p.IsInternal(resolved) {
			internal++
		}
	})
	return internal
}

func parseRobotsDirectives(value string) map[string]struct{} {
	directives := make(map[string]struct{})
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			directives[part] = struct{}{}
		}
	}
	return directives
}
