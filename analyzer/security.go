package analyzer

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// securityExtractor reads transport security signals: HTTPS, mixed content
// and the response-header checklist.
type securityExtractor struct{}

func (securityExtractor) Name() string { return "security" }

// securityHeaders is the fixed checklist, in report order.
var securityHeaders = []string{
	"Strict-Transport-Security",
	"X-Content-Type-Options",
	"X-Frame-Options",
	"X-XSS-Protection",
	"Content-Security-Policy",
	"Referrer-Policy",
	"Permissions-Policy",
}

var inlineURLPattern = regexp.MustCompile(`url\(["']?(http://[^"'()]+)["']?\)`)

func (securityExtractor) Extract(p *Page, s *Signals) error {
	sec := &SecuritySignals{HTTPS: p.IsHTTPS()}

	// Mixed content only exists on HTTPS pages.
	if sec.HTTPS {
		sec.MixedContent = findMixedContent(p.Doc)
	}

	for _, name := range securityHeaders {
		if p.Meta.Header(name) != "" {
			sec.PresentHeaders = append(sec.PresentHeaders, name)
		} else {
			sec.MissingHeaders = append(sec.MissingHeaders, name)
		}
	}
	sec.HeaderRating = headerRating(len(sec.PresentHeaders), len(securityHeaders))

	s.Security = sec
	return nil
}

func findMixedContent(doc *goquery.Document) []MixedContent {
	var findings []MixedContent

	add := func(kind, raw string) {
		if strings.HasPrefix(strings.TrimSpace(raw), "http://") {
			findings = append(findings, MixedContent{Kind: kind, URL: strings.TrimSpace(raw)})
		}
	}

	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		add("image", src)
	})
	doc.Find("img[data-src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("data-src")
		add("image", src)
	})
	doc.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		add("script", src)
	})
	doc.Find("link[rel='stylesheet'][href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		add("stylesheet", href)
	})
	doc.Find("iframe[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		add("iframe", src)
	})

	// url(http://...) references inside style attributes and style blocks.
	doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		for _, m := range inlineURLPattern.FindAllStringSubmatch(style, -1) {
			findings = append(findings, MixedContent{Kind: "style", URL: m[1]})
		}
	})
	doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
		for _, m := range inlineURLPattern.FindAllStringSubmatch(sel.Text(), -1) {
			findings = append(findings, MixedContent{Kind: "style", URL: m[1]})
		}
	})

	return findings
}

func headerRating(present, total int) string {
	ratio := float64(present) / float64(total)
	switch {
	case ratio >= 0.8:
		return GradeGood
	case ratio >= 0.5:
		return GradeNeedsImprovement
	default:
		return GradePoor
	}
}
