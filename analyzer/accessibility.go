package analyzer

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// accessibilityExtractor computes the WCAG component scores from the markup:
// image alt coverage, link text quality, form labelling, ARIA usage and
// semantic HTML adoption.
type accessibilityExtractor struct{}

func (accessibilityExtractor) Name() string { return "accessibility" }

// Component weights of the combined WCAG score.
const (
	wcagImageWeight    = 0.25
	wcagLinkWeight     = 0.20
	wcagFormWeight     = 0.20
	wcagAriaWeight     = 0.15
	wcagSemanticWeight = 0.20
)

func (accessibilityExtractor) Extract(p *Page, s *Signals) error {
	a := &AccessibilitySignals{}

	a.ImageAltScore = imageAltScore(p.Doc)
	a.LinkTextScore = linkTextScore(p.Doc)
	a.FormScore, a.FormInputs, a.LabeledInputs = formLabelScore(p.Doc)

	a.AriaAttributes = countAriaAttributes(p.Doc)
	a.AriaRoles = p.Doc.Find("[role]").Length()
	a.Landmarks = p.Doc.Find("main, nav, header, footer, aside, [role='main'], [role='navigation'], [role='banner'], [role='contentinfo']").Length()
	a.AriaScore = math.Min(100, float64(a.AriaAttributes+a.AriaRoles)*2)

	a.SemanticElements = p.Doc.Find("main, nav, header, footer, article, section, aside, figure, figcaption").Length()
	a.SemanticScore = math.Min(100, float64(a.SemanticElements)*10)

	a.WCAGScore = wcagImageWeight*a.ImageAltScore +
		wcagLinkWeight*a.LinkTextScore +
		wcagFormWeight*a.FormScore +
		wcagAriaWeight*a.AriaScore +
		wcagSemanticWeight*a.SemanticScore
	a.Level = wcagLevel(a.WCAGScore)

	s.Accessibility = a
	return nil
}

// imageAltScore is the alt-text coverage in percent. Pages without images
// have nothing to fix and score 100.
func imageAltScore(doc *goquery.Document) float64 {
	total := 0
	withAlt := 0
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		total++
		if alt, ok := sel.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			withAlt++
		}
	})
	if total == 0 {
		return 100
	}
	return float64(withAlt) / float64(total) * 100
}

// linkTextScore is the share of links whose text is present and not a
// generic phrase.
func linkTextScore(doc *goquery.Document) float64 {
	total := 0
	descriptive := 0
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		total++
		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		if text == "" {
			// An icon link still counts as descriptive with a label.
			if label, ok := sel.Attr("aria-label"); ok && strings.TrimSpace(label) != "" {
				descriptive++
			}
			return
		}
		if _, generic := genericAnchors[text]; !generic {
			descriptive++
		}
	})
	if total == 0 {
		return 100
	}
	return float64(descriptive) / float64(total) * 100
}

// formLabelScore is the share of form inputs reachable through a label,
// aria-label or aria-labelledby.
func formLabelScore(doc *goquery.Document) (score float64, inputs, labeled int) {
	labeledFor := make(map[string]struct{})
	doc.Find("label[for]").Each(func(_ int, sel *goquery.Selection) {
		if id, ok := sel.Attr("for"); ok && id != "" {
			labeledFor[id] = struct{}{}
		}
	})

	doc.Find("input, select, textarea").Each(func(_ int, sel *goquery.Selection) {
		if t, _ := sel.Attr("type"); strings.EqualFold(t, "hidden") {
			return
		}
		inputs++

		if id, ok := sel.Attr("id"); ok {
			if _, found := labeledFor[id]; found {
				labeled++
				return
			}
		}
		if label, ok := sel.Attr("aria-label"); ok && strings.TrimSpace(label) != "" {
			labeled++
			return
		}
		if _, ok := sel.Attr("aria-labelledby"); ok {
			labeled++
			return
		}
		if sel.ParentsFiltered("label").Length() > 0 {
			labeled++
		}
	})

	if inputs == 0 {
		return 100, 0, 0
	}
	return float64(labeled) / float64(inputs) * 100, inputs, labeled
}

func countAriaAttributes(doc *goquery.Document) int {
	count := 0
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range sel.Nodes[0].Attr {
			if strings.HasPrefix(attr.Key, "aria-") {
				count++
			}
		}
	})
	return count
}

func wcagLevel(score float64) string {
	switch {
	case score >= 90:
		return "AAA"
	case score >= 75:
		return "AA"
	case score >= 60:
		return "A"
	default:
		return "Non-compliant"
	}
}
