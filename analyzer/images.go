package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// imageExtractor reads img hygiene: alt coverage, srcset adoption, explicit
// dimensions and lazy-loading placement.
type imageExtractor struct{}

func (imageExtractor) Name() string { return "images" }

// aboveFoldImages approximates the fold: the first few images in document
// order are treated as above the fold for lazy-loading checks.
const aboveFoldImages = 3

func (imageExtractor) Extract(p *Page, s *Signals) error {
	images := &ImageSignals{}

	p.Doc.Find("img").Each(func(i int, sel *goquery.Selection) {
		images.Total++

		alt, hasAlt := sel.Attr("alt")
		if hasAlt && strings.TrimSpace(alt) != "" {
			images.WithAlt++
		} else {
			images.WithoutAlt++
		}

		if _, ok := sel.Attr("srcset"); ok {
			images.WithSrcset++
		}

		_, hasWidth := sel.Attr("width")
		_, hasHeight := sel.Attr("height")
		if !hasWidth || !hasHeight {
			images.MissingDimensions++
		}

		loading, _ := sel.Attr("loading")
		lazy := strings.EqualFold(strings.TrimSpace(loading), "lazy")
		if i < aboveFoldImages && lazy {
			images.LazyAboveFold++
		}
		if i >= aboveFoldImages && !lazy {
			images.EagerBelowFold++
		}
	})

	if images.Total > 0 {
		images.AltCoverage = float64(images.WithAlt) / float64(images.Total) * 100
	}

	s.Images = images
	return nil
}
