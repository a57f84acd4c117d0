package analyzer

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// seoExtractor reads the on-page metadata surface: title, description,
// canonical, headings and structured-data markup.
type seoExtractor struct{}

func (seoExtractor) Name() string { return "seo" }

func (seoExtractor) Extract(p *Page, s *Signals) error {
	seo := &SEOSignals{}

	seo.Title = strings.TrimSpace(p.Doc.Find("title").First().Text())
	if seo.Title == "" {
		seo.Title = metaProperty(p.Doc, "og:title")
	}
	// Character count, not bytes: the 30-60 range is about what fits in a
	// search result, and multibyte titles must not be over-counted.
	seo.TitleLength = utf8.RuneCountInString(seo.Title)
	seo.HasTitle = seo.TitleLength > 0
	seo.OGTitle = metaProperty(p.Doc, "og:title")

	seo.Description = strings.TrimSpace(metaName(p.Doc, "description"))
	if seo.Description == "" {
		seo.Description = metaProperty(p.Doc, "og:description")
	}
	seo.DescLength = utf8.RuneCountInString(seo.Description)
	seo.HasDesc = seo.DescLength > 0
	seo.OGDescription = metaProperty(p.Doc, "og:description")
	seo.Keywords = strings.TrimSpace(metaName(p.Doc, "keywords"))

	if href, ok := p.Doc.Find("link[rel='canonical']").First().Attr("href"); ok {
		seo.Canonical = p.ResolveURL(href)
		seo.HasCanonical = seo.Canonical != ""
		seo.SelfCanonical = canonicalMatches(seo.Canonical, p)
	}

	seo.H1Count = p.Doc.Find("h1").Length()
	seo.H2Count = p.Doc.Find("h2").Length()
	seo.H3Count = p.Doc.Find("h3").Length()
	seo.H4Count = p.Doc.Find("h4").Length()
	seo.H5Count = p.Doc.Find("h5").Length()
	seo.H6Count = p.Doc.Find("h6").Length()
	p.Doc.Find("h1").Each(func(_ int, sel *goquery.Selection) {
		seo.H1Texts = append(seo.H1Texts, strings.TrimSpace(sel.Text()))
	})

	seo.OpenGraphTags = p.Doc.Find("meta[property^='og:']").Length()
	seo.TwitterTags = p.Doc.Find("meta[name^='twitter:']").Length()
	seo.JSONLDBlocks = p.Doc.Find("script[type='application/ld+json']").Length()
	seo.MicrodataItems = p.Doc.Find("[itemscope]").Length()

	s.SEO = seo
	return nil
}

func metaName(doc *goquery.Document, name string) string {
	v, _ := doc.Find("meta[name='" + name + "']").First().Attr("content")
	return v
}

func metaProperty(doc *goquery.Document, property string) string {
	v, _ := doc.Find("meta[property='" + property + "']").First().Attr("content")
	return strings.TrimSpace(v)
}

// canonicalMatches compares the canonical target with the page URL ignoring
// trailing slash and scheme-irrelevant case.
func canonicalMatches(canonical string, p *Page) bool {
	page := p.Meta.FinalURL
	if page == "" {
		page = p.Meta.URL
	}
	return normalizeURL(canonical) == normalizeURL(page)
}

func normalizeURL(u string) string {
	u = strings.TrimSuffix(strings.TrimSpace(u), "/")
	return strings.ToLower(u)
}
