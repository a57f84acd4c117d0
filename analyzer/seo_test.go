package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSEOExtractor(t *testing.T) {
	html := `<html><head>
		<title>A Perfectly Reasonable Page Title For Testing</title>
		<meta name="description" content="A meta description that describes the page.">
		<meta name="keywords" content="testing, extraction">
		<meta property="og:title" content="Social Title">
		<meta property="og:description" content="Social description">
		<link rel="canonical" href="https://example.com/page">
		<script type="application/ld+json">{"@type":"Article"}</script>
	</head><body>
		<h1>Main Heading</h1>
		<h2>Sub One</h2><h2>Sub Two</h2>
		<h3>Detail</h3>
	</body></html>`

	page := newTestPage(t, "https://example.com/page", html)
	signals := &Signals{}
	require.NoError(t, seoExtractor{}.Extract(page, signals))
	require.NotNil(t, signals.SEO)

	seo := signals.SEO
	assert.Equal(t, "A Perfectly Reasonable Page Title For Testing", seo.Title)
	assert.True(t, seo.HasTitle)
	assert.Equal(t, len(seo.Title), seo.TitleLength)
	assert.Equal(t, "Social Title", seo.OGTitle)
	assert.True(t, seo.HasDesc)
	assert.Equal(t, "testing, extraction", seo.Keywords)

	assert.True(t, seo.HasCanonical)
	assert.True(t, seo.SelfCanonical)

	assert.Equal(t, 1, seo.H1Count)
	assert.Equal(t, 2, seo.H2Count)
	assert.Equal(t, 1, seo.H3Count)
	assert.Equal(t, []string{"Main Heading"}, seo.H1Texts)

	assert.Equal(t, 2, seo.OpenGraphTags)
	assert.Equal(t, 1, seo.JSONLDBlocks)
}

func TestTitleLengthCountsCharactersNotBytes(t *testing.T) {
	// 35 two-byte characters: in the healthy 30-60 range by character
	// count, out of it by byte count.
	title := strings.Repeat("é", 35)
	html := `<html><head>
		<title>` + title + `</title>
		<meta name="description" content="` + strings.Repeat("ü", 140) + `">
	</head><body></body></html>`

	page := newTestPage(t, "https://example.com/", html)
	signals := &Signals{}
	require.NoError(t, seoExtractor{}.Extract(page, signals))

	assert.Equal(t, 35, signals.SEO.TitleLength)
	assert.Equal(t, 140, signals.SEO.DescLength)
}

func TestSEOExtractorFallsBackToOpenGraph(t *testing.T) {
	html := `<html><head>
		<meta property="og:title" content="Only OG Title">
		<meta property="og:description" content="Only OG description">
	</head><body></body></html>`

	page := newTestPage(t, "https://example.com/", html)
	signals := &Signals{}
	require.NoError(t, seoExtractor{}.Extract(page, signals))

	assert.Equal(t, "Only OG Title", signals.SEO.Title)
	assert.True(t, signals.SEO.HasTitle)
	assert.Equal(t, "Only OG description", signals.SEO.Description)
}

func TestSEOExtractorEmptyPage(t *testing.T) {
	page := newTestPage(t, "https://example.com/", "<html><head></head><body></body></html>")
	signals := &Signals{}
	require.NoError(t, seoExtractor{}.Extract(page, signals))

	seo := signals.SEO
	assert.False(t, seo.HasTitle)
	assert.False(t, seo.HasDesc)
	assert.False(t, seo.HasCanonical)
	assert.Equal(t, 0, seo.H1Count)
}

func TestCanonicalCrossDomainIsNotSelf(t *testing.T) {
	html := `<html><head><link rel="canonical" href="https://other.example.org/page"></head><body></body></html>`
	page := newTestPage(t, "https://example.com/page", html)
	signals := &Signals{}
	require.NoError(t, seoExtractor{}.Extract(page, signals))

	assert.True(t, signals.SEO.HasCanonical)
	assert.False(t, signals.SEO.SelfCanonical)
}

func TestCanonicalIgnoresTrailingSlash(t *testing.T) {
	html := `<html><head><link rel="canonical" href="https://example.com/page/"></head><body></body></html>`
	page := newTestPage(t, "https://example.com/page", html)
	signals := &Signals{}
	require.NoError(t, seoExtractor{}.Extract(page, signals))

	assert.True(t, signals.SEO.SelfCanonical)
}
