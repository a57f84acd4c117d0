package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeywords(t *testing.T) {
	text := strings.Repeat("kubernetes deployment cluster ", 5) + "kubernetes once twice"

	keywords := extractKeywords(text)
	require.NotEmpty(t, keywords)

	byTerm := make(map[string]Keyword)
	for _, kw := range keywords {
		byTerm[kw.Term] = kw
	}

	// Six occurrences of kubernetes, five each of deployment and cluster.
	assert.Equal(t, 6, byTerm["kubernetes"].Count)
	assert.Equal(t, 5, byTerm["deployment"].Count)

	// Single-occurrence terms never qualify.
	_, found := byTerm["once"]
	assert.False(t, found)

	// Terms shorter than four letters never tokenize.
	_, found = byTerm["the"]
	assert.False(t, found)
}

func TestExtractKeywordsDeterministic(t *testing.T) {
	text := "alpha alpha beta beta gamma gamma delta delta"

	first := extractKeywords(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, extractKeywords(text))
	}
}

func TestExtractKeywordsFiltersStopWords(t *testing.T) {
	keywords := extractKeywords("because because through through content content")

	for _, kw := range keywords {
		assert.NotEqual(t, "because", kw.Term)
		assert.NotEqual(t, "through", kw.Term)
	}
}

func TestExtractKeywordsEmptyText(t *testing.T) {
	assert.Nil(t, extractKeywords(""))
	assert.Nil(t, extractKeywords("a an to")) // nothing tokenizes
}

func TestFleschReadingEase(t *testing.T) {
	t.Run("EmptyText", func(t *testing.T) {
		score, level := fleschReadingEase("", 0, 0)
		assert.Zero(t, score)
		assert.Equal(t, "N/A", level)
	})

	t.Run("SimpleText", func(t *testing.T) {
		text := "The cat sat. The dog ran. We had fun."
		score, level := fleschReadingEase(text, 9, 3)
		assert.Greater(t, score, 80.0)
		assert.NotEqual(t, "N/A", level)
	})

	t.Run("ClampedToRange", func(t *testing.T) {
		// A single enormous sentence drives the raw formula negative.
		long := strings.Repeat("communication ", 200)
		score, _ := fleschReadingEase(long, 200, 1)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 100.0)
	})
}

func TestContentExtractorStructure(t *testing.T) {
	html := `<html><body>
		<h1>One Heading</h1>
		<h2>First</h2><h2>Second</h2>
		<p>one</p><p>two</p><p>three</p><p>four</p><p>five</p>
		<ul><li>item</li></ul>
		<img src="a.png" alt="a">
		<table><tr><td>x</td></tr></table>
	</body></html>`

	page := newTestPage(t, "https://example.com/", html)
	signals := &Signals{}
	require.NoError(t, contentExtractor{}.Extract(page, signals))
	require.NotNil(t, signals.Content)

	c := signals.Content
	assert.Equal(t, 5, c.ParagraphCount)
	assert.Equal(t, 1, c.ListCount)
	assert.Equal(t, 1, c.TableCount)

	// h1==1 (20) + h2>=2 (20) + paragraphs>=5 (20) + list (10) + image (10) + table (10)
	assert.InDelta(t, 90.0, c.StructureScore, 0.001)
}

func TestContentExtractorIgnoresScripts(t *testing.T) {
	html := `<html><body>
		<p>visible words here</p>
		<script>var hidden = "donotcountme donotcountme";</script>
		<style>.x { color: red; }</style>
	</body></html>`

	page := newTestPage(t, "https://example.com/", html)
	signals := &Signals{}
	require.NoError(t, contentExtractor{}.Extract(page, signals))

	assert.Equal(t, 3, signals.Content.WordCount)
}

func TestFreshnessHintPrefersModifiedTime(t *testing.T) {
	html := `<html><head>
		<meta property="article:published_time" content="2024-01-01">
		<meta property="article:modified_time" content="2025-06-15">
	</head><body><time datetime="2023-01-01">old</time></body></html>`

	page := newTestPage(t, "https://example.com/", html)
	signals := &Signals{}
	require.NoError(t, contentExtractor{}.Extract(page, signals))

	assert.Equal(t, "2025-06-15", signals.Content.FreshnessHint)
}
