package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformanceExtractorRenderBlocking(t *testing.T) {
	html := `<html><head>
		<link rel="stylesheet" href="/main.css">
		<link rel="stylesheet" href="/print.css" media="print">
		<script src="/blocking.js"></script>
		<script src="/async.js" async></script>
		<script src="/defer.js" defer></script>
		<script src="/module.js" type="module"></script>
	</head><body>
		<script src="/body.js"></script>
	</body></html>`

	page := newTestPage(t, "https://example.com/", html)
	signals := &Signals{}
	require.NoError(t, performanceExtractor{}.Extract(page, signals))
	require.NotNil(t, signals.Performance)

	perf := signals.Performance
	// One non-print head stylesheet plus one synchronous head script.
	assert.Equal(t, 2, perf.RenderBlocking)
	assert.Equal(t, 1, perf.AsyncScripts)
	assert.Equal(t, 1, perf.DeferScripts)
	// The body script blocks too, but only for the script tally.
	assert.Equal(t, 2, perf.BlockingScripts)
}

func TestPerformanceExtractorRequestCounts(t *testing.T) {
	html := `<html><body>
		<img src="a.png"><img src="b.png">
		<script src="app.js"></script>
		<iframe src="https://embed.example.org/x"></iframe>
	</body></html>`

	page := newTestPage(t, "https://example.com/", html)
	signals := &Signals{}
	require.NoError(t, performanceExtractor{}.Extract(page, signals))

	r := signals.Performance.Requests
	assert.Equal(t, 2, r.Images)
	assert.Equal(t, 1, r.Scripts)
	assert.Equal(t, 1, r.Iframes)
	assert.Equal(t, 4, r.Total)
}

func TestMobileScore(t *testing.T) {
	t.Run("FullyResponsive", func(t *testing.T) {
		html := `<html><head>
			<meta name="viewport" content="width=device-width, initial-scale=1">
		</head><body>
			<img src="a.png" srcset="a-2x.png 2x">
			<img src="b.png" srcset="b-2x.png 2x">
		</body></html>`

		page := newTestPage(t, "https://example.com/", html)
		signals := &Signals{}
		require.NoError(t, performanceExtractor{}.Extract(page, signals))

		// 30 viewport + 30 device-width + 2*5 srcset.
		assert.InDelta(t, 70.0, signals.Performance.MobileScore, 0.001)
	})

	t.Run("NoViewport", func(t *testing.T) {
		page := newTestPage(t, "https://example.com/", "<html><body></body></html>")
		signals := &Signals{}
		require.NoError(t, performanceExtractor{}.Extract(page, signals))

		assert.Zero(t, signals.Performance.MobileScore)
	})

	t.Run("SrcsetSaturatesAt40", func(t *testing.T) {
		html := "<html><body>"
		for i := 0; i < 12; i++ {
			html += `<img src="x.png" srcset="x-2x.png 2x">`
		}
		html += "</body></html>"

		page := newTestPage(t, "https://example.com/", html)
		signals := &Signals{}
		require.NoError(t, performanceExtractor{}.Extract(page, signals))

		assert.InDelta(t, 40.0, signals.Performance.MobileScore, 0.001)
	})
}

func TestResourceHints(t *testing.T) {
	html := `<html><head>
		<link rel="preconnect" href="https://fonts.example.org">
		<link rel="dns-prefetch" href="https://cdn.example.org">
		<link rel="preload" href="/hero.png" as="image">
	</head><body></body></html>`

	page := newTestPage(t, "https://example.com/", html)
	signals := &Signals{}
	require.NoError(t, performanceExtractor{}.Extract(page, signals))

	perf := signals.Performance
	assert.Equal(t, 1, perf.Preconnect)
	assert.Equal(t, 1, perf.DNSPrefetch)
	assert.Equal(t, 1, perf.Prefetch)
}
