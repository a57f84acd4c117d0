package analyzer

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexabilityDefaultIsIndexable(t *testing.T) {
	page := newTestPage(t, "https://example.com/", "<html><body></body></html>")
	signals := &Signals{}
	require.NoError(t, indexabilityExtractor{}.Extract(page, signals))

	idx := signals.Indexability
	assert.Equal(t, StatusIndexable, idx.Status)
	assert.False(t, idx.Noindex)
	assert.False(t, idx.RobotsChecked)
}

func TestIndexabilityMetaNoindex(t *testing.T) {
	html := `<html><head><meta name="robots" content="noindex, nofollow"></head><body></body></html>`
	page := newTestPage(t, "https://example.com/", html)
	signals := &Signals{}
	require.NoError(t, indexabilityExtractor{}.Extract(page, signals))

	idx := signals.Indexability
	assert.True(t, idx.Noindex)
	assert.True(t, idx.Nofollow)
	assert.Equal(t, StatusNoindex, idx.Status)
}

func TestIndexabilityXRobotsTagHeader(t *testing.T) {
	headers := http.Header{}
	headers.Set("X-Robots-Tag", "noarchive, nosnippet")

	page := newTestPageWithHeaders(t, "https://example.com/", "<html></html>", headers)
	signals := &Signals{}
	require.NoError(t, indexabilityExtractor{}.Extract(page, signals))

	idx := signals.Indexability
	assert.True(t, idx.Noarchive)
	assert.True(t, idx.Nosnippet)
	assert.Equal(t, StatusIndexable, idx.Status)
}

func TestRobotsBlockOutranksNoindex(t *testing.T) {
	html := `<html><head><meta name="robots" content="noindex"></head><body></body></html>`
	page := newTestPage(t, "https://example.com/private/page", html)
	page.Robots = &RobotsVerdict{Checked: true, Allowed: false, Matched: "/private/"}

	signals := &Signals{}
	require.NoError(t, indexabilityExtractor{}.Extract(page, signals))

	idx := signals.Indexability
	assert.True(t, idx.BlockedByRobots)
	assert.Equal(t, StatusBlockedByRobots, idx.Status)
	assert.Equal(t, "/private/", idx.MatchedRule)
}

func TestNoindexConflictWithInternalLinks(t *testing.T) {
	html := `<html><head><meta name="robots" content="noindex"></head><body>
		<a href="/pricing">Pricing</a>
		<a href="https://example.com/docs">Docs</a>
		<a href="https://other.example.org/guide">External guide</a>
	</body></html>`
	page := newTestPage(t, "https://example.com/", html)

	// No other extractor has run; the conflict must still be detected.
	signals := &Signals{}
	require.NoError(t, indexabilityExtractor{}.Extract(page, signals))

	assert.True(t, signals.Indexability.NoindexConflict)
}

func TestNoindexWithoutInternalLinksIsNoConflict(t *testing.T) {
	html := `<html><head><meta name="robots" content="noindex"></head><body>
		<a href="https://other.example.org/guide">External guide</a>
	</body></html>`
	page := newTestPage(t, "https://example.com/", html)

	signals := &Signals{}
	require.NoError(t, indexabilityExtractor{}.Extract(page, signals))

	assert.False(t, signals.Indexability.NoindexConflict)
}
