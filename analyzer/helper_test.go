package analyzer

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestPage(t *testing.T, rawURL, html string) *Page {
	t.Helper()
	p, err := NewPage([]byte(html), PageMeta{URL: rawURL, FinalURL: rawURL, StatusCode: 200})
	require.NoError(t, err)
	return p
}

func newTestPageWithHeaders(t *testing.T, rawURL, html string, headers http.Header) *Page {
	t.Helper()
	p, err := NewPage([]byte(html), PageMeta{URL: rawURL, FinalURL: rawURL, StatusCode: 200, Headers: headers})
	require.NoError(t, err)
	return p
}

func floatPtr(v float64) *float64 { return &v }
