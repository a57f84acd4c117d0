package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessibilityExtractorCleanPage(t *testing.T) {
	html := `<html><body>
		<header><nav><a href="/docs">Product documentation</a></nav></header>
		<main>
			<img src="a.png" alt="Architecture diagram">
			<form>
				<label for="email">Email</label>
				<input type="text" id="email">
			</form>
		</main>
		<footer>footer</footer>
	</body></html>`

	page := newTestPage(t, "https://example.com/", html)
	signals := &Signals{}
	require.NoError(t, accessibilityExtractor{}.Extract(page, signals))
	require.NotNil(t, signals.Accessibility)

	a := signals.Accessibility
	assert.InDelta(t, 100.0, a.ImageAltScore, 0.001)
	assert.InDelta(t, 100.0, a.LinkTextScore, 0.001)
	assert.InDelta(t, 100.0, a.FormScore, 0.001)
	assert.Equal(t, 1, a.FormInputs)
	assert.Equal(t, 1, a.LabeledInputs)
}

func TestFormLabelScoreVariants(t *testing.T) {
	html := `<html><body><form>
		<label for="a">A</label><input id="a">
		<input aria-label="B">
		<label>C<input></label>
		<input type="hidden" name="token">
		<input id="unlabeled">
	</form></body></html>`

	page := newTestPage(t, "https://example.com/", html)
	signals := &Signals{}
	require.NoError(t, accessibilityExtractor{}.Extract(page, signals))

	a := signals.Accessibility
	assert.Equal(t, 4, a.FormInputs) // hidden input excluded
	assert.Equal(t, 3, a.LabeledInputs)
	assert.InDelta(t, 75.0, a.FormScore, 0.001)
}

func TestWCAGScoreWeights(t *testing.T) {
	// Empty page: image, link and form components default to 100, aria and
	// semantic to 0.
	page := newTestPage(t, "https://example.com/", "<html><body></body></html>")
	signals := &Signals{}
	require.NoError(t, accessibilityExtractor{}.Extract(page, signals))

	a := signals.Accessibility
	expected := 0.25*100 + 0.20*100 + 0.20*100
	assert.InDelta(t, expected, a.WCAGScore, 0.001)
	assert.Equal(t, "A", a.Level) // 65 falls in the A band
}

func TestWCAGLevels(t *testing.T) {
	assert.Equal(t, "AAA", wcagLevel(95))
	assert.Equal(t, "AAA", wcagLevel(90))
	assert.Equal(t, "AA", wcagLevel(80))
	assert.Equal(t, "A", wcagLevel(60))
	assert.Equal(t, "Non-compliant", wcagLevel(59.9))
}
