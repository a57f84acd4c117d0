package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-auditor/backend/analyzer"
)

// healthySignals builds a signal set that fires no deduction at all.
func healthySignals() *analyzer.Signals {
	return &analyzer.Signals{
		SEO: &analyzer.SEOSignals{
			HasTitle: true, TitleLength: 45,
			HasDesc: true, DescLength: 140,
			H1Count: 1, H2Count: 3,
			HasCanonical: true, SelfCanonical: true,
		},
		Content: &analyzer.ContentSignals{WordCount: 1200},
		Links:   &analyzer.LinkSignals{Internal: 10, External: 5},
		Images:  &analyzer.ImageSignals{Total: 4, WithAlt: 4, AltCoverage: 100},
		Security: &analyzer.SecuritySignals{
			HTTPS:          true,
			PresentHeaders: []string{"Strict-Transport-Security", "X-Frame-Options", "X-Content-Type-Options", "Content-Security-Policy"},
			MissingHeaders: []string{"Referrer-Policy", "X-XSS-Protection", "Permissions-Policy"},
		},
		Performance:  &analyzer.PerformanceSignals{HTMLSize: 200 * 1024, RenderBlocking: 1},
		Indexability: &analyzer.IndexabilitySignals{Status: analyzer.StatusIndexable},
	}
}

func okMeta() analyzer.PageMeta {
	return analyzer.PageMeta{URL: "https://example.com/", StatusCode: 200}
}

func TestCategoryWeightsSumToOne(t *testing.T) {
	sum := 0.0
	for _, w := range CategoryWeights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Len(t, CategoryWeights, len(Categories))
}

func TestHealthyPageScoresFull(t *testing.T) {
	score := ScorePage(healthySignals(), okMeta())

	for _, category := range Categories {
		assert.InDelta(t, 100.0, score.Categories[category], 0.001, category)
	}
	assert.InDelta(t, 100.0, score.Overall, 0.001)
	assert.Empty(t, score.Breakdown)
	assert.Empty(t, score.Issues)
}

func TestOverallIsExactWeightedSum(t *testing.T) {
	signals := healthySignals()
	signals.SEO.HasTitle = false     // seo -15
	signals.Content.WordCount = 250  // content -20, content h2 rule not applicable
	signals.Security.HTTPS = false   // technical -20

	score := ScorePage(signals, okMeta())

	assert.InDelta(t, 100.0, score.Categories[CategoryPerformance], 0.001)
	assert.InDelta(t, 85.0, score.Categories[CategorySEO], 0.001)
	assert.InDelta(t, 80.0, score.Categories[CategoryContent], 0.001)
	assert.InDelta(t, 80.0, score.Categories[CategoryTechnical], 0.001)

	expected := 0.25*100 + 0.30*85 + 0.25*80 + 0.20*80
	assert.InDelta(t, expected, score.Overall, 0.001)
}

func TestScoreClampedAtZero(t *testing.T) {
	signals := healthySignals()
	signals.Content.WordCount = 50
	signals.Content.ExactDuplicate = true
	signals.SEO.H1Count = 0
	signals.SEO.H2Count = 0

	score := ScorePage(signals, okMeta())

	for _, category := range Categories {
		assert.GreaterOrEqual(t, score.Categories[category], 0.0)
		assert.LessOrEqual(t, score.Categories[category], 100.0)
	}
}

func TestTitleDeductions(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		signals := healthySignals()
		signals.SEO.HasTitle = false
		signals.SEO.TitleLength = 0

		score := ScorePage(signals, okMeta())
		assert.InDelta(t, 85.0, score.Categories[CategorySEO], 0.001)
	})

	t.Run("TooShort", func(t *testing.T) {
		signals := healthySignals()
		signals.SEO.TitleLength = 12

		score := ScorePage(signals, okMeta())
		assert.InDelta(t, 95.0, score.Categories[CategorySEO], 0.001)
	})

	t.Run("TooLong", func(t *testing.T) {
		signals := healthySignals()
		signals.SEO.TitleLength = 80

		score := ScorePage(signals, okMeta())
		assert.InDelta(t, 95.0, score.Categories[CategorySEO], 0.001)
	})

	t.Run("MissingNeverAlsoFiresLength", func(t *testing.T) {
		signals := healthySignals()
		signals.SEO.HasTitle = false
		signals.SEO.TitleLength = 0

		score := ScorePage(signals, okMeta())
		require.Len(t, score.Breakdown[CategorySEO], 1)
		assert.Equal(t, "seo-title-missing", score.Breakdown[CategorySEO][0].RuleID)
	})
}

func TestVitalsAbsenceSkipsVitalsRules(t *testing.T) {
	signals := healthySignals()
	// No vitals section at all: every vitals rule must stay silent.
	signals.Vitals = nil

	score := ScorePage(signals, okMeta())
	assert.InDelta(t, 100.0, score.Categories[CategoryPerformance], 0.001)
}

func TestVitalsPoorDeductions(t *testing.T) {
	signals := healthySignals()
	signals.Vitals = &analyzer.VitalsSignals{
		LCPGrade: analyzer.GradePoor,             // -15
		CLSGrade: analyzer.GradeNeedsImprovement, // -8
		INPGrade: analyzer.GradeGood,
	}

	score := ScorePage(signals, okMeta())
	assert.InDelta(t, 77.0, score.Categories[CategoryPerformance], 0.001)
}

func TestNilSectionsDeductNothing(t *testing.T) {
	// A page where every extractor failed produces full category scores:
	// absence of evidence is not evidence of problems.
	score := ScorePage(&analyzer.Signals{}, okMeta())

	for _, category := range Categories {
		assert.InDelta(t, 100.0, score.Categories[category], 0.001, category)
	}
}

func TestScoringIsIdempotent(t *testing.T) {
	signals := healthySignals()
	signals.SEO.H1Count = 3
	signals.Content.MaxSimilarity = 75

	first := ScorePage(signals, okMeta())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ScorePage(signals, okMeta()))
	}
}

func TestStatusDeductions(t *testing.T) {
	t.Run("ServerError", func(t *testing.T) {
		meta := okMeta()
		meta.StatusCode = 500

		score := ScorePage(healthySignals(), meta)
		assert.InDelta(t, 70.0, score.Categories[CategoryTechnical], 0.001)
	})

	t.Run("Redirect", func(t *testing.T) {
		meta := okMeta()
		meta.StatusCode = 301

		score := ScorePage(healthySignals(), meta)
		assert.InDelta(t, 95.0, score.Categories[CategoryTechnical], 0.001)
	})
}

func TestMixedContentCapped(t *testing.T) {
	signals := healthySignals()
	for i := 0; i < 25; i++ {
		signals.Security.MixedContent = append(signals.Security.MixedContent,
			analyzer.MixedContent{Kind: "image", URL: "http://cdn.example.org/x.png"})
	}

	score := ScorePage(signals, okMeta())
	// 25 findings would be 50 points; the rule caps at 20.
	assert.InDelta(t, 80.0, score.Categories[CategoryTechnical], 0.001)
}

func TestBrokenLinksCapped(t *testing.T) {
	signals := healthySignals()
	signals.Links.BrokenLinks = 10

	score := ScorePage(signals, okMeta())
	assert.InDelta(t, 85.0, score.Categories[CategoryTechnical], 0.001)
}

func TestLowCategorySummaryIssue(t *testing.T) {
	signals := healthySignals()
	signals.Content.WordCount = 100       // -20
	signals.Content.ExactDuplicate = true // -30

	score := ScorePage(signals, okMeta())
	require.InDelta(t, 40.0, score.Categories[CategoryContent], 0.001)

	var summary *Issue
	for i := range score.Issues {
		if score.Issues[i].Message == "content score is 40/100" {
			summary = &score.Issues[i]
		}
	}
	require.NotNil(t, summary, "expected a low-category summary issue")
	// Below 50 escalates from info to warning.
	assert.Equal(t, SeverityWarning.String(), summary.Severity)
}
