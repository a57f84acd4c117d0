package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageWith(url string, perf, seo, content, technical float64, issues ...Issue) ScoredPage {
	return ScoredPage{
		URL: url,
		Score: PageScore{
			Categories: map[string]float64{
				CategoryPerformance: perf,
				CategorySEO:         seo,
				CategoryContent:     content,
				CategoryTechnical:   technical,
			},
			Issues: issues,
		},
	}
}

func TestScoreSiteEmpty(t *testing.T) {
	site := ScoreSite(nil)

	assert.Zero(t, site.Overall)
	assert.Empty(t, site.Categories)
	assert.Zero(t, site.Pages)
}

func TestScoreSiteAverages(t *testing.T) {
	site := ScoreSite([]ScoredPage{
		pageWith("https://example.com/a", 80, 90, 70, 60),
		pageWith("https://example.com/b", 60, 70, 90, 80),
	})

	assert.Equal(t, 2, site.Pages)
	assert.InDelta(t, 70.0, site.Categories[CategoryPerformance], 0.001)
	assert.InDelta(t, 80.0, site.Categories[CategorySEO], 0.001)
	assert.InDelta(t, 80.0, site.Categories[CategoryContent], 0.001)
	assert.InDelta(t, 70.0, site.Categories[CategoryTechnical], 0.001)

	expected := 0.25*70 + 0.30*80 + 0.25*80 + 0.20*70
	assert.InDelta(t, expected, site.Overall, 0.05)
}

func TestSiteAveragesUseUnroundedScores(t *testing.T) {
	withRaw := func(url string, raw float64) ScoredPage {
		cats := make(map[string]float64)
		raws := make(map[string]float64)
		for _, category := range Categories {
			cats[category] = round1(raw)
			raws[category] = raw
		}
		return ScoredPage{URL: url, Score: PageScore{Categories: cats, raw: raws}}
	}

	site := ScoreSite([]ScoredPage{
		withRaw("https://example.com/a", 80.25),
		withRaw("https://example.com/b", 80.0),
	})

	// Averaging the rounded values (80.3, 80.0) would give 80.2; the
	// unrounded average 80.125 rounds to 80.1.
	for _, category := range Categories {
		assert.InDelta(t, 80.1, site.Categories[category], 0.001, category)
	}
	assert.InDelta(t, 80.1, site.Overall, 0.001)
}

func TestSiteIssuesSortedAndTagged(t *testing.T) {
	site := ScoreSite([]ScoredPage{
		pageWith("https://example.com/a", 90, 90, 90, 90,
			Issue{Category: CategorySEO, Severity: "info", Message: "minor"}),
		pageWith("https://example.com/b", 90, 90, 90, 90,
			Issue{Category: CategoryTechnical, Severity: "critical", Message: "major"}),
	})

	require.Len(t, site.Issues, 2)
	assert.Equal(t, "critical", site.Issues[0].Severity)
	assert.Equal(t, "https://example.com/b", site.Issues[0].PageURL)
	assert.Equal(t, "https://example.com/a", site.Issues[1].PageURL)

	assert.Equal(t, 1, site.IssuesBySeverity["critical"])
	assert.Equal(t, 1, site.IssuesBySeverity["info"])
	assert.Equal(t, 1, site.IssuesByCategory[CategorySEO])
}

func TestSiteIssuesCapped(t *testing.T) {
	pages := make([]ScoredPage, 30)
	for i := range pages {
		url := fmt.Sprintf("https://example.com/%d", i)
		issues := make([]Issue, 5)
		for j := range issues {
			issues[j] = Issue{
				Category: CategorySEO,
				Severity: "warning",
				Message:  fmt.Sprintf("issue %d-%d", i, j),
			}
		}
		pages[i] = pageWith(url, 50, 50, 50, 50, issues...)
	}

	site := ScoreSite(pages)

	// 150 raw issues collapse to the cap, counts still see all of them.
	assert.Len(t, site.Issues, MaxSiteIssues)
	assert.Len(t, site.TopIssues, TopSiteIssues)
	assert.Equal(t, 150, site.IssuesBySeverity["warning"])
}

func TestSeverityOrdering(t *testing.T) {
	issues := []Issue{
		{Severity: "opportunity", Message: "d"},
		{Severity: "info", Message: "c"},
		{Severity: "critical", Message: "a"},
		{Severity: "warning", Message: "b"},
	}
	SortIssues(issues)

	got := make([]string, len(issues))
	for i, issue := range issues {
		got[i] = issue.Severity
	}
	assert.Equal(t, []string{"critical", "warning", "info", "opportunity"}, got)
}
