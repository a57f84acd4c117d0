// Package compare builds head-to-head comparisons of two page audits:
// per-metric winners with direction awareness, keyword overlap and an
// overall verdict.
package compare

import (
	"fmt"
	"math"
	"time"

	"github.com/seo-auditor/backend/audit"
	"github.com/seo-auditor/backend/scoring"
)

// Winner values for a single metric and for the overall verdict.
const (
	WinnerSubject   = "subject"
	WinnerReference = "reference"
	WinnerTie       = "tie"
	WinnerNone      = "" // a side was absent, no winner declared
)

// Advantage level labels, keyed off the subject's win percentage.
const (
	AdvantageStrong   = "Strong Advantage"
	AdvantageModerate = "Moderate Advantage"
	AdvantageSlight   = "Slight Advantage"
	AdvantageNone     = "Competitive Disadvantage"
)

// MetricComparison compares one numeric metric across the two pages. Absent
// values stay nil: a missing metric never counts as zero, gets no winner and
// no difference.
type MetricComparison struct {
	Metric      string   `json:"metric"`
	Subject     *float64 `json:"subject,omitempty"`
	Reference   *float64 `json:"reference,omitempty"`
	Winner      string   `json:"winner,omitempty"`
	Difference  *float64 `json:"difference,omitempty"`
	LowerBetter bool     `json:"lowerBetter,omitempty"`
}

// Result is the full comparison of a subject page against a reference page.
type Result struct {
	Subject     string    `json:"subject"`
	Reference   string    `json:"reference"`
	GeneratedAt time.Time `json:"generatedAt"`

	Metrics  []MetricComparison `json:"metrics"`
	Keywords KeywordComparison  `json:"keywords"`

	Wins             map[string]int `json:"wins"`
	Verdict          string         `json:"verdict"`
	AdvantagePercent float64        `json:"advantagePercent"`
	AdvantageLevel   string         `json:"advantageLevel"`
	Insights         []string       `json:"insights,omitempty"`

	Error string `json:"error,omitempty"`
}

// metricDef describes how to read one metric off an audit and which
// direction is better.
type metricDef struct {
	name        string
	lowerBetter bool
	get         func(a *audit.PageAudit) *float64
}

func categoryMetric(category string) metricDef {
	return metricDef{
		name: category + "_score",
		get: func(a *audit.PageAudit) *float64 {
			if a.Score.Categories == nil {
				return nil
			}
			v, ok := a.Score.Categories[category]
			if !ok {
				return nil
			}
			return &v
		},
	}
}

var metricDefs = []metricDef{
	{
		name: "overall_score",
		get:  func(a *audit.PageAudit) *float64 { v := a.Score.Overall; return &v },
	},
	categoryMetric(scoring.CategoryPerformance),
	categoryMetric(scoring.CategorySEO),
	categoryMetric(scoring.CategoryContent),
	categoryMetric(scoring.CategoryTechnical),
	{
		name:        "load_time",
		lowerBetter: true,
		get:         func(a *audit.PageAudit) *float64 { v := a.LoadTime; return &v },
	},
	{
		name:        "page_size",
		lowerBetter: true,
		get:         func(a *audit.PageAudit) *float64 { v := float64(a.PageSize); return &v },
	},
	{
		name: "word_count",
		get: func(a *audit.PageAudit) *float64 {
			if a.Signals == nil || a.Signals.Content == nil {
				return nil
			}
			v := float64(a.Signals.Content.WordCount)
			return &v
		},
	},
	{
		name: "readability",
		get: func(a *audit.PageAudit) *float64 {
			if a.Signals == nil || a.Signals.Content == nil {
				return nil
			}
			v := a.Signals.Content.ReadingEase
			return &v
		},
	},
	{
		name: "keyword_rich_ratio",
		get: func(a *audit.PageAudit) *float64 {
			if a.Signals == nil || a.Signals.Links == nil {
				return nil
			}
			v := a.Signals.Links.KeywordRichRatio
			return &v
		},
	},
	{
		name: "wcag_score",
		get: func(a *audit.PageAudit) *float64 {
			if a.Signals == nil || a.Signals.Accessibility == nil {
				return nil
			}
			v := a.Signals.Accessibility.WCAGScore
			return &v
		},
	},
	{
		name: "mobile_score",
		get: func(a *audit.PageAudit) *float64 {
			if a.Signals == nil || a.Signals.Performance == nil {
				return nil
			}
			v := a.Signals.Performance.MobileScore
			return &v
		},
	},
}

// Pages compares a subject audit against a reference audit. If either audit
// failed, the result carries the error with every tally zeroed instead of
// pretending the failed side scored zero.
func Pages(subject, reference *audit.PageAudit) Result {
	result := Result{
		Subject:     subject.URL,
		Reference:   reference.URL,
		GeneratedAt: time.Now(),
		Wins:        map[string]int{WinnerSubject: 0, WinnerReference: 0, WinnerTie: 0},
	}

	if subject.Failed || reference.Failed {
		result.Error = comparisonError(subject, reference)
		result.AdvantageLevel = AdvantageNone
		return result
	}

	for _, def := range metricDefs {
		mc := compareMetric(def, subject, reference)
		result.Metrics = append(result.Metrics, mc)
		if mc.Winner != WinnerNone {
			result.Wins[mc.Winner]++
		}
	}

	result.Keywords = CompareKeywords(pageKeywords(subject), pageKeywords(reference))

	decided := result.Wins[WinnerSubject] + result.Wins[WinnerReference]
	if decided > 0 {
		result.AdvantagePercent = round1(float64(result.Wins[WinnerSubject]) / float64(decided) * 100)
	}
	result.AdvantageLevel = advantageLevel(result.AdvantagePercent)
	result.Verdict = verdict(result.Wins)
	result.Insights = buildInsights(&result, subject, reference)

	return result
}

// compareMetric applies strict-greater winner logic with the metric's
// direction. Equal values are a tie; an absent side leaves the winner unset
// while still reporting the present side.
func compareMetric(def metricDef, subject, reference *audit.PageAudit) MetricComparison {
	mc := MetricComparison{
		Metric:      def.name,
		Subject:     def.get(subject),
		Reference:   def.get(reference),
		LowerBetter: def.lowerBetter,
	}

	if mc.Subject == nil || mc.Reference == nil {
		return mc
	}

	diff := math.Abs(*mc.Subject - *mc.Reference)
	mc.Difference = &diff

	sv, rv := *mc.Subject, *mc.Reference
	if def.lowerBetter {
		sv, rv = -sv, -rv
	}
	switch {
	case sv > rv:
		mc.Winner = WinnerSubject
	case rv > sv:
		mc.Winner = WinnerReference
	default:
		mc.Winner = WinnerTie
	}

	return mc
}

func verdict(wins map[string]int) string {
	switch {
	case wins[WinnerSubject] > wins[WinnerReference]:
		return WinnerSubject
	case wins[WinnerReference] > wins[WinnerSubject]:
		return WinnerReference
	default:
		return WinnerTie
	}
}

func advantageLevel(percent float64) string {
	switch {
	case percent >= 70:
		return AdvantageStrong
	case percent >= 50:
		return AdvantageModerate
	case percent >= 30:
		return AdvantageSlight
	default:
		return AdvantageNone
	}
}

func comparisonError(subject, reference *audit.PageAudit) string {
	if subject.Failed {
		return fmt.Sprintf("subject audit failed: %s", subject.Error)
	}
	return fmt.Sprintf("reference audit failed: %s", reference.Error)
}

// buildInsights derives a few deterministic observations from the biggest
// metric gaps, ordered by the metric table so the output is stable.
func buildInsights(r *Result, subject, reference *audit.PageAudit) []string {
	var insights []string

	for _, mc := range r.Metrics {
		if mc.Winner == WinnerNone || mc.Winner == WinnerTie || mc.Difference == nil {
			continue
		}
		switch mc.Metric {
		case "overall_score":
			if *mc.Difference >= 10 {
				insights = append(insights, fmt.Sprintf("Overall scores differ by %.1f points in favor of the %s", *mc.Difference, mc.Winner))
			}
		case "load_time":
			if *mc.Difference >= 1 {
				insights = append(insights, fmt.Sprintf("The %s loads %.1fs faster", mc.Winner, *mc.Difference))
			}
		case "word_count":
			if *mc.Difference >= 300 {
				insights = append(insights, fmt.Sprintf("The %s has %.0f more words of content", mc.Winner, *mc.Difference))
			}
		}
	}

	if n := len(r.Keywords.UniqueToReference); n > 0 {
		insights = append(insights, fmt.Sprintf("The reference covers %d keywords the subject does not", n))
	}

	return insights
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
