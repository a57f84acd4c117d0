package scoring

import (
	"math"

	"github.com/seo-auditor/backend/analyzer"
)

// CategoryWeights sum to exactly 1.0; the overall score is their weighted sum.
var CategoryWeights = map[string]float64{
	CategoryPerformance: 0.25,
	CategorySEO:         0.30,
	CategoryContent:     0.25,
	CategoryTechnical:   0.20,
}

// Categories lists the category names in canonical report order.
var Categories = []string{
	CategoryPerformance,
	CategorySEO,
	CategoryContent,
	CategoryTechnical,
}

// Deduction records one fired rule inside a category breakdown.
type Deduction struct {
	RuleID   string  `json:"ruleId"`
	Reason   string  `json:"reason"`
	Points   float64 `json:"points"`
	Severity string  `json:"severity"`
}

// PageScore is the scored view of one page: four category scores, their
// weighted overall, the per-category deduction breakdown and the derived
// issue list. Scores are rounded to one decimal here, at the output
// boundary, and nowhere earlier.
type PageScore struct {
	Overall    float64                `json:"overall"`
	Categories map[string]float64     `json:"categories"`
	Breakdown  map[string][]Deduction `json:"breakdown,omitempty"`
	Issues     []Issue                `json:"issues,omitempty"`

	// raw keeps the unrounded category values for site aggregation, so
	// rounding happens once at the output boundary and never compounds.
	raw map[string]float64
}

// ScorePage evaluates every rule table against the signals and assembles the
// page score. It is pure: identical inputs produce identical output.
func ScorePage(signals *analyzer.Signals, meta analyzer.PageMeta) PageScore {
	in := &Input{Signals: signals, Meta: meta}

	score := PageScore{
		Categories: make(map[string]float64, len(Categories)),
		Breakdown:  make(map[string][]Deduction),
		raw:        make(map[string]float64, len(Categories)),
	}

	overall := 0.0
	for _, category := range Categories {
		raw, deductions := scoreCategory(CategoryRules[category], in)
		overall += raw * CategoryWeights[category]

		score.raw[category] = raw
		score.Categories[category] = round1(raw)
		if len(deductions) > 0 {
			score.Breakdown[category] = deductions
		}
	}
	score.Overall = round1(overall)
	score.Issues = buildIssues(&score, meta.URL)

	return score
}

// scoreCategory starts at 100, applies every fired rule and clamps the
// result to [0, 100].
func scoreCategory(rules []Rule, in *Input) (float64, []Deduction) {
	score := 100.0
	var deductions []Deduction

	for _, rule := range rules {
		points, fired := rule.Deduct(in)
		if !fired {
			continue
		}
		score -= points
		deductions = append(deductions, Deduction{
			RuleID:   rule.ID,
			Reason:   rule.Reason,
			Points:   points,
			Severity: rule.Severity.String(),
		})
	}

	return clamp(score), deductions
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
