package scoring

import (
	"fmt"
	"sort"
)

// Issue is one reportable finding, sortable by severity.
type Issue struct {
	Category       string `json:"category"`
	Severity       string `json:"severity"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation,omitempty"`
	PageURL        string `json:"pageUrl,omitempty"`
}

// Threshold below which a category earns a summary issue, and the lower
// threshold that escalates it from info to warning.
const (
	lowCategoryScore     = 70.0
	veryLowCategoryScore = 50.0
)

var ruleByID = buildRuleIndex()

func buildRuleIndex() map[string]*Rule {
	index := make(map[string]*Rule)
	for category := range CategoryRules {
		rules := CategoryRules[category]
		for i := range rules {
			index[rules[i].ID] = &rules[i]
		}
	}
	return index
}

var severityRank = map[string]int{
	SeverityCritical.String():    0,
	SeverityWarning.String():     1,
	SeverityInfo.String():        2,
	SeverityOpportunity.String(): 3,
}

// buildIssues derives the issue list from the fired deductions plus a
// summary issue for each category scoring below the threshold. Issues are
// sorted by severity, then category, then message, so the order is stable.
func buildIssues(score *PageScore, pageURL string) []Issue {
	var issues []Issue

	for _, category := range Categories {
		for _, d := range score.Breakdown[category] {
			issue := Issue{
				Category: category,
				Severity: d.Severity,
				Message:  d.Reason,
				PageURL:  pageURL,
			}
			if rule, ok := ruleByID[d.RuleID]; ok {
				issue.Recommendation = rule.Recommendation
			}
			issues = append(issues, issue)
		}

		if value, ok := score.Categories[category]; ok && value < lowCategoryScore {
			severity := SeverityInfo
			if value < veryLowCategoryScore {
				severity = SeverityWarning
			}
			issues = append(issues, Issue{
				Category: category,
				Severity: severity.String(),
				Message:  fmt.Sprintf("%s score is %.0f/100", category, value),
				PageURL:  pageURL,
			})
		}
	}

	SortIssues(issues)
	return issues
}

// SortIssues orders issues by severity, then category, then message.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		ri, rj := severityRank[issues[i].Severity], severityRank[issues[j].Severity]
		if ri != rj {
			return ri < rj
		}
		if issues[i].Category != issues[j].Category {
			return issues[i].Category < issues[j].Category
		}
		return issues[i].Message < issues[j].Message
	})
}
