package scoring

// MaxSiteIssues caps the flattened site-wide issue list.
const MaxSiteIssues = 100

// TopSiteIssues is how many of the most severe issues get surfaced
// separately in the site summary.
const TopSiteIssues = 20

// ScoredPage pairs a page URL with its computed score for site aggregation.
type ScoredPage struct {
	URL   string    `json:"url"`
	Score PageScore `json:"score"`
}

// SiteScore aggregates the scores of every audited page of a site.
type SiteScore struct {
	Overall    float64            `json:"overall"`
	Categories map[string]float64 `json:"categories"`
	Pages      int                `json:"pages"`

	Issues           []Issue        `json:"issues,omitempty"`
	TopIssues        []Issue        `json:"topIssues,omitempty"`
	IssuesBySeverity map[string]int `json:"issuesBySeverity,omitempty"`
	IssuesByCategory map[string]int `json:"issuesByCategory,omitempty"`
}

// ScoreSite averages the category scores across pages and flattens their
// issues into one severity-sorted, capped list. Zero pages produce an
// overall of 0 with an empty category map, never a division by zero.
func ScoreSite(pages []ScoredPage) SiteScore {
	site := SiteScore{
		Categories: make(map[string]float64),
		Pages:      len(pages),
	}
	if len(pages) == 0 {
		return site
	}

	sums := make(map[string]float64, len(Categories))
	var issues []Issue

	for _, page := range pages {
		for _, category := range Categories {
			// Prefer the unrounded value when the score came through
			// ScorePage; fall back for scores built elsewhere.
			v, ok := page.Score.raw[category]
			if !ok {
				v = page.Score.Categories[category]
			}
			sums[category] += v
		}
		for _, issue := range page.Score.Issues {
			if issue.PageURL == "" {
				issue.PageURL = page.URL
			}
			issues = append(issues, issue)
		}
	}

	n := float64(len(pages))
	overall := 0.0
	for _, category := range Categories {
		avg := sums[category] / n
		site.Categories[category] = round1(avg)
		overall += avg * CategoryWeights[category]
	}
	site.Overall = round1(overall)

	SortIssues(issues)
	site.IssuesBySeverity = make(map[string]int)
	site.IssuesByCategory = make(map[string]int)
	for _, issue := range issues {
		site.IssuesBySeverity[issue.Severity]++
		site.IssuesByCategory[issue.Category]++
	}

	if len(issues) > MaxSiteIssues {
		issues = issues[:MaxSiteIssues]
	}
	site.Issues = issues

	top := len(issues)
	if top > TopSiteIssues {
		top = TopSiteIssues
	}
	site.TopIssues = issues[:top]

	return site
}
