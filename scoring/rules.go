package scoring

import (
	"math"

	"github.com/seo-auditor/backend/analyzer"
)

// Severity orders issues from most to least urgent.
type Severity int

const (
	SeverityCritical Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOpportunity
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityOpportunity:
		return "opportunity"
	default:
		return "unknown"
	}
}

// Category names used across scoring, issues and comparison.
const (
	CategoryPerformance = "performance"
	CategorySEO         = "seo"
	CategoryContent     = "content"
	CategoryTechnical   = "technical"
)

// Input is everything a rule may inspect. Rules must tolerate nil sections:
// a rule whose backing section is absent does not fire.
type Input struct {
	Signals *analyzer.Signals
	Meta    analyzer.PageMeta
}

// Rule is one deduction. Deduct returns the points to subtract and whether
// the rule fired; a rule that does not fire contributes nothing.
type Rule struct {
	ID             string
	Category       string
	Reason         string
	Severity       Severity
	Recommendation string
	Deduct         func(in *Input) (points float64, fired bool)
}

// fixed wraps a constant-deduction predicate.
func fixed(points float64, when func(in *Input) bool) func(*Input) (float64, bool) {
	return func(in *Input) (float64, bool) {
		if when(in) {
			return points, true
		}
		return 0, false
	}
}

// PerformanceRules deduct for slow vitals, render-blocking resources and
// oversized payloads. Vitals rules are skipped entirely without a trace.
var PerformanceRules = []Rule{
	{
		ID: "perf-lcp-poor", Category: CategoryPerformance,
		Reason:         "Largest Contentful Paint is poor (over 4s)",
		Severity:       SeverityCritical,
		Recommendation: "Optimize the largest element: compress images, preload the LCP resource, reduce server response time",
		Deduct: fixed(15, func(in *Input) bool {
			v := in.Signals.Vitals
			return v != nil && v.LCPGrade == analyzer.GradePoor
		}),
	},
	{
		ID: "perf-lcp-ni", Category: CategoryPerformance,
		Reason:         "Largest Contentful Paint needs improvement (2.5s-4s)",
		Severity:       SeverityWarning,
		Recommendation: "Preload the LCP image and trim render-blocking resources",
		Deduct: fixed(8, func(in *Input) bool {
			v := in.Signals.Vitals
			return v != nil && v.LCPGrade == analyzer.GradeNeedsImprovement
		}),
	},
	{
		ID: "perf-cls-poor", Category: CategoryPerformance,
		Reason:         "Cumulative Layout Shift is poor (over 0.25)",
		Severity:       SeverityCritical,
		Recommendation: "Set explicit dimensions on images and embeds, reserve space for dynamic content",
		Deduct: fixed(15, func(in *Input) bool {
			v := in.Signals.Vitals
			return v != nil && v.CLSGrade == analyzer.GradePoor
		}),
	},
	{
		ID: "perf-cls-ni", Category: CategoryPerformance,
		Reason:         "Cumulative Layout Shift needs improvement (0.1-0.25)",
		Severity:       SeverityWarning,
		Recommendation: "Add width and height attributes to images",
		Deduct: fixed(8, func(in *Input) bool {
			v := in.Signals.Vitals
			return v != nil && v.CLSGrade == analyzer.GradeNeedsImprovement
		}),
	},
	{
		ID: "perf-inp-poor", Category: CategoryPerformance,
		Reason:         "Interaction to Next Paint is poor (over 500ms)",
		Severity:       SeverityWarning,
		Recommendation: "Break up long tasks and reduce main-thread JavaScript work",
		Deduct: fixed(10, func(in *Input) bool {
			v := in.Signals.Vitals
			return v != nil && v.INPGrade == analyzer.GradePoor
		}),
	},
	{
		ID: "perf-inp-ni", Category: CategoryPerformance,
		Reason:         "Interaction to Next Paint needs improvement (200ms-500ms)",
		Severity:       SeverityInfo,
		Recommendation: "Defer non-critical JavaScript",
		Deduct: fixed(5, func(in *Input) bool {
			v := in.Signals.Vitals
			return v != nil && v.INPGrade == analyzer.GradeNeedsImprovement
		}),
	},
	{
		ID: "perf-render-blocking-high", Category: CategoryPerformance,
		Reason:         "Many render-blocking resources (more than 5)",
		Severity:       SeverityWarning,
		Recommendation: "Inline critical CSS and load scripts with async or defer",
		Deduct: fixed(10, func(in *Input) bool {
			p := in.Signals.Performance
			return p != nil && p.RenderBlocking > 5
		}),
	},
	{
		ID: "perf-render-blocking-some", Category: CategoryPerformance,
		Reason:         "Several render-blocking resources (more than 2)",
		Severity:       SeverityInfo,
		Recommendation: "Load non-critical stylesheets and scripts asynchronously",
		Deduct: func(in *Input) (float64, bool) {
			p := in.Signals.Performance
			if p != nil && p.RenderBlocking > 2 && p.RenderBlocking <= 5 {
				return 5, true
			}
			return 0, false
		},
	},
	{
		ID: "perf-page-size-huge", Category: CategoryPerformance,
		Reason:         "Page payload is very large (over 5MB)",
		Severity:       SeverityWarning,
		Recommendation: "Compress images, minify assets and remove unused resources",
		Deduct: fixed(10, func(in *Input) bool {
			p := in.Signals.Performance
			return p != nil && float64(p.HTMLSize) > 5*1024*1024
		}),
	},
	{
		ID: "perf-page-size-large", Category: CategoryPerformance,
		Reason:         "Page payload is large (over 3MB)",
		Severity:       SeverityInfo,
		Recommendation: "Optimize images and enable compression",
		Deduct: func(in *Input) (float64, bool) {
			p := in.Signals.Performance
			if p != nil {
				size := float64(p.HTMLSize)
				if size > 3*1024*1024 && size <= 5*1024*1024 {
					return 5, true
				}
			}
			return 0, false
		},
	},
}

// SEORules deduct for metadata and heading problems.
var SEORules = []Rule{
	{
		ID: "seo-title-missing", Category: CategorySEO,
		Reason:         "Page has no title tag",
		Severity:       SeverityCritical,
		Recommendation: "Add a descriptive title tag of 30-60 characters",
		Deduct: fixed(15, func(in *Input) bool {
			s := in.Signals.SEO
			return s != nil && !s.HasTitle
		}),
	},
	{
		ID: "seo-title-length", Category: CategorySEO,
		Reason:         "Title length is outside the 30-60 character range",
		Severity:       SeverityInfo,
		Recommendation: "Rewrite the title to 30-60 characters",
		Deduct: fixed(5, func(in *Input) bool {
			s := in.Signals.SEO
			return s != nil && s.HasTitle && (s.TitleLength < 30 || s.TitleLength > 60)
		}),
	},
	{
		ID: "seo-desc-missing", Category: CategorySEO,
		Reason:         "Page has no meta description",
		Severity:       SeverityWarning,
		Recommendation: "Add a meta description of 120-160 characters",
		Deduct: fixed(10, func(in *Input) bool {
			s := in.Signals.SEO
			return s != nil && !s.HasDesc
		}),
	},
	{
		ID: "seo-desc-length", Category: CategorySEO,
		Reason:         "Meta description length is outside the 120-160 character range",
		Severity:       SeverityInfo,
		Recommendation: "Rewrite the description to 120-160 characters",
		Deduct: fixed(5, func(in *Input) bool {
			s := in.Signals.SEO
			return s != nil && s.HasDesc && (s.DescLength < 120 || s.DescLength > 160)
		}),
	},
	{
		ID: "seo-h1-missing", Category: CategorySEO,
		Reason:         "Page has no H1 heading",
		Severity:       SeverityWarning,
		Recommendation: "Add exactly one H1 heading describing the page",
		Deduct: fixed(10, func(in *Input) bool {
			s := in.Signals.SEO
			return s != nil && s.H1Count == 0
		}),
	},
	{
		ID: "seo-h1-multiple", Category: CategorySEO,
		Reason:         "Page has more than one H1 heading",
		Severity:       SeverityInfo,
		Recommendation: "Keep a single H1 and demote the others",
		Deduct: fixed(5, func(in *Input) bool {
			s := in.Signals.SEO
			return s != nil && s.H1Count > 1
		}),
	},
	{
		ID: "seo-alt-most-missing", Category: CategorySEO,
		Reason:         "Most images lack alt text (over 50%)",
		Severity:       SeverityWarning,
		Recommendation: "Add descriptive alt text to every content image",
		Deduct: fixed(10, func(in *Input) bool {
			img := in.Signals.Images
			return img != nil && img.Total > 0 && missingAltPercent(img) > 50
		}),
	},
	{
		ID: "seo-alt-some-missing", Category: CategorySEO,
		Reason:         "Some images lack alt text (over 25%)",
		Severity:       SeverityInfo,
		Recommendation: "Add alt text to the remaining images",
		Deduct: func(in *Input) (float64, bool) {
			img := in.Signals.Images
			if img != nil && img.Total > 0 {
				pct := missingAltPercent(img)
				if pct > 25 && pct <= 50 {
					return 5, true
				}
			}
			return 0, false
		},
	},
	{
		ID: "seo-canonical-missing", Category: CategorySEO,
		Reason:         "Page has no canonical URL",
		Severity:       SeverityInfo,
		Recommendation: "Add a rel=canonical link to declare the preferred URL",
		Deduct: fixed(5, func(in *Input) bool {
			s := in.Signals.SEO
			return s != nil && !s.HasCanonical
		}),
	},
	{
		ID: "seo-not-indexable", Category: CategorySEO,
		Reason:         "Page is not indexable",
		Severity:       SeverityCritical,
		Recommendation: "Remove the noindex directive or unblock the page in robots.txt if it should rank",
		Deduct: fixed(20, func(in *Input) bool {
			idx := in.Signals.Indexability
			return idx != nil && idx.Status != analyzer.StatusIndexable
		}),
	},
}

// ContentRules deduct for thin or duplicated content and weak structure.
var ContentRules = []Rule{
	{
		ID: "content-very-thin", Category: CategoryContent,
		Reason:         "Content is very thin (under 300 words)",
		Severity:       SeverityCritical,
		Recommendation: "Expand the page to at least 300 words of substantive content",
		Deduct: fixed(20, func(in *Input) bool {
			c := in.Signals.Content
			return c != nil && c.WordCount < 300
		}),
	},
	{
		ID: "content-thin", Category: CategoryContent,
		Reason:         "Content is thin (under 500 words)",
		Severity:       SeverityWarning,
		Recommendation: "Deepen the content toward 500+ words",
		Deduct: func(in *Input) (float64, bool) {
			c := in.Signals.Content
			if c != nil && c.WordCount >= 300 && c.WordCount < 500 {
				return 10, true
			}
			return 0, false
		},
	},
	{
		ID: "content-exact-duplicate", Category: CategoryContent,
		Reason:         "Content is an exact duplicate of another page",
		Severity:       SeverityCritical,
		Recommendation: "Rewrite the page or canonicalize to the original",
		Deduct: fixed(30, func(in *Input) bool {
			c := in.Signals.Content
			return c != nil && c.ExactDuplicate
		}),
	},
	{
		ID: "content-near-duplicate", Category: CategoryContent,
		Reason:         "Content is nearly identical to another page (90%+ similar)",
		Severity:       SeverityCritical,
		Recommendation: "Differentiate the page or canonicalize to the original",
		Deduct: fixed(25, func(in *Input) bool {
			c := in.Signals.Content
			return c != nil && !c.ExactDuplicate && c.MaxSimilarity >= 90
		}),
	},
	{
		ID: "content-similar", Category: CategoryContent,
		Reason:         "Content substantially overlaps another page (70%+ similar)",
		Severity:       SeverityWarning,
		Recommendation: "Reduce the overlap with the similar page",
		Deduct: fixed(15, func(in *Input) bool {
			c := in.Signals.Content
			return c != nil && !c.ExactDuplicate && c.MaxSimilarity >= 70 && c.MaxSimilarity < 90
		}),
	},
	{
		ID: "content-h1-missing", Category: CategoryContent,
		Reason:         "Content has no H1 heading",
		Severity:       SeverityWarning,
		Recommendation: "Open the content with an H1 heading",
		Deduct: fixed(10, func(in *Input) bool {
			s := in.Signals.SEO
			return s != nil && s.H1Count == 0
		}),
	},
	{
		ID: "content-h2-missing", Category: CategoryContent,
		Reason:         "Long content has no H2 subheadings",
		Severity:       SeverityInfo,
		Recommendation: "Break the content up with H2 subheadings",
		Deduct: fixed(5, func(in *Input) bool {
			s := in.Signals.SEO
			c := in.Signals.Content
			return s != nil && c != nil && s.H2Count == 0 && c.WordCount > 500
		}),
	},
}

// TechnicalRules deduct for transport and availability problems.
var TechnicalRules = []Rule{
	{
		ID: "tech-no-https", Category: CategoryTechnical,
		Reason:         "Page is not served over HTTPS",
		Severity:       SeverityCritical,
		Recommendation: "Serve the site over HTTPS and redirect HTTP traffic",
		Deduct: fixed(20, func(in *Input) bool {
			sec := in.Signals.Security
			return sec != nil && !sec.HTTPS
		}),
	},
	{
		ID: "tech-mixed-content", Category: CategoryTechnical,
		Reason:         "HTTPS page loads insecure resources",
		Severity:       SeverityWarning,
		Recommendation: "Serve every subresource over HTTPS",
		Deduct: func(in *Input) (float64, bool) {
			sec := in.Signals.Security
			if sec != nil && len(sec.MixedContent) > 0 {
				return math.Min(20, float64(len(sec.MixedContent))*2), true
			}
			return 0, false
		},
	},
	{
		ID: "tech-missing-headers", Category: CategoryTechnical,
		Reason:         "Most security headers are missing (more than 3)",
		Severity:       SeverityInfo,
		Recommendation: "Add Strict-Transport-Security, Content-Security-Policy and the other standard security headers",
		Deduct: fixed(10, func(in *Input) bool {
			sec := in.Signals.Security
			return sec != nil && len(sec.MissingHeaders) > 3
		}),
	},
	{
		ID: "tech-broken-links", Category: CategoryTechnical,
		Reason:         "Page contains broken links",
		Severity:       SeverityWarning,
		Recommendation: "Fix or remove the broken links",
		Deduct: func(in *Input) (float64, bool) {
			l := in.Signals.Links
			if l != nil && l.BrokenLinks > 0 {
				return math.Min(15, float64(l.BrokenLinks)*3), true
			}
			return 0, false
		},
	},
	{
		ID: "tech-status-error", Category: CategoryTechnical,
		Reason:         "Page responded with an error status",
		Severity:       SeverityCritical,
		Recommendation: "Restore the page or redirect it to a live URL",
		Deduct: fixed(30, func(in *Input) bool {
			return in.Meta.StatusCode >= 400
		}),
	},
	{
		ID: "tech-status-redirect", Category: CategoryTechnical,
		Reason:         "Page responded with a redirect status",
		Severity:       SeverityInfo,
		Recommendation: "Link directly to the final URL",
		Deduct: fixed(5, func(in *Input) bool {
			return in.Meta.StatusCode >= 300 && in.Meta.StatusCode < 400
		}),
	},
}

// CategoryRules maps each category to its rule table.
var CategoryRules = map[string][]Rule{
	CategoryPerformance: PerformanceRules,
	CategorySEO:         SEORules,
	CategoryContent:     ContentRules,
	CategoryTechnical:   TechnicalRules,
}

func missingAltPercent(img *analyzer.ImageSignals) float64 {
	return float64(img.WithoutAlt) / float64(img.Total) * 100
}
