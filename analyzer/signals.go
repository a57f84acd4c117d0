package analyzer

// Signals is the complete set of extracted facts about a page. Each section
// is populated by one extractor; a nil section means that extractor did not
// run or failed, never that the page scored zero on it. Failures are recorded
// per extractor in Errors.
type Signals struct {
	SEO           *SEOSignals           `json:"seo,omitempty"`
	Content       *ContentSignals       `json:"content,omitempty"`
	Links         *LinkSignals          `json:"links,omitempty"`
	Images        *ImageSignals         `json:"images,omitempty"`
	Accessibility *AccessibilitySignals `json:"accessibility,omitempty"`
	Security      *SecuritySignals      `json:"security,omitempty"`
	Performance   *PerformanceSignals   `json:"performance,omitempty"`
	Indexability  *IndexabilitySignals  `json:"indexability,omitempty"`
	Vitals        *VitalsSignals        `json:"coreWebVitals,omitempty"`

	Errors map[string]string `json:"errors,omitempty"`
}

// SEOSignals covers the on-page metadata surface: title, description,
// canonical, heading structure and structured-data markup.
type SEOSignals struct {
	Title         string `json:"title"`
	TitleLength   int    `json:"titleLength"`
	HasTitle      bool   `json:"hasTitle"`
	OGTitle       string `json:"ogTitle,omitempty"`
	Description   string `json:"description"`
	DescLength    int    `json:"descriptionLength"`
	HasDesc       bool   `json:"hasDescription"`
	OGDescription string `json:"ogDescription,omitempty"`
	Keywords      string `json:"keywords,omitempty"`

	Canonical     string `json:"canonical,omitempty"`
	HasCanonical  bool   `json:"hasCanonical"`
	SelfCanonical bool   `json:"selfCanonical"`

	H1Count int      `json:"h1Count"`
	H2Count int      `json:"h2Count"`
	H3Count int      `json:"h3Count"`
	H4Count int      `json:"h4Count"`
	H5Count int      `json:"h5Count"`
	H6Count int      `json:"h6Count"`
	H1Texts []string `json:"h1Texts,omitempty"`

	OpenGraphTags  int `json:"openGraphTags"`
	TwitterTags    int `json:"twitterTags"`
	JSONLDBlocks   int `json:"jsonLdBlocks"`
	MicrodataItems int `json:"microdataItems"`
}

// Keyword is a weighted term extracted from the page body.
type Keyword struct {
	Term       string  `json:"term"`
	Count      int     `json:"count"`
	Importance float64 `json:"importance"`
}

// ContentSignals describes the text body of the page. ExactDuplicate and
// MaxSimilarity are cross-page facts supplied by the caller when known;
// they default to not-duplicated.
type ContentSignals struct {
	WordCount      int `json:"wordCount"`
	CharCount      int `json:"charCount"`
	SentenceCount  int `json:"sentenceCount"`
	ParagraphCount int `json:"paragraphCount"`
	ListCount      int `json:"listCount"`
	TableCount     int `json:"tableCount"`
	VideoCount     int `json:"videoCount"`

	Keywords     []Keyword `json:"keywords,omitempty"`
	ReadingEase  float64   `json:"readingEase"`
	ReadingLevel string    `json:"readingLevel"`

	StructureScore float64 `json:"structureScore"`
	QualityScore   float64 `json:"qualityScore"`
	FreshnessHint  string  `json:"freshnessHint,omitempty"`

	ExactDuplicate bool    `json:"exactDuplicate"`
	MaxSimilarity  float64 `json:"maxSimilarity"`
}

// LinkSignals covers anchors: internal/external split, rel hints, anchor
// text quality and the social/citation indicators used for backlink potential.
type LinkSignals struct {
	Total          int `json:"total"`
	Internal       int `json:"internal"`
	External       int `json:"external"`
	Nofollow       int `json:"nofollow"`
	UniqueDomains  int `json:"uniqueExternalDomains"`
	SocialLinks    int `json:"socialLinks"`
	EmptyAnchors   int `json:"emptyAnchors"`
	GenericAnchors int `json:"genericAnchors"`
	KeywordRich    int `json:"keywordRichAnchors"`

	// KeywordRichRatio is keyword-rich anchors over non-empty anchors,
	// in [0,1]. Defined as 0 when the page has no non-empty anchors.
	KeywordRichRatio float64 `json:"keywordRichRatio"`

	// Backlink-attraction indicators: distinct social platforms linked,
	// citation phrases in the body, author markup, and a 0-100 potential
	// estimate derived from them.
	SocialPlatforms   int  `json:"socialPlatforms"`
	HasCitations      bool `json:"hasCitations"`
	HasAuthorTag      bool `json:"hasAuthorTag"`
	HasAuthorLink     bool `json:"hasAuthorLink"`
	BacklinkPotential int  `json:"backlinkPotential"`

	// BrokenLinks is filled by the fetch layer when link checking ran;
	// extractors leave it at zero.
	BrokenLinks int `json:"brokenLinks"`
}

// ImageSignals covers img elements and their alt/srcset/dimension hygiene.
type ImageSignals struct {
	Total             int `json:"total"`
	WithAlt           int `json:"withAlt"`
	WithoutAlt        int `json:"withoutAlt"`
	WithSrcset        int `json:"withSrcset"`
	MissingDimensions int `json:"missingDimensions"`
	LazyAboveFold     int `json:"lazyAboveFold"`
	EagerBelowFold    int `json:"eagerBelowFold"`

	// AltCoverage is withAlt/total in percent; 0 when the page has no
	// images at all.
	AltCoverage float64 `json:"altCoverage"`
}

// AccessibilitySignals holds the WCAG component scores and their inputs.
type AccessibilitySignals struct {
	ImageAltScore float64 `json:"imageAltScore"`
	LinkTextScore float64 `json:"linkTextScore"`
	FormScore     float64 `json:"formScore"`
	AriaScore     float64 `json:"ariaScore"`
	SemanticScore float64 `json:"semanticScore"`

	WCAGScore float64 `json:"wcagScore"`
	Level     string  `json:"level"`

	FormInputs       int `json:"formInputs"`
	LabeledInputs    int `json:"labeledInputs"`
	AriaAttributes   int `json:"ariaAttributes"`
	AriaRoles        int `json:"ariaRoles"`
	Landmarks        int `json:"landmarks"`
	SemanticElements int `json:"semanticElements"`
}

// MixedContent is a single insecure resource reference on an HTTPS page.
type MixedContent struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

// SecuritySignals covers transport security: HTTPS, mixed content and the
// fixed response-header checklist.
type SecuritySignals struct {
	HTTPS          bool           `json:"https"`
	MixedContent   []MixedContent `json:"mixedContent,omitempty"`
	PresentHeaders []string       `json:"presentHeaders,omitempty"`
	MissingHeaders []string       `json:"missingHeaders,omitempty"`
	HeaderRating   string         `json:"headerRating"`
}

// RequestCounts tallies the subresource requests implied by the markup.
type RequestCounts struct {
	Scripts     int `json:"scripts"`
	Stylesheets int `json:"stylesheets"`
	Images      int `json:"images"`
	Iframes     int `json:"iframes"`
	Total       int `json:"total"`
}

// PerformanceSignals describes the static performance surface of the markup
// plus the mobile-friendliness heuristics.
type PerformanceSignals struct {
	HTMLSize int           `json:"htmlSize"`
	DOMNodes int           `json:"domNodes"`
	Requests RequestCounts `json:"requests"`

	AsyncScripts    int `json:"asyncScripts"`
	DeferScripts    int `json:"deferScripts"`
	BlockingScripts int `json:"blockingScripts"`
	RenderBlocking  int `json:"renderBlocking"`

	InlineStyleBytes int `json:"inlineStyleBytes"`
	Preconnect       int `json:"preconnect"`
	Prefetch         int `json:"prefetch"`
	DNSPrefetch      int `json:"dnsPrefetch"`

	HasViewport  bool    `json:"hasViewport"`
	DeviceWidth  bool    `json:"deviceWidth"`
	SrcsetImages int     `json:"srcsetImages"`
	HasTouchIcon bool    `json:"hasTouchIcon"`
	MobileScore  float64 `json:"mobileScore"`
}

// IndexabilitySignals covers the crawl/index directives of the page.
type IndexabilitySignals struct {
	MetaRobots string `json:"metaRobots,omitempty"`
	XRobotsTag string `json:"xRobotsTag,omitempty"`

	Noindex   bool `json:"noindex"`
	Nofollow  bool `json:"nofollow"`
	Noarchive bool `json:"noarchive"`
	Nosnippet bool `json:"nosnippet"`

	RobotsChecked   bool   `json:"robotsTxtChecked"`
	BlockedByRobots bool   `json:"blockedByRobotsTxt"`
	MatchedRule     string `json:"matchedRule,omitempty"`

	Canonical     string `json:"canonical,omitempty"`
	SelfCanonical bool   `json:"selfCanonical"`

	// Status is one of "indexable", "noindex", "blocked_by_robots_txt".
	Status string `json:"status"`

	// NoindexConflict flags a noindex page that still receives internal
	// links, which wastes crawl budget.
	NoindexConflict bool `json:"noindexConflict"`
}

// VitalsSignals grades the supplied Core Web Vitals against the published
// thresholds. A nil metric stays nil and gets no grade.
type VitalsSignals struct {
	LCP        *float64 `json:"lcp,omitempty"`
	LCPGrade   string   `json:"lcpGrade,omitempty"`
	CLS        *float64 `json:"cls,omitempty"`
	CLSGrade   string   `json:"clsGrade,omitempty"`
	INP        *float64 `json:"inp,omitempty"`
	INPGrade   string   `json:"inpGrade,omitempty"`
	FID        *float64 `json:"fid,omitempty"`
	FIDGrade   string   `json:"fidGrade,omitempty"`
	TTFB       *float64 `json:"ttfb,omitempty"`
	TTFBGrade  string   `json:"ttfbGrade,omitempty"`
	LCPElement string   `json:"lcpElement,omitempty"`
}

// Metric grade names shared by the vitals extractor and the scorers.
const (
	GradeGood             = "good"
	GradeNeedsImprovement = "needs-improvement"
	GradePoor             = "poor"
)

// Indexability status values.
const (
	StatusIndexable       = "indexable"
	StatusNoindex         = "noindex"
	StatusBlockedByRobots = "blocked_by_robots_txt"
)
