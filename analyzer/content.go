package analyzer

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// contentExtractor reads the text body: counts, weighted keywords, Flesch
// readability, structure and an overall quality score.
type contentExtractor struct{}

func (contentExtractor) Name() string { return "content" }

var (
	wordPattern     = regexp.MustCompile(`\b[a-z]{4,}\b`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

// stopWords filters connective and auxiliary terms out of keyword
// extraction. Words shorter than four letters never reach the filter.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"this", "that", "with", "from", "have", "been", "will", "your", "their",
		"there", "what", "which", "about", "would", "could", "should", "these",
		"those", "them", "they", "were", "where", "when", "than", "then", "more",
		"most", "some", "such", "only", "just", "also", "very", "much", "many",
		"into", "over", "after", "under", "through", "during", "before", "above",
		"below", "between", "among", "within", "without", "against", "toward",
		"towards", "around", "throughout", "beside", "besides", "except", "beyond",
		"because", "while", "until", "including", "excluding", "following",
		"across", "behind", "being", "having", "does", "cannot", "might", "must",
		"shall", "ought", "need", "dare", "used",
	} {
		stopWords[w] = struct{}{}
	}
}

const maxKeywords = 30

func (contentExtractor) Extract(p *Page, s *Signals) error {
	content := &ContentSignals{}

	text := visibleText(p.Doc)
	words := strings.Fields(text)
	content.WordCount = len(words)
	content.CharCount = utf8.RuneCountInString(text)
	content.SentenceCount = countSentences(text)
	content.ParagraphCount = p.Doc.Find("p").Length()
	content.ListCount = p.Doc.Find("ul, ol").Length()
	content.TableCount = p.Doc.Find("table").Length()
	content.VideoCount = p.Doc.Find("video, iframe").Length()

	content.Keywords = extractKeywords(text)
	content.ReadingEase, content.ReadingLevel = fleschReadingEase(text, content.WordCount, content.SentenceCount)
	content.StructureScore = structureScore(p.Doc, content)
	content.QualityScore = qualityScore(content, p.Doc.Find("img").Length())
	content.FreshnessHint = freshnessHint(p.Doc)

	s.Content = content
	return nil
}

// visibleText extracts the body text with scripts and styles removed and
// whitespace collapsed.
func visibleText(doc *goquery.Document) string {
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(body.Text()), " ")
}

func countSentences(text string) int {
	n := 0
	for _, piece := range sentencePattern.Split(text, -1) {
		if strings.TrimSpace(piece) != "" {
			n++
		}
	}
	return n
}

// extractKeywords weights terms by a TF-IDF approximation: tf * log(total/count)
// scaled back by the raw count. Only terms seen at least twice qualify. Output
// is sorted by importance, term as tie-break, and capped.
func extractKeywords(text string) []Keyword {
	tokens := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		return nil
	}

	counts := make(map[string]int)
	total := 0
	for _, tok := range tokens {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		counts[tok]++
		total++
	}
	if total == 0 {
		return nil
	}

	keywords := make([]Keyword, 0, len(counts))
	for term, count := range counts {
		if count < 2 {
			continue
		}
		tf := float64(count) / float64(total)
		idf := math.Log(float64(total) / float64(count))
		keywords = append(keywords, Keyword{
			Term:       term,
			Count:      count,
			Importance: round4(tf * idf * float64(count)),
		})
	}

	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Importance != keywords[j].Importance {
			return keywords[i].Importance > keywords[j].Importance
		}
		return keywords[i].Term < keywords[j].Term
	})

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// fleschReadingEase computes the Flesch score with a vowel-count syllable
// approximation. When the text has no vowels at all, the word count stands in
// for the syllable count so the formula stays defined.
func fleschReadingEase(text string, wordCount, sentenceCount int) (float64, string) {
	if text == "" || wordCount == 0 || sentenceCount == 0 {
		return 0, "N/A"
	}

	syllables := 0
	for _, r := range strings.ToLower(text) {
		switch r {
		case 'a', 'e', 'i', 'o', 'u', 'y':
			syllables++
		}
	}
	if syllables == 0 {
		syllables = wordCount
	}

	avgSentenceLen := float64(wordCount) / float64(sentenceCount)
	avgSyllables := float64(syllables) / float64(wordCount)

	score := 206.835 - 1.015*avgSentenceLen - 84.6*avgSyllables
	score = math.Max(0, math.Min(100, score))

	return score, readingLevel(score)
}

func readingLevel(score float64) string {
	switch {
	case score >= 90:
		return "Very Easy"
	case score >= 80:
		return "Easy"
	case score >= 70:
		return "Fairly Easy"
	case score >= 60:
		return "Standard"
	case score >= 50:
		return "Fairly Difficult"
	case score >= 30:
		return "Difficult"
	default:
		return "Very Difficult"
	}
}

// structureScore rewards the structural elements of well-organized content,
// saturating at 100.
func structureScore(doc *goquery.Document, c *ContentSignals) float64 {
	score := 0.0
	if doc.Find("h1").Length() == 1 {
		score += 20
	}
	if doc.Find("h2").Length() >= 2 {
		score += 20
	}
	if c.ParagraphCount >= 5 {
		score += 20
	}
	if c.ListCount > 0 {
		score += 10
	}
	if doc.Find("img").Length() > 0 {
		score += 10
	}
	if c.TableCount > 0 {
		score += 10
	}
	if c.VideoCount > 0 {
		score += 10
	}
	return math.Min(100, score)
}

// qualityScore is an additive depth/structure/media assessment saturating
// at 100.
func qualityScore(c *ContentSignals, imageCount int) float64 {
	score := 0.0

	switch {
	case c.WordCount >= 1000:
		score += 30
	case c.WordCount >= 500:
		score += 20
	case c.WordCount >= 300:
		score += 10
	}

	switch {
	case c.StructureScore >= 80:
		score += 25
	case c.StructureScore >= 60:
		score += 15
	}

	if c.ParagraphCount >= 5 {
		score += 15
	}
	if imageCount > 0 {
		score += 10
	}
	if c.VideoCount > 0 {
		score += 10
	}

	return math.Min(100, score)
}

// freshnessHint reports the most explicit freshness marker found in the
// markup, preferring machine-readable dates over visible text.
func freshnessHint(doc *goquery.Document) string {
	if v := metaProperty(doc, "article:modified_time"); v != "" {
		return v
	}
	if v := metaProperty(doc, "article:published_time"); v != "" {
		return v
	}
	if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
