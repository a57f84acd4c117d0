package compare

import (
	"sort"

	"github.com/seo-auditor/backend/analyzer"
	"github.com/seo-auditor/backend/audit"
)

// maxKeywordResults caps each of the three keyword sets.
const maxKeywordResults = 30

// SharedKeyword is a term both pages use, carrying both importances.
type SharedKeyword struct {
	Term                string  `json:"term"`
	SubjectCount        int     `json:"subjectCount"`
	ReferenceCount      int     `json:"referenceCount"`
	SubjectImportance   float64 `json:"subjectImportance"`
	ReferenceImportance float64 `json:"referenceImportance"`
	TotalImportance     float64 `json:"totalImportance"`
}

// KeywordComparison partitions the union of both keyword sets: every term is
// common, unique to the subject, or unique to the reference, never more than
// one of those.
type KeywordComparison struct {
	Common            []SharedKeyword    `json:"common,omitempty"`
	UniqueToSubject   []analyzer.Keyword `json:"uniqueToSubject,omitempty"`
	UniqueToReference []analyzer.Keyword `json:"uniqueToReference,omitempty"`
}

// CompareKeywords builds the three-way keyword partition. Common terms sort
// by combined importance, unique terms by their own importance; ties break
// bytewise on the term so the output is deterministic.
func CompareKeywords(subject, reference []analyzer.Keyword) KeywordComparison {
	subjectByTerm := keywordIndex(subject)
	referenceByTerm := keywordIndex(reference)

	var comparison KeywordComparison

	for _, kw := range subject {
		ref, shared := referenceByTerm[kw.Term]
		if !shared {
			comparison.UniqueToSubject = append(comparison.UniqueToSubject, kw)
			continue
		}
		comparison.Common = append(comparison.Common, SharedKeyword{
			Term:                kw.Term,
			SubjectCount:        kw.Count,
			ReferenceCount:      ref.Count,
			SubjectImportance:   kw.Importance,
			ReferenceImportance: ref.Importance,
			TotalImportance:     kw.Importance + ref.Importance,
		})
	}

	for _, kw := range reference {
		if _, shared := subjectByTerm[kw.Term]; !shared {
			comparison.UniqueToReference = append(comparison.UniqueToReference, kw)
		}
	}

	sort.Slice(comparison.Common, func(i, j int) bool {
		a, b := comparison.Common[i], comparison.Common[j]
		if a.TotalImportance != b.TotalImportance {
			return a.TotalImportance > b.TotalImportance
		}
		return a.Term < b.Term
	})
	sortKeywords(comparison.UniqueToSubject)
	sortKeywords(comparison.UniqueToReference)

	comparison.Common = capShared(comparison.Common)
	comparison.UniqueToSubject = capKeywords(comparison.UniqueToSubject)
	comparison.UniqueToReference = capKeywords(comparison.UniqueToReference)

	return comparison
}

func keywordIndex(keywords []analyzer.Keyword) map[string]analyzer.Keyword {
	index := make(map[string]analyzer.Keyword, len(keywords))
	for _, kw := range keywords {
		index[kw.Term] = kw
	}
	return index
}

func sortKeywords(keywords []analyzer.Keyword) {
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Importance != keywords[j].Importance {
			return keywords[i].Importance > keywords[j].Importance
		}
		return keywords[i].Term < keywords[j].Term
	})
}

func capShared(keywords []SharedKeyword) []SharedKeyword {
	if len(keywords) > maxKeywordResults {
		return keywords[:maxKeywordResults]
	}
	return keywords
}

func capKeywords(keywords []analyzer.Keyword) []analyzer.Keyword {
	if len(keywords) > maxKeywordResults {
		return keywords[:maxKeywordResults]
	}
	return keywords
}

func pageKeywords(a *audit.PageAudit) []analyzer.Keyword {
	if a.Signals == nil || a.Signals.Content == nil {
		return nil
	}
	return a.Signals.Content.Keywords
}
