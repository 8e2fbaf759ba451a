package concept

import (
	"sort"
	"strings"
)

// Relevance scores by match location. Exact label matches always outrank
// partial label matches, which outrank comment and IRI matches.
const (
	scoreLabelExact      = 1.0
	scoreLabelPrefix     = 0.8
	scoreLabelContains   = 0.6
	scoreCommentContains = 0.4
	scoreIRIContains     = 0.25
)

// Search finds concepts matching a case-insensitive substring in their
// label, comment, or IRI, ranked by relevance. Ties break on IRI for
// deterministic ordering. A non-positive limit means no cap.
func Search(concepts []*Concept, query string, limit int) []SearchResult {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	var results []SearchResult
	for _, c := range concepts {
		if result, ok := match(c, needle); ok {
			results = append(results, result)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Relevance != results[j].Relevance {
			return results[i].Relevance > results[j].Relevance
		}
		return results[i].Concept.IRI < results[j].Concept.IRI
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// match scores one concept against the lowercased needle. The best matching
// location wins; a concept yields at most one result.
func match(c *Concept, needle string) (SearchResult, bool) {
	label := strings.ToLower(c.Label)
	switch {
	case label != "" && label == needle:
		return SearchResult{Concept: c, Relevance: scoreLabelExact, MatchType: MatchLabel}, true
	case label != "" && strings.HasPrefix(label, needle):
		return SearchResult{Concept: c, Relevance: scoreLabelPrefix, MatchType: MatchLabel}, true
	case strings.Contains(label, needle):
		return SearchResult{Concept: c, Relevance: scoreLabelContains, MatchType: MatchLabel}, true
	case strings.Contains(strings.ToLower(c.Comment), needle):
		return SearchResult{Concept: c, Relevance: scoreCommentContains, MatchType: MatchComment}, true
	case strings.Contains(strings.ToLower(c.IRI), needle):
		return SearchResult{Concept: c, Relevance: scoreIRIContains, MatchType: MatchIRI}, true
	default:
		return SearchResult{}, false
	}
}
