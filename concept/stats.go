package concept

import (
	"github.com/larsgeorge/ontos-sub001/rdf"
	"github.com/larsgeorge/ontos-sub001/vocabulary"
)

// Taxonomies summarizes every context in the store as one Taxonomy row,
// in deterministic context-key order. Concept counts use the same
// eligibility rule as extraction, not a naive class-declaration count.
func (e *Extractor) Taxonomies() []Taxonomy {
	keys := e.store.ContextKeys()
	out := make([]Taxonomy, 0, len(keys))
	for _, key := range keys {
		gc := e.store.Context(key)
		if gc == nil {
			continue
		}
		row := Taxonomy{
			Name:            vocabulary.DisplayName(key),
			Description:     schemeDescription(gc.Triples),
			SourceType:      vocabulary.SourceTypeName(key),
			ConceptsCount:   len(e.ConceptsForContext(key)),
			PropertiesCount: countProperties(gc.Triples),
		}
		if gc.Format != "" {
			format := string(gc.Format)
			row.Format = &format
		}
		out = append(out, row)
	}
	return out
}

// Stats aggregates totals across all taxonomies plus a concept-type
// histogram and a top-level count computed over the full cross-context
// concept set.
func (e *Extractor) Stats() TaxonomyStats {
	stats := TaxonomyStats{
		ConceptTypeCounts: make(map[string]int),
	}
	for _, row := range e.Taxonomies() {
		stats.TotalTaxonomies++
		stats.TotalConcepts += row.ConceptsCount
		stats.TotalProperties += row.PropertiesCount
	}
	for _, c := range e.AllConcepts() {
		stats.ConceptTypeCounts[c.Type.String()]++
		if c.TopLevel() {
			stats.TopLevelConcepts++
		}
	}
	return stats
}

// countProperties counts distinct IRIs declared rdf:Property in one context.
func countProperties(triples []rdf.Triple) int {
	seen := make(map[string]struct{})
	for _, t := range triples {
		if t.Predicate.Value != vocabulary.RdfType {
			continue
		}
		if t.Object.Kind != rdf.KindIRI || t.Object.Value != vocabulary.RdfProperty {
			continue
		}
		if t.Subject.Kind != rdf.KindIRI {
			continue
		}
		seen[t.Subject.Value] = struct{}{}
	}
	return len(seen)
}

// schemeDescription pulls a human description off a declared concept scheme
// in the context, when the source carries one.
func schemeDescription(triples []rdf.Triple) string {
	var scheme string
	for _, t := range triples {
		if t.Predicate.Value == vocabulary.RdfType &&
			t.Object.Kind == rdf.KindIRI && t.Object.Value == vocabulary.SkosConceptScheme &&
			t.Subject.Kind == rdf.KindIRI {
			scheme = t.Subject.Value
			break
		}
	}
	if scheme == "" {
		return ""
	}
	for _, t := range triples {
		if t.Subject.Kind != rdf.KindIRI || t.Subject.Value != scheme {
			continue
		}
		if t.Object.Kind != rdf.KindLiteral {
			continue
		}
		if t.Predicate.Value == vocabulary.SkosDefinition || t.Predicate.Value == vocabulary.RdfsComment {
			return t.Object.Value
		}
	}
	return ""
}
