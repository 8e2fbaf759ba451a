// Package glossary turns business glossary terms into SKOS triples so the
// glossary participates in the knowledge graph like any other source.
package glossary

import (
	"context"
	"fmt"
	"sort"

	"github.com/larsgeorge/ontos-sub001/rdf"
	"github.com/larsgeorge/ontos-sub001/vocabulary"
)

// Term is one glossary entry. Parent names the broader term, empty for
// top-level entries.
type Term struct {
	Glossary   string `json:"glossary"`
	Name       string `json:"name"`
	Definition string `json:"definition,omitempty"`
	Parent     string `json:"parent,omitempty"`
}

// Provider supplies the current glossary terms.
type Provider interface {
	Terms(ctx context.Context) ([]Term, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) ([]Term, error)

// Terms implements Provider.
func (f ProviderFunc) Terms(ctx context.Context) ([]Term, error) {
	return f(ctx)
}

// Extractor converts glossary terms into per-glossary triple sets.
type Extractor struct {
	provider Provider
}

// NewExtractor creates an extractor over a term provider.
func NewExtractor(provider Provider) *Extractor {
	return &Extractor{provider: provider}
}

// GlossaryTriples fetches the current terms and converts them to SKOS
// triples, grouped by glossary context key. Each term becomes a
// skos:Concept with a prefLabel; definitions map to skos:definition and
// parent links to skos:broader.
func (e *Extractor) GlossaryTriples(ctx context.Context) (map[string][]rdf.Triple, error) {
	if e == nil || e.provider == nil {
		return nil, nil
	}
	terms, err := e.provider.Terms(ctx)
	if err != nil {
		return nil, fmt.Errorf("glossary extraction: fetch terms: %w", err)
	}

	byGlossary := make(map[string][]Term)
	for _, term := range terms {
		if term.Name == "" {
			continue
		}
		glossary := term.Glossary
		if glossary == "" {
			glossary = "default"
		}
		byGlossary[glossary] = append(byGlossary[glossary], term)
	}

	out := make(map[string][]rdf.Triple, len(byGlossary))
	for glossary, entries := range byGlossary {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

		var triples []rdf.Triple
		for _, term := range entries {
			subject := TermIRI(glossary, term.Name)
			triples = append(triples,
				rdf.MustTriple(rdf.IRI(subject), rdf.IRI(vocabulary.RdfType), rdf.IRI(vocabulary.SkosConcept)),
				rdf.MustTriple(rdf.IRI(subject), rdf.IRI(vocabulary.SkosPrefLabel), rdf.Literal(term.Name)),
			)
			if term.Definition != "" {
				triples = append(triples,
					rdf.MustTriple(rdf.IRI(subject), rdf.IRI(vocabulary.SkosDefinition), rdf.Literal(term.Definition)))
			}
			if term.Parent != "" {
				triples = append(triples,
					rdf.MustTriple(rdf.IRI(subject), rdf.IRI(vocabulary.SkosBroader), rdf.IRI(TermIRI(glossary, term.Parent))))
			}
		}
		out[vocabulary.GlossaryKey(glossary)] = triples
	}
	return out, nil
}

// TermIRI builds the IRI minted for one glossary term.
func TermIRI(glossary, name string) string {
	return vocabulary.GlossaryKey(glossary) + ":" + name
}
