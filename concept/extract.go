package concept

import (
	"sort"

	"github.com/larsgeorge/ontos-sub001/graphstore"
	"github.com/larsgeorge/ontos-sub001/rdf"
	"github.com/larsgeorge/ontos-sub001/vocabulary"
)

// Extractor derives concepts from one GraphStore generation.
type Extractor struct {
	store *graphstore.GraphStore
}

// NewExtractor creates an extractor bound to a generation.
func NewExtractor(store *graphstore.GraphStore) *Extractor {
	return &Extractor{store: store}
}

// Store returns the generation the extractor reads from.
func (e *Extractor) Store() *graphstore.GraphStore {
	return e.store
}

// AllConcepts extracts concepts from every context, in sorted context-key
// order, each context's concepts sorted by IRI. Deterministic for a given
// generation.
func (e *Extractor) AllConcepts() []*Concept {
	var all []*Concept
	for _, key := range e.store.ContextKeys() {
		all = append(all, e.ConceptsForContext(key)...)
	}
	return all
}

// ConceptsForContext extracts the concepts of one context, sorted by IRI.
// Unknown keys yield an empty slice.
func (e *Extractor) ConceptsForContext(key string) []*Concept {
	candidates := e.collectCandidates(key)

	var concepts []*Concept
	for _, cand := range candidates {
		if !cand.eligible() {
			continue
		}
		concepts = append(concepts, cand.toConcept(key))
	}
	sort.Slice(concepts, func(i, j int) bool { return concepts[i].IRI < concepts[j].IRI })

	linkChildren(concepts)
	return concepts
}

// candidate accumulates per-IRI evidence during the first extraction pass.
type candidate struct {
	iri             string
	label           string
	comment         string
	declaredClass   bool
	declaredConcept bool
	subclassTarget  bool
	typedInstance   bool // object of rdf:type from some non-vocabulary node
	parents         []string
	parentSeen      map[string]struct{}
}

// eligible applies the classification rule. Reserved-namespace exclusion is
// handled before candidates are created.
func (c *candidate) eligible() bool {
	if c.declaredClass || c.declaredConcept || c.subclassTarget || c.typedInstance {
		return true
	}
	// Documented-resource heuristic: a label plus a comment or definition is
	// treated as sufficient evidence of conceptual status. Deliberately
	// permissive; kept for compatibility with the taxonomy views built on it.
	return c.label != "" && c.comment != ""
}

func (c *candidate) conceptType() Type {
	switch {
	case c.declaredClass:
		return TypeClass
	case c.declaredConcept:
		return TypeConcept
	default:
		return TypeIndividual
	}
}

func (c *candidate) addParent(iri string) {
	if _, dup := c.parentSeen[iri]; dup {
		return
	}
	c.parentSeen[iri] = struct{}{}
	c.parents = append(c.parents, iri)
}

func (c *candidate) toConcept(contextKey string) *Concept {
	parents := make([]string, len(c.parents))
	copy(parents, c.parents)
	sort.Strings(parents)
	return &Concept{
		IRI:           c.iri,
		Label:         c.label,
		Comment:       c.comment,
		Type:          c.conceptType(),
		SourceContext: vocabulary.DisplayName(contextKey),
		Parents:       parents,
		Children:      []string{},
		contextKey:    contextKey,
	}
}

// collectCandidates performs the first pass: one scan over the context's
// triples, accumulating declaration and documentation evidence per IRI.
func (e *Extractor) collectCandidates(key string) map[string]*candidate {
	candidates := make(map[string]*candidate)

	get := func(iri string) *candidate {
		if vocabulary.IsReserved(iri) {
			return nil
		}
		c, ok := candidates[iri]
		if !ok {
			c = &candidate{iri: iri, parentSeen: make(map[string]struct{})}
			candidates[iri] = c
		}
		return c
	}

	e.store.EachContextTriple(key, func(t rdf.Triple) bool {
		if t.Subject.Kind != rdf.KindIRI {
			return true
		}
		subj := get(t.Subject.Value)

		switch t.Predicate.Value {
		case vocabulary.RdfType:
			if t.Object.Kind != rdf.KindIRI {
				return true
			}
			switch t.Object.Value {
			case vocabulary.RdfsClass:
				if subj != nil {
					subj.declaredClass = true
				}
			case vocabulary.SkosConcept, vocabulary.SkosConceptScheme:
				if subj != nil {
					subj.declaredConcept = true
				}
			default:
				// Typing by a non-vocabulary class marks the class itself as
				// conceptual and contributes a parent edge to the instance.
				if !vocabulary.IsCoreType(t.Object.Value) {
					if obj := get(t.Object.Value); obj != nil {
						obj.typedInstance = true
					}
					if subj != nil {
						subj.addParent(t.Object.Value)
					}
				}
			}
		case vocabulary.RdfsSubClassOf:
			if t.Object.Kind == rdf.KindIRI {
				if obj := get(t.Object.Value); obj != nil {
					obj.subclassTarget = true
				}
				if subj != nil {
					subj.addParent(t.Object.Value)
				}
			}
		case vocabulary.SkosBroader:
			if t.Object.Kind == rdf.KindIRI && subj != nil {
				subj.addParent(t.Object.Value)
			}
		case vocabulary.RdfsLabel, vocabulary.SkosPrefLabel:
			if t.Object.Kind == rdf.KindLiteral && subj != nil && subj.label == "" {
				subj.label = t.Object.Value
			}
		case vocabulary.RdfsComment, vocabulary.SkosDefinition:
			if t.Object.Kind == rdf.KindLiteral && subj != nil && subj.comment == "" {
				subj.comment = t.Object.Value
			}
		}
		return true
	})

	return candidates
}

// linkChildren performs the second pass: with the full parent set known,
// populate each concept's child list from back-references. Child links are
// not discoverable in a single scan.
func linkChildren(concepts []*Concept) {
	byIRI := make(map[string][]*Concept, len(concepts))
	for _, c := range concepts {
		byIRI[c.IRI] = append(byIRI[c.IRI], c)
	}
	for _, child := range concepts {
		for _, parentIRI := range child.Parents {
			for _, parent := range byIRI[parentIRI] {
				parent.Children = append(parent.Children, child.IRI)
			}
		}
	}
	for _, c := range concepts {
		sort.Strings(c.Children)
		c.Children = dedupeSorted(c.Children)
	}
}

// dedupeSorted removes adjacent duplicates from a sorted slice.
func dedupeSorted(values []string) []string {
	if len(values) < 2 {
		return values
	}
	out := values[:1]
	for _, v := range values[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
