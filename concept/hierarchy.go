package concept

import "sort"

// Index provides IRI lookup and hierarchy traversal over an extracted
// concept set. The underlying graph is not guaranteed acyclic, so every
// closure threads a visited set.
type Index struct {
	concepts []*Concept
	byIRI    map[string][]*Concept
}

// NewIndex builds an index over a concept set.
func NewIndex(concepts []*Concept) *Index {
	idx := &Index{
		concepts: concepts,
		byIRI:    make(map[string][]*Concept, len(concepts)),
	}
	for _, c := range concepts {
		idx.byIRI[c.IRI] = append(idx.byIRI[c.IRI], c)
	}
	return idx
}

// Concepts returns the indexed concept set.
func (idx *Index) Concepts() []*Concept {
	return idx.concepts
}

// Lookup returns the first concept with the given IRI in extraction order,
// or nil when unknown.
func (idx *Index) Lookup(iri string) *Concept {
	matches := idx.byIRI[iri]
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// Hierarchy computes the ancestor/descendant/sibling view for one IRI, or
// nil when the IRI names no concept.
func (idx *Index) Hierarchy(iri string) *Hierarchy {
	subject := idx.Lookup(iri)
	if subject == nil {
		return nil
	}

	ancestors := idx.closure(iri, func(c *Concept) []string { return c.Parents })
	descendants := idx.closure(iri, func(c *Concept) []string { return c.Children })

	return &Hierarchy{
		Concept:     subject,
		Ancestors:   ancestors,
		Descendants: descendants,
		Siblings:    idx.siblings(subject),
	}
}

// closure walks the transitive edge relation from a starting IRI,
// deduplicating by IRI and excluding the start itself even when a cycle
// would reintroduce it. Results are sorted by IRI for determinism.
func (idx *Index) closure(start string, edges func(*Concept) []string) []*Concept {
	visited := map[string]struct{}{start: {}}
	collected := make(map[string]*Concept)

	var walk func(iri string)
	walk = func(iri string) {
		for _, c := range idx.byIRI[iri] {
			for _, next := range edges(c) {
				if _, done := visited[next]; done {
					continue
				}
				visited[next] = struct{}{}
				if target := idx.Lookup(next); target != nil {
					collected[next] = target
				}
				walk(next)
			}
		}
	}
	walk(start)

	return sortedConcepts(collected)
}

// siblings returns the concepts sharing at least one of the subject's direct
// parents, excluding the subject, sorted by IRI.
func (idx *Index) siblings(subject *Concept) []*Concept {
	parents := make(map[string]struct{}, len(subject.Parents))
	for _, p := range subject.Parents {
		parents[p] = struct{}{}
	}

	collected := make(map[string]*Concept)
	for _, c := range idx.concepts {
		if c.IRI == subject.IRI {
			continue
		}
		for _, p := range c.Parents {
			if _, shared := parents[p]; shared {
				if _, dup := collected[c.IRI]; !dup {
					collected[c.IRI] = c
				}
				break
			}
		}
	}
	return sortedConcepts(collected)
}

func sortedConcepts(m map[string]*Concept) []*Concept {
	out := make([]*Concept, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IRI < out[j].IRI })
	return out
}
