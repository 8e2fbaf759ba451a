package concept

import (
	"github.com/larsgeorge/ontos-sub001/graphstore"
	"github.com/larsgeorge/ontos-sub001/rdf"
)

// Neighbors enumerates the edges directly connected to the resource iri,
// classified by direction and endpoint type. The limit caps the combined
// entry count across all three directions; the scan stops as soon as the
// cap is reached. Entries are deduplicated by (direction, predicate,
// display). A limit <= 0 means unlimited.
func Neighbors(store *graphstore.GraphStore, iri string, limit int) []Neighbor {
	if store == nil || iri == "" {
		return nil
	}

	var out []Neighbor
	seen := make(map[neighborKey]struct{})

	add := func(direction Direction, predicate string, display rdf.Term) bool {
		key := neighborKey{direction, predicate, displayString(display)}
		if _, dup := seen[key]; dup {
			return limit <= 0 || len(out) < limit
		}
		seen[key] = struct{}{}
		out = append(out, newNeighbor(store, direction, predicate, display))
		return limit <= 0 || len(out) < limit
	}

	store.EachTriple(func(_ string, t rdf.Triple) bool {
		predicate := t.Predicate.Value
		if t.Subject.Kind == rdf.KindIRI && t.Subject.Value == iri {
			if !add(DirectionOutgoing, predicate, t.Object) {
				return false
			}
		}
		if t.Object.Kind == rdf.KindIRI && t.Object.Value == iri {
			if !add(DirectionIncoming, predicate, t.Subject) {
				return false
			}
		}
		if predicate == iri {
			if !add(DirectionPredicateUsage, predicate, t.Subject) {
				return false
			}
			if !add(DirectionPredicateUsage, predicate, t.Object) {
				return false
			}
		}
		return true
	})
	return out
}

type neighborKey struct {
	direction Direction
	predicate string
	display   string
}

func newNeighbor(store *graphstore.GraphStore, direction Direction, predicate string, display rdf.Term) Neighbor {
	n := Neighbor{
		Direction:   direction,
		Predicate:   predicate,
		Display:     displayString(display),
		DisplayType: classifyDisplay(store, display),
	}
	if display.Kind == rdf.KindIRI {
		n.StepIRI = display.Value
		n.StepIsResource = true
	}
	return n
}

// classifyDisplay types the far end of an edge: non-IRI terms are literals,
// IRIs used in predicate position anywhere are properties, the rest are
// plain resources.
func classifyDisplay(store *graphstore.GraphStore, term rdf.Term) DisplayType {
	if term.Kind != rdf.KindIRI {
		return DisplayLiteral
	}
	if store.HasPredicate(term.Value) {
		return DisplayProperty
	}
	return DisplayResource
}

func displayString(term rdf.Term) string {
	if term.Kind == rdf.KindBlank {
		return term.String()
	}
	return term.Value
}
