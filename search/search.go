// Package search provides case-insensitive lexical lookup of resource and
// property terms across the union graph.
package search

import (
	"strings"

	"github.com/larsgeorge/ontos-sub001/graphstore"
	"github.com/larsgeorge/ontos-sub001/rdf"
)

// HitType classifies a matched term by its graph role.
type HitType string

const (
	// HitResource is an IRI never used in predicate position.
	HitResource HitType = "resource"
	// HitProperty is an IRI used as a predicate somewhere in the graph.
	HitProperty HitType = "property"
)

// Hit is one matched term.
type Hit struct {
	Value string  `json:"value"`
	Type  HitType `json:"type"`
}

// Prefix scans every triple's subject and predicate for a case-insensitive
// substring match, classifying each hit as a property if the IRI occurs in
// predicate position anywhere, else as a resource. Hits are deduplicated by
// value with the first classification winning, and the scan stops as soon
// as limit matches are found. A limit <= 0 means unlimited.
func Prefix(store *graphstore.GraphStore, substr string, limit int) []Hit {
	needle := strings.ToLower(strings.TrimSpace(substr))
	if store == nil || needle == "" {
		return nil
	}

	var hits []Hit
	seen := make(map[string]struct{})

	add := func(value string, hitType HitType) bool {
		if _, dup := seen[value]; dup {
			return limit <= 0 || len(hits) < limit
		}
		seen[value] = struct{}{}
		if strings.Contains(strings.ToLower(value), needle) {
			hits = append(hits, Hit{Value: value, Type: hitType})
		}
		return limit <= 0 || len(hits) < limit
	}

	store.EachTriple(func(_ string, t rdf.Triple) bool {
		if t.Subject.Kind == rdf.KindIRI {
			hitType := HitResource
			if store.HasPredicate(t.Subject.Value) {
				hitType = HitProperty
			}
			if !add(t.Subject.Value, hitType) {
				return false
			}
		}
		return add(t.Predicate.Value, HitProperty)
	})
	return hits
}
