package rdf

import "fmt"

// Triple is a single (subject, predicate, object) fact. Subjects are IRI or
// blank terms, predicates are always IRIs, objects may be any term. Triples
// are immutable once created; construct through NewTriple to get position
// validation.
type Triple struct {
	Subject   Term `json:"subject"`
	Predicate Term `json:"predicate"`
	Object    Term `json:"object"`
}

// NewTriple constructs a triple, validating the positional restrictions on
// subject and predicate.
func NewTriple(subject, predicate, object Term) (Triple, error) {
	if subject.Kind == KindLiteral {
		return Triple{}, fmt.Errorf("triple subject cannot be a literal: %s", subject)
	}
	if predicate.Kind != KindIRI {
		return Triple{}, fmt.Errorf("triple predicate must be an IRI: %s", predicate)
	}
	return Triple{Subject: subject, Predicate: predicate, Object: object}, nil
}

// MustTriple constructs a triple and panics on positional violations. Intended
// for literals in tests and for loader code paths whose inputs were already
// validated.
func MustTriple(subject, predicate, object Term) Triple {
	t, err := NewTriple(subject, predicate, object)
	if err != nil {
		panic(err)
	}
	return t
}

// Equal reports structural equality with another triple.
func (t Triple) Equal(other Triple) bool {
	return t == other
}

// String returns the triple in N-Triples syntax.
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.Subject.NTriples(), t.Predicate.NTriples(), t.Object.NTriples())
}
