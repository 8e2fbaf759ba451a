// Package rdf provides the primitive term and triple model for the semantic
// graph engine, along with decoders for the two serialization profiles the
// engine ingests (a Turtle subset and an RDF/XML subset).
//
// Terms form a closed tagged variant: IRI, Literal, or Blank node. Every
// consumer switches over TermKind and handles all three cases; there is no
// open-ended "any value" escape hatch.
package rdf

import (
	"encoding/json"
	"fmt"
)

// TermKind identifies which variant of the Term union a value carries.
type TermKind int

const (
	// KindIRI is an absolute IRI node or edge identifier.
	KindIRI TermKind = iota
	// KindLiteral is a literal value with an optional datatype or language tag.
	KindLiteral
	// KindBlank is a blank (anonymous) node identified only within one document.
	KindBlank
)

// String returns the string representation of the TermKind.
func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindLiteral:
		return "literal"
	case KindBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// IsValid checks if the TermKind is one of the defined constants.
func (k TermKind) IsValid() bool {
	switch k {
	case KindIRI, KindLiteral, KindBlank:
		return true
	default:
		return false
	}
}

// Term is one node or edge value in the graph. Exactly one variant applies,
// selected by Kind:
//
//   - KindIRI: Value holds the absolute IRI string.
//   - KindLiteral: Value holds the lexical form; Extra holds the datatype IRI
//     or language tag, empty when neither was given.
//   - KindBlank: Value holds the blank node identifier (without "_:" prefix).
//
// Equality is structural: two Terms are equal when kind, value, and extra all
// match. Terms are immutable value types; copy freely.
type Term struct {
	Kind  TermKind `json:"kind"`
	Value string   `json:"value"`
	Extra string   `json:"extra,omitempty"`
}

// IRI constructs an IRI term. No relative resolution is performed; callers
// pass absolute IRIs.
func IRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

// Literal constructs a plain literal term with no datatype or language tag.
func Literal(value string) Term {
	return Term{Kind: KindLiteral, Value: value}
}

// TypedLiteral constructs a literal term carrying a datatype IRI or language
// tag in its extra slot.
func TypedLiteral(value, datatypeOrLang string) Term {
	return Term{Kind: KindLiteral, Value: value, Extra: datatypeOrLang}
}

// Blank constructs a blank node term from its local identifier.
func Blank(id string) Term {
	return Term{Kind: KindBlank, Value: id}
}

// IsIRI reports whether the term is an IRI.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsLiteral reports whether the term is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// IsBlank reports whether the term is a blank node.
func (t Term) IsBlank() bool { return t.Kind == KindBlank }

// Equal reports structural equality with another term.
func (t Term) Equal(other Term) bool {
	return t == other
}

// String returns the display form used in query results and neighbor
// listings: the raw IRI, the literal lexical form, or "_:id" for blanks.
func (t Term) String() string {
	switch t.Kind {
	case KindBlank:
		return "_:" + t.Value
	default:
		return t.Value
	}
}

// NTriples returns the term in N-Triples syntax, used for logging and
// CONSTRUCT output rows.
func (t Term) NTriples() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		if t.Extra == "" {
			return fmt.Sprintf("%q", t.Value)
		}
		if isLanguageTag(t.Extra) {
			return fmt.Sprintf("%q@%s", t.Value, t.Extra)
		}
		return fmt.Sprintf("%q^^<%s>", t.Value, t.Extra)
	default:
		return ""
	}
}

// isLanguageTag distinguishes a BCP 47 language tag from a datatype IRI in
// the literal extra slot. Datatype IRIs always contain ':'.
func isLanguageTag(extra string) bool {
	for _, r := range extra {
		if r == ':' || r == '/' {
			return false
		}
	}
	return extra != ""
}

// MarshalJSON implements json.Marshaler so terms serialize with a readable
// kind discriminator.
func (t Term) MarshalJSON() ([]byte, error) {
	type alias struct {
		Kind  string `json:"kind"`
		Value string `json:"value"`
		Extra string `json:"extra,omitempty"`
	}
	return json.Marshal(alias{Kind: t.Kind.String(), Value: t.Value, Extra: t.Extra})
}

// UnmarshalJSON implements json.Unmarshaler for the discriminated form
// produced by MarshalJSON.
func (t *Term) UnmarshalJSON(data []byte) error {
	type alias struct {
		Kind  string `json:"kind"`
		Value string `json:"value"`
		Extra string `json:"extra,omitempty"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	switch a.Kind {
	case "iri":
		t.Kind = KindIRI
	case "literal":
		t.Kind = KindLiteral
	case "blank":
		t.Kind = KindBlank
	default:
		return fmt.Errorf("unknown term kind %q", a.Kind)
	}
	t.Value = a.Value
	t.Extra = a.Extra
	return nil
}
