// Package concept derives the typed concept/taxonomy view from raw graph
// triples: classification, hierarchy closures, relevance-ranked search, and
// local neighborhood exploration.
//
// Everything here is computed fresh from one GraphStore generation; two
// calls against the same generation return identical results.
package concept

import "encoding/json"

// Type classifies a concept by its strongest declaration.
type Type string

const (
	// TypeClass is a resource declared rdfs:Class.
	TypeClass Type = "class"
	// TypeConcept is a resource declared skos:Concept.
	TypeConcept Type = "concept"
	// TypeIndividual is any other eligible resource.
	TypeIndividual Type = "individual"
)

// String returns the string representation of the Type.
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the Type is one of the defined constants.
func (t Type) IsValid() bool {
	switch t {
	case TypeClass, TypeConcept, TypeIndividual:
		return true
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler to ensure Type serializes as a string.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// Concept is the derived, typed view of a graph node that qualifies under
// the classification rule. One concept is produced per (context, IRI) pair;
// the same IRI declared in two sources yields two concepts.
type Concept struct {
	IRI           string   `json:"iri"`
	Label         string   `json:"label,omitempty"`
	Comment       string   `json:"comment,omitempty"`
	Type          Type     `json:"concept_type"`
	SourceContext string   `json:"source_context,omitempty"`
	Parents       []string `json:"parent_concepts"`
	Children      []string `json:"child_concepts"`

	// contextKey is the full context key the concept was extracted from,
	// kept for internal scoping; SourceContext carries the display name.
	contextKey string
}

// ContextKey returns the full key of the context this concept came from.
func (c *Concept) ContextKey() string {
	return c.contextKey
}

// TopLevel reports whether the concept has no parent edges.
func (c *Concept) TopLevel() bool {
	return len(c.Parents) == 0
}

// Taxonomy summarizes one context for overview displays.
type Taxonomy struct {
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	SourceType      string  `json:"source_type"`
	Format          *string `json:"format"`
	ConceptsCount   int     `json:"concepts_count"`
	PropertiesCount int     `json:"properties_count"`
}

// Hierarchy is the full ancestry view for one concept.
type Hierarchy struct {
	Concept     *Concept   `json:"concept"`
	Ancestors   []*Concept `json:"ancestors"`
	Descendants []*Concept `json:"descendants"`
	Siblings    []*Concept `json:"siblings"`
}

// MatchType records where a search query matched a concept.
type MatchType string

const (
	// MatchLabel is a match inside the concept label.
	MatchLabel MatchType = "label"
	// MatchComment is a match inside the comment or definition.
	MatchComment MatchType = "comment"
	// MatchIRI is a match inside the IRI string itself.
	MatchIRI MatchType = "iri"
)

// SearchResult is one relevance-scored search hit.
type SearchResult struct {
	Concept   *Concept  `json:"concept"`
	Relevance float64   `json:"relevance_score"`
	MatchType MatchType `json:"match_type"`
}

// Direction classifies how an edge touches the explored resource.
type Direction string

const (
	// DirectionOutgoing means the resource is the triple's subject.
	DirectionOutgoing Direction = "outgoing"
	// DirectionIncoming means the resource is the triple's object.
	DirectionIncoming Direction = "incoming"
	// DirectionPredicateUsage means the resource is used as a predicate.
	DirectionPredicateUsage Direction = "predicate-usage"
)

// DisplayType classifies the term shown at the far end of a neighbor edge.
type DisplayType string

const (
	// DisplayResource is an IRI not used as a predicate anywhere.
	DisplayResource DisplayType = "resource"
	// DisplayProperty is an IRI that occurs in predicate position somewhere.
	DisplayProperty DisplayType = "property"
	// DisplayLiteral is a non-IRI value.
	DisplayLiteral DisplayType = "literal"
)

// Neighbor is one directly connected edge of an explored resource,
// classified by direction and endpoint type. StepIRI/StepIsResource record
// whether the displayed term is itself navigable.
type Neighbor struct {
	Direction      Direction   `json:"direction"`
	Predicate      string      `json:"predicate"`
	Display        string      `json:"display"`
	DisplayType    DisplayType `json:"display_type"`
	StepIRI        string      `json:"step_iri,omitempty"`
	StepIsResource bool        `json:"step_is_resource"`
}

// TaxonomyStats aggregates totals across all taxonomies.
type TaxonomyStats struct {
	TotalTaxonomies   int            `json:"total_taxonomies"`
	TotalConcepts     int            `json:"total_concepts"`
	TotalProperties   int            `json:"total_properties"`
	ConceptTypeCounts map[string]int `json:"concept_type_counts"`
	TopLevelConcepts  int            `json:"top_level_concepts"`
}
