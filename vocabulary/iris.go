// Package vocabulary provides the W3C standard IRIs and the reserved
// namespace rules the engine's classification logic depends on.
//
// References:
// - RDF: https://www.w3.org/TR/rdf11-concepts/
// - RDFS: https://www.w3.org/TR/rdf-schema/
// - SKOS: https://www.w3.org/TR/skos-reference/
// - OWL: https://www.w3.org/TR/owl2-overview/
package vocabulary

import "strings"

// Core namespace IRIs. Terms inside these namespaces are structural
// vocabulary, never user concepts.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	SKOSNamespace = "http://www.w3.org/2004/02/skos/core#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

// RDF core IRIs
const (
	// RdfType links a resource to its class.
	RdfType = RDFNamespace + "type"
	// RdfProperty declares a resource to be a property.
	RdfProperty = RDFNamespace + "Property"
)

// RDFS core IRIs
const (
	// RdfsClass declares a resource to be a class.
	RdfsClass = RDFSNamespace + "Class"
	// RdfsSubClassOf links a class to its superclass.
	RdfsSubClassOf = RDFSNamespace + "subClassOf"
	// RdfsLabel provides a human-readable name for a resource.
	RdfsLabel = RDFSNamespace + "label"
	// RdfsComment provides a human-readable description.
	RdfsComment = RDFSNamespace + "comment"
	// RdfsSeeAlso indicates a resource that provides additional information.
	// Governance link rows are materialized with this predicate.
	RdfsSeeAlso = RDFSNamespace + "seeAlso"
)

// SKOS core IRIs
const (
	// SkosConcept declares a resource to be a controlled-vocabulary concept.
	SkosConcept = SKOSNamespace + "Concept"
	// SkosConceptScheme declares a concept scheme.
	SkosConceptScheme = SKOSNamespace + "ConceptScheme"
	// SkosBroader links a concept to a more general concept.
	SkosBroader = SKOSNamespace + "broader"
	// SkosNarrower links a concept to a more specific concept.
	SkosNarrower = SKOSNamespace + "narrower"
	// SkosPrefLabel provides the preferred lexical label for a concept.
	SkosPrefLabel = SKOSNamespace + "prefLabel"
	// SkosAltLabel provides an alternative lexical label.
	SkosAltLabel = SKOSNamespace + "altLabel"
	// SkosDefinition provides a complete explanation of a concept's meaning.
	SkosDefinition = SKOSNamespace + "definition"
	// SkosInScheme links a concept to the scheme it belongs to.
	SkosInScheme = SKOSNamespace + "inScheme"
)

// reservedNamespaces are the core vocabularies whose terms are excluded from
// concept eligibility even when they match a classification rule.
var reservedNamespaces = []string{
	RDFNamespace,
	RDFSNamespace,
	SKOSNamespace,
}

// IsReserved reports whether an IRI falls inside the RDF, RDFS, or SKOS core
// namespaces.
func IsReserved(iri string) bool {
	for _, ns := range reservedNamespaces {
		if strings.HasPrefix(iri, ns) {
			return true
		}
	}
	return false
}

// IsCoreType reports whether an IRI names one of the structural type terms
// (rdfs:Class, skos:Concept, rdf:Property) that never act as a parent edge
// target or as a typed-instance witness.
func IsCoreType(iri string) bool {
	switch iri {
	case RdfsClass, SkosConcept, RdfProperty:
		return true
	default:
		return false
	}
}

// LocalName returns the fragment or final path segment of an IRI, used for
// display fallbacks when a resource carries no label.
func LocalName(iri string) string {
	if idx := strings.LastIndexAny(iri, "#/:"); idx >= 0 && idx+1 < len(iri) {
		return iri[idx+1:]
	}
	return iri
}
