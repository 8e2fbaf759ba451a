// Package graphstore owns the named subgraphs loaded from heterogeneous
// semantic sources and composes them into one immutable, atomically
// published union graph.
package graphstore

import (
	"encoding/json"

	"github.com/larsgeorge/ontos-sub001/rdf"
)

// SourceKind identifies which loader produced a context.
type SourceKind string

const (
	// SourceTaxonomyFile is a controlled taxonomy loaded from a file.
	SourceTaxonomyFile SourceKind = "taxonomy-file"
	// SourceUploadedModel is a definition row from the definitions store.
	SourceUploadedModel SourceKind = "uploaded-model"
	// SourceBuiltinSchema is a schema shipped with the installation.
	SourceBuiltinSchema SourceKind = "builtin-schema"
	// SourceGlossary holds triples derived from glossary terms.
	SourceGlossary SourceKind = "glossary"
	// SourceEntityLink holds triples materialized from governance link rows.
	SourceEntityLink SourceKind = "entity-link"
)

// String returns the string representation of the SourceKind.
func (k SourceKind) String() string {
	return string(k)
}

// IsValid checks if the SourceKind is one of the defined constants.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceTaxonomyFile, SourceUploadedModel, SourceBuiltinSchema, SourceGlossary, SourceEntityLink:
		return true
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler to ensure SourceKind serializes as a string.
func (k SourceKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(k))
}

// Context is a tagged, independently loaded set of triples: one named
// subgraph per successfully parsed source item. A context is wholly owned by
// the GraphStore that created it and is write-once per rebuild generation;
// rebuilds replace contexts wholesale, never mutate them.
type Context struct {
	// Key is the URN-shaped, generation-unique context identifier
	// (e.g. "urn:taxonomy:products").
	Key string `json:"key"`
	// Kind records which loader produced this context.
	Kind SourceKind `json:"kind"`
	// Format is the serialization the source was decoded from, empty for
	// contexts not decoded from a document (glossary, entity links).
	Format rdf.Format `json:"format,omitempty"`
	// Triples is the context's triple set. Treated as immutable after load.
	Triples []rdf.Triple `json:"triples"`
}

// TripleCount returns the number of triples in the context.
func (c *Context) TripleCount() int {
	return len(c.Triples)
}
