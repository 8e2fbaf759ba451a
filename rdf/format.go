package rdf

import (
	"path/filepath"
	"strings"
)

// Format identifies a serialization profile the engine can decode.
type Format string

const (
	// FormatTurtle is the SKOS-style profile: Turtle and its N-Triples subset.
	FormatTurtle Format = "turtle"
	// FormatRDFXML is the RDFS profile: RDF/XML documents. This is the default
	// when a source's format cannot be determined.
	FormatRDFXML Format = "rdfxml"
)

// String returns the string representation of the Format.
func (f Format) String() string {
	return string(f)
}

// IsValid checks if the Format is one of the defined constants.
func (f Format) IsValid() bool {
	switch f {
	case FormatTurtle, FormatRDFXML:
		return true
	default:
		return false
	}
}

// ParseFormat maps a declared format name to a Format. Recognizes the common
// aliases used by definition rows ("ttl", "turtle", "n3", "nt", "xml", "rdf",
// "rdfxml", "rdf/xml", "owl"). Unknown or empty names fall back to RDF/XML.
func ParseFormat(name string) Format {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ttl", "turtle", "n3", "nt", "ntriples", "n-triples":
		return FormatTurtle
	case "xml", "rdf", "rdfxml", "rdf/xml", "owl":
		return FormatRDFXML
	default:
		return FormatRDFXML
	}
}

// FormatForPath infers the serialization format from a file extension,
// defaulting to RDF/XML when the extension is unknown.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttl", ".n3", ".nt":
		return FormatTurtle
	case ".rdf", ".xml", ".owl":
		return FormatRDFXML
	default:
		return FormatRDFXML
	}
}

// Decode parses raw document text in the given format and returns its triples.
// Parse failures return an error and no triples; a document never partially
// loads.
func Decode(text string, format Format) ([]Triple, error) {
	switch format {
	case FormatTurtle:
		return DecodeTurtle(text)
	default:
		return DecodeRDFXML(text)
	}
}
