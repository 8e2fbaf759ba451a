package graphstore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/larsgeorge/ontos-sub001/errors"
	"github.com/larsgeorge/ontos-sub001/rdf"
	"github.com/larsgeorge/ontos-sub001/vocabulary"
)

// FileSource is one already-read definition file. The engine performs no
// file I/O itself; collaborators hand it raw text.
type FileSource struct {
	// Path is used for name derivation and format inference only.
	Path string `json:"path"`
	// Text is the raw document content.
	Text string `json:"text"`
}

// DefinitionRow is one uploaded definition from the definitions store.
// Only enabled rows participate in a rebuild.
type DefinitionRow struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Format  string `json:"format"`
	Enabled bool   `json:"enabled"`
}

// LinkRow is one governance fact associating an entity with a semantic
// resource. Each row becomes a single seeAlso triple in the reserved
// semantic-links context.
type LinkRow struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	TargetIRI  string `json:"target_iri"`
}

// GlossaryExtractor supplies glossary-derived triples keyed either by bare
// glossary name or by full glossary context key; bare names are normalized
// during rebuild. Implementations may return an empty map; a nil extractor
// is treated the same way.
type GlossaryExtractor interface {
	GlossaryTriples(ctx context.Context) (map[string][]rdf.Triple, error)
}

// Sources carries everything a rebuild pass consumes, already read from the
// external collaborators.
type Sources struct {
	TaxonomyFiles []FileSource
	Definitions   []DefinitionRow
	SchemaFiles   []FileSource
	Glossary      GlossaryExtractor
	Links         []LinkRow
}

// sourceName derives a display name from a file path: base name without
// extension.
func sourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// loadTaxonomyFile parses one taxonomy file into its context.
func loadTaxonomyFile(f FileSource) (*Context, error) {
	key := vocabulary.TaxonomyKey(sourceName(f.Path))
	format := rdf.FormatForPath(f.Path)
	triples, err := rdf.Decode(f.Text, format)
	if err != nil {
		return nil, errors.SourceParse(key, err)
	}
	return &Context{Key: key, Kind: SourceTaxonomyFile, Format: format, Triples: triples}, nil
}

// loadSchemaFile parses one built-in schema file into its context.
func loadSchemaFile(f FileSource) (*Context, error) {
	key := vocabulary.SchemaKey(sourceName(f.Path))
	format := rdf.FormatForPath(f.Path)
	triples, err := rdf.Decode(f.Text, format)
	if err != nil {
		return nil, errors.SourceParse(key, err)
	}
	return &Context{Key: key, Kind: SourceBuiltinSchema, Format: format, Triples: triples}, nil
}

// loadDefinition parses one enabled definition row into its context. Rows
// with Enabled=false never reach this function.
func loadDefinition(row DefinitionRow) (*Context, error) {
	key := vocabulary.SemanticModelKey(row.Name)
	if row.Name == "" {
		return nil, errors.SourceParse(key, fmt.Errorf("definition has no name"))
	}
	format := rdf.ParseFormat(row.Format)
	triples, err := rdf.Decode(row.Content, format)
	if err != nil {
		return nil, errors.SourceParse(key, err)
	}
	return &Context{Key: key, Kind: SourceUploadedModel, Format: format, Triples: triples}, nil
}

// loadGlossary wraps an extractor result for one glossary into its context.
// It accepts either a bare glossary name or an already-formed context key.
func loadGlossary(name string, triples []rdf.Triple) *Context {
	key := name
	if !strings.HasPrefix(key, vocabulary.GlossaryScheme) {
		key = vocabulary.GlossaryKey(name)
	}
	return &Context{
		Key:     key,
		Kind:    SourceGlossary,
		Triples: triples,
	}
}

// buildLinksContext converts governance link rows into the single reserved
// semantic-links context. Rows missing a field are skipped; link conversion
// never fails a rebuild.
func buildLinksContext(rows []LinkRow) *Context {
	triples := make([]rdf.Triple, 0, len(rows))
	for _, row := range rows {
		if row.EntityType == "" || row.EntityID == "" || row.TargetIRI == "" {
			continue
		}
		triples = append(triples, rdf.Triple{
			Subject:   rdf.IRI(vocabulary.EntityIRI(row.EntityType, row.EntityID)),
			Predicate: rdf.IRI(vocabulary.RdfsSeeAlso),
			Object:    rdf.IRI(row.TargetIRI),
		})
	}
	return &Context{Key: vocabulary.SemanticLinksKey, Kind: SourceEntityLink, Triples: triples}
}
