package vocabulary

import "strings"

// Context key schemes. Every named subgraph key is URN-shaped; the scheme
// prefix encodes which loader produced it.
const (
	// TaxonomyScheme prefixes contexts loaded from taxonomy files.
	TaxonomyScheme = "urn:taxonomy:"
	// SemanticModelScheme prefixes contexts loaded from uploaded definitions.
	SemanticModelScheme = "urn:semantic-model:"
	// SchemaScheme prefixes contexts loaded from the built-in schema directory.
	SchemaScheme = "urn:schema:"
	// GlossaryScheme prefixes contexts derived from glossary terms.
	GlossaryScheme = "urn:glossary:"
	// SemanticLinksKey is the single reserved context holding governance link
	// triples. It carries no name suffix.
	SemanticLinksKey = "urn:semantic-links"
	// EntityScheme prefixes the subject IRIs minted for governance link rows.
	EntityScheme = "urn:entity:"
)

// TaxonomyKey builds the context key for a taxonomy file source.
func TaxonomyKey(name string) string { return TaxonomyScheme + name }

// SemanticModelKey builds the context key for an uploaded definition.
func SemanticModelKey(name string) string { return SemanticModelScheme + name }

// SchemaKey builds the context key for a built-in schema file.
func SchemaKey(name string) string { return SchemaScheme + name }

// GlossaryKey builds the context key for a glossary source.
func GlossaryKey(name string) string { return GlossaryScheme + name }

// EntityIRI builds the subject IRI for one governance link row.
func EntityIRI(entityType, entityID string) string {
	return EntityScheme + entityType + ":" + entityID
}

// DisplayName strips the scheme prefix from a context key, yielding the
// human-readable source name. The reserved semantic-links key displays as
// "semantic-links"; keys with an unknown scheme pass through unchanged.
func DisplayName(contextKey string) string {
	if contextKey == SemanticLinksKey {
		return "semantic-links"
	}
	for _, scheme := range []string{TaxonomyScheme, SemanticModelScheme, SchemaScheme, GlossaryScheme} {
		if strings.HasPrefix(contextKey, scheme) {
			return strings.TrimPrefix(contextKey, scheme)
		}
	}
	return contextKey
}

// SourceTypeName maps a context key to the source type label reported in
// taxonomy listings.
func SourceTypeName(contextKey string) string {
	switch {
	case contextKey == SemanticLinksKey:
		return "entity-links"
	case strings.HasPrefix(contextKey, TaxonomyScheme):
		return "taxonomy"
	case strings.HasPrefix(contextKey, SemanticModelScheme):
		return "semantic-model"
	case strings.HasPrefix(contextKey, SchemaScheme):
		return "schema"
	case strings.HasPrefix(contextKey, GlossaryScheme):
		return "glossary"
	default:
		return "unknown"
	}
}
