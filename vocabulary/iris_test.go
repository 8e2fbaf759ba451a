package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReserved(t *testing.T) {
	tests := []struct {
		name     string
		iri      string
		reserved bool
	}{
		{name: "rdf type", iri: RdfType, reserved: true},
		{name: "rdfs class", iri: RdfsClass, reserved: true},
		{name: "skos concept", iri: SkosConcept, reserved: true},
		{name: "owl is not reserved", iri: OWLNamespace + "Thing", reserved: false},
		{name: "user namespace", iri: "urn:x:Person", reserved: false},
		{name: "empty", iri: "", reserved: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reserved, IsReserved(tt.iri))
		})
	}
}

func TestIsCoreType(t *testing.T) {
	assert.True(t, IsCoreType(RdfsClass))
	assert.True(t, IsCoreType(SkosConcept))
	assert.True(t, IsCoreType(RdfProperty))
	assert.False(t, IsCoreType(SkosConceptScheme))
	assert.False(t, IsCoreType("urn:x:Person"))
}

func TestLocalName(t *testing.T) {
	assert.Equal(t, "Person", LocalName("urn:x:Person"))
	assert.Equal(t, "label", LocalName(RdfsLabel))
	assert.Equal(t, "thing", LocalName("https://example.com/path/thing"))
	assert.Equal(t, "plain", LocalName("plain"))
}

func TestContextKeys(t *testing.T) {
	assert.Equal(t, "urn:taxonomy:products", TaxonomyKey("products"))
	assert.Equal(t, "urn:semantic-model:crm", SemanticModelKey("crm"))
	assert.Equal(t, "urn:schema:skos", SchemaKey("skos"))
	assert.Equal(t, "urn:glossary:finance", GlossaryKey("finance"))
	assert.Equal(t, "urn:entity:table:42", EntityIRI("table", "42"))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "urn:taxonomy:products", want: "products"},
		{key: "urn:semantic-model:crm", want: "crm"},
		{key: "urn:schema:skos", want: "skos"},
		{key: "urn:glossary:finance", want: "finance"},
		{key: SemanticLinksKey, want: "semantic-links"},
		{key: "urn:other:thing", want: "urn:other:thing"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.key))
		})
	}
}

func TestSourceTypeName(t *testing.T) {
	assert.Equal(t, "taxonomy", SourceTypeName("urn:taxonomy:products"))
	assert.Equal(t, "semantic-model", SourceTypeName("urn:semantic-model:crm"))
	assert.Equal(t, "schema", SourceTypeName("urn:schema:skos"))
	assert.Equal(t, "glossary", SourceTypeName("urn:glossary:finance"))
	assert.Equal(t, "entity-links", SourceTypeName(SemanticLinksKey))
	assert.Equal(t, "unknown", SourceTypeName("urn:whatever"))
}
