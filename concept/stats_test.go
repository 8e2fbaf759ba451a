package concept

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larsgeorge/ontos-sub001/graphstore"
)

func statsStore(t *testing.T) *graphstore.GraphStore {
	t.Helper()
	sources := graphstore.Sources{
		TaxonomyFiles: []graphstore.FileSource{
			{Path: "taxonomies/animals.ttl", Text: `
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
<urn:a:scheme> a skos:ConceptScheme ;
    skos:definition "Animal taxonomy." .
<urn:a:Animal> a rdfs:Class .
<urn:a:Dog> a rdfs:Class ;
    rdfs:subClassOf <urn:a:Animal> .
<urn:a:hasLegs> a rdf:Property .
<urn:a:hasTail> a rdf:Property .
`},
		},
		Definitions: []graphstore.DefinitionRow{
			{Name: "crm", Format: "ttl", Enabled: true, Content: `
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
<urn:c:Lead> a skos:Concept .
`},
		},
	}
	gs, report := graphstore.Rebuild(context.Background(), 1, sources, nil)
	require.Empty(t, report.Failed)
	return gs
}

func TestTaxonomies(t *testing.T) {
	ex := NewExtractor(statsStore(t))

	rows := ex.Taxonomies()
	require.Len(t, rows, 3, "two sources plus the links context")

	byName := make(map[string]Taxonomy, len(rows))
	for _, row := range rows {
		byName[row.Name] = row
	}

	animals, ok := byName["animals"]
	require.True(t, ok)
	assert.Equal(t, "taxonomy", animals.SourceType)
	assert.Equal(t, "Animal taxonomy.", animals.Description)
	require.NotNil(t, animals.Format)
	assert.Equal(t, "turtle", *animals.Format)
	// Animal, Dog, and the scheme itself all qualify.
	assert.Equal(t, 3, animals.ConceptsCount)
	assert.Equal(t, 2, animals.PropertiesCount)

	crm, ok := byName["crm"]
	require.True(t, ok)
	assert.Equal(t, 1, crm.ConceptsCount)
	assert.Equal(t, 0, crm.PropertiesCount)
	assert.Empty(t, crm.Description)

	links, ok := byName["semantic-links"]
	require.True(t, ok)
	assert.Equal(t, 0, links.ConceptsCount)
	assert.Nil(t, links.Format, "contexts without a decoded document carry no format")
}

func TestStatsTotalsMatchTaxonomies(t *testing.T) {
	ex := NewExtractor(statsStore(t))

	rows := ex.Taxonomies()
	stats := ex.Stats()

	var concepts, properties int
	for _, row := range rows {
		concepts += row.ConceptsCount
		properties += row.PropertiesCount
	}

	assert.Equal(t, len(rows), stats.TotalTaxonomies)
	assert.Equal(t, concepts, stats.TotalConcepts)
	assert.Equal(t, properties, stats.TotalProperties)
}

func TestStatsHistogramAndTopLevel(t *testing.T) {
	stats := NewExtractor(statsStore(t)).Stats()

	assert.Equal(t, 2, stats.ConceptTypeCounts["class"])
	assert.Equal(t, 2, stats.ConceptTypeCounts["concept"], "scheme and Lead both classify as concepts")
	// Dog has a parent; Animal, the scheme, and Lead do not.
	assert.Equal(t, 3, stats.TopLevelConcepts)

	var histogramTotal int
	for _, n := range stats.ConceptTypeCounts {
		histogramTotal += n
	}
	assert.Equal(t, stats.TotalConcepts, histogramTotal)
}
