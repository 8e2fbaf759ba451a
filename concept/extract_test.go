package concept

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larsgeorge/ontos-sub001/graphstore"
)

// buildStore rebuilds a store from in-memory taxonomy documents keyed by
// file path.
func buildStore(t *testing.T, files map[string]string) *graphstore.GraphStore {
	t.Helper()
	var sources graphstore.Sources
	for path, text := range files {
		sources.TaxonomyFiles = append(sources.TaxonomyFiles, graphstore.FileSource{Path: path, Text: text})
	}
	gs, report := graphstore.Rebuild(context.Background(), 1, sources, nil)
	require.Empty(t, report.Failed)
	return gs
}

const subclassDoc = `
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
<urn:x:Foo> a rdfs:Class ;
    rdfs:subClassOf <urn:x:Bar> .
<urn:x:Bar> a rdfs:Class .
`

func conceptByIRI(concepts []*Concept, iri string) *Concept {
	for _, c := range concepts {
		if c.IRI == iri {
			return c
		}
	}
	return nil
}

func TestExtractSubclassHierarchyPerContext(t *testing.T) {
	gs := buildStore(t, map[string]string{
		"taxonomies/one.ttl": subclassDoc,
		"taxonomies/two.ttl": subclassDoc,
	})

	all := NewExtractor(gs).AllConcepts()

	var foos, bars []*Concept
	for _, c := range all {
		switch c.IRI {
		case "urn:x:Foo":
			foos = append(foos, c)
		case "urn:x:Bar":
			bars = append(bars, c)
		}
	}

	require.Len(t, foos, 2, "one Foo concept per source context")
	require.Len(t, bars, 2)

	for _, foo := range foos {
		assert.Equal(t, TypeClass, foo.Type)
		assert.Equal(t, []string{"urn:x:Bar"}, foo.Parents)
	}
	for _, bar := range bars {
		assert.Equal(t, []string{"urn:x:Foo"}, bar.Children)
		assert.Empty(t, bar.Parents)
	}

	contexts := map[string]bool{}
	for _, foo := range foos {
		contexts[foo.SourceContext] = true
	}
	assert.Len(t, contexts, 2, "concepts keep their own source context")
}

func TestExtractEligibilityRules(t *testing.T) {
	gs := buildStore(t, map[string]string{
		"taxonomies/mixed.ttl": `
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
<urn:x:Klass> a rdfs:Class .
<urn:x:Term> a skos:Concept .
<urn:x:alice> a <urn:x:Person> .
<urn:x:documented> rdfs:label "Documented" ;
    rdfs:comment "Has both label and comment." .
<urn:x:labelOnly> rdfs:label "Just a label" .
<urn:x:orphan> <urn:x:relates> <urn:x:other> .
`,
	})

	concepts := NewExtractor(gs).ConceptsForContext("urn:taxonomy:mixed")

	tests := []struct {
		iri      string
		want     bool
		wantType Type
	}{
		{"urn:x:Klass", true, TypeClass},
		{"urn:x:Term", true, TypeConcept},
		{"urn:x:Person", true, TypeIndividual},  // rdf:type target
		{"urn:x:alice", false, ""},              // typed, but not itself a target
		{"urn:x:documented", true, TypeIndividual},
		{"urn:x:labelOnly", false, ""},
		{"urn:x:orphan", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.iri, func(t *testing.T) {
			c := conceptByIRI(concepts, tt.iri)
			if !tt.want {
				assert.Nil(t, c)
				return
			}
			require.NotNil(t, c)
			assert.Equal(t, tt.wantType, c.Type)
		})
	}

	alice := conceptByIRI(concepts, "urn:x:alice")
	assert.Nil(t, alice)
	person := conceptByIRI(concepts, "urn:x:Person")
	require.NotNil(t, person)
	assert.Empty(t, person.Children, "ineligible instances do not become children")
}

func TestExtractReservedNamespaceExclusion(t *testing.T) {
	gs := buildStore(t, map[string]string{
		"taxonomies/reserved.ttl": `
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
<http://www.w3.org/2000/01/rdf-schema#Resource> a rdfs:Class ;
    rdfs:label "Resource" ;
    rdfs:comment "Structural vocabulary, never surfaced." .
<http://www.w3.org/2004/02/skos/core#Concept> a rdfs:Class .
<urn:x:Mine> a rdfs:Class .
`,
	})

	concepts := NewExtractor(gs).AllConcepts()

	require.Len(t, concepts, 1)
	assert.Equal(t, "urn:x:Mine", concepts[0].IRI)
}

func TestExtractLabelsAndComments(t *testing.T) {
	gs := buildStore(t, map[string]string{
		"taxonomies/doc.ttl": `
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
<urn:x:A> a skos:Concept ;
    skos:prefLabel "Preferred" ;
    skos:definition "A definition." .
<urn:x:B> a rdfs:Class ;
    rdfs:label "First" ;
    rdfs:label "Second" .
`,
	})

	concepts := NewExtractor(gs).ConceptsForContext("urn:taxonomy:doc")

	a := conceptByIRI(concepts, "urn:x:A")
	require.NotNil(t, a)
	assert.Equal(t, "Preferred", a.Label)
	assert.Equal(t, "A definition.", a.Comment)

	b := conceptByIRI(concepts, "urn:x:B")
	require.NotNil(t, b)
	assert.Equal(t, "First", b.Label, "first label wins")
}

func TestExtractBroaderParent(t *testing.T) {
	gs := buildStore(t, map[string]string{
		"taxonomies/skos.ttl": `
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
<urn:x:narrow> a skos:Concept ;
    skos:broader <urn:x:wide> .
<urn:x:wide> a skos:Concept .
`,
	})

	concepts := NewExtractor(gs).ConceptsForContext("urn:taxonomy:skos")

	narrow := conceptByIRI(concepts, "urn:x:narrow")
	require.NotNil(t, narrow)
	assert.Equal(t, []string{"urn:x:wide"}, narrow.Parents)

	wide := conceptByIRI(concepts, "urn:x:wide")
	require.NotNil(t, wide)
	assert.Equal(t, []string{"urn:x:narrow"}, wide.Children)
}

func TestExtractDeterministic(t *testing.T) {
	files := map[string]string{
		"taxonomies/one.ttl": subclassDoc,
		"taxonomies/two.ttl": subclassDoc,
	}
	gs := buildStore(t, files)
	ex := NewExtractor(gs)

	first := ex.AllConcepts()
	second := ex.AllConcepts()

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].IRI, second[i].IRI)
		assert.Equal(t, first[i].ContextKey(), second[i].ContextKey())
		assert.Equal(t, first[i].Parents, second[i].Parents)
		assert.Equal(t, first[i].Children, second[i].Children)
	}
}

func TestConceptTypeValidity(t *testing.T) {
	assert.True(t, TypeClass.IsValid())
	assert.True(t, TypeConcept.IsValid())
	assert.True(t, TypeIndividual.IsValid())
	assert.False(t, Type("other").IsValid())
	assert.Equal(t, "class", TypeClass.String())
}
