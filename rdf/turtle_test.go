package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTurtleBasic(t *testing.T) {
	doc := `
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix ex: <urn:x:> .

ex:Person a rdfs:Class ;
    rdfs:label "Person"@en ;
    rdfs:subClassOf ex:Agent .
`
	triples, err := DecodeTurtle(doc)
	require.NoError(t, err)
	require.Len(t, triples, 3)

	assert.Contains(t, triples, Triple{
		Subject:   IRI("urn:x:Person"),
		Predicate: IRI(rdfTypeIRI),
		Object:    IRI("http://www.w3.org/2000/01/rdf-schema#Class"),
	})
	assert.Contains(t, triples, Triple{
		Subject:   IRI("urn:x:Person"),
		Predicate: IRI("http://www.w3.org/2000/01/rdf-schema#label"),
		Object:    TypedLiteral("Person", "en"),
	})
	assert.Contains(t, triples, Triple{
		Subject:   IRI("urn:x:Person"),
		Predicate: IRI("http://www.w3.org/2000/01/rdf-schema#subClassOf"),
		Object:    IRI("urn:x:Agent"),
	})
}

func TestDecodeTurtleObjectList(t *testing.T) {
	doc := `
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
<urn:x:a> skos:altLabel "one", "two", "three" .
`
	triples, err := DecodeTurtle(doc)
	require.NoError(t, err)
	assert.Len(t, triples, 3)
	for _, tr := range triples {
		assert.Equal(t, IRI("urn:x:a"), tr.Subject)
	}
}

func TestDecodeTurtleLiteralForms(t *testing.T) {
	doc := `
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
<urn:x:a> <urn:p:count> 42 .
<urn:x:a> <urn:p:ratio> 0.5 .
<urn:x:a> <urn:p:active> true .
<urn:x:a> <urn:p:born> "1970-01-01"^^xsd:date .
`
	triples, err := DecodeTurtle(doc)
	require.NoError(t, err)
	require.Len(t, triples, 4)

	assert.Equal(t, TypedLiteral("42", xsdInteger), triples[0].Object)
	assert.Equal(t, TypedLiteral("0.5", xsdDecimal), triples[1].Object)
	assert.Equal(t, TypedLiteral("true", xsdBoolean), triples[2].Object)
	assert.Equal(t, TypedLiteral("1970-01-01", "http://www.w3.org/2001/XMLSchema#date"), triples[3].Object)
}

func TestDecodeTurtleBlankNodes(t *testing.T) {
	doc := `_:b1 <urn:p:knows> _:b2 .`
	triples, err := DecodeTurtle(doc)
	require.NoError(t, err)
	require.Len(t, triples, 1)
	assert.Equal(t, Blank("b1"), triples[0].Subject)
	assert.Equal(t, Blank("b2"), triples[0].Object)
}

func TestDecodeTurtleSparqlStylePrefix(t *testing.T) {
	doc := `
PREFIX ex: <urn:x:>
ex:a <urn:p:label> "a" .
`
	triples, err := DecodeTurtle(doc)
	require.NoError(t, err)
	require.Len(t, triples, 1)
	assert.Equal(t, IRI("urn:x:a"), triples[0].Subject)
}

func TestDecodeTurtleComments(t *testing.T) {
	doc := `
# full line comment
<urn:x:a> <urn:p:label> "a" . # trailing comment
`
	triples, err := DecodeTurtle(doc)
	require.NoError(t, err)
	assert.Len(t, triples, 1)
}

func TestDecodeTurtleErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "undeclared prefix", doc: `ex:a <urn:p> "v" .`},
		{name: "unterminated IRI", doc: `<urn:x:a <urn:p> "v" .`},
		{name: "unterminated literal", doc: `<urn:x:a> <urn:p> "v .`},
		{name: "anonymous blank node", doc: `<urn:x:a> <urn:p> [] .`},
		{name: "literal subject", doc: `"v" <urn:p> <urn:x:a> .`},
		{name: "missing dot", doc: `<urn:x:a> <urn:p> "v"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTurtle(tt.doc)
			assert.Error(t, err)
		})
	}
}
