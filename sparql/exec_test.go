package sparql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	enginerrors "github.com/larsgeorge/ontos-sub001/errors"
	"github.com/larsgeorge/ontos-sub001/graphstore"
)

const testGraphDoc = `
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix ex: <urn:x:> .

ex:Person a rdfs:Class ;
    rdfs:label "Person" ;
    rdfs:subClassOf ex:Agent .
ex:Agent a rdfs:Class ;
    rdfs:label "Agent" .
ex:Employee a rdfs:Class ;
    rdfs:subClassOf ex:Person .
`

func testStore(t *testing.T) *graphstore.GraphStore {
	t.Helper()
	gs, report := graphstore.Rebuild(context.Background(), 1, graphstore.Sources{
		TaxonomyFiles: []graphstore.FileSource{{Path: "people.ttl", Text: testGraphDoc}},
	}, nil)
	require.Empty(t, report.Failed)
	return gs
}

func value(t *testing.T, row Row, name string) string {
	t.Helper()
	v, ok := row[name]
	require.True(t, ok, "row missing variable %s", name)
	require.NotNil(t, v, "variable %s unbound", name)
	return *v
}

func TestSelectBindings(t *testing.T) {
	ex := &Executor{}
	rows, err := ex.Query(context.Background(), testStore(t), `
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
SELECT ?sub ?super WHERE { ?sub rdfs:subClassOf ?super }
`, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	got := make(map[string]string)
	for _, row := range rows {
		got[value(t, row, "sub")] = value(t, row, "super")
	}
	assert.Equal(t, map[string]string{
		"urn:x:Person":   "urn:x:Agent",
		"urn:x:Employee": "urn:x:Person",
	}, got)
}

func TestSelectJoin(t *testing.T) {
	ex := &Executor{}
	rows, err := ex.Query(context.Background(), testStore(t), `
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
SELECT ?label WHERE {
  ?cls rdfs:subClassOf <urn:x:Agent> .
  ?cls rdfs:label ?label
}
`, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Person", value(t, rows[0], "label"))
}

func TestSelectStarAndDistinct(t *testing.T) {
	ex := &Executor{}
	rows, err := ex.Query(context.Background(), testStore(t), `
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
SELECT DISTINCT * WHERE { ?cls a rdfs:Class }
`, 0, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	for _, row := range rows {
		assert.Contains(t, row, "cls")
	}
}

func TestSelectMaxResultsTruncation(t *testing.T) {
	ex := &Executor{}
	rows, err := ex.Query(context.Background(), testStore(t),
		`SELECT ?s ?p ?o WHERE { ?s ?p ?o }`, 2, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestSelectLimitClause(t *testing.T) {
	ex := &Executor{}
	rows, err := ex.Query(context.Background(), testStore(t),
		`SELECT ?s WHERE { ?s ?p ?o } LIMIT 1`, 0, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestAsk(t *testing.T) {
	ex := &Executor{}

	rows, err := ex.Query(context.Background(), testStore(t), `
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
ASK { <urn:x:Person> rdfs:subClassOf <urn:x:Agent> }
`, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "true", value(t, rows[0], "ask"))

	rows, err = ex.Query(context.Background(), testStore(t), `
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
ASK WHERE { <urn:x:Agent> rdfs:subClassOf <urn:x:Person> }
`, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "false", value(t, rows[0], "ask"))
}

func TestConstruct(t *testing.T) {
	ex := &Executor{}
	rows, err := ex.Query(context.Background(), testStore(t), `
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
CONSTRUCT { ?sub <urn:p:ancestor> ?super } WHERE { ?sub rdfs:subClassOf ?super }
`, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "urn:p:ancestor", value(t, row, "predicate"))
	}
}

func TestDescribe(t *testing.T) {
	ex := &Executor{}
	rows, err := ex.Query(context.Background(), testStore(t),
		`DESCRIBE <urn:x:Person>`, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, "urn:x:Person", value(t, row, "subject"))
	}
}

func TestUpdateFormsRejected(t *testing.T) {
	ex := &Executor{}
	tests := []struct {
		name  string
		query string
	}{
		{name: "insert data", query: `INSERT DATA { <urn:x:a> <urn:p> "v" }`},
		{name: "delete where", query: `DELETE WHERE { ?s ?p ?o }`},
		{name: "drop graph", query: `DROP GRAPH <urn:g>`},
		{name: "clear", query: `CLEAR ALL`},
		{name: "load", query: `LOAD <http://example.com/doc.ttl>`},
		{name: "case insensitive", query: `insert data { <urn:x:a> <urn:p> "v" }`},
		{name: "update after select-looking prologue", query: `PREFIX ex: <urn:x:> DELETE WHERE { ?s ?p ?o }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ex.Query(context.Background(), testStore(t), tt.query, 0, 0)
			require.Error(t, err)
			assert.True(t, enginerrors.IsValidation(err), "expected validation error, got %v", err)
			assert.Empty(t, rows, "rejected query must return zero rows")
		})
	}
}

func TestKeywordInsideDataIsAllowed(t *testing.T) {
	ex := &Executor{}
	// "DELETE" appears only inside an IRI and a literal; the query is a
	// legitimate SELECT.
	rows, err := ex.Query(context.Background(), testStore(t),
		`SELECT ?s WHERE { ?s <urn:p:DELETE> "DROP TABLE" }`, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestKeywordNamedTermsAllowed(t *testing.T) {
	ex := &Executor{}
	gs, report := graphstore.Rebuild(context.Background(), 1, graphstore.Sources{
		TaxonomyFiles: []graphstore.FileSource{{Path: "docs.ttl", Text: `
@prefix ex: <urn:x:> .
ex:Doc ex:with ex:Author .
`}},
	}, nil)
	require.Empty(t, report.Failed)

	// Vocabularies legitimately name properties after update keywords, and
	// variables may be named after them too. Only bare standalone keywords
	// are update forms.
	tests := []struct {
		name  string
		query string
	}{
		{name: "prefixed predicate", query: `PREFIX ex: <urn:x:> SELECT ?s WHERE { ?s ex:with ?o }`},
		{name: "keyword variable", query: `PREFIX ex: <urn:x:> SELECT ?delete WHERE { ?delete ex:with ?o }`},
		{name: "dollar variable", query: `PREFIX ex: <urn:x:> SELECT $add WHERE { $add ex:with ?o }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ex.Query(context.Background(), gs, tt.query, 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 1)
		})
	}
}

func TestSyntaxErrorsRejected(t *testing.T) {
	ex := &Executor{}
	tests := []struct {
		name  string
		query string
	}{
		{name: "empty", query: "   "},
		{name: "gibberish", query: "hello world"},
		{name: "unterminated group", query: `SELECT ?s WHERE { ?s ?p ?o`},
		{name: "undeclared prefix", query: `SELECT ?s WHERE { ?s ex:p ?o }`},
		{name: "missing where", query: `SELECT ?s { ?s ?p ?o }`},
		{name: "bad limit", query: `SELECT ?s WHERE { ?s ?p ?o } LIMIT many`},
		{name: "unsupported filter", query: `SELECT ?s WHERE { ?s ?p ?o FILTER(?s = <urn:x>) }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ex.Query(context.Background(), testStore(t), tt.query, 0, 0)
			require.Error(t, err)
			assert.True(t, enginerrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestQueryTimeout(t *testing.T) {
	ex := &Executor{}
	// An aggressively joined pattern over the whole graph with a prepaid
	// expired deadline must abort with a timeout and no partial rows.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows, err := ex.Query(ctx, testStore(t),
		`SELECT ?a ?b ?c WHERE { ?a ?p1 ?b . ?b ?p2 ?c . ?c ?p3 ?a }`, 0, time.Nanosecond)
	require.Error(t, err)
	assert.True(t, enginerrors.IsTimeout(err), "expected timeout error, got %v", err)
	assert.Nil(t, rows, "timeout must not return partial rows")
}

func TestQueryRateLimit(t *testing.T) {
	ex := &Executor{Limiter: rate.NewLimiter(rate.Limit(1), 1)}
	store := testStore(t)

	_, err := ex.Query(context.Background(), store, `ASK { ?s ?p ?o }`, 0, 0)
	require.NoError(t, err)

	_, err = ex.Query(context.Background(), store, `ASK { ?s ?p ?o }`, 0, 0)
	assert.ErrorIs(t, err, enginerrors.ErrQueryRateLimit)
}

func TestUnboundProjectionVariable(t *testing.T) {
	ex := &Executor{}
	rows, err := ex.Query(context.Background(), testStore(t), `
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
SELECT ?cls ?missing WHERE { ?cls a rdfs:Class }
`, 1, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotNil(t, rows[0]["cls"])
	assert.Nil(t, rows[0]["missing"], "unprojected variable reports as nil")
}
