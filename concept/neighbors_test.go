package concept

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larsgeorge/ontos-sub001/rdf"
)

const neighborsDoc = `
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
<urn:x:Person> rdfs:subClassOf <urn:x:Agent> ;
    rdfs:label "Person" .
<urn:x:Employee> rdfs:subClassOf <urn:x:Person> .
<urn:x:alice> <urn:x:knows> <urn:x:bob> .
`

func findNeighbor(neighbors []Neighbor, direction Direction, predicate, display string) *Neighbor {
	for i := range neighbors {
		n := neighbors[i]
		if n.Direction == direction && n.Predicate == predicate && n.Display == display {
			return &neighbors[i]
		}
	}
	return nil
}

func TestNeighborsOutgoing(t *testing.T) {
	gs := buildStore(t, map[string]string{"taxonomies/n.ttl": neighborsDoc})

	neighbors := Neighbors(gs, "urn:x:Person", 0)

	subclass := "http://www.w3.org/2000/01/rdf-schema#subClassOf"
	out := findNeighbor(neighbors, DirectionOutgoing, subclass, "urn:x:Agent")
	require.NotNil(t, out)
	assert.Equal(t, DisplayResource, out.DisplayType)
	assert.Equal(t, "urn:x:Agent", out.StepIRI)
	assert.True(t, out.StepIsResource)

	// Exactly one outgoing subclass edge, even though the triple also
	// surfaces in other directions.
	count := 0
	for _, n := range neighbors {
		if n.Direction == DirectionOutgoing && n.Predicate == subclass {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestNeighborsSymmetry(t *testing.T) {
	gs := buildStore(t, map[string]string{"taxonomies/n.ttl": neighborsDoc})

	gs.EachTriple(func(_ string, tr rdf.Triple) bool {
		if tr.Subject.Kind != rdf.KindIRI || tr.Object.Kind != rdf.KindIRI {
			return true
		}
		fromSubject := Neighbors(gs, tr.Subject.Value, 0)
		assert.NotNil(t, findNeighbor(fromSubject, DirectionOutgoing, tr.Predicate.Value, tr.Object.Value),
			"subject %s must see outgoing edge", tr.Subject.Value)

		fromObject := Neighbors(gs, tr.Object.Value, 0)
		assert.NotNil(t, findNeighbor(fromObject, DirectionIncoming, tr.Predicate.Value, tr.Subject.Value),
			"object %s must see incoming edge", tr.Object.Value)
		return true
	})
}

func TestNeighborsLiteralDisplay(t *testing.T) {
	gs := buildStore(t, map[string]string{"taxonomies/n.ttl": neighborsDoc})

	neighbors := Neighbors(gs, "urn:x:Person", 0)
	label := findNeighbor(neighbors, DirectionOutgoing, "http://www.w3.org/2000/01/rdf-schema#label", "Person")
	require.NotNil(t, label)
	assert.Equal(t, DisplayLiteral, label.DisplayType)
	assert.Empty(t, label.StepIRI)
	assert.False(t, label.StepIsResource)
}

func TestNeighborsPredicateUsage(t *testing.T) {
	gs := buildStore(t, map[string]string{"taxonomies/n.ttl": neighborsDoc})

	neighbors := Neighbors(gs, "urn:x:knows", 0)

	subj := findNeighbor(neighbors, DirectionPredicateUsage, "urn:x:knows", "urn:x:alice")
	obj := findNeighbor(neighbors, DirectionPredicateUsage, "urn:x:knows", "urn:x:bob")
	require.NotNil(t, subj, "predicate usage emits the subject end")
	require.NotNil(t, obj, "predicate usage emits the object end")
}

func TestNeighborsPropertyDisplayType(t *testing.T) {
	gs := buildStore(t, map[string]string{
		"taxonomies/p.ttl": `
<urn:x:a> <urn:x:rel> <urn:x:b> .
<urn:x:c> <urn:x:points> <urn:x:rel> .
`,
	})

	neighbors := Neighbors(gs, "urn:x:c", 0)
	rel := findNeighbor(neighbors, DirectionOutgoing, "urn:x:points", "urn:x:rel")
	require.NotNil(t, rel)
	assert.Equal(t, DisplayProperty, rel.DisplayType, "IRIs used as predicates classify as properties")
}

func TestNeighborsLimitStopsScan(t *testing.T) {
	gs := buildStore(t, map[string]string{"taxonomies/n.ttl": neighborsDoc})

	neighbors := Neighbors(gs, "urn:x:Person", 1)
	assert.Len(t, neighbors, 1)

	all := Neighbors(gs, "urn:x:Person", 0)
	assert.Greater(t, len(all), 1)
}

func TestNeighborsUnknownIRI(t *testing.T) {
	gs := buildStore(t, map[string]string{"taxonomies/n.ttl": neighborsDoc})

	assert.Empty(t, Neighbors(gs, "urn:x:missing", 0))
	assert.Empty(t, Neighbors(gs, "", 0))
	assert.Empty(t, Neighbors(nil, "urn:x:Person", 0))
}
