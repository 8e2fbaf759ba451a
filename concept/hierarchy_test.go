package concept

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConcepts() []*Concept {
	// thing <- animal <- dog <- puppy; cat is a sibling of dog.
	return []*Concept{
		{IRI: "urn:x:thing", Type: TypeClass, Parents: []string{}, Children: []string{"urn:x:animal"}},
		{IRI: "urn:x:animal", Type: TypeClass, Parents: []string{"urn:x:thing"}, Children: []string{"urn:x:cat", "urn:x:dog"}},
		{IRI: "urn:x:dog", Type: TypeClass, Parents: []string{"urn:x:animal"}, Children: []string{"urn:x:puppy"}},
		{IRI: "urn:x:cat", Type: TypeClass, Parents: []string{"urn:x:animal"}, Children: []string{}},
		{IRI: "urn:x:puppy", Type: TypeClass, Parents: []string{"urn:x:dog"}, Children: []string{}},
	}
}

func iris(concepts []*Concept) []string {
	out := make([]string, len(concepts))
	for i, c := range concepts {
		out[i] = c.IRI
	}
	return out
}

func TestHierarchyClosure(t *testing.T) {
	idx := NewIndex(testConcepts())

	h := idx.Hierarchy("urn:x:dog")
	require.NotNil(t, h)

	assert.Equal(t, "urn:x:dog", h.Concept.IRI)
	assert.Equal(t, []string{"urn:x:animal", "urn:x:thing"}, iris(h.Ancestors))
	assert.Equal(t, []string{"urn:x:puppy"}, iris(h.Descendants))
	assert.Equal(t, []string{"urn:x:cat"}, iris(h.Siblings))
}

func TestHierarchyRoot(t *testing.T) {
	idx := NewIndex(testConcepts())

	h := idx.Hierarchy("urn:x:thing")
	require.NotNil(t, h)

	assert.Empty(t, h.Ancestors)
	assert.Empty(t, h.Siblings, "a concept without parents has no siblings")
	assert.Equal(t, []string{"urn:x:animal", "urn:x:cat", "urn:x:dog", "urn:x:puppy"}, iris(h.Descendants))
}

func TestHierarchyUnknownIRI(t *testing.T) {
	idx := NewIndex(testConcepts())

	assert.Nil(t, idx.Hierarchy("urn:x:nothing"))
	assert.Nil(t, idx.Lookup("urn:x:nothing"))
}

func TestHierarchyCycleNoSelfAncestry(t *testing.T) {
	// a -> b -> c -> a
	concepts := []*Concept{
		{IRI: "urn:c:a", Type: TypeClass, Parents: []string{"urn:c:b"}, Children: []string{"urn:c:c"}},
		{IRI: "urn:c:b", Type: TypeClass, Parents: []string{"urn:c:c"}, Children: []string{"urn:c:a"}},
		{IRI: "urn:c:c", Type: TypeClass, Parents: []string{"urn:c:a"}, Children: []string{"urn:c:b"}},
	}
	idx := NewIndex(concepts)

	for _, c := range concepts {
		h := idx.Hierarchy(c.IRI)
		require.NotNil(t, h)
		assert.NotContains(t, iris(h.Ancestors), c.IRI, "cycle must not reintroduce the subject")
		assert.NotContains(t, iris(h.Descendants), c.IRI)
		assert.Len(t, h.Ancestors, 2, "the rest of the cycle is still reachable")
		assert.Len(t, h.Descendants, 2)
	}
}

func TestHierarchyMultipleParents(t *testing.T) {
	concepts := []*Concept{
		{IRI: "urn:m:base", Type: TypeClass, Parents: []string{}, Children: []string{"urn:m:left", "urn:m:right"}},
		{IRI: "urn:m:left", Type: TypeClass, Parents: []string{"urn:m:base"}, Children: []string{"urn:m:joined"}},
		{IRI: "urn:m:right", Type: TypeClass, Parents: []string{"urn:m:base"}, Children: []string{"urn:m:joined"}},
		{IRI: "urn:m:joined", Type: TypeClass, Parents: []string{"urn:m:left", "urn:m:right"}, Children: []string{}},
	}
	idx := NewIndex(concepts)

	h := idx.Hierarchy("urn:m:joined")
	require.NotNil(t, h)
	assert.Equal(t, []string{"urn:m:base", "urn:m:left", "urn:m:right"}, iris(h.Ancestors),
		"diamond ancestors are deduplicated")
	assert.Empty(t, h.Siblings)
}
