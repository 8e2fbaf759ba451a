package rdf

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermEquality(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Term
		equal bool
	}{
		{
			name:  "identical IRIs",
			a:     IRI("urn:x:Person"),
			b:     IRI("urn:x:Person"),
			equal: true,
		},
		{
			name:  "different IRIs",
			a:     IRI("urn:x:Person"),
			b:     IRI("urn:x:Agent"),
			equal: false,
		},
		{
			name:  "IRI vs literal with same value",
			a:     IRI("urn:x:Person"),
			b:     Literal("urn:x:Person"),
			equal: false,
		},
		{
			name:  "plain vs typed literal",
			a:     Literal("42"),
			b:     TypedLiteral("42", xsdInteger),
			equal: false,
		},
		{
			name:  "blank nodes by id",
			a:     Blank("b1"),
			b:     Blank("b1"),
			equal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
		})
	}
}

func TestTermString(t *testing.T) {
	assert.Equal(t, "urn:x:Person", IRI("urn:x:Person").String())
	assert.Equal(t, "hello", Literal("hello").String())
	assert.Equal(t, "_:b7", Blank("b7").String())
}

func TestTermNTriples(t *testing.T) {
	assert.Equal(t, "<urn:x:Person>", IRI("urn:x:Person").NTriples())
	assert.Equal(t, `"hi"`, Literal("hi").NTriples())
	assert.Equal(t, `"hi"@en`, TypedLiteral("hi", "en").NTriples())
	assert.Equal(t, `"42"^^<`+xsdInteger+`>`, TypedLiteral("42", xsdInteger).NTriples())
}

func TestTermJSONRoundTrip(t *testing.T) {
	for _, term := range []Term{
		IRI("urn:x:Person"),
		TypedLiteral("hi", "en"),
		Blank("b1"),
	} {
		data, err := json.Marshal(term)
		require.NoError(t, err)

		var decoded Term
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, term, decoded)
	}
}

func TestNewTripleValidation(t *testing.T) {
	_, err := NewTriple(Literal("x"), IRI("urn:p"), IRI("urn:o"))
	assert.Error(t, err, "literal subject must be rejected")

	_, err = NewTriple(IRI("urn:s"), Literal("p"), IRI("urn:o"))
	assert.Error(t, err, "non-IRI predicate must be rejected")

	_, err = NewTriple(Blank("b"), IRI("urn:p"), Literal("value"))
	assert.NoError(t, err, "blank subject with literal object is valid")
}
