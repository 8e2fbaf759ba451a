package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larsgeorge/ontos-sub001/graphstore"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	store.Put(graphstore.DefinitionRow{Name: "crm", Content: "<urn:a> <urn:b> <urn:c> .", Format: "ttl", Enabled: true})
	store.Put(graphstore.DefinitionRow{Name: "billing", Content: "<urn:d> <urn:e> <urn:f> .", Format: "ttl"})

	rows, err := store.Definitions(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "billing", rows[0].Name, "rows are sorted by name")
	assert.False(t, rows[0].Enabled)
	assert.True(t, rows[1].Enabled)
}

func TestMemoryStoreSetEnabled(t *testing.T) {
	store := NewMemoryStore()
	store.Put(graphstore.DefinitionRow{Name: "crm", Enabled: false})

	assert.True(t, store.SetEnabled("crm", true))
	assert.False(t, store.SetEnabled("missing", true))

	rows, err := store.Definitions(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Enabled)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	store.Put(graphstore.DefinitionRow{Name: "crm"})
	store.Delete("crm")
	store.Delete("missing")

	rows, err := store.Definitions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
