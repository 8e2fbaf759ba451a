// Package storage provides the pluggable backend interface for semantic
// definitions: named documents with a format and an enabled flag, supplied
// to the graph rebuild as source rows.
//
// Implementations must be safe for concurrent use from multiple goroutines.
package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/larsgeorge/ontos-sub001/graphstore"
)

// DefinitionStore is the pluggable backend for uploaded semantic model
// definitions. The engine only reads; writes happen through whatever
// management surface owns the backend.
type DefinitionStore interface {
	// Definitions returns all definition rows, enabled or not. The rebuild
	// decides which rows participate.
	Definitions(ctx context.Context) ([]graphstore.DefinitionRow, error)
}

// MemoryStore is an in-memory DefinitionStore, used by tests and the CLI's
// file mode.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]graphstore.DefinitionRow
}

// NewMemoryStore creates an empty in-memory definition store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]graphstore.DefinitionRow)}
}

// Definitions returns a snapshot of all rows, sorted by name.
func (s *MemoryStore) Definitions(_ context.Context) ([]graphstore.DefinitionRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]graphstore.DefinitionRow, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Put stores or replaces a definition row by name.
func (s *MemoryStore) Put(row graphstore.DefinitionRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row.Name] = row
}

// SetEnabled toggles a definition's participation in rebuilds. Returns
// false when the name is unknown.
func (s *MemoryStore) SetEnabled(name string, enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[name]
	if !ok {
		return false
	}
	row.Enabled = enabled
	s.rows[name] = row
	return true
}

// Delete removes a definition row by name.
func (s *MemoryStore) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, name)
}
