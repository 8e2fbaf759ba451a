package graphstore

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/larsgeorge/ontos-sub001/rdf"
)

// GraphStore is one immutable generation of the unified graph: the set of
// contexts produced by a single rebuild pass plus precomputed indexes over
// their union. Instances are never mutated after construction; a rebuild
// builds the next generation off to the side and publishes it through a
// Holder with a single pointer swap.
type GraphStore struct {
	generation uint64
	buildID    uuid.UUID

	contexts    map[string]*Context
	contextKeys []string // sorted, for deterministic iteration

	predicates  map[string]struct{}
	tripleCount int
}

// newGraphStore assembles a generation from loaded contexts and computes the
// union indexes.
func newGraphStore(generation uint64, contexts map[string]*Context) *GraphStore {
	gs := &GraphStore{
		generation: generation,
		buildID:    uuid.New(),
		contexts:   contexts,
		predicates: make(map[string]struct{}),
	}
	for key, c := range contexts {
		gs.contextKeys = append(gs.contextKeys, key)
		gs.tripleCount += len(c.Triples)
		for _, t := range c.Triples {
			gs.predicates[t.Predicate.Value] = struct{}{}
		}
	}
	sort.Strings(gs.contextKeys)
	return gs
}

// Empty returns a graph store with no contexts, used as the pre-first-rebuild
// generation so readers never observe a nil store.
func Empty() *GraphStore {
	return newGraphStore(0, map[string]*Context{})
}

// Generation returns the rebuild generation counter.
func (gs *GraphStore) Generation() uint64 {
	return gs.generation
}

// BuildID returns the unique identifier minted for this generation.
func (gs *GraphStore) BuildID() uuid.UUID {
	return gs.buildID
}

// Context returns the context for a key, or nil when the key is unknown.
func (gs *GraphStore) Context(key string) *Context {
	return gs.contexts[key]
}

// ContextKeys returns all context keys in sorted order.
func (gs *GraphStore) ContextKeys() []string {
	keys := make([]string, len(gs.contextKeys))
	copy(keys, gs.contextKeys)
	return keys
}

// ContextCount returns the number of contexts in this generation.
func (gs *GraphStore) ContextCount() int {
	return len(gs.contexts)
}

// TripleCount returns the size of the union graph.
func (gs *GraphStore) TripleCount() int {
	return gs.tripleCount
}

// HasPredicate reports whether an IRI occurs in predicate position anywhere
// in the union graph. This backs the resource/property classification used
// by lexical search and neighbor exploration.
func (gs *GraphStore) HasPredicate(iri string) bool {
	_, ok := gs.predicates[iri]
	return ok
}

// EachTriple walks the union graph in deterministic context-key order,
// invoking fn for every triple with its owning context key. Iteration stops
// early when fn returns false.
func (gs *GraphStore) EachTriple(fn func(contextKey string, t rdf.Triple) bool) {
	for _, key := range gs.contextKeys {
		for _, t := range gs.contexts[key].Triples {
			if !fn(key, t) {
				return
			}
		}
	}
}

// EachContextTriple walks one context's triples, or does nothing for an
// unknown key. Iteration stops early when fn returns false.
func (gs *GraphStore) EachContextTriple(key string, fn func(t rdf.Triple) bool) {
	c := gs.contexts[key]
	if c == nil {
		return
	}
	for _, t := range c.Triples {
		if !fn(t) {
			return
		}
	}
}

// Holder is the single swappable reference through which readers observe the
// current generation. Reads never block: a reader acquires a generation once
// and works against it to completion while rebuilds publish successors.
// Rebuilds serialize among themselves via the mutex.
type Holder struct {
	ptr atomic.Pointer[GraphStore]

	// rebuildMu serializes Swap callers performing read-modify-publish
	// sequences (generation increments).
	rebuildMu sync.Mutex
}

// NewHolder creates a holder publishing the empty generation.
func NewHolder() *Holder {
	h := &Holder{}
	h.ptr.Store(Empty())
	return h
}

// Store returns the currently published generation.
func (h *Holder) Store() *GraphStore {
	return h.ptr.Load()
}

// Replace runs build under the rebuild lock, passing the next generation
// number, and atomically publishes its result. The previous generation
// remains fully usable by readers that already acquired it.
func (h *Holder) Replace(build func(nextGeneration uint64) (*GraphStore, error)) (*GraphStore, error) {
	h.rebuildMu.Lock()
	defer h.rebuildMu.Unlock()

	next, err := build(h.ptr.Load().generation + 1)
	if err != nil {
		return nil, err
	}
	h.ptr.Store(next)
	return next, nil
}
