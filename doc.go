// Package ontos provides an in-memory, multi-source knowledge-graph engine.
//
// Sources (taxonomy files, uploaded semantic model definitions, built-in
// schemas, glossary terms, governance links) are parsed into named
// contexts, combined into an immutable union graph, and served through
// read-only pattern queries, lexical search, and derived concept,
// hierarchy, and taxonomy views.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│            Engine facade            │  rebuild, query, search,
//	│            (engine)                 │  taxonomy operations
//	└─────────────────────────────────────┘
//	           ↓ reads
//	┌─────────────────────────────────────┐
//	│          GraphStore                 │  immutable generations,
//	│         (graphstore)                │  atomic publish
//	└─────────────────────────────────────┘
//	           ↑ built from
//	┌─────────────────────────────────────┐
//	│        Sources & parsers            │  Turtle, RDF/XML,
//	│     (rdf, glossary, storage)        │  definitions, links
//	└─────────────────────────────────────┘
//
// Rebuilds construct the next generation off to the side and publish it
// with a single pointer swap: readers never block and never observe a
// partially built graph. Per-source parse failures are contained; the
// rebuild serves whatever loaded successfully.
//
// The derived layers (sparql, search, concept) operate on one acquired
// generation and are deterministic for it. The service package exposes the
// engine over NATS; cmd/ontos is the CLI entry point.
package ontos
