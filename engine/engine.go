// Package engine is the facade over the knowledge-graph core: it owns the
// published GraphStore, drives rebuilds from the configured sources, and
// exposes the query, search, and taxonomy operations the service and CLI
// layers wire up.
package engine

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/larsgeorge/ontos-sub001/concept"
	"github.com/larsgeorge/ontos-sub001/config"
	"github.com/larsgeorge/ontos-sub001/errors"
	"github.com/larsgeorge/ontos-sub001/graphstore"
	"github.com/larsgeorge/ontos-sub001/metric"
	"github.com/larsgeorge/ontos-sub001/search"
	"github.com/larsgeorge/ontos-sub001/sparql"
	"github.com/larsgeorge/ontos-sub001/storage"
	"github.com/larsgeorge/ontos-sub001/vocabulary"
)

// LinkProvider supplies governance link rows for the semantic-links context.
type LinkProvider interface {
	Links(ctx context.Context) ([]graphstore.LinkRow, error)
}

// LinkProviderFunc adapts a function to the LinkProvider interface.
type LinkProviderFunc func(ctx context.Context) ([]graphstore.LinkRow, error)

// Links implements LinkProvider.
func (f LinkProviderFunc) Links(ctx context.Context) ([]graphstore.LinkRow, error) {
	return f(ctx)
}

// Options carries the engine's collaborators. Every field is optional; a
// zero Options yields an engine with empty sources and default limits.
type Options struct {
	// TaxonomyDir holds taxonomy files read on every rebuild.
	TaxonomyDir string
	// SchemaDir holds built-in schema files, always loaded.
	SchemaDir string
	// Definitions supplies uploaded semantic model rows.
	Definitions storage.DefinitionStore
	// Glossary supplies glossary-derived triples.
	Glossary graphstore.GlossaryExtractor
	// Links supplies governance link rows.
	Links LinkProvider
	// Limits carries the query safety limits; zero values use defaults.
	Limits config.EngineConfig
	// Metrics receives engine metrics. Nil disables recording.
	Metrics *metric.Metrics
	// Logger receives engine logs. Nil falls back to slog.Default.
	Logger *slog.Logger
}

// Engine owns the published graph and serves all read operations against
// it. Reads never block on rebuilds; rebuilds are serialized.
type Engine struct {
	holder      *graphstore.Holder
	taxonomyDir string
	schemaDir   string
	definitions storage.DefinitionStore
	glossary    graphstore.GlossaryExtractor
	links       LinkProvider
	executor    *sparql.Executor
	metrics     *metric.Metrics
	logger      *slog.Logger
}

// New creates an engine. No sources are read until the first Rebuild.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	executor := &sparql.Executor{
		MaxResults: opts.Limits.MaxResults,
		MaxTimeout: opts.Limits.QueryTimeout.Std(),
		Logger:     logger,
	}
	if opts.Limits.RateLimit > 0 {
		burst := opts.Limits.RateBurst
		if burst <= 0 {
			burst = config.DefaultRateBurst
		}
		executor.Limiter = rate.NewLimiter(rate.Limit(opts.Limits.RateLimit), burst)
	}

	return &Engine{
		holder:      graphstore.NewHolder(),
		taxonomyDir: opts.TaxonomyDir,
		schemaDir:   opts.SchemaDir,
		definitions: opts.Definitions,
		glossary:    opts.Glossary,
		links:       opts.Links,
		executor:    executor,
		metrics:     opts.Metrics,
		logger:      logger,
	}
}

// Store returns the currently published graph generation.
func (e *Engine) Store() *graphstore.GraphStore {
	return e.holder.Store()
}

// Rebuild gathers all sources and publishes a new graph generation.
// Individual source failures are contained and reported; only a failure to
// reach a collaborator at all fails the rebuild.
func (e *Engine) Rebuild(ctx context.Context) (*graphstore.Report, error) {
	start := time.Now()

	sources, err := e.gatherSources(ctx)
	if err != nil {
		return nil, err
	}

	var report *graphstore.Report
	store, err := e.holder.Replace(func(nextGeneration uint64) (*graphstore.GraphStore, error) {
		var gs *graphstore.GraphStore
		gs, report = graphstore.Rebuild(ctx, nextGeneration, sources, e.logger)
		return gs, nil
	})
	if err != nil {
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.RecordRebuild(store.Generation(), len(report.Failed), time.Since(start))
		contextTriples := make(map[string]int, store.ContextCount())
		for _, key := range store.ContextKeys() {
			contextTriples[key] = store.Context(key).TripleCount()
		}
		e.metrics.RecordGraphShape(contextTriples, store.TripleCount())
	}
	return report, nil
}

// gatherSources reads the configured directories and collaborators into a
// Sources value. Directory reads and collaborator calls that fail entirely
// abort the rebuild; per-file parse failures are handled downstream.
func (e *Engine) gatherSources(ctx context.Context) (graphstore.Sources, error) {
	var sources graphstore.Sources

	taxonomies, err := readSourceDir(e.taxonomyDir)
	if err != nil {
		return sources, errors.WrapTransient(err, "Engine", "Rebuild", "read taxonomy directory")
	}
	sources.TaxonomyFiles = taxonomies

	schemas, err := readSourceDir(e.schemaDir)
	if err != nil {
		return sources, errors.WrapTransient(err, "Engine", "Rebuild", "read schema directory")
	}
	sources.SchemaFiles = schemas

	if e.definitions != nil {
		rows, err := e.definitions.Definitions(ctx)
		if err != nil {
			return sources, errors.WrapTransient(err, "Engine", "Rebuild", "fetch definitions")
		}
		sources.Definitions = rows
	}
	if e.links != nil {
		rows, err := e.links.Links(ctx)
		if err != nil {
			return sources, errors.WrapTransient(err, "Engine", "Rebuild", "fetch links")
		}
		sources.Links = rows
	}
	sources.Glossary = e.glossary

	return sources, nil
}

// readSourceDir loads every regular file in a source directory. An empty
// path yields no sources; a missing directory is an error.
func readSourceDir(dir string) ([]graphstore.FileSource, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []graphstore.FileSource
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		text, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, graphstore.FileSource{Path: path, Text: string(text)})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Query runs a read-only pattern query against the published graph.
func (e *Engine) Query(ctx context.Context, text string, maxResults int, timeout time.Duration) ([]sparql.Row, error) {
	start := time.Now()
	rows, err := e.executor.Query(ctx, e.holder.Store(), text, maxResults, timeout)
	if e.metrics != nil {
		e.metrics.RecordQuery(queryOutcome(err), time.Since(start))
	}
	return rows, err
}

func queryOutcome(err error) string {
	switch {
	case err == nil:
		return metric.QueryOutcomeOK
	case errors.IsValidation(err):
		return metric.QueryOutcomeValidation
	case errors.IsTimeout(err):
		return metric.QueryOutcomeTimeout
	case stderrors.Is(err, errors.ErrQueryRateLimit):
		return metric.QueryOutcomeRateLimit
	default:
		return metric.QueryOutcomeExecution
	}
}

// PrefixSearch finds resource and property terms containing a
// case-insensitive substring.
func (e *Engine) PrefixSearch(substr string, limit int) []search.Hit {
	if e.metrics != nil {
		e.metrics.RecordSearch("prefix")
	}
	return search.Prefix(e.holder.Store(), substr, limit)
}

// SearchConcepts runs a relevance-ranked concept search, optionally scoped
// to one taxonomy display name.
func (e *Engine) SearchConcepts(text, taxonomy string, limit int) []concept.SearchResult {
	if e.metrics != nil {
		e.metrics.RecordSearch("concept")
	}
	return concept.Search(e.conceptsFor(taxonomy), text, limit)
}

// GetTaxonomies returns one summary row per context.
func (e *Engine) GetTaxonomies() []concept.Taxonomy {
	return concept.NewExtractor(e.holder.Store()).Taxonomies()
}

// GetConceptsByTaxonomy returns the concepts of one taxonomy, or of every
// context when the name is empty.
func (e *Engine) GetConceptsByTaxonomy(taxonomy string) []concept.Concept {
	concepts := e.conceptsFor(taxonomy)
	out := make([]concept.Concept, len(concepts))
	for i, c := range concepts {
		out[i] = *c
	}
	return out
}

// GetConceptDetails returns the first concept with the given IRI, or nil
// when the IRI names no concept.
func (e *Engine) GetConceptDetails(iri string) *concept.Concept {
	return concept.NewIndex(e.allConcepts()).Lookup(iri)
}

// GetConceptHierarchy returns the ancestor/descendant/sibling view for one
// IRI, or nil when the IRI names no concept.
func (e *Engine) GetConceptHierarchy(iri string) *concept.Hierarchy {
	return concept.NewIndex(e.allConcepts()).Hierarchy(iri)
}

// Neighbors enumerates the edges directly connected to a resource.
func (e *Engine) Neighbors(iri string, limit int) []concept.Neighbor {
	return concept.Neighbors(e.holder.Store(), iri, limit)
}

// GetTaxonomyStats aggregates totals across all taxonomies.
func (e *Engine) GetTaxonomyStats() concept.TaxonomyStats {
	return concept.NewExtractor(e.holder.Store()).Stats()
}

func (e *Engine) allConcepts() []*concept.Concept {
	return concept.NewExtractor(e.holder.Store()).AllConcepts()
}

// conceptsFor resolves a taxonomy display name to its concept set. The
// name matches the context key minus its scheme prefix, so "products"
// selects "urn:taxonomy:products" or "urn:semantic-model:products".
func (e *Engine) conceptsFor(taxonomy string) []*concept.Concept {
	store := e.holder.Store()
	extractor := concept.NewExtractor(store)
	if strings.TrimSpace(taxonomy) == "" {
		return extractor.AllConcepts()
	}
	for _, key := range store.ContextKeys() {
		if vocabulary.DisplayName(key) == taxonomy {
			return extractor.ConceptsForContext(key)
		}
	}
	return nil
}
