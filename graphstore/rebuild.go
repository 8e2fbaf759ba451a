package graphstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Report summarizes one rebuild pass for logging and metrics.
type Report struct {
	Generation uint64           `json:"generation"`
	Loaded     []string         `json:"loaded"`
	Failed     map[string]error `json:"-"`
	Triples    int              `json:"triples"`
	Duration   time.Duration    `json:"duration"`
}

// maxParallelLoads bounds how many source documents parse concurrently.
const maxParallelLoads = 8

// Rebuild produces the next GraphStore generation from the given sources.
//
// Every source item parses in isolation: a failed item is logged and
// skipped, producing no context and leaking no triples, and never aborts the
// pass. The returned store is complete and internally consistent; the caller
// (normally Holder.Replace) is responsible for publishing it.
func Rebuild(ctx context.Context, generation uint64, sources Sources, logger *slog.Logger) (*GraphStore, *Report) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	var mu sync.Mutex
	contexts := make(map[string]*Context)
	failed := make(map[string]error)

	add := func(c *Context) {
		mu.Lock()
		contexts[c.Key] = c
		mu.Unlock()
	}
	fail := func(key string, err error) {
		mu.Lock()
		failed[key] = err
		mu.Unlock()
		logger.Warn("skipping source that failed to parse",
			"context", key, "generation", generation, "error", err)
	}

	var g errgroup.Group
	g.SetLimit(maxParallelLoads)

	for _, f := range sources.TaxonomyFiles {
		f := f
		g.Go(func() error {
			c, err := loadTaxonomyFile(f)
			if err != nil {
				fail(taxonomyFailureKey(f), err)
				return nil
			}
			add(c)
			return nil
		})
	}

	for _, row := range sources.Definitions {
		if !row.Enabled {
			continue
		}
		row := row
		g.Go(func() error {
			c, err := loadDefinition(row)
			if err != nil {
				fail("urn:semantic-model:"+row.Name, err)
				return nil
			}
			add(c)
			return nil
		})
	}

	for _, f := range sources.SchemaFiles {
		f := f
		g.Go(func() error {
			c, err := loadSchemaFile(f)
			if err != nil {
				fail(schemaFailureKey(f), err)
				return nil
			}
			add(c)
			return nil
		})
	}

	// Loader goroutines contain their own failures, so the group never
	// carries an error.
	_ = g.Wait()

	// Glossary extraction runs after the parallel parses; an extractor error
	// is contained like any other source failure.
	if sources.Glossary != nil {
		glossaries, err := sources.Glossary.GlossaryTriples(ctx)
		if err != nil {
			fail("urn:glossary:*", err)
		} else {
			for name, triples := range glossaries {
				add(loadGlossary(name, triples))
			}
		}
	}

	add(buildLinksContext(sources.Links))

	gs := newGraphStore(generation, contexts)
	report := &Report{
		Generation: generation,
		Loaded:     gs.ContextKeys(),
		Failed:     failed,
		Triples:    gs.TripleCount(),
		Duration:   time.Since(start),
	}

	logger.Info("graph rebuilt",
		"generation", generation,
		"build_id", gs.BuildID().String(),
		"contexts", gs.ContextCount(),
		"triples", gs.TripleCount(),
		"failed_sources", len(failed),
		"duration", report.Duration)

	return gs, report
}

func taxonomyFailureKey(f FileSource) string {
	return "urn:taxonomy:" + sourceName(f.Path)
}

func schemaFailureKey(f FileSource) string {
	return "urn:schema:" + sourceName(f.Path)
}
