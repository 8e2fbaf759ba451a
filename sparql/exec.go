package sparql

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/larsgeorge/ontos-sub001/errors"
	"github.com/larsgeorge/ontos-sub001/graphstore"
	"github.com/larsgeorge/ontos-sub001/rdf"
)

// Row is one result solution: result-variable name to stringified term
// value, nil for unbound variables.
type Row map[string]*string

// Executor runs validated queries against a GraphStore generation with
// mandatory result and time limits.
type Executor struct {
	// MaxResults is the hard cap on rows per query; caller-supplied limits
	// are clamped to it. Zero means DefaultMaxResults.
	MaxResults int
	// MaxTimeout is the hard cap on per-query execution time;
	// caller-supplied timeouts are clamped to it. Zero means DefaultTimeout.
	MaxTimeout time.Duration
	// Limiter optionally throttles query admission. Nil disables limiting.
	Limiter *rate.Limiter
	// Logger receives query outcome logs. Nil falls back to slog.Default.
	Logger *slog.Logger
}

// Default execution limits.
const (
	DefaultMaxResults = 1000
	DefaultTimeout    = 10 * time.Second
)

// deadlineCheckInterval is how many scanned triples pass between context
// deadline checks inside the match loop.
const deadlineCheckInterval = 1024

// Query validates and executes one query against the given generation.
//
// Validation failures and syntax errors reject before execution with
// ErrQueryValidation. Execution aborts with ErrQueryTimeout when the
// deadline passes (no partial rows are returned) and recovers internal
// panics into ErrQueryExecution. Result rows are capped at maxResults by
// truncating the solution stream, never by materializing an unbounded set
// first.
func (e *Executor) Query(
	ctx context.Context,
	store *graphstore.GraphStore,
	text string,
	maxResults int,
	timeout time.Duration,
) (rows []Row, err error) {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if e.Limiter != nil && !e.Limiter.Allow() {
		return nil, errors.ErrQueryRateLimit
	}

	if err := Validate(text); err != nil {
		return nil, err
	}
	q, err := parseQuery(text)
	if err != nil {
		return nil, err
	}

	maxResults = e.clampResults(maxResults)
	if q.limit > 0 && q.limit < maxResults {
		maxResults = q.limit
	}

	execCtx, cancel := context.WithTimeout(ctx, e.clampTimeout(timeout))
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("query execution panic recovered", "panic", fmt.Sprint(r))
			rows = nil
			err = fmt.Errorf("%w: internal failure: %v", errors.ErrQueryExecution, r)
		}
	}()

	start := time.Now()
	rows, err = e.run(execCtx, store, q, maxResults)
	if err != nil {
		if execCtx.Err() != nil {
			logger.Warn("query timed out", "form", q.form.String(), "elapsed", time.Since(start))
			return nil, fmt.Errorf("%w after %s", errors.ErrQueryTimeout, time.Since(start).Round(time.Millisecond))
		}
		return nil, err
	}

	logger.Debug("query executed",
		"form", q.form.String(), "rows", len(rows), "elapsed", time.Since(start))
	return rows, nil
}

func (e *Executor) clampResults(requested int) int {
	limit := e.MaxResults
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	if requested <= 0 || requested > limit {
		return limit
	}
	return requested
}

func (e *Executor) clampTimeout(requested time.Duration) time.Duration {
	limit := e.MaxTimeout
	if limit <= 0 {
		limit = DefaultTimeout
	}
	if requested <= 0 || requested > limit {
		return limit
	}
	return requested
}

// run dispatches on the query form.
func (e *Executor) run(ctx context.Context, store *graphstore.GraphStore, q *parsedQuery, maxResults int) ([]Row, error) {
	switch q.form {
	case formSelect:
		return e.runSelect(ctx, store, q, maxResults)
	case formAsk:
		return e.runAsk(ctx, store, q)
	case formConstruct:
		return e.runConstruct(ctx, store, q, maxResults)
	case formDescribe:
		return e.runDescribe(ctx, store, q, maxResults)
	default:
		return nil, fmt.Errorf("%w: unhandled query form", errors.ErrQueryExecution)
	}
}

// errStreamDone signals that the solution consumer needs no more rows.
var errStreamDone = fmt.Errorf("solution stream done")

// binding maps variable names to the terms they are bound to.
type binding map[string]rdf.Term

// matchState threads the scan counter for periodic deadline checks.
type matchState struct {
	scanned int
}

// matchPatterns enumerates all solutions of the basic graph pattern via
// depth-first backtracking, calling emit once per complete solution. emit
// returning errStreamDone stops enumeration without error.
func matchPatterns(
	ctx context.Context,
	store *graphstore.GraphStore,
	patterns []pattern,
	idx int,
	bound binding,
	state *matchState,
	emit func(binding) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if idx == len(patterns) {
		return emit(bound)
	}

	pat := patterns[idx]
	var iterErr error
	store.EachTriple(func(_ string, t rdf.Triple) bool {
		state.scanned++
		if state.scanned%deadlineCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				iterErr = err
				return false
			}
		}

		added, ok := bindTriple(pat, t, bound)
		if !ok {
			return true
		}
		err := matchPatterns(ctx, store, patterns, idx+1, bound, state, emit)
		for _, name := range added {
			delete(bound, name)
		}
		if err != nil {
			iterErr = err
			return false
		}
		return true
	})
	return iterErr
}

// bindTriple attempts to unify one pattern with one triple under the current
// bindings. On success it mutates bound in place and returns the variable
// names it newly added, for backtracking.
func bindTriple(pat pattern, t rdf.Triple, bound binding) (added []string, ok bool) {
	positions := []struct {
		pt   patTerm
		term rdf.Term
	}{
		{pat.s, t.Subject},
		{pat.p, t.Predicate},
		{pat.o, t.Object},
	}
	for _, pos := range positions {
		if pos.pt.isGround() {
			if !pos.pt.term.Equal(pos.term) {
				rollback(bound, added)
				return nil, false
			}
			continue
		}
		if existing, isBound := bound[pos.pt.name]; isBound {
			if !existing.Equal(pos.term) {
				rollback(bound, added)
				return nil, false
			}
			continue
		}
		bound[pos.pt.name] = pos.term
		added = append(added, pos.pt.name)
	}
	return added, true
}

func rollback(bound binding, added []string) {
	for _, name := range added {
		delete(bound, name)
	}
}

// runSelect streams variable-binding rows up to maxResults.
func (e *Executor) runSelect(ctx context.Context, store *graphstore.GraphStore, q *parsedQuery, maxResults int) ([]Row, error) {
	projection := q.projection
	if len(projection) == 0 {
		projection = collectVariables(q.where)
	}

	rows := make([]Row, 0)
	seen := make(map[string]struct{})
	state := &matchState{}

	err := matchPatterns(ctx, store, q.where, 0, binding{}, state, func(b binding) error {
		row := make(Row, len(projection))
		for _, name := range projection {
			if term, ok := b[name]; ok {
				v := term.String()
				row[name] = &v
			} else {
				row[name] = nil
			}
		}
		if q.distinct {
			key := rowKey(row, projection)
			if _, dup := seen[key]; dup {
				return nil
			}
			seen[key] = struct{}{}
		}
		rows = append(rows, row)
		if len(rows) >= maxResults {
			return errStreamDone
		}
		return nil
	})
	if err != nil && err != errStreamDone {
		return nil, err
	}
	return rows, nil
}

// runAsk returns a single row with the boolean result under "ask".
func (e *Executor) runAsk(ctx context.Context, store *graphstore.GraphStore, q *parsedQuery) ([]Row, error) {
	found := false
	state := &matchState{}
	err := matchPatterns(ctx, store, q.where, 0, binding{}, state, func(binding) error {
		found = true
		return errStreamDone
	})
	if err != nil && err != errStreamDone {
		return nil, err
	}
	value := "false"
	if found {
		value = "true"
	}
	return []Row{{"ask": &value}}, nil
}

// runConstruct instantiates the template per solution and returns derived
// triples as subject/predicate/object rows, deduplicated, capped at
// maxResults.
func (e *Executor) runConstruct(ctx context.Context, store *graphstore.GraphStore, q *parsedQuery, maxResults int) ([]Row, error) {
	rows := make([]Row, 0)
	seen := make(map[string]struct{})
	state := &matchState{}

	err := matchPatterns(ctx, store, q.where, 0, binding{}, state, func(b binding) error {
		for _, tmpl := range q.template {
			t, ok := instantiate(tmpl, b)
			if !ok {
				continue
			}
			key := t.String()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			rows = append(rows, tripleRow(t))
			if len(rows) >= maxResults {
				return errStreamDone
			}
		}
		return nil
	})
	if err != nil && err != errStreamDone {
		return nil, err
	}
	return rows, nil
}

// runDescribe returns every triple whose subject is a described IRI.
func (e *Executor) runDescribe(ctx context.Context, store *graphstore.GraphStore, q *parsedQuery, maxResults int) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	targets := make(map[string]struct{}, len(q.describe))
	for _, term := range q.describe {
		targets[term.Value] = struct{}{}
	}

	rows := make([]Row, 0)
	scanned := 0
	var iterErr error
	store.EachTriple(func(_ string, t rdf.Triple) bool {
		scanned++
		if scanned%deadlineCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				iterErr = err
				return false
			}
		}
		if t.Subject.Kind != rdf.KindIRI {
			return true
		}
		if _, ok := targets[t.Subject.Value]; !ok {
			return true
		}
		rows = append(rows, tripleRow(t))
		return len(rows) < maxResults
	})
	if iterErr != nil {
		return nil, iterErr
	}
	return rows, nil
}

// instantiate substitutes bindings into a template pattern, dropping
// instantiations that leave a variable unbound or violate positional rules.
func instantiate(tmpl pattern, b binding) (rdf.Triple, bool) {
	resolve := func(pt patTerm) (rdf.Term, bool) {
		if pt.isGround() {
			return pt.term, true
		}
		term, ok := b[pt.name]
		return term, ok
	}
	s, ok := resolve(tmpl.s)
	if !ok || s.Kind == rdf.KindLiteral {
		return rdf.Triple{}, false
	}
	p, ok := resolve(tmpl.p)
	if !ok || p.Kind != rdf.KindIRI {
		return rdf.Triple{}, false
	}
	o, ok := resolve(tmpl.o)
	if !ok {
		return rdf.Triple{}, false
	}
	return rdf.Triple{Subject: s, Predicate: p, Object: o}, true
}

func tripleRow(t rdf.Triple) Row {
	s, p, o := t.Subject.String(), t.Predicate.String(), t.Object.String()
	return Row{"subject": &s, "predicate": &p, "object": &o}
}

// collectVariables gathers all variable names in pattern order for SELECT *.
func collectVariables(patterns []pattern) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, pat := range patterns {
		for _, pt := range []patTerm{pat.s, pat.p, pat.o} {
			if pt.isVar {
				if _, dup := seen[pt.name]; !dup {
					seen[pt.name] = struct{}{}
					names = append(names, pt.name)
				}
			}
		}
	}
	return names
}

// rowKey serializes a row for DISTINCT comparison.
func rowKey(row Row, projection []string) string {
	parts := make([]string, 0, len(projection))
	for _, name := range projection {
		if v := row[name]; v != nil {
			parts = append(parts, name+"="+*v)
		} else {
			parts = append(parts, name+"=\x00")
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "\x1f")
}
