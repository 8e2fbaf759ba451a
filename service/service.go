// Package service exposes the engine over NATS: request-reply endpoints
// for queries, searches, and taxonomy reads, plus a rebuild trigger
// subject so collaborators can signal source changes. Rebuild completions
// are published as events.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/larsgeorge/ontos-sub001/concept"
	"github.com/larsgeorge/ontos-sub001/config"
	"github.com/larsgeorge/ontos-sub001/engine"
	"github.com/larsgeorge/ontos-sub001/errors"
	"github.com/larsgeorge/ontos-sub001/search"
	"github.com/larsgeorge/ontos-sub001/sparql"
)

// Subject suffixes under the configured base (e.g. "ontos.query").
const (
	SubjectQuery            = "query"
	SubjectPrefixSearch     = "search.prefix"
	SubjectConceptSearch    = "search.concepts"
	SubjectTaxonomies       = "taxonomies"
	SubjectStats            = "taxonomies.stats"
	SubjectRebuildTrigger   = "rebuild.trigger"
	SubjectRebuildCompleted = "rebuild.completed"
)

// QueryRequest is the payload for the query subject.
type QueryRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
	TimeoutMS  int    `json:"timeout_ms,omitempty"`
}

// QueryResponse carries query rows or a typed error.
type QueryResponse struct {
	Rows  []sparql.Row `json:"rows,omitempty"`
	Error string       `json:"error,omitempty"`
	Kind  string       `json:"error_kind,omitempty"`
}

// SearchRequest is the payload for both search subjects.
type SearchRequest struct {
	Text     string `json:"text"`
	Taxonomy string `json:"taxonomy,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// PrefixSearchResponse carries lexical search hits.
type PrefixSearchResponse struct {
	Hits []search.Hit `json:"hits"`
}

// ConceptSearchResponse carries ranked concept search results.
type ConceptSearchResponse struct {
	Results []concept.SearchResult `json:"results"`
}

// TaxonomiesResponse carries the taxonomy summary rows.
type TaxonomiesResponse struct {
	Taxonomies []concept.Taxonomy `json:"taxonomies"`
}

// RebuildEvent is published after every triggered rebuild.
type RebuildEvent struct {
	Generation    uint64 `json:"generation"`
	Contexts      int    `json:"contexts"`
	Triples       int    `json:"triples"`
	FailedSources int    `json:"failed_sources"`
	Error         string `json:"error,omitempty"`
}

// Service wires the engine to NATS subjects.
type Service struct {
	engine  *engine.Engine
	cfg     config.NATSConfig
	logger  *slog.Logger
	conn    *nats.Conn
	subs    []*nats.Subscription
	connect func(url string, opts ...nats.Option) (*nats.Conn, error)
}

// New creates a service. No connection is made until Start.
func New(eng *engine.Engine, cfg config.NATSConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine:  eng,
		cfg:     cfg,
		logger:  logger,
		connect: nats.Connect,
	}
}

// Start connects to NATS and subscribes all engine subjects.
func (s *Service) Start(ctx context.Context) error {
	conn, err := s.connect(s.cfg.URL,
		nats.Name(s.cfg.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return errors.WrapTransient(err, "Service", "Start", "connect to nats")
	}
	s.conn = conn

	endpoints := []struct {
		suffix  string
		handler nats.MsgHandler
	}{
		{SubjectQuery, func(msg *nats.Msg) { s.onQuery(ctx, msg) }},
		{SubjectPrefixSearch, s.onPrefixSearch},
		{SubjectConceptSearch, s.onConceptSearch},
		{SubjectTaxonomies, s.onTaxonomies},
		{SubjectStats, s.onStats},
		{SubjectRebuildTrigger, func(msg *nats.Msg) { s.onRebuildTrigger(ctx, msg) }},
	}
	for _, ep := range endpoints {
		sub, err := conn.Subscribe(s.subject(ep.suffix), ep.handler)
		if err != nil {
			s.Stop()
			return errors.WrapTransient(err, "Service", "Start", "subscribe "+ep.suffix)
		}
		s.subs = append(s.subs, sub)
	}

	s.logger.Info("nats service started", "url", s.cfg.URL, "subject_base", s.cfg.SubjectBase)
	return nil
}

// Stop drains all subscriptions and closes the connection.
func (s *Service) Stop() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = nil
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

func (s *Service) subject(suffix string) string {
	return s.cfg.SubjectBase + "." + suffix
}

func (s *Service) onQuery(ctx context.Context, msg *nats.Msg) {
	s.respond(msg, s.handleQuery(ctx, msg.Data))
}

func (s *Service) onPrefixSearch(msg *nats.Msg) {
	s.respond(msg, s.handlePrefixSearch(msg.Data))
}

func (s *Service) onConceptSearch(msg *nats.Msg) {
	s.respond(msg, s.handleConceptSearch(msg.Data))
}

func (s *Service) onTaxonomies(msg *nats.Msg) {
	s.respond(msg, s.handleTaxonomies())
}

func (s *Service) onStats(msg *nats.Msg) {
	s.respond(msg, s.handleStats())
}

func (s *Service) onRebuildTrigger(ctx context.Context, _ *nats.Msg) {
	event := s.handleRebuild(ctx)
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal rebuild event", "error", err)
		return
	}
	if err := s.conn.Publish(s.subject(SubjectRebuildCompleted), data); err != nil {
		s.logger.Error("publish rebuild event", "error", err)
	}
}

func (s *Service) respond(msg *nats.Msg, payload []byte) {
	if msg.Reply == "" {
		return
	}
	if err := msg.Respond(payload); err != nil {
		s.logger.Error("respond failed", "subject", msg.Subject, "error", err)
	}
}

// handleQuery runs one query request. Errors come back as typed payload
// fields, never as a dropped message.
func (s *Service) handleQuery(ctx context.Context, data []byte) []byte {
	var req QueryRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return mustMarshal(QueryResponse{Error: "invalid request payload", Kind: "validation"})
	}

	timeout := time.Duration(req.TimeoutMS) * time.Millisecond
	rows, err := s.engine.Query(ctx, req.Query, req.MaxResults, timeout)
	if err != nil {
		return mustMarshal(QueryResponse{Error: err.Error(), Kind: errorKind(err)})
	}
	return mustMarshal(QueryResponse{Rows: rows})
}

func (s *Service) handlePrefixSearch(data []byte) []byte {
	var req SearchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return mustMarshal(PrefixSearchResponse{})
	}
	return mustMarshal(PrefixSearchResponse{Hits: s.engine.PrefixSearch(req.Text, req.Limit)})
}

func (s *Service) handleConceptSearch(data []byte) []byte {
	var req SearchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return mustMarshal(ConceptSearchResponse{})
	}
	return mustMarshal(ConceptSearchResponse{Results: s.engine.SearchConcepts(req.Text, req.Taxonomy, req.Limit)})
}

func (s *Service) handleTaxonomies() []byte {
	return mustMarshal(TaxonomiesResponse{Taxonomies: s.engine.GetTaxonomies()})
}

func (s *Service) handleStats() []byte {
	return mustMarshal(s.engine.GetTaxonomyStats())
}

func (s *Service) handleRebuild(ctx context.Context) RebuildEvent {
	report, err := s.engine.Rebuild(ctx)
	if err != nil {
		s.logger.Error("triggered rebuild failed", "error", err)
		return RebuildEvent{Error: err.Error()}
	}
	store := s.engine.Store()
	return RebuildEvent{
		Generation:    report.Generation,
		Contexts:      store.ContextCount(),
		Triples:       store.TripleCount(),
		FailedSources: len(report.Failed),
	}
}

func errorKind(err error) string {
	switch {
	case errors.IsValidation(err):
		return "validation"
	case errors.IsTimeout(err):
		return "timeout"
	default:
		return "execution"
	}
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// All response types marshal cleanly; this is unreachable with
		// well-formed values.
		return []byte(`{"error":"internal encoding failure"}`)
	}
	return data
}
