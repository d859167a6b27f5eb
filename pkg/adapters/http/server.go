// Package http exposes a taxaquery engine over HTTP.
//
// Routes:
//
//	POST /v1/expand                  {"query": "..."} -> {"query": "<canonical>", "result": [...]}
//	POST /v1/parse                   {"query": "..."} -> {"query": "<canonical>"}
//	GET  /v1/taxa/{name}/children    -> {"taxon": "...", "taxa": [...]}
//	GET  /v1/taxa/{name}/siblings    -> {"taxon": "...", "taxa": [...]}
//	GET  /v1/taxa/{name}/parent      -> {"taxon": "...", "parent": "..."}
//	GET  /metrics                    (only with WithMetrics)
//
// The taxa routes are what package remote consumes, so one instance can serve as the
// taxonomy backend of another.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/aretw0/taxaquery/internal/logging"
	"github.com/aretw0/taxaquery/internal/sanitize"
	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/aretw0/taxaquery/pkg/observability"
	"github.com/aretw0/taxaquery/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the part of the taxaquery engine the server needs.
type Engine interface {
	Parse(text string) (domain.Tree, error)
	Expand(ctx context.Context, tree domain.Tree) (domain.Result, error)
	Taxonomy() ports.TaxonomyClient
}

// Error codes carried in error bodies.
const (
	CodeInvalidRequest = "invalid_request"
	CodeSyntaxError    = "syntax_error"
	CodeQueryTooLarge  = "query_too_large"
	CodeDepthExceeded  = "depth_exceeded"
)

// Server serves an Engine.
type Server struct {
	Engine   Engine
	logger   *slog.Logger
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics counts served queries into m and exposes g on /metrics.
func WithMetrics(m *observability.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

type queryRequest struct {
	Query string `json:"query"`
}

type expandResponse struct {
	Query  string        `json:"query"`
	Result domain.Result `json:"result"`
}

type parseResponse struct {
	Query string `json:"query"`
	Depth int    `json:"depth"`
}

type taxaResponse struct {
	Taxon string   `json:"taxon"`
	Taxa  []string `json:"taxa"`
}

type parentResponse struct {
	Taxon  string `json:"taxon"`
	Parent string `json:"parent"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Offset *int   `json:"offset,omitempty"`
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Post("/expand", s.Expand)
		r.Post("/parse", s.Parse)
		r.Get("/taxa/{name}/children", s.Children)
		r.Get("/taxa/{name}/siblings", s.Siblings)
		r.Get("/taxa/{name}/parent", s.Parent)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Expand handles POST /v1/expand.
func (s *Server) Expand(w http.ResponseWriter, r *http.Request) {
	query, ok := s.readQuery(w, r)
	if !ok {
		return
	}

	var result domain.Result
	tree, err := s.Engine.Parse(query)
	if err == nil {
		result, err = s.Engine.Expand(r.Context(), tree)
	}
	if s.metrics != nil {
		s.metrics.ObserveQuery(err)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, expandResponse{Query: tree.String(), Result: result})
}

// Parse handles POST /v1/parse.
func (s *Server) Parse(w http.ResponseWriter, r *http.Request) {
	query, ok := s.readQuery(w, r)
	if !ok {
		return
	}

	tree, err := s.Engine.Parse(query)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, parseResponse{Query: tree.String(), Depth: tree.Depth()})
}

// Children handles GET /v1/taxa/{name}/children.
func (s *Server) Children(w http.ResponseWriter, r *http.Request) {
	name, ok := s.taxonParam(w, r)
	if !ok {
		return
	}
	taxa, err := s.Engine.Taxonomy().Children(r.Context(), name)
	if err != nil {
		s.writeError(w, &domain.TaxonomyError{Op: domain.ExtensionChildren, Taxon: domain.TaxonName(name), Err: err})
		return
	}
	s.writeJSON(w, http.StatusOK, taxaResponse{Taxon: name, Taxa: taxa})
}

// Siblings handles GET /v1/taxa/{name}/siblings.
func (s *Server) Siblings(w http.ResponseWriter, r *http.Request) {
	name, ok := s.taxonParam(w, r)
	if !ok {
		return
	}
	taxa, err := s.Engine.Taxonomy().Siblings(r.Context(), name)
	if err != nil {
		s.writeError(w, &domain.TaxonomyError{Op: domain.ExtensionSiblings, Taxon: domain.TaxonName(name), Err: err})
		return
	}
	s.writeJSON(w, http.StatusOK, taxaResponse{Taxon: name, Taxa: taxa})
}

// Parent handles GET /v1/taxa/{name}/parent.
func (s *Server) Parent(w http.ResponseWriter, r *http.Request) {
	name, ok := s.taxonParam(w, r)
	if !ok {
		return
	}
	parent, err := s.Engine.Taxonomy().Parent(r.Context(), name)
	if err != nil {
		s.writeError(w, &domain.TaxonomyError{Op: domain.ExtensionParent, Taxon: domain.TaxonName(name), Err: err})
		return
	}
	s.writeJSON(w, http.StatusOK, parentResponse{Taxon: name, Parent: parent})
}

func (s *Server) readQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	// The JSON envelope and escapes may legitimately exceed the raw query size.
	r.Body = http.MaxBytesReader(w, r.Body, int64(2*sanitize.MaxQuerySize()+1024))

	var body queryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large", Code: CodeQueryTooLarge})
			return "", false
		}
		s.logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Code: CodeInvalidRequest})
		return "", false
	}

	query, err := sanitize.Query(body.Query)
	if err != nil {
		status := http.StatusBadRequest
		code := CodeInvalidRequest
		if errors.Is(err, sanitize.ErrQueryTooLarge) {
			status, code = http.StatusRequestEntityTooLarge, CodeQueryTooLarge
		}
		s.writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
		return "", false
	}
	return query, true
}

func (s *Server) taxonParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid taxon name", Code: CodeInvalidRequest})
		return "", false
	}
	return name, true
}

// writeError maps domain errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var synErr *domain.SyntaxError
	if errors.As(err, &synErr) {
		offset := synErr.Offset
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: CodeSyntaxError, Offset: &offset})
		return
	}
	if errors.Is(err, domain.ErrDepthExceeded) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: CodeDepthExceeded})
		return
	}

	var taxErr *domain.TaxonomyError
	if !errors.As(err, &taxErr) {
		s.logger.Error("request failed", "err", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: "internal"})
		return
	}

	kind := taxErr.Kind()
	status := http.StatusBadGateway
	switch kind {
	case domain.KindUnknownTaxon:
		status = http.StatusNotFound
	case domain.KindNoParent:
		status = http.StatusConflict
	default:
		s.logger.Warn("taxonomy lookup failed", "op", taxErr.Op.Keyword(), "taxon", string(taxErr.Taxon), "err", taxErr.Err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error(), Code: kind.String()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
