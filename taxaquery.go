package taxaquery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/taxaquery/internal/logging"
	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/aretw0/taxaquery/pkg/expander"
	"github.com/aretw0/taxaquery/pkg/parser"
	"github.com/aretw0/taxaquery/pkg/ports"
)

// Version is the release of the taxaquery module.
const Version = "0.3.0"

// Engine is the high-level entry point for the taxaquery library.
// It pairs a shared parser and expander with one taxonomy backend.
// An Engine holds no per-query state and may be used concurrently.
type Engine struct {
	parser   *parser.Parser
	expander *expander.Expander
	client   ports.TaxonomyClient
	hooks    domain.LookupHooks
	maxDepth int
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLookupHooks registers observability hooks around taxonomy lookups.
func WithLookupHooks(hooks domain.LookupHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithMaxDepth bounds query nesting for both parsing and expansion.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// New initializes an Engine answering extensions from client.
func New(client ports.TaxonomyClient, opts ...Option) (*Engine, error) {
	if client == nil {
		return nil, fmt.Errorf("taxonomy client is required")
	}

	eng := &Engine{
		client:   client,
		maxDepth: parser.DefaultMaxDepth,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.maxDepth < 1 {
		return nil, fmt.Errorf("max depth must be positive, got %d", eng.maxDepth)
	}

	eng.parser = parser.New(parser.WithMaxDepth(eng.maxDepth))
	eng.expander = expander.New(
		expander.WithLogger(eng.logger),
		expander.WithHooks(eng.hooks),
		expander.WithMaxDepth(eng.maxDepth),
	)
	return eng, nil
}

// Parse parses query text. Errors are *domain.SyntaxError.
func (e *Engine) Parse(text string) (domain.Tree, error) {
	return e.parser.Parse(text)
}

// Expand evaluates a parsed tree. Lookup failures are *domain.TaxonomyError.
func (e *Engine) Expand(ctx context.Context, tree domain.Tree) (domain.Result, error) {
	return e.expander.Expand(ctx, tree, e.client)
}

// Query parses and expands text in one step.
func (e *Engine) Query(ctx context.Context, text string) (domain.Result, error) {
	tree, err := e.Parse(text)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("query parsed", "query", tree.String(), "depth", tree.Depth())
	return e.Expand(ctx, tree)
}

// Taxonomy returns the backend the engine resolves extensions against.
func (e *Engine) Taxonomy() ports.TaxonomyClient {
	return e.client
}
