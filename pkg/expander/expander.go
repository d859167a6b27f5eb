// Package expander evaluates a parsed query against a taxonomy.
//
// The walk is depth-first and left to right. A plain name contributes itself, a
// ":children" or ":siblings" extension splices the client's answer into the current
// level, ":parent" contributes exactly one name, and a nested list contributes one
// nested group. Lookups run strictly in traversal order, one at a time, and the first
// failure aborts the whole expansion.
package expander

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/taxaquery/internal/logging"
	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/aretw0/taxaquery/pkg/ports"
)

// DefaultMaxDepth matches the parser's default nesting limit.
const DefaultMaxDepth = 256

// Expander turns parse trees into results. It holds configuration only and is safe to share.
type Expander struct {
	logger   *slog.Logger
	hooks    domain.LookupHooks
	maxDepth int
}

// Option configures an Expander.
type Option func(*Expander)

// WithLogger sets the structured logger used for lookup tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Expander) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks registers lookup observability hooks.
func WithHooks(hooks domain.LookupHooks) Option {
	return func(e *Expander) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithMaxDepth bounds the nesting depth of trees the expander accepts.
// Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(e *Expander) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// New creates an Expander.
func New(opts ...Option) *Expander {
	e := &Expander{
		logger:   logging.NewNop(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand evaluates tree against client. It returns a *domain.TaxonomyError wrapping the
// client's error on the first failed lookup, and no partial result.
func (e *Expander) Expand(ctx context.Context, tree domain.Tree, client ports.TaxonomyClient) (domain.Result, error) {
	if client == nil {
		return nil, fmt.Errorf("expand: taxonomy client is required")
	}
	return e.expandList(ctx, tree.Root, client, 1)
}

func (e *Expander) expandList(ctx context.Context, list domain.TaxonList, client ports.TaxonomyClient, depth int) (domain.Result, error) {
	if depth > e.maxDepth {
		return nil, fmt.Errorf("expand: %w (limit %d)", domain.ErrDepthExceeded, e.maxDepth)
	}

	result := make(domain.Result, 0, len(list.Elements))
	for _, el := range list.Elements {
		switch el.Kind {
		case domain.ElementTaxon:
			names, err := e.expandTaxon(ctx, el.Taxon, client)
			if err != nil {
				return nil, err
			}
			for _, n := range names {
				result = append(result, domain.Name(n))
			}
		case domain.ElementList:
			group, err := e.expandList(ctx, el.List, client, depth+1)
			if err != nil {
				return nil, err
			}
			result = append(result, domain.Entry{Kind: domain.EntryGroup, Group: group})
		default:
			return nil, fmt.Errorf("expand: invalid element kind %v", el.Kind)
		}
	}
	return result, nil
}

// expandTaxon returns the names a single element contributes to its level.
func (e *Expander) expandTaxon(ctx context.Context, taxon domain.TaxonFull, client ports.TaxonomyClient) ([]string, error) {
	name := string(taxon.Name)
	if taxon.Extension == domain.ExtensionNone {
		return []string{name}, nil
	}

	event := &domain.LookupEvent{
		Timestamp: time.Now(),
		Op:        taxon.Extension,
		Taxon:     taxon.Name,
	}
	if e.hooks.OnLookup != nil {
		e.hooks.OnLookup(ctx, event)
	}

	var (
		names []string
		err   error
	)
	switch taxon.Extension {
	case domain.ExtensionChildren:
		names, err = client.Children(ctx, name)
	case domain.ExtensionParent:
		var parent string
		parent, err = client.Parent(ctx, name)
		if err == nil {
			names = []string{parent}
		}
	case domain.ExtensionSiblings:
		names, err = client.Siblings(ctx, name)
	default:
		err = fmt.Errorf("unsupported extension %v", taxon.Extension)
	}

	event.Duration = time.Since(event.Timestamp)
	event.Count = len(names)
	event.Err = err
	if e.hooks.OnLookupDone != nil {
		e.hooks.OnLookupDone(ctx, event)
	}

	if err != nil {
		e.logger.Warn("taxonomy lookup failed", "op", taxon.Extension.Keyword(), "taxon", name, "err", err)
		return nil, &domain.TaxonomyError{Op: taxon.Extension, Taxon: taxon.Name, Err: err}
	}
	e.logger.Debug("taxonomy lookup", "op", taxon.Extension.Keyword(), "taxon", name, "count", len(names), "duration", event.Duration)
	return names, nil
}
