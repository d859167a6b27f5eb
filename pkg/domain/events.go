package domain

import (
	"context"
	"time"
)

// LookupEvent describes one call into a taxonomy client.
type LookupEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Op        Extension     `json:"op"`
	Taxon     TaxonName     `json:"taxon"`
	Count     int           `json:"count"`              // Names contributed (set on completion)
	Duration  time.Duration `json:"duration,omitempty"` // Set on completion
	Err       error         `json:"-"`                  // Set on completion
}

// LookupHooks defines callbacks for expansion observability.
// Both callbacks are optional.
type LookupHooks struct {
	OnLookup     func(context.Context, *LookupEvent)
	OnLookupDone func(context.Context, *LookupEvent)
}

// Merge returns hooks that call h first and then other.
func (h LookupHooks) Merge(other LookupHooks) LookupHooks {
	return LookupHooks{
		OnLookup:     chain(h.OnLookup, other.OnLookup),
		OnLookupDone: chain(h.OnLookupDone, other.OnLookupDone),
	}
}

func chain(a, b func(context.Context, *LookupEvent)) func(context.Context, *LookupEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *LookupEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
