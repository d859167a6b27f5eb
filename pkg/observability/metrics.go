package observability

import (
	"context"
	"errors"

	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeOK           = "ok"
	OutcomeSyntaxError  = "syntax_error"
	OutcomeUnknownTaxon = "unknown_taxon"
	OutcomeNoParent     = "no_parent"
	OutcomeError        = "error"
)

// Metrics holds the taxaquery collectors.
type Metrics struct {
	Lookups        *prometheus.CounterVec
	LookupDuration *prometheus.HistogramVec
	Queries        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxaquery_lookups_total",
				Help: "Total number of taxonomy lookups by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		LookupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taxaquery_lookup_duration_seconds",
				Help:    "Duration of taxonomy lookups",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxaquery_queries_total",
				Help: "Total number of queries served by outcome",
			},
			[]string{"outcome"},
		),
	}
	for _, c := range []prometheus.Collector{m.Lookups, m.LookupDuration, m.Queries} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lookup hooks that record into m.
func (m *Metrics) Hooks() domain.LookupHooks {
	return domain.LookupHooks{
		OnLookupDone: func(ctx context.Context, e *domain.LookupEvent) {
			op := e.Op.Keyword()
			m.Lookups.WithLabelValues(op, Outcome(e.Err)).Inc()
			m.LookupDuration.WithLabelValues(op).Observe(e.Duration.Seconds())
		},
	}
}

// ObserveQuery counts one served query by the outcome of err.
func (m *Metrics) ObserveQuery(err error) {
	m.Queries.WithLabelValues(Outcome(err)).Inc()
}

// Outcome classifies an error into a label value.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var synErr *domain.SyntaxError
	if errors.As(err, &synErr) {
		return OutcomeSyntaxError
	}
	terr := &domain.TaxonomyError{Err: err}
	switch terr.Kind() {
	case domain.KindUnknownTaxon:
		return OutcomeUnknownTaxon
	case domain.KindNoParent:
		return OutcomeNoParent
	default:
		return OutcomeError
	}
}
