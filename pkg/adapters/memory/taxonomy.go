package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/aretw0/taxaquery/pkg/taxonomy"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

type taxon struct {
	parent   string
	children []string
}

// Taxonomy implements ports.TaxonomyStore in memory.
// Safe for concurrent use.
type Taxonomy struct {
	mu    sync.RWMutex
	taxa  map[string]*taxon
	roots []string
}

// NewTaxonomy creates an empty in-memory taxonomy.
func NewTaxonomy() *Taxonomy {
	return &Taxonomy{
		taxa: make(map[string]*taxon),
	}
}

// AddTaxon registers name under parent. An empty parent makes name a root.
func (t *Taxonomy) AddTaxon(ctx context.Context, name, parent string) error {
	if name == "" {
		return fmt.Errorf("taxon name is required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.taxa[name]; exists {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateTaxon, name)
	}
	if parent == "" {
		t.taxa[name] = &taxon{}
		t.roots = append(t.roots, name)
		return nil
	}
	p, ok := t.taxa[parent]
	if !ok {
		return fmt.Errorf("parent of %q: %w", name, domain.UnknownTaxon(parent))
	}
	t.taxa[name] = &taxon{parent: parent}
	p.children = append(p.children, name)
	return nil
}

// Children returns the children of name in insertion order.
func (t *Taxonomy) Children(ctx context.Context, name string) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tx, err := t.lookup(name)
	if err != nil {
		return nil, err
	}
	return clone(tx.children), nil
}

// Parent returns the parent of name.
func (t *Taxonomy) Parent(ctx context.Context, name string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tx, err := t.lookup(name)
	if err != nil {
		return "", err
	}
	if tx.parent == "" {
		return "", domain.NoParent(name)
	}
	return tx.parent, nil
}

// Siblings returns the other children of name's parent in insertion order.
func (t *Taxonomy) Siblings(ctx context.Context, name string) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tx, err := t.lookup(name)
	if err != nil {
		return nil, err
	}
	if tx.parent == "" {
		return []string{}, nil
	}
	return without(t.taxa[tx.parent].children, name), nil
}

// Roots returns the root taxa in insertion order.
func (t *Taxonomy) Roots() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return clone(t.roots)
}

// Len returns the number of registered taxa.
func (t *Taxonomy) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.taxa)
}

// lookup must be called with t.mu held.
func (t *Taxonomy) lookup(name string) (*taxon, error) {
	tx, ok := t.taxa[name]
	if !ok {
		if hint := t.closest(name); hint != "" {
			return nil, fmt.Errorf("%w (did you mean %q?)", domain.UnknownTaxon(name), hint)
		}
		return nil, domain.UnknownTaxon(name)
	}
	return tx, nil
}

// closest suggests a registered name for a mistyped one, e.g. a different case.
func (t *Taxonomy) closest(name string) string {
	if name == "" || len(t.taxa) == 0 {
		return ""
	}
	names := make([]string, 0, len(t.taxa))
	for n := range t.taxa {
		names = append(names, n)
	}
	sort.Strings(names) // Deterministic suggestions

	best, bestDist := "", len(name)/3+1
	for _, n := range names {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(n)); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func without(in []string, name string) []string {
	out := make([]string, 0, len(in))
	for _, n := range in {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// NewFromFile builds a taxonomy from a parsed definition file.
func NewFromFile(f *taxonomy.File) (*Taxonomy, error) {
	t := NewTaxonomy()
	if _, err := taxonomy.Seed(context.Background(), t, f); err != nil {
		return nil, err
	}
	return t, nil
}
