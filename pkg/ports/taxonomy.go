package ports

import "context"

// TaxonomyClient answers the relational lookups the expander needs.
// Implementations wrap domain.ErrUnknownTaxon and domain.ErrNoParent so callers can
// tell those conditions apart from transport failures.
type TaxonomyClient interface {
	// Children returns the direct children of name, in the backend's order.
	// Returns domain.ErrUnknownTaxon if name is not recognized.
	Children(ctx context.Context, name string) ([]string, error)

	// Parent returns the direct parent of name.
	// Returns domain.ErrUnknownTaxon if name is not recognized and
	// domain.ErrNoParent if name is a root.
	Parent(ctx context.Context, name string) (string, error)

	// Siblings returns the other children of name's parent, in the backend's order.
	// A root taxon has no siblings. Returns domain.ErrUnknownTaxon if name is not recognized.
	Siblings(ctx context.Context, name string) ([]string, error)
}

// TaxonomyWriter registers taxa in a backend.
type TaxonomyWriter interface {
	// AddTaxon registers name under parent; an empty parent makes name a root.
	// The parent must already exist. Returns domain.ErrDuplicateTaxon if name exists.
	AddTaxon(ctx context.Context, name, parent string) error
}

// TaxonomyStore is a backend that can be both queried and seeded.
type TaxonomyStore interface {
	TaxonomyClient
	TaxonomyWriter
}
