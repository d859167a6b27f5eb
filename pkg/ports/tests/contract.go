// Package tests provides reusable contract suites for port implementations.
package tests

import (
	"context"
	"testing"

	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/aretw0/taxaquery/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Edge is a (name, parent) pair used to seed a backend; an empty Parent makes a root.
type Edge struct {
	Name   string
	Parent string
}

// Fixture is the taxonomy every contract run is seeded with, parents before children.
//
//	Endopterygota
//	├── Coleoptera
//	├── Diptera
//	└── Hymenoptera
//	    └── Apocrita
var Fixture = []Edge{
	{Name: "Endopterygota"},
	{Name: "Coleoptera", Parent: "Endopterygota"},
	{Name: "Diptera", Parent: "Endopterygota"},
	{Name: "Hymenoptera", Parent: "Endopterygota"},
	{Name: "Apocrita", Parent: "Hymenoptera"},
}

// Seed writes Fixture into w.
func Seed(t *testing.T, w ports.TaxonomyWriter) {
	t.Helper()
	ctx := context.Background()
	for _, e := range Fixture {
		require.NoError(t, w.AddTaxon(ctx, e.Name, e.Parent), "seeding %s", e.Name)
	}
}

// TaxonomyClientContractTest verifies that a client seeded with Fixture honours ports.TaxonomyClient.
func TaxonomyClientContractTest(t *testing.T, client ports.TaxonomyClient) {
	t.Helper()
	ctx := context.Background()

	t.Run("Children_Ordered", func(t *testing.T) {
		children, err := client.Children(ctx, "Endopterygota")
		require.NoError(t, err)
		assert.Equal(t, []string{"Coleoptera", "Diptera", "Hymenoptera"}, children)
	})

	t.Run("Children_Leaf", func(t *testing.T) {
		children, err := client.Children(ctx, "Coleoptera")
		require.NoError(t, err)
		assert.Empty(t, children)
	})

	t.Run("Parent", func(t *testing.T) {
		parent, err := client.Parent(ctx, "Apocrita")
		require.NoError(t, err)
		assert.Equal(t, "Hymenoptera", parent)
	})

	t.Run("Parent_Root", func(t *testing.T) {
		_, err := client.Parent(ctx, "Endopterygota")
		assert.ErrorIs(t, err, domain.ErrNoParent)
		assert.NotErrorIs(t, err, domain.ErrUnknownTaxon)
	})

	t.Run("Siblings_ExcludeSelf", func(t *testing.T) {
		siblings, err := client.Siblings(ctx, "Diptera")
		require.NoError(t, err)
		assert.Equal(t, []string{"Coleoptera", "Hymenoptera"}, siblings)
	})

	t.Run("Siblings_OnlyChild", func(t *testing.T) {
		siblings, err := client.Siblings(ctx, "Apocrita")
		require.NoError(t, err)
		assert.Empty(t, siblings)
	})

	t.Run("Siblings_Root", func(t *testing.T) {
		siblings, err := client.Siblings(ctx, "Endopterygota")
		require.NoError(t, err)
		assert.Empty(t, siblings)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := client.Children(ctx, "Nonexistentia")
		assert.ErrorIs(t, err, domain.ErrUnknownTaxon)
		_, err = client.Parent(ctx, "Nonexistentia")
		assert.ErrorIs(t, err, domain.ErrUnknownTaxon)
		_, err = client.Siblings(ctx, "Nonexistentia")
		assert.ErrorIs(t, err, domain.ErrUnknownTaxon)
	})
}

// TaxonomyStoreContractTest seeds an empty store and runs the client contract plus writer checks.
func TaxonomyStoreContractTest(t *testing.T, store ports.TaxonomyStore) {
	t.Helper()
	Seed(t, store)
	TaxonomyClientContractTest(t, store)

	ctx := context.Background()
	t.Run("AddTaxon_Duplicate", func(t *testing.T) {
		err := store.AddTaxon(ctx, "Diptera", "Endopterygota")
		assert.ErrorIs(t, err, domain.ErrDuplicateTaxon)
	})

	t.Run("AddTaxon_UnknownParent", func(t *testing.T) {
		err := store.AddTaxon(ctx, "Orphan", "Nowhere")
		assert.ErrorIs(t, err, domain.ErrUnknownTaxon)
		_, err = store.Parent(ctx, "Orphan")
		assert.ErrorIs(t, err, domain.ErrUnknownTaxon, "failed insert must not leave a partial taxon")
	})
}
