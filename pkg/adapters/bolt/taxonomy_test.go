package bolt

import (
	"context"
	"path/filepath"
	"testing"

	contract "github.com/aretw0/taxaquery/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestTaxonomy creates a temporary bbolt taxonomy for testing.
func newTestTaxonomy(t *testing.T) (*Taxonomy, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxa.db")
	tax, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { tax.Close() })
	return tax, path
}

func TestBoltTaxonomy_Contract(t *testing.T) {
	tax, _ := newTestTaxonomy(t)
	contract.TaxonomyStoreContractTest(t, tax)
}

func TestBoltTaxonomy_SurvivesReopen(t *testing.T) {
	tax, path := newTestTaxonomy(t)
	contract.Seed(t, tax)
	require.NoError(t, tax.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	ctx := context.Background()
	children, err := reopened.Children(ctx, "Endopterygota")
	require.NoError(t, err)
	assert.Equal(t, []string{"Coleoptera", "Diptera", "Hymenoptera"}, children)

	require.NoError(t, reopened.AddTaxon(ctx, "Symphyta", "Hymenoptera"))
	siblings, err := reopened.Siblings(ctx, "Apocrita")
	require.NoError(t, err)
	assert.Equal(t, []string{"Symphyta"}, siblings)
}

func TestBoltTaxonomy_SecondOpenTimesOut(t *testing.T) {
	_, path := newTestTaxonomy(t)
	_, err := Open(path)
	assert.Error(t, err, "bbolt holds an exclusive file lock")
}
