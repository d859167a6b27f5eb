package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/taxaquery/internal/config"
	"github.com/aretw0/taxaquery/internal/logging"
	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/aretw0/taxaquery/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../../testdata/tree_of_life.yaml"

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxaquery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func TestLoadConfig_TaxonomyOverride(t *testing.T) {
	cfg, err := LoadConfig(Options{
		ConfigPath:   filepath.Join(t.TempDir(), "missing.yaml"),
		TaxonomyFile: fixture,
	})
	require.NoError(t, err)

	opts, err := cfg.Backend.Memory()
	require.NoError(t, err)
	assert.Equal(t, fixture, opts.File)
}

func TestLoadConfig_OverrideIgnoredForOtherBackends(t *testing.T) {
	cfg, err := LoadConfig(Options{
		ConfigPath:   writeConfig(t, "backend: {kind: bolt, options: {path: taxa.db}}"),
		TaxonomyFile: fixture,
	})
	require.NoError(t, err)

	opts, err := cfg.Backend.Bolt()
	require.NoError(t, err)
	assert.Equal(t, "taxa.db", opts.Path)
}

func TestOpenBackend_MemoryFromFile(t *testing.T) {
	cfg, err := LoadConfig(Options{ConfigPath: filepath.Join(t.TempDir(), "none.yaml"), TaxonomyFile: fixture})
	require.NoError(t, err)

	backend, err := OpenBackend(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer backend.Close()

	eng, err := NewEngine(backend, cfg, logging.NewNop(), true)
	require.NoError(t, err)

	result, err := eng.Query(context.Background(), "(Coleoptera, Coleoptera:siblings)")
	require.NoError(t, err)
	assert.Equal(t, []domain.TaxonName{
		"Coleoptera", "Diptera", "Hymenoptera", "Siphonaptera", "Mecoptera",
		"Strepsiptera", "Amphiesmenoptera", "Neuropterida",
	}, result.Flatten())
}

func TestOpenBackend_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg, err := config.Parse([]byte("backend: {kind: redis, options: {addr: \""+mr.Addr()+"\", prefix: \"t:\"}}"), "yaml")
	require.NoError(t, err)

	backend, err := OpenBackend(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer backend.Close()
	require.NotNil(t, backend.Writer)

	f, err := taxonomy.Load(fixture)
	require.NoError(t, err)
	n, err := taxonomy.Seed(context.Background(), backend.Writer, f)
	require.NoError(t, err)
	assert.Equal(t, len(f.Edges()), n)

	parent, err := backend.Client.Parent(context.Background(), "Homo")
	require.NoError(t, err)
	assert.Equal(t, "Hominidae", parent)
	assert.True(t, mr.Exists("t:Homo:parent"))
}

func TestOpenBackend_Bolt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxa.db")
	cfg, err := config.Parse([]byte("backend: {kind: bolt, options: {path: \""+path+"\"}}"), "yaml")
	require.NoError(t, err)

	backend, err := OpenBackend(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, backend.Writer.AddTaxon(context.Background(), "Metazoa", ""))
	require.NoError(t, backend.Close())
}

func TestOpenBackend_RemoteIsReadOnly(t *testing.T) {
	cfg, err := config.Parse([]byte("backend: {kind: remote, options: {base_url: \"http://localhost:1\", timeout: 1s}}"), "yaml")
	require.NoError(t, err)

	backend, err := OpenBackend(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Nil(t, backend.Writer)
	assert.NoError(t, backend.Close())
}

func TestOpenBackend_MissingTaxonomyFile(t *testing.T) {
	cfg, err := LoadConfig(Options{ConfigPath: filepath.Join(t.TempDir(), "none.yaml"), TaxonomyFile: "does-not-exist.yaml"})
	require.NoError(t, err)

	_, err = OpenBackend(context.Background(), cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestNewEngine_RespectsMaxDepth(t *testing.T) {
	cfg, err := config.Parse([]byte("max_depth: 2"), "yaml")
	require.NoError(t, err)
	backend, err := OpenBackend(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)

	eng, err := NewEngine(backend, cfg, logging.NewNop(), false)
	require.NoError(t, err)

	_, err = eng.Parse("(((Homo)))")
	assert.ErrorIs(t, err, domain.ErrDepthExceeded)
}

func TestOpenBackend_RedisLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg, err := config.Parse([]byte("backend: {kind: redis, options: {addr: \""+mr.Addr()+"\"}}"), "yaml")
	require.NoError(t, err)

	backend, err := OpenBackend(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer backend.Close()
	require.NotNil(t, backend.Locker)

	unlock, err := backend.Locker.Lock(context.Background(), "seed", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(context.Background()))
}
