package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../../testdata/tree_of_life.yaml"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExpandCommand(t *testing.T) {
	out, err := run(t, "", "expand", "--taxonomy", fixture, "--format", "inline", "(Homo:parent, (Hominidae:children))")
	require.NoError(t, err)
	assert.Equal(t, "[Hominidae, [Homo, Pan]]\n", out)
}

func TestExpandCommand_Stdin(t *testing.T) {
	out, err := run(t, "  (Endopterygota:children)\n", "expand", "--taxonomy", fixture, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Coleoptera"`)
	assert.Contains(t, out, `"Neuropterida"`)
}

func TestExpandCommand_SyntaxError(t *testing.T) {
	_, err := run(t, "", "expand", "--taxonomy", fixture, "--format", "text", "(Homo:sibling)")
	var qErr *queryError
	require.ErrorAs(t, err, &qErr)
	assert.Equal(t, "(Homo:sibling)", qErr.query)

	var synErr *domain.SyntaxError
	assert.ErrorAs(t, err, &synErr)
}

func TestExpandCommand_ControlCharRejected(t *testing.T) {
	_, err := run(t, "(Ho\x07mo)\n", "expand", "--taxonomy", fixture)
	var synErr *domain.SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, 3, synErr.Offset)
}

func TestExpandCommand_UnknownFormat(t *testing.T) {
	_, err := run(t, "", "expand", "--taxonomy", fixture, "--format", "xml", "(Homo)")
	assert.ErrorContains(t, err, "unknown format")
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "", "parse", "--mermaid=false", "(  Homo :children,(Pan))")
	require.NoError(t, err)
	assert.Equal(t, "(Homo:children, (Pan))\n", out)
}

func TestSeedCommand_ReadOnlyBackend(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "taxaquery.yaml")
	require.NoError(t, writeFile(cfg, "backend: {kind: remote, options: {base_url: 'http://localhost:1'}}"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", cfg, "seed", fixture})
	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "read-only")
}

func TestSeedCommand_Bolt(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "taxaquery.yaml")
	require.NoError(t, writeFile(cfg, "backend: {kind: bolt, options: {path: '"+filepath.Join(dir, "taxa.db")+"'}}"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", cfg, "seed", fixture})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "into bolt backend")

	out.Reset()
	rootCmd.SetArgs([]string{"--config", cfg, "expand", "--format", "inline", "(Pan:siblings)"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "[Homo]\n", out.String())
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version", "--banner=false")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "taxaquery version "))
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
