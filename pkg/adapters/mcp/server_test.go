package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/taxaquery"
	"github.com/aretw0/taxaquery/internal/sanitize"
	"github.com/aretw0/taxaquery/pkg/adapters/memory"
	"github.com/aretw0/taxaquery/pkg/domain"
	contract "github.com/aretw0/taxaquery/pkg/ports/tests"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	tax := memory.NewTaxonomy()
	contract.Seed(t, tax)
	eng, err := taxaquery.New(tax)
	require.NoError(t, err)
	return NewServer(eng, nil)
}

func TestHandleExpand(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.handleExpand(context.Background(), mcp.CallToolRequest{}, queryArgs{Query: "( Hymenoptera:children ,(Diptera:parent))"})
	require.NoError(t, err)
	assert.Equal(t, "(Hymenoptera:children, (Diptera:parent))", resp.Query)
	assert.Equal(t, domain.Result{
		domain.Name("Apocrita"),
		domain.Group(domain.Name("Endopterygota")),
	}, resp.Result)
}

func TestHandleExpand_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleExpand(ctx, mcp.CallToolRequest{}, queryArgs{Query: "(Diptera:sibling)"})
	var synErr *domain.SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Contains(t, err.Error(), `did you mean "siblings"?`)

	_, err = s.handleExpand(ctx, mcp.CallToolRequest{}, queryArgs{Query: "(Nonexistentia:children)"})
	assert.ErrorIs(t, err, domain.ErrUnknownTaxon)

	_, err = s.handleParse(ctx, mcp.CallToolRequest{}, queryArgs{Query: "(Dip\x00tera)"})
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, 4, synErr.Offset)

	t.Setenv(sanitize.EnvMaxQuerySize, "4")
	_, err = s.handleExpand(ctx, mcp.CallToolRequest{}, queryArgs{Query: "(Diptera)"})
	assert.ErrorIs(t, err, sanitize.ErrQueryTooLarge)
}

func TestHandleParse(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.handleParse(context.Background(), mcp.CallToolRequest{}, queryArgs{Query: "((Homo),Pan)"})
	require.NoError(t, err)
	assert.Equal(t, ParseResponse{Query: "((Homo), Pan)", Depth: 2}, resp)

	_, err = s.handleParse(context.Background(), mcp.CallToolRequest{}, queryArgs{Query: "Homo"})
	assert.Error(t, err)
}

func TestHandleLookup(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args lookupArgs
		want []string
	}{
		{"Children", lookupArgs{Taxon: "Endopterygota", Extension: "children"}, []string{"Coleoptera", "Diptera", "Hymenoptera"}},
		{"Parent", lookupArgs{Taxon: "Apocrita", Extension: "parent"}, []string{"Hymenoptera"}},
		{"Siblings", lookupArgs{Taxon: "Apocrita", Extension: "siblings"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := s.handleLookup(ctx, mcp.CallToolRequest{}, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Taxa)
			assert.Equal(t, tt.args.Taxon, resp.Taxon)
		})
	}

	_, err := s.handleLookup(ctx, mcp.CallToolRequest{}, lookupArgs{Taxon: "Apocrita", Extension: "cousins"})
	assert.ErrorIs(t, err, errUnknownExtension)

	_, err = s.handleLookup(ctx, mcp.CallToolRequest{}, lookupArgs{Taxon: "Endopterygota", Extension: "parent"})
	assert.ErrorIs(t, err, domain.ErrNoParent)
}
