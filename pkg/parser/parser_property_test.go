package parser

import (
	"testing"

	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// genTree draws a random, well formed tree at most maxDepth lists deep.
func genTree(t *rapid.T, maxDepth int) domain.Tree {
	return domain.Tree{Root: genList(t, 1, maxDepth)}
}

func genList(t *rapid.T, depth, maxDepth int) domain.TaxonList {
	names := rapid.StringMatching(`[A-Za-z]([A-Za-z ]{0,10}[A-Za-z])?`)
	exts := rapid.SampledFrom([]domain.Extension{
		domain.ExtensionNone, domain.ExtensionChildren, domain.ExtensionParent, domain.ExtensionSiblings,
	})

	n := rapid.IntRange(1, 4).Draw(t, "len")
	list := domain.TaxonList{}
	for i := 0; i < n; i++ {
		if depth < maxDepth && rapid.Bool().Draw(t, "nested") {
			list.Elements = append(list.Elements, domain.Element{Kind: domain.ElementList, List: genList(t, depth+1, maxDepth)})
			continue
		}
		list.Elements = append(list.Elements, domain.Taxon(names.Draw(t, "name"), exts.Draw(t, "ext")))
	}
	return list
}

func TestParse_CanonicalRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := genTree(t, 5)

		parsed, err := Parse(tree.String())
		require.NoError(t, err)
		require.True(t, tree.Equal(parsed), "round trip of %s gave %s", tree, parsed)
	})
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{
		"(nematoda)",
		"(Nematoda:children, arthropoda, sea spiders)",
		"(Nematoda, (Tardigrada, (Homo, Pan), Coleoptera))",
		"(Homo:",
		"((",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, in string) {
		tree, err := Parse(in)
		if err != nil {
			return
		}
		// Anything accepted must survive a canonical round trip.
		again, err := Parse(tree.String())
		if err != nil {
			t.Fatalf("canonical form %q of %q does not parse: %v", tree.String(), in, err)
		}
		if !tree.Equal(again) {
			t.Fatalf("round trip changed %q", in)
		}
	})
}
