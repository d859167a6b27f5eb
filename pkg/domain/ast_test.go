package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTree_String(t *testing.T) {
	tree := NewTree(
		Taxon("Nematoda", ExtensionChildren),
		List(Taxon("Tardigrada", ExtensionNone), List(Taxon("Homo", ExtensionNone), Taxon("Pan", ExtensionParent))),
		Taxon("sea spiders", ExtensionNone),
	)
	assert.Equal(t, "(Nematoda:children, (Tardigrada, (Homo, Pan:parent)), sea spiders)", tree.String())
	assert.Equal(t, 3, tree.Depth())
}

func TestTree_EqualIgnoresOffsets(t *testing.T) {
	a := NewTree(Taxon("Homo", ExtensionNone))
	b := NewTree(Taxon("Homo", ExtensionNone))
	b.Root.Offset = 4
	b.Root.Elements[0].Taxon.Offset = 7

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(NewTree(Taxon("Homo", ExtensionSiblings))))
	assert.False(t, a.Equal(NewTree(List(Taxon("Homo", ExtensionNone)))))
}

func TestExtension_Keywords(t *testing.T) {
	assert.Equal(t, "children", ExtensionChildren.Keyword())
	assert.Equal(t, "parent", ExtensionParent.String())
	assert.Equal(t, "", ExtensionNone.Keyword())
	assert.False(t, Extension(9).Valid())
	assert.Equal(t, "Extension(9)", Extension(9).String())
}
