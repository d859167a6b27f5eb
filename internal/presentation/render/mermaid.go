package render

import (
	"fmt"
	"strings"

	"github.com/aretw0/taxaquery/pkg/domain"
)

// QueryMermaid produces a Mermaid flowchart of a parsed query.
// It applies semantic styling:
// - List: ((Circle))
// - Taxon with an extension: [[Subroutine]], labelled "Name:extension"
// - Plain taxon: [Rectangle]
func QueryMermaid(tree domain.Tree) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := &idGen{prefix: "q"}
	writeListNode(&sb, ids, tree.Root)
	return sb.String()
}

func writeListNode(sb *strings.Builder, ids *idGen, list domain.TaxonList) string {
	self := ids.next()
	fmt.Fprintf(sb, "    %s((\"( )\"))\n", self)

	for _, el := range list.Elements {
		switch el.Kind {
		case domain.ElementTaxon:
			child := ids.next()
			opener, closer := "[", "]"
			if el.Taxon.Extension != domain.ExtensionNone {
				opener, closer = "[[", "]]"
			}
			fmt.Fprintf(sb, "    %s%s\"%s\"%s\n", child, opener, mermaidLabel(el.Taxon.String()), closer)
			fmt.Fprintf(sb, "    %s --> %s\n", self, child)
		case domain.ElementList:
			child := writeListNode(sb, ids, el.List)
			fmt.Fprintf(sb, "    %s --> %s\n", self, child)
		}
	}
	return self
}

// ResultMermaid produces a Mermaid flowchart of an expansion result: groups are circles,
// names are rectangles, in result order.
func ResultMermaid(result domain.Result) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := &idGen{prefix: "r"}
	writeGroupNode(&sb, ids, result)

	sb.WriteString("\n    %% Styles\n")
	sb.WriteString("    classDef group fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    class r0 group;\n")
	return sb.String()
}

func writeGroupNode(sb *strings.Builder, ids *idGen, group domain.Result) string {
	self := ids.next()
	fmt.Fprintf(sb, "    %s((\"%d\"))\n", self, len(group))

	for _, e := range group {
		switch e.Kind {
		case domain.EntryName:
			child := ids.next()
			fmt.Fprintf(sb, "    %s[\"%s\"]\n", child, mermaidLabel(string(e.Name)))
			fmt.Fprintf(sb, "    %s --> %s\n", self, child)
		case domain.EntryGroup:
			child := writeGroupNode(sb, ids, e.Group)
			fmt.Fprintf(sb, "    %s --> %s\n", self, child)
		}
	}
	return self
}

// idGen hands out Mermaid node IDs. Taxon names may contain spaces, so they only appear in labels.
type idGen struct {
	prefix string
	n      int
}

func (g *idGen) next() string {
	id := fmt.Sprintf("%s%d", g.prefix, g.n)
	g.n++
	return id
}

func mermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
