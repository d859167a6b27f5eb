package domain

import "strings"

// TaxonName is a taxon identified purely by its name.
// Names hold ASCII letters and interior spaces, e.g. "Nematoda" or "sea spiders".
type TaxonName string

// TaxonFull is a single query element: a name and an optional extension.
type TaxonFull struct {
	Name      TaxonName `json:"name" yaml:"name"`
	Extension Extension `json:"extension,omitempty" yaml:"extension,omitempty"`

	// Offset is the byte offset of the name in the parsed input. Zero for built trees.
	Offset int `json:"-" yaml:"-"`
}

// ElementKind discriminates the Element tagged union.
type ElementKind int

const (
	// ElementTaxon marks an element holding a TaxonFull.
	ElementTaxon ElementKind = iota + 1
	// ElementList marks an element holding a nested TaxonList.
	ElementList
)

func (k ElementKind) String() string {
	switch k {
	case ElementTaxon:
		return "taxon"
	case ElementList:
		return "list"
	default:
		return "invalid"
	}
}

// Element is one member of a TaxonList. Exactly one of Taxon or List is meaningful,
// as selected by Kind.
type Element struct {
	Kind  ElementKind
	Taxon TaxonFull
	List  TaxonList
}

// TaxonList is a bracketed, ordered sequence of elements.
type TaxonList struct {
	Elements []Element

	// Offset is the byte offset of the opening parenthesis in the parsed input.
	Offset int
}

// Tree is a parsed query. Its root is always exactly one TaxonList.
type Tree struct {
	Root TaxonList
}

// Taxon builds a taxon element. It is mostly a convenience for tests and programmatic queries.
func Taxon(name string, ext Extension) Element {
	return Element{Kind: ElementTaxon, Taxon: TaxonFull{Name: TaxonName(name), Extension: ext}}
}

// List builds a nested list element.
func List(elems ...Element) Element {
	return Element{Kind: ElementList, List: TaxonList{Elements: elems}}
}

// NewTree builds a tree whose root list holds elems.
func NewTree(elems ...Element) Tree {
	return Tree{Root: TaxonList{Elements: elems}}
}

// Depth returns the nesting depth of the tree; a flat list has depth 1.
func (t Tree) Depth() int {
	return t.Root.Depth()
}

// Depth returns the nesting depth of the list; a list without nested lists has depth 1.
func (l TaxonList) Depth() int {
	deepest := 0
	for _, el := range l.Elements {
		if el.Kind == ElementList {
			if d := el.List.Depth(); d > deepest {
				deepest = d
			}
		}
	}
	return deepest + 1
}

// String renders the tree in canonical query syntax, e.g. "(Nematoda:children, (Homo, Pan))".
// Parsing the output yields an equal tree.
func (t Tree) String() string {
	var sb strings.Builder
	t.Root.write(&sb)
	return sb.String()
}

func (l TaxonList) String() string {
	var sb strings.Builder
	l.write(&sb)
	return sb.String()
}

func (f TaxonFull) String() string {
	if f.Extension == ExtensionNone {
		return string(f.Name)
	}
	return string(f.Name) + ":" + f.Extension.Keyword()
}

func (l TaxonList) write(sb *strings.Builder) {
	sb.WriteByte('(')
	for i, el := range l.Elements {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch el.Kind {
		case ElementTaxon:
			sb.WriteString(el.Taxon.String())
		case ElementList:
			el.List.write(sb)
		}
	}
	sb.WriteByte(')')
}

// Equal reports whether two trees have the same structure, names and extensions.
// Source offsets are ignored.
func (t Tree) Equal(other Tree) bool {
	return t.Root.Equal(other.Root)
}

// Equal reports whether two lists are structurally identical, ignoring offsets.
func (l TaxonList) Equal(other TaxonList) bool {
	if len(l.Elements) != len(other.Elements) {
		return false
	}
	for i := range l.Elements {
		a, b := l.Elements[i], other.Elements[i]
		if a.Kind != b.Kind {
			return false
		}
		switch a.Kind {
		case ElementTaxon:
			if a.Taxon.Name != b.Taxon.Name || a.Taxon.Extension != b.Taxon.Extension {
				return false
			}
		case ElementList:
			if !a.List.Equal(b.List) {
				return false
			}
		}
	}
	return true
}
