package domain

import "fmt"

// Extension is the relational operator that may follow a taxon name.
// The zero value means "no extension": the name stands for itself.
type Extension int

const (
	ExtensionNone Extension = iota
	ExtensionChildren
	ExtensionParent
	ExtensionSiblings
)

// Keyword returns the literal the grammar uses for the extension, or "" for ExtensionNone.
func (e Extension) Keyword() string {
	switch e {
	case ExtensionChildren:
		return "children"
	case ExtensionParent:
		return "parent"
	case ExtensionSiblings:
		return "siblings"
	default:
		return ""
	}
}

func (e Extension) String() string {
	switch e {
	case ExtensionNone:
		return "none"
	case ExtensionChildren, ExtensionParent, ExtensionSiblings:
		return e.Keyword()
	default:
		return fmt.Sprintf("Extension(%d)", int(e))
	}
}

// Valid reports whether e is one of the four representable values.
func (e Extension) Valid() bool {
	return e >= ExtensionNone && e <= ExtensionSiblings
}
