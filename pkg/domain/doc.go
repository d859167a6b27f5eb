/*
Package domain contains the core domain models of the taxaquery language.

It defines the parse tree produced by the parser, the nested result produced by the
expander, and the error shapes both of them report. This package is kept pure and free
of external dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - TaxonName: a name made of ASCII letters and spaces ("Coleoptera", "sea spiders").
  - Extension: the relational operator attached to a name (children, parent, siblings).
  - TaxonFull: one leaf of a query, a name plus an optional extension.
  - TaxonList: a bracketed, ordered list of elements, each a TaxonFull or a nested TaxonList.
  - Tree: a parsed query, rooted at exactly one TaxonList.
  - Result: the nested list of names an expanded Tree evaluates to.
*/
package domain
