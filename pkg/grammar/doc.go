/*
Package grammar defines the lexical rules of the taxaquery language.

The accepted language, in EBNF:

	taxon_name   = letter_or_space+ ;
	extension    = "children" | "parent" | "siblings" ;
	taxon_full   = taxon_name, [ ":", extension ] ;
	taxon_list   = "(", element, { ",", element }, ")" ;
	element      = taxon_full | taxon_list ;
	tree         = taxon_list ;

Whitespace (space, tab, CR, LF) is insignificant around the punctuation tokens.
Inside a name only the space character is allowed; a name is trimmed of leading and
trailing spaces and keeps its interior spaces verbatim.
*/
package grammar
