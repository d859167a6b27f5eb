package grammar

import (
	"fmt"
	"sort"

	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Punctuation tokens.
const (
	OpenList  = '('
	CloseList = ')'
	Separator = ','
	ExtMarker = ':'
)

var keywords = map[string]domain.Extension{
	domain.ExtensionChildren.Keyword(): domain.ExtensionChildren,
	domain.ExtensionParent.Keyword():   domain.ExtensionParent,
	domain.ExtensionSiblings.Keyword(): domain.ExtensionSiblings,
}

// IsLetter reports whether c is an ASCII letter.
func IsLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsNameChar reports whether c may appear in a taxon name.
func IsNameChar(c byte) bool {
	return IsLetter(c) || c == ' '
}

// IsSpace reports whether c is insignificant whitespace between tokens.
func IsSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Keywords returns the extension keywords in sorted order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LookupExtension maps a keyword to its Extension. Keywords are case sensitive.
func LookupExtension(word string) (domain.Extension, bool) {
	ext, ok := keywords[word]
	return ext, ok
}

// Suggest returns the keyword closest to word, or "" when nothing is close.
func Suggest(word string) string {
	if word == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(word, Keywords())
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	// Misspellings are not subsequences; fall back to edit distance.
	best, bestDist := "", len(word)/2+1
	for _, k := range Keywords() {
		if d := fuzzy.LevenshteinDistance(word, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

// ValidName reports whether name is a well formed, already trimmed taxon name.
func ValidName(name string) error {
	if name == "" {
		return fmt.Errorf("empty taxon name")
	}
	if name[0] == ' ' || name[len(name)-1] == ' ' {
		return fmt.Errorf("taxon name %q has surrounding spaces", name)
	}
	for i := 0; i < len(name); i++ {
		if !IsNameChar(name[i]) {
			return fmt.Errorf("taxon name %q contains illegal character %q", name, name[i])
		}
	}
	return nil
}
