package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTaxon is returned by taxonomy clients when a name is not recognized.
var ErrUnknownTaxon = errors.New("unknown taxon")

// ErrNoParent is returned by taxonomy clients when the parent of a root taxon is requested.
var ErrNoParent = errors.New("taxon has no parent")

// ErrDuplicateTaxon is returned by taxonomy writers when a name is registered twice.
var ErrDuplicateTaxon = errors.New("taxon already exists")

// ErrDepthExceeded is returned when a query nests deeper than the configured limit.
var ErrDepthExceeded = errors.New("maximum nesting depth exceeded")

// SyntaxError reports a grammar violation found while parsing query text.
type SyntaxError struct {
	Offset   int      // Byte offset of the offending input
	Found    string   // What was found at Offset ("end of input" when exhausted)
	Expected []string // What the grammar accepts at Offset
	Hint     string   // Optional suggestion, e.g. a close keyword
	Err      error    // Optional underlying cause (e.g. ErrDepthExceeded)
}

func (e *SyntaxError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "syntax error at offset %d: ", e.Offset)
	switch {
	case e.Err != nil && len(e.Expected) == 0:
		sb.WriteString(e.Err.Error())
	case len(e.Expected) > 0:
		fmt.Fprintf(&sb, "expected %s, found %s", joinAlternatives(e.Expected), e.Found)
	default:
		fmt.Fprintf(&sb, "unexpected %s", e.Found)
	}
	if e.Hint != "" {
		fmt.Fprintf(&sb, " (%s)", e.Hint)
	}
	return sb.String()
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func joinAlternatives(alts []string) string {
	switch len(alts) {
	case 1:
		return alts[0]
	case 2:
		return alts[0] + " or " + alts[1]
	default:
		return strings.Join(alts[:len(alts)-1], ", ") + " or " + alts[len(alts)-1]
	}
}

// TaxonomyErrorKind classifies a TaxonomyError.
type TaxonomyErrorKind int

const (
	// KindLookup is a lookup or transport failure reported by the client.
	KindLookup TaxonomyErrorKind = iota
	// KindUnknownTaxon means the client did not recognize the name.
	KindUnknownTaxon
	// KindNoParent means the parent of a root taxon was requested.
	KindNoParent
)

func (k TaxonomyErrorKind) String() string {
	switch k {
	case KindUnknownTaxon:
		return "unknown_taxon"
	case KindNoParent:
		return "no_parent"
	default:
		return "lookup_failed"
	}
}

// TaxonomyError reports a failed taxonomy lookup during expansion.
// It wraps the client's error, so errors.Is(err, ErrUnknownTaxon) keeps working.
type TaxonomyError struct {
	Op    Extension // Which lookup failed
	Taxon TaxonName // The name that was looked up
	Err   error     // The client's error
}

func (e *TaxonomyError) Error() string {
	return fmt.Sprintf("%s of %q: %v", e.Op.Keyword(), string(e.Taxon), e.Err)
}

func (e *TaxonomyError) Unwrap() error {
	return e.Err
}

// Kind classifies the underlying client error.
func (e *TaxonomyError) Kind() TaxonomyErrorKind {
	switch {
	case errors.Is(e.Err, ErrUnknownTaxon):
		return KindUnknownTaxon
	case errors.Is(e.Err, ErrNoParent):
		return KindNoParent
	default:
		return KindLookup
	}
}

// UnknownTaxon wraps ErrUnknownTaxon with the offending name.
func UnknownTaxon(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownTaxon, name)
}

// NoParent wraps ErrNoParent with the offending name.
func NoParent(name string) error {
	return fmt.Errorf("%w: %q", ErrNoParent, name)
}
