package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyntaxError_Message(t *testing.T) {
	err := &SyntaxError{Offset: 9, Found: "end of input", Expected: []string{"','", "')'"}}
	assert.Equal(t, "syntax error at offset 9: expected ',' or ')', found end of input", err.Error())

	err = &SyntaxError{Offset: 10, Found: `"childs"`, Expected: []string{`"children"`, `"parent"`, `"siblings"`}, Hint: `did you mean "children"?`}
	assert.Equal(t, `syntax error at offset 10: expected "children", "parent" or "siblings", found "childs" (did you mean "children"?)`, err.Error())
}

func TestSyntaxError_UnwrapsDepth(t *testing.T) {
	var err error = &SyntaxError{Offset: 3, Found: "'('", Err: fmt.Errorf("%w (limit 2)", ErrDepthExceeded)}
	assert.ErrorIs(t, err, ErrDepthExceeded)
	assert.Contains(t, err.Error(), "maximum nesting depth exceeded")
}

func TestTaxonomyError_Kind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want TaxonomyErrorKind
	}{
		{"unknown", UnknownTaxon("Foo"), KindUnknownTaxon},
		{"no parent", NoParent("Metazoa"), KindNoParent},
		{"transport", errors.New("connection refused"), KindLookup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terr := &TaxonomyError{Op: ExtensionParent, Taxon: "Foo", Err: tt.err}
			assert.Equal(t, tt.want, terr.Kind())
			assert.ErrorIs(t, terr, tt.err)
		})
	}
}

func TestTaxonomyError_Message(t *testing.T) {
	err := &TaxonomyError{Op: ExtensionChildren, Taxon: "Foo", Err: UnknownTaxon("Foo")}
	assert.Equal(t, `children of "Foo": unknown taxon: "Foo"`, err.Error())
}
