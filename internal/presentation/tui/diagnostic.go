// Package tui renders terminal output for the taxaquery command.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/muesli/termenv"
)

// Diagnostic writes err to w. Syntax errors get the offending query line with a caret under
// the reported offset; anything else is printed as a single line.
func Diagnostic(w io.Writer, query string, err error) {
	out := termenv.NewOutput(w)
	label := out.String("error:").Foreground(out.Color("#f87171")).Bold()

	var synErr *domain.SyntaxError
	if !errors.As(err, &synErr) {
		fmt.Fprintf(w, "%s %v\n", label, err)
		return
	}

	fmt.Fprintf(w, "%s %v\n", label, synErr)

	offset := min(max(synErr.Offset, 0), len(query))
	start := strings.LastIndexByte(query[:offset], '\n') + 1
	end := len(query)
	if i := strings.IndexByte(query[offset:], '\n'); i >= 0 {
		end = offset + i
	}

	fmt.Fprintf(w, "  %s\n", query[start:end])
	fmt.Fprintf(w, "  %s%s\n", padding(query[start:offset]), out.String("^").Foreground(out.Color("#f87171")).Bold())
	if synErr.Hint != "" {
		fmt.Fprintf(w, "  %s\n", out.String(synErr.Hint).Faint())
	}
}

// padding keeps tabs so the caret lines up with the echoed line.
func padding(prefix string) string {
	var sb strings.Builder
	for len(prefix) > 0 {
		r, size := utf8.DecodeRuneInString(prefix)
		prefix = prefix[size:]
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
