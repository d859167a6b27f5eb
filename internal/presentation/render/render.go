// Package render formats expansion results for the command line.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/taxaquery/pkg/domain"
)

// Format selects an output representation.
type Format string

const (
	FormatText    Format = "text"
	FormatInline  Format = "inline"
	FormatJSON    Format = "json"
	FormatMermaid Format = "mermaid"
)

// Formats lists the accepted formats, for flag help.
var Formats = []Format{FormatText, FormatInline, FormatJSON, FormatMermaid}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want text, inline, json or mermaid)", s)
}

// Write renders result in format f.
func Write(w io.Writer, f Format, result domain.Result) error {
	var err error
	switch f {
	case FormatText:
		_, err = io.WriteString(w, Text(result))
	case FormatInline:
		_, err = fmt.Fprintln(w, result.String())
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(result)
	case FormatMermaid:
		_, err = io.WriteString(w, ResultMermaid(result))
	default:
		return fmt.Errorf("unknown format %q", f)
	}
	return err
}

// Text renders a result as an indented outline, one name per line.
// Each group opens a "+" line and indents its members.
func Text(result domain.Result) string {
	if len(result) == 0 {
		return "(empty)\n"
	}
	var sb strings.Builder
	writeText(&sb, result, 0)
	return sb.String()
}

func writeText(sb *strings.Builder, result domain.Result, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, e := range result {
		switch e.Kind {
		case domain.EntryName:
			fmt.Fprintf(sb, "%s- %s\n", indent, e.Name)
		case domain.EntryGroup:
			fmt.Fprintf(sb, "%s+ (%d)\n", indent, len(e.Group))
			writeText(sb, e.Group, depth+1)
		}
	}
}
