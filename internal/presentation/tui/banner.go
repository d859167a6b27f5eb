package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the taxaquery banner to w, colored when w is a capable terminal.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{" _                                            ", "#34d399"},
		{"| |_ __ ___  ____ _  __ _ _   _  ___ _ __ _   _ ", "#2dd4bf"},
		{"| __/ _` \\ \\/ / _` |/ _` | | | |/ _ \\ '__| | | |", "#22d3ee"},
		{"| || (_| |>  < (_| | (_| | |_| |  __/ |  | |_| |", "#38bdf8"},
		{" \\__\\__,_/_/\\_\\__,_|\\__, |\\__,_|\\___|_|   \\__, |", "#60a5fa"},
		{"                      |_|                 |___/ ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
