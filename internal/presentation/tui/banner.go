package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner and the version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  ___  ___ ___  ___ __  __ ", "#34d399"},
		{" / __|/ __/ _ \\| _ \\  \\/  |", "#2dd4bf"},
		{" \\__ \\ (_| (_) |   / |\\/| |", "#22d3ee"},
		{" |___/\\___\\___/|_|_\\_|  |_|", "#38bdf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  runtime "+version).Faint())
	fmt.Fprintln(w)
}
