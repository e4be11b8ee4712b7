package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII art banner for turing to w.
func PrintBanner(w io.Writer, profile termenv.Profile) {
	// Using a subtle gradient-like color scheme (Indigo/Violet)
	lines := []struct{ text, color string }{
		{"  _                _             ", "#818cf8"},
		{" | |_ _   _ _ __ (_)_ __   __ _ ", "#a78bfa"},
		{" | __| | | | '__|| | '_ \\ / _` |", "#c084fc"},
		{" | |_| |_| | |   | | | | | (_| |", "#e879f9"},
		{"  \\__|\\__,_|_|   |_|_| |_|\\__, |", "#f472b6"},
		{"                          |___/ ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, profile.String(l.text).Foreground(profile.Color(l.color)))
	}
	fmt.Fprintln(w)
}
