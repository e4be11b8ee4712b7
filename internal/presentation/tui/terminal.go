package tui

import (
	"io"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/tape"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// Profile returns the color profile to use when writing to w.
func Profile(w io.Writer) termenv.Profile {
	if !IsTerminal(w) {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).Profile
}

// TapeRenderer highlights the head cell with colors. Without color support
// it falls back to the bracketed plain rendering.
func TapeRenderer(profile termenv.Profile) turing.TapeRenderer {
	if profile == termenv.Ascii {
		return turing.PlainTape
	}
	head := func(c byte) string {
		return profile.String(string(c)).Reverse().Bold().Foreground(profile.Color("#fbbf24")).String()
	}
	blank := func(c byte) string {
		return profile.String(string(c)).Faint().String()
	}

	return func(snap tape.Snapshot) string {
		cells, pos := snap.Cells, snap.Head
		start, end := 0, len(cells)
		for start < pos && cells[start] == snap.Blank {
			start++
		}
		for end-1 > pos && cells[end-1] == snap.Blank {
			end--
		}

		var out []byte
		for i := start; i < end; i++ {
			c := cells[i]
			isBlank := c == snap.Blank
			if c == 0 {
				c = '_'
			}
			switch {
			case i == pos:
				out = append(out, head(c)...)
			case isBlank:
				out = append(out, blank(c)...)
			default:
				out = append(out, c)
			}
		}
		return string(out)
	}
}
