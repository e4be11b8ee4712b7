package memory

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Source implements ports.LineSource over an in-memory description.
type Source struct {
	content string
	pos     int
}

// NewSource creates a Source reading the given description text.
func NewSource(content string) *Source {
	return &Source{content: content}
}

// NewFromLines joins lines into a description, one per line.
func NewFromLines(lines ...string) *Source {
	return NewSource(strings.Join(lines, "\n") + "\n")
}

// NewFromMachine renders a machine back into its description text.
// This improves DX for tests that build machines as domain objects.
func NewFromMachine(m *domain.Machine) *Source {
	return NewSource(m.Description())
}

// LineLength returns the length of the next line without consuming it.
func (s *Source) LineLength() (int, error) {
	line, _, err := s.peek()
	if err != nil {
		return 0, err
	}
	return len(line), nil
}

// ReadLine consumes the next line and returns at most maxLen bytes of it.
func (s *Source) ReadLine(maxLen int) (string, error) {
	line, consumed, err := s.peek()
	if err != nil {
		return "", err
	}
	s.pos += consumed
	if maxLen < 0 {
		maxLen = 0
	}
	if len(line) > maxLen {
		line = line[:maxLen]
	}
	return line, nil
}

// LineCount returns the total number of lines.
func (s *Source) LineCount() (int, error) {
	n := strings.Count(s.content, "\n")
	if s.content != "" && !strings.HasSuffix(s.content, "\n") {
		n++
	}
	return n, nil
}

func (s *Source) peek() (string, int, error) {
	if s.pos >= len(s.content) {
		return "", 0, fmt.Errorf("%w: %w", domain.ErrIO, io.EOF)
	}
	rest := s.content[s.pos:]
	consumed := len(rest)
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
		consumed = i + 1
	}
	return strings.TrimSuffix(rest, "\r"), consumed, nil
}
