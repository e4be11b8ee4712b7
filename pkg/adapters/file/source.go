package file

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Source implements ports.LineSource over a seekable reader, typically a
// description file. Position queries use Seek, so a Source is not safe for
// concurrent use.
type Source struct {
	r      io.ReadSeeker
	closer io.Closer
	name   string
}

// Open opens a description file.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	return &Source{r: f, closer: f, name: machineName(path)}, nil
}

// NewSource wraps an already opened reader. The caller keeps ownership of r.
func NewSource(r io.ReadSeeker) *Source {
	return &Source{r: r}
}

// Name returns the machine name derived from the file name ("" for readers).
func (s *Source) Name() string {
	return s.name
}

// Close releases the underlying file, if Open created it.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// LineLength returns the length of the next line without consuming it.
func (s *Source) LineLength() (int, error) {
	line, pos, _, err := s.scan()
	if err != nil {
		return 0, err
	}
	if err := s.seek(pos); err != nil {
		return 0, err
	}
	return len(line), nil
}

// ReadLine consumes the next line and returns at most maxLen bytes of it.
func (s *Source) ReadLine(maxLen int) (string, error) {
	line, pos, consumed, err := s.scan()
	if err != nil {
		return "", err
	}
	if err := s.seek(pos + consumed); err != nil {
		return "", err
	}
	if maxLen < 0 {
		maxLen = 0
	}
	if len(line) > maxLen {
		line = line[:maxLen]
	}
	return string(line), nil
}

// LineCount counts the lines of the whole source and restores the position.
func (s *Source) LineCount() (int, error) {
	pos, err := s.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("%w: can't get position: %w", domain.ErrIO, err)
	}
	if err := s.seek(0); err != nil {
		return 0, err
	}

	n := 0
	var last byte = '\n'
	buf := make([]byte, 32*1024)
	for {
		k, rerr := s.r.Read(buf)
		if k > 0 {
			n += bytes.Count(buf[:k], []byte{'\n'})
			last = buf[k-1]
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return 0, fmt.Errorf("%w: %w", domain.ErrIO, rerr)
		}
	}
	if last != '\n' {
		n++
	}

	if err := s.seek(pos); err != nil {
		return 0, err
	}
	return n, nil
}

// scan reads the next line from the current position. It returns the line
// without its terminator, the starting position and the number of bytes the
// line occupies including the terminator.
func (s *Source) scan() ([]byte, int64, int64, error) {
	pos, err := s.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: can't get position: %w", domain.ErrIO, err)
	}

	data, err := bufio.NewReader(s.r).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, 0, 0, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	if len(data) == 0 {
		_ = s.seek(pos)
		return nil, 0, 0, fmt.Errorf("%w: %w", domain.ErrIO, io.EOF)
	}

	consumed := int64(len(data))
	data = bytes.TrimSuffix(data, []byte{'\n'})
	data = bytes.TrimSuffix(data, []byte{'\r'})
	return data, pos, consumed, nil
}

func (s *Source) seek(pos int64) error {
	if _, err := s.r.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("%w: can't reset position: %w", domain.ErrIO, err)
	}
	return nil
}

func machineName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
