package tests

import (
	"errors"
	"io"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// LineSourceContractTest is a reusable test suite that verifies if an adapter
// complies with ports.LineSource. newSource must build a fresh source over content.
func LineSourceContractTest(t *testing.T, newSource func(t *testing.T, content string) ports.LineSource) {
	t.Helper()

	t.Run("Sequential_Lines", func(t *testing.T) {
		src := newSource(t, "q0\nqA\nqR\n(q0,1)->(qA,0,S)\n")

		count, err := src.LineCount()
		if err != nil {
			t.Fatalf("unexpected error counting lines: %v", err)
		}
		if count != 4 {
			t.Fatalf("expected 4 lines, got %d", count)
		}

		want := []string{"q0", "qA", "qR", "(q0,1)->(qA,0,S)"}
		for i, w := range want {
			n, err := src.LineLength()
			if err != nil {
				t.Fatalf("line %d: unexpected error measuring: %v", i, err)
			}
			if n != len(w) {
				t.Errorf("line %d: length got %d, want %d", i, n, len(w))
			}
			got, err := src.ReadLine(n)
			if err != nil {
				t.Fatalf("line %d: unexpected error reading: %v", i, err)
			}
			if got != w {
				t.Errorf("line %d: got %q, want %q", i, got, w)
			}
		}

		_, err = src.ReadLine(10)
		if !errors.Is(err, io.EOF) || !errors.Is(err, domain.ErrIO) {
			t.Errorf("expected EOF wrapped in ErrIO past the last line, got %v", err)
		}
	})

	t.Run("Length_Does_Not_Consume", func(t *testing.T) {
		src := newSource(t, "abc\nde")
		for i := 0; i < 3; i++ {
			n, err := src.LineLength()
			if err != nil || n != 3 {
				t.Fatalf("LineLength got (%d, %v), want (3, nil)", n, err)
			}
		}
		line, err := src.ReadLine(3)
		if err != nil || line != "abc" {
			t.Fatalf("ReadLine got (%q, %v), want abc", line, err)
		}
	})

	t.Run("Count_Does_Not_Consume", func(t *testing.T) {
		src := newSource(t, "a\nb\nc")
		if _, err := src.ReadLine(5); err != nil {
			t.Fatal(err)
		}
		count, err := src.LineCount()
		if err != nil || count != 3 {
			t.Fatalf("LineCount got (%d, %v), want (3, nil)", count, err)
		}
		line, err := src.ReadLine(5)
		if err != nil || line != "b" {
			t.Fatalf("ReadLine after count got (%q, %v), want b", line, err)
		}
	})

	t.Run("Truncation_Consumes_Whole_Line", func(t *testing.T) {
		src := newSource(t, "abcdef\nxyz\n")
		line, err := src.ReadLine(2)
		if err != nil || line != "ab" {
			t.Fatalf("ReadLine(2) got (%q, %v), want ab", line, err)
		}
		line, err = src.ReadLine(10)
		if err != nil || line != "xyz" {
			t.Fatalf("next ReadLine got (%q, %v), want xyz", line, err)
		}
	})

	t.Run("CRLF_And_Empty_Lines", func(t *testing.T) {
		src := newSource(t, "q0\r\n\r\nqR\r\n")
		count, err := src.LineCount()
		if err != nil || count != 3 {
			t.Fatalf("LineCount got (%d, %v), want (3, nil)", count, err)
		}
		for _, w := range []string{"q0", "", "qR"} {
			n, err := src.LineLength()
			if err != nil {
				t.Fatal(err)
			}
			got, err := src.ReadLine(n)
			if err != nil || got != w {
				t.Fatalf("got (%q, %v), want %q", got, err, w)
			}
		}
	})

	t.Run("Empty_Source", func(t *testing.T) {
		src := newSource(t, "")
		count, err := src.LineCount()
		if err != nil || count != 0 {
			t.Fatalf("LineCount got (%d, %v), want (0, nil)", count, err)
		}
		if _, err := src.ReadLine(1); !errors.Is(err, io.EOF) {
			t.Errorf("expected EOF on empty source, got %v", err)
		}
	})
}
