// Package tape implements the unbounded, two-directional tape of a Turing machine.
//
// The tape is a head cell plus two stacks holding the cells strictly left and
// strictly right of the head, nearest cell on top. Moving transfers one cell
// between the head and a side, synthesizing a blank when the side is empty,
// so every operation is O(1) amortized and total.
package tape

import "github.com/aretw0/turing/pkg/domain"

// Blank is the default blank symbol.
const Blank byte = 0

// Tape is a single-head tape. The zero value is not usable; use New.
type Tape struct {
	head  byte
	left  []byte // left[len(left)-1] is the cell adjacent to the head
	right []byte // right[len(right)-1] is the cell adjacent to the head
	blank byte
	pos   int // head offset from the first input cell
}

// New creates a tape with the head on the first byte of input (blank if the
// input is empty) and the remaining bytes extending to the right.
func New(input string, blank byte) *Tape {
	t := &Tape{head: blank, blank: blank}
	if input == "" {
		return t
	}
	t.head = input[0]
	rest := input[1:]
	t.right = make([]byte, len(rest))
	for i := 0; i < len(rest); i++ {
		t.right[len(rest)-1-i] = rest[i]
	}
	return t
}

// Read returns the symbol under the head.
func (t *Tape) Read() byte {
	return t.head
}

// Write replaces the symbol under the head.
func (t *Tape) Write(symbol byte) {
	t.head = symbol
}

// MoveLeft moves the head one cell to the left.
func (t *Tape) MoveLeft() {
	t.right = append(t.right, t.head)
	t.head, t.left = pop(t.left, t.blank)
	t.pos--
}

// MoveRight moves the head one cell to the right.
func (t *Tape) MoveRight() {
	t.left = append(t.left, t.head)
	t.head, t.right = pop(t.right, t.blank)
	t.pos++
}

// Move applies a direction. Stay leaves the head in place.
func (t *Tape) Move(dir domain.Direction) {
	switch dir {
	case domain.Left:
		t.MoveLeft()
	case domain.Right:
		t.MoveRight()
	}
}

// Position returns the head offset relative to the cell the head started on.
func (t *Tape) Position() int {
	return t.pos
}

// Blank returns the blank symbol of the tape.
func (t *Tape) Blank() byte {
	return t.blank
}

// Len returns the number of materialized cells, head included.
func (t *Tape) Len() int {
	return len(t.left) + 1 + len(t.right)
}

func pop(stack []byte, blank byte) (byte, []byte) {
	if len(stack) == 0 {
		return blank, stack
	}
	top := stack[len(stack)-1]
	return top, stack[:len(stack)-1]
}

// Snapshot is a copy of the materialized cells of a tape.
type Snapshot struct {
	Cells []byte // left to right
	Head  int    // index of the head in Cells
	Blank byte
}

// Snapshot copies the current tape contents.
func (t *Tape) Snapshot() Snapshot {
	cells := make([]byte, 0, t.Len())
	cells = append(cells, t.left...)
	cells = append(cells, t.head)
	for i := len(t.right) - 1; i >= 0; i-- {
		cells = append(cells, t.right[i])
	}
	return Snapshot{Cells: cells, Head: len(t.left), Blank: t.blank}
}

// Symbol returns the cell under the head.
func (s Snapshot) Symbol() byte {
	return s.Cells[s.Head]
}

// String returns the cells with blank padding trimmed from both ends.
func (s Snapshot) String() string {
	start, end := s.bounds()
	return string(s.Cells[start:end])
}

// Trimmed returns the trimmed cells and the head index relative to them. The
// head index may fall outside the returned slice when it rests on padding.
func (s Snapshot) Trimmed() ([]byte, int) {
	start, end := s.bounds()
	return s.Cells[start:end], s.Head - start
}

func (s Snapshot) bounds() (int, int) {
	start, end := 0, len(s.Cells)
	for start < end && s.Cells[start] == s.Blank {
		start++
	}
	for end > start && s.Cells[end-1] == s.Blank {
		end--
	}
	return start, end
}
