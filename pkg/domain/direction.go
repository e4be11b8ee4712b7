package domain

import "fmt"

// Direction is the head movement applied after a write.
type Direction int

const (
	Left Direction = iota
	Stay
	Right
)

// ParseDirection maps a description letter (G, S, D) to a Direction.
func ParseDirection(c byte) (Direction, error) {
	switch c {
	case LetterLeft:
		return Left, nil
	case LetterStay:
		return Stay, nil
	case LetterRight:
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, c)
}

// Letter returns the description letter for the direction.
func (d Direction) Letter() byte {
	switch d {
	case Left:
		return LetterLeft
	case Right:
		return LetterRight
	default:
		return LetterStay
	}
}

func (d Direction) String() string {
	return string(d.Letter())
}

// Valid reports whether d is one of the three known movements.
func (d Direction) Valid() bool {
	return d == Left || d == Stay || d == Right
}

// MarshalText renders the direction as its description letter.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	return []byte{d.Letter()}, nil
}

// UnmarshalText parses a single description letter.
func (d *Direction) UnmarshalText(text []byte) error {
	if len(text) != 1 {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, text)
	}
	parsed, err := ParseDirection(text[0])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
