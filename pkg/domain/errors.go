package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIO is returned when the description source cannot be read.
	ErrIO = errors.New("description source i/o failure")

	// ErrMalformedTransition is returned when a transition line does not match
	// the (FROM,READ)->(TO,WRITE,DIR) grammar.
	ErrMalformedTransition = errors.New("malformed transition")

	// ErrInvalidDirection is returned when the direction letter is not G, S or D.
	ErrInvalidDirection = errors.New("invalid direction")

	// ErrIncompleteDescription is returned when a description lacks one of the
	// initial, accept or reject lines.
	ErrIncompleteDescription = errors.New("incomplete machine description")

	// ErrEmptyState is returned when a state identifier is empty.
	ErrEmptyState = errors.New("empty state identifier")

	// ErrStuck is returned when no rule applies to the current state and symbol.
	ErrStuck = errors.New("machine stuck")

	// ErrStepLimit is returned when a run exceeds its configured step bound.
	ErrStepLimit = errors.New("step limit exceeded")

	// ErrResultNotFound is returned when a run result cannot be found in the store.
	ErrResultNotFound = errors.New("result not found")
)

// ParseError describes a transition line that could not be parsed.
type ParseError struct {
	Line   int    // 1-based line in the description, 0 if unknown
	Column int    // 0-based offset in the line where parsing stopped
	Text   string // The offending line
	Reason string
	Err    error // ErrMalformedTransition or ErrInvalidDirection
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v at column %d: %s (%q)", e.Line, e.Err, e.Column, e.Reason, e.Text)
	}
	return fmt.Sprintf("%v at column %d: %s (%q)", e.Err, e.Column, e.Reason, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StuckError reports the (state, symbol) pair with no applicable rule.
type StuckError struct {
	State  string
	Symbol byte
	Step   int
}

func (e *StuckError) Error() string {
	return fmt.Sprintf("%v: no transition for (%s,%q) after %d steps", ErrStuck, e.State, e.Symbol, e.Step)
}

func (e *StuckError) Unwrap() error {
	return ErrStuck
}
