package compiler

import (
	"github.com/aretw0/turing/pkg/domain"
)

// arrow separates the (FROM,READ) and (TO,WRITE,DIR) halves of a line.
const arrow = ")->("

// Parser is responsible for converting description lines into Transitions.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes one transition line of the form (FROM,READ)->(TO,WRITE,DIR).
// It never reads at or past len(line). On failure it returns the zero
// Transition and a *domain.ParseError.
func (p *Parser) Parse(line string) (domain.Transition, error) {
	c := cursor{line: line}

	if !c.expect('(') {
		return c.fail(domain.ErrMalformedTransition, "expected '('")
	}

	from, ok := c.state()
	if !ok {
		return c.fail(domain.ErrMalformedTransition, "invalid source state")
	}

	read, ok := c.next()
	if !ok {
		return c.fail(domain.ErrMalformedTransition, "missing read symbol")
	}

	if !c.literal(arrow) {
		return c.fail(domain.ErrMalformedTransition, "expected \")->(\"")
	}

	to, ok := c.state()
	if !ok {
		return c.fail(domain.ErrMalformedTransition, "invalid target state")
	}

	write, ok := c.next()
	if !ok {
		return c.fail(domain.ErrMalformedTransition, "missing write symbol")
	}

	if !c.expect(',') {
		return c.fail(domain.ErrMalformedTransition, "expected ',' after write symbol")
	}

	letter, ok := c.next()
	if !ok {
		return c.fail(domain.ErrMalformedTransition, "missing direction")
	}
	dir, err := domain.ParseDirection(letter)
	if err != nil {
		c.pos--
		return c.fail(domain.ErrInvalidDirection, "direction must be G, S or D")
	}

	if !c.expect(')') {
		return c.fail(domain.ErrMalformedTransition, "expected ')'")
	}
	if c.pos != len(line) {
		return c.fail(domain.ErrMalformedTransition, "trailing characters after ')'")
	}

	tr, err := domain.NewTransition(from, read, to, write, dir)
	if err != nil {
		return c.fail(domain.ErrMalformedTransition, err.Error())
	}
	return tr, nil
}

// cursor walks a line without ever indexing past its length.
type cursor struct {
	line string
	pos  int
}

func (c *cursor) next() (byte, bool) {
	if c.pos >= len(c.line) {
		return 0, false
	}
	b := c.line[c.pos]
	c.pos++
	return b, true
}

func (c *cursor) expect(want byte) bool {
	b, ok := c.next()
	if !ok || b != want {
		if ok {
			c.pos--
		}
		return false
	}
	return true
}

func (c *cursor) literal(want string) bool {
	if len(c.line)-c.pos < len(want) {
		return false
	}
	for i := 0; i < len(want); i++ {
		if c.line[c.pos] != want[i] {
			return false
		}
		c.pos++
	}
	return true
}

// state collects a non-empty run up to the next ',' and consumes the comma.
// A ')' inside the run or a missing comma rejects the run.
func (c *cursor) state() (string, bool) {
	start := c.pos
	for c.pos < len(c.line) {
		switch c.line[c.pos] {
		case ',':
			if c.pos == start {
				return "", false
			}
			id := c.line[start:c.pos]
			c.pos++
			return id, true
		case ')':
			return "", false
		}
		c.pos++
	}
	return "", false
}

func (c *cursor) fail(kind error, reason string) (domain.Transition, error) {
	return domain.Transition{}, &domain.ParseError{
		Column: c.pos,
		Text:   c.line,
		Reason: reason,
		Err:    kind,
	}
}
