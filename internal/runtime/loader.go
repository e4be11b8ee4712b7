package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

var headerNames = [domain.HeaderLines]string{"initial", "accept", "reject"}

// Load reads a machine description: the initial, accept and reject state
// lines followed by exactly LineCount()-3 transition lines. Any failure aborts
// the whole load; no partial machine is returned.
func (e *Engine) Load(ctx context.Context, src ports.LineSource) (*domain.Machine, error) {
	total, err := src.LineCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count lines: %w", err)
	}
	if total < domain.HeaderLines {
		return nil, fmt.Errorf("%w: got %d lines, need at least %d", domain.ErrIncompleteDescription, total, domain.HeaderLines)
	}

	var header [domain.HeaderLines]string
	for i := range header {
		line, err := readLine(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s state (line %d): %w", headerNames[i], i+1, err)
		}
		if line == "" {
			return nil, fmt.Errorf("%s state (line %d): %w", headerNames[i], i+1, domain.ErrEmptyState)
		}
		header[i] = line
	}

	table := make(domain.Table, 0, total-domain.HeaderLines)
	for i := domain.HeaderLines; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, err := readLine(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read transition (line %d): %w", i+1, err)
		}

		tr, err := e.parser.Parse(line)
		if err != nil {
			var perr *domain.ParseError
			if errors.As(err, &perr) {
				perr.Line = i + 1
			}
			return nil, err
		}
		table = append(table, tr)
	}

	m := &domain.Machine{
		Initial: header[0],
		Accept:  header[1],
		Reject:  header[2],
		Table:   table,
	}
	if named, ok := src.(interface{ Name() string }); ok {
		m.Name = named.Name()
	}

	e.logger.Debug("machine loaded",
		"machine", m.Name,
		"initial", m.Initial,
		"accept", m.Accept,
		"reject", m.Reject,
		"transitions", len(table),
	)
	return m, nil
}

// readLine measures the next line and reads exactly that many bytes.
func readLine(src ports.LineSource) (string, error) {
	n, err := src.LineLength()
	if err != nil {
		return "", err
	}
	return src.ReadLine(n)
}
