package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// Runner defines the execution surface used by adapters (HTTP, MCP) that
// receive a description and an input per request.
type Runner interface {
	// Load reads and parses a machine description.
	Load(ctx context.Context, src LineSource) (*domain.Machine, error)

	// Execute runs a loaded machine against input. A stuck or bounded run
	// returns both a Result and an error.
	Execute(ctx context.Context, m *domain.Machine, input string) (*domain.Result, error)
}
