package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// ResultStore defines the interface for persisting run results.
type ResultStore interface {
	// Save persists the result under result.ID.
	Save(ctx context.Context, result *domain.Result) error

	// Load retrieves the result for a given run ID.
	// Returns domain.ErrResultNotFound if the run does not exist.
	Load(ctx context.Context, id string) (*domain.Result, error)

	// Delete removes the result for a given run ID.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of the stored runs.
	List(ctx context.Context) ([]string, error)
}
