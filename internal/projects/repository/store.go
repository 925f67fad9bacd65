package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GoSim-25-26J-441/go-fund-backend/internal/projects/domain"
)

// MutateFunc transforms a project in memory. Returning an error aborts the write.
type MutateFunc func(p *domain.Project) error

// Store persists whole project documents. Mutate runs its function inside an
// atomic read-modify-write keyed by project id, so concurrent callers touching
// different collections of the same project never lose each other's updates.
type Store interface {
	Create(ctx context.Context, p *domain.Project) error
	Get(ctx context.Context, id string) (*domain.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error)
	ListIDs(ctx context.Context) ([]string, error)
	Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Project, error)
}

const maxCreateAttempts = 5

func encode(p *domain.Project) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project: %w", err)
	}
	return b, nil
}

func decode(b []byte) (*domain.Project, error) {
	var p domain.Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}
	return &p, nil
}
