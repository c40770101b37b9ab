// Package repository provides the project and candidate collaborators
// backed by memory or Postgres.
package repository

import (
	"context"

	"github.com/okian/devmatch/internal/domain/model"
)

// ProjectRepository looks up projects.
type ProjectRepository interface {
	// FindByID returns the project with id. Returns ErrNotFound if unknown.
	FindByID(ctx context.Context, id string) (model.Project, error)
}

// CandidateRepository lists users eligible for recommendation.
type CandidateRepository interface {
	// FindByRole returns every user holding role, in a stable order.
	FindByRole(ctx context.Context, role string) ([]model.Candidate, error)
}

// Store combines both collaborators with lifecycle management.
type Store interface {
	ProjectRepository
	CandidateRepository

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
	// Close releases resources held by the store.
	Close() error
}
