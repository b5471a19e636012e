// Package achievements provides persistence for achievement rows
package achievements

import (
	"context"

	"github.com/hearthvale/companion-api/internal/entities/town"
)

// Repository defines the interface for achievement persistence. Rows are
// keyed by (user, type); Upsert makes the unlock path idempotent.
type Repository interface {
	// Get retrieves a user's row for one achievement type
	// Returns errors.NotFound if the user has no row yet
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Upsert creates or replaces the row for (user, type)
	Upsert(ctx context.Context, input UpsertInput) (*UpsertOutput, error)

	// ListByUser retrieves all of a user's achievement rows
	ListByUser(ctx context.Context, input ListByUserInput) (*ListByUserOutput, error)
}

// GetInput identifies a (user, type) pair
type GetInput struct {
	UserID string
	Type   town.AchievementType
}

// GetOutput carries the row
type GetOutput struct {
	Achievement *town.Achievement
}

// UpsertInput carries the row to write
type UpsertInput struct {
	Achievement *town.Achievement
}

// UpsertOutput carries the written row
type UpsertOutput struct {
	Achievement *town.Achievement
}

// ListByUserInput identifies the user
type ListByUserInput struct {
	UserID string
}

// ListByUserOutput carries the user's rows
type ListByUserOutput struct {
	Achievements []*town.Achievement
}
