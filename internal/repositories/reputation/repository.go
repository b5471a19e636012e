// Package reputation provides persistence for town reputation rows
package reputation

import (
	"context"

	"github.com/hearthvale/companion-api/internal/entities/town"
)

// Repository defines the interface for reputation persistence
type Repository interface {
	// Get retrieves a user's reputation
	// Returns errors.NotFound if the user has none yet
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Create creates the user's reputation row
	// Returns errors.AlreadyExists if one exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Update replaces an existing reputation row
	// Returns errors.NotFound if the user has none
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)
}

// GetInput identifies the user
type GetInput struct {
	UserID string
}

// GetOutput carries the reputation
type GetOutput struct {
	Reputation *town.TownReputation
}

// CreateInput carries the row to create
type CreateInput struct {
	Reputation *town.TownReputation
}

// CreateOutput carries the created row
type CreateOutput struct {
	Reputation *town.TownReputation
}

// UpdateInput carries the full replacement row
type UpdateInput struct {
	Reputation *town.TownReputation
}

// UpdateOutput carries the updated row
type UpdateOutput struct {
	Reputation *town.TownReputation
}
