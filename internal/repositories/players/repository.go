// Package players provides persistence for the minimal per-user record
package players

import (
	"context"

	"github.com/hearthvale/companion-api/internal/entities/town"
)

// Repository defines the interface for player persistence
type Repository interface {
	// Get retrieves a player by ID
	// Returns errors.NotFound if the player doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Create creates a new player record
	// Returns errors.AlreadyExists if one exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Update replaces an existing player record
	// Returns errors.NotFound if the player doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)
}

// GetInput identifies the player
type GetInput struct {
	ID string
}

// GetOutput carries the player
type GetOutput struct {
	Player *town.Player
}

// CreateInput carries the record to create
type CreateInput struct {
	Player *town.Player
}

// CreateOutput carries the created record
type CreateOutput struct {
	Player *town.Player
}

// UpdateInput carries the full replacement record
type UpdateInput struct {
	Player *town.Player
}

// UpdateOutput carries the updated record
type UpdateOutput struct {
	Player *town.Player
}
