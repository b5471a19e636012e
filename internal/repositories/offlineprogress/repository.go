// Package offlineprogress provides persistence for synthesized offline events
package offlineprogress

import (
	"context"

	"github.com/hearthvale/companion-api/internal/entities/town"
)

// Repository defines the interface for offline progress persistence
type Repository interface {
	// Get retrieves an event by ID
	// Returns errors.NotFound if it doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Create appends a synthesized event
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Update replaces an existing event (viewed-flag flips)
	// Returns errors.NotFound if it doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// ListUnviewedByUser retrieves the user's not-yet-viewed events
	ListUnviewedByUser(ctx context.Context, input ListUnviewedByUserInput) (*ListUnviewedByUserOutput, error)
}

// GetInput identifies an event
type GetInput struct {
	ID string
}

// GetOutput carries the event
type GetOutput struct {
	Progress *town.OfflineProgress
}

// CreateInput carries the event to append
type CreateInput struct {
	Progress *town.OfflineProgress
}

// CreateOutput carries the appended event
type CreateOutput struct {
	Progress *town.OfflineProgress
}

// UpdateInput carries the full replacement event
type UpdateInput struct {
	Progress *town.OfflineProgress
}

// UpdateOutput carries the updated event
type UpdateOutput struct {
	Progress *town.OfflineProgress
}

// ListUnviewedByUserInput identifies the user
type ListUnviewedByUserInput struct {
	UserID string
}

// ListUnviewedByUserOutput carries the unviewed events
type ListUnviewedByUserOutput struct {
	Events []*town.OfflineProgress
}
