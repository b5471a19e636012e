// Package seasonalevents provides persistence for seasonal event instances
package seasonalevents

import (
	"context"

	"github.com/hearthvale/companion-api/internal/entities/town"
)

// Repository defines the interface for seasonal event persistence
type Repository interface {
	// Get retrieves an event instance by ID
	// Returns errors.NotFound if it doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Create creates a new event instance
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Update replaces an existing instance
	// Returns errors.NotFound if it doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// List retrieves every known event instance
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// ListActive retrieves the currently active instances
	ListActive(ctx context.Context, input ListActiveInput) (*ListActiveOutput, error)
}

// GetInput identifies an event instance
type GetInput struct {
	ID string
}

// GetOutput carries the instance
type GetOutput struct {
	Event *town.SeasonalEvent
}

// CreateInput carries the instance to create
type CreateInput struct {
	Event *town.SeasonalEvent
}

// CreateOutput carries the created instance
type CreateOutput struct {
	Event *town.SeasonalEvent
}

// UpdateInput carries the full replacement instance
type UpdateInput struct {
	Event *town.SeasonalEvent
}

// UpdateOutput carries the updated instance
type UpdateOutput struct {
	Event *town.SeasonalEvent
}

// ListInput has no parameters yet
type ListInput struct{}

// ListOutput carries every instance
type ListOutput struct {
	Events []*town.SeasonalEvent
}

// ListActiveInput has no parameters yet
type ListActiveInput struct{}

// ListActiveOutput carries active instances
type ListActiveOutput struct {
	Events []*town.SeasonalEvent
}
