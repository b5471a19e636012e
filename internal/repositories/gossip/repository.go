// Package gossip provides persistence for gossip entries
package gossip

import (
	"context"

	"github.com/hearthvale/companion-api/internal/entities/town"
)

// Repository defines the interface for gossip persistence
type Repository interface {
	// Get retrieves a gossip entry by ID
	// Returns errors.NotFound if it doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Create creates a new gossip entry
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Update replaces an existing entry
	// Returns errors.NotFound if it doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// ListActiveByUser retrieves the active entries about a user
	ListActiveByUser(ctx context.Context, input ListActiveByUserInput) (*ListActiveByUserOutput, error)

	// ListActive retrieves every active entry, for the expiry sweep
	ListActive(ctx context.Context, input ListActiveInput) (*ListActiveOutput, error)

	// CountByUser counts all entries ever created about a user
	CountByUser(ctx context.Context, input CountByUserInput) (*CountByUserOutput, error)
}

// GetInput identifies an entry
type GetInput struct {
	ID string
}

// GetOutput carries the entry
type GetOutput struct {
	Gossip *town.GossipEntry
}

// CreateInput carries the entry to create
type CreateInput struct {
	Gossip *town.GossipEntry
}

// CreateOutput carries the created entry
type CreateOutput struct {
	Gossip *town.GossipEntry
}

// UpdateInput carries the full replacement entry
type UpdateInput struct {
	Gossip *town.GossipEntry
}

// UpdateOutput carries the updated entry
type UpdateOutput struct {
	Gossip *town.GossipEntry
}

// ListActiveByUserInput identifies the user
type ListActiveByUserInput struct {
	UserID string
}

// ListActiveByUserOutput carries the user's active entries
type ListActiveByUserOutput struct {
	Entries []*town.GossipEntry
}

// ListActiveInput has no parameters yet
type ListActiveInput struct{}

// ListActiveOutput carries every active entry
type ListActiveOutput struct {
	Entries []*town.GossipEntry
}

// CountByUserInput identifies the user
type CountByUserInput struct {
	UserID string
}

// CountByUserOutput carries the count aggregate
type CountByUserOutput struct {
	Count int
}
