// Package relationships provides persistence for user↔companion bonds
package relationships

import (
	"context"

	"github.com/hearthvale/companion-api/internal/entities/town"
)

// Repository defines the interface for relationship persistence
type Repository interface {
	// Get retrieves the relationship for a (user, npc) pair
	// Returns errors.NotFound if no relationship exists yet
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Create creates a new relationship
	// Returns errors.AlreadyExists if the pair already has one
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Update replaces an existing relationship row
	// Returns errors.NotFound if the relationship doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// ListByUser retrieves all of a user's relationships
	ListByUser(ctx context.Context, input ListByUserInput) (*ListByUserOutput, error)

	// CountWithMinLevel counts the user's bonds at or above a level
	CountWithMinLevel(ctx context.Context, input CountWithMinLevelInput) (*CountWithMinLevelOutput, error)

	// GetMostRecentlyInteracted returns the bond touched last
	// Returns errors.NotFound if the user has no relationships
	GetMostRecentlyInteracted(ctx context.Context, input GetMostRecentlyInteractedInput) (*GetMostRecentlyInteractedOutput, error)

	// ListLeastRecentlyInteracted returns up to Limit bonds, oldest
	// interaction first
	ListLeastRecentlyInteracted(ctx context.Context, input ListLeastRecentlyInteractedInput) (*ListLeastRecentlyInteractedOutput, error)
}

// GetInput identifies a (user, npc) pair
type GetInput struct {
	UserID string
	NPCID  string
}

// GetOutput carries the relationship
type GetOutput struct {
	Relationship *town.Relationship
}

// CreateInput carries the relationship to create
type CreateInput struct {
	Relationship *town.Relationship
}

// CreateOutput carries the created relationship
type CreateOutput struct {
	Relationship *town.Relationship
}

// UpdateInput carries the full replacement row
type UpdateInput struct {
	Relationship *town.Relationship
}

// UpdateOutput carries the updated relationship
type UpdateOutput struct {
	Relationship *town.Relationship
}

// ListByUserInput identifies the user
type ListByUserInput struct {
	UserID string
}

// ListByUserOutput carries the user's relationships
type ListByUserOutput struct {
	Relationships []*town.Relationship
}

// CountWithMinLevelInput identifies the user and the level floor
type CountWithMinLevelInput struct {
	UserID   string
	MinLevel int
}

// CountWithMinLevelOutput carries the count aggregate
type CountWithMinLevelOutput struct {
	Count int
}

// GetMostRecentlyInteractedInput identifies the user
type GetMostRecentlyInteractedInput struct {
	UserID string
}

// GetMostRecentlyInteractedOutput carries the freshest bond
type GetMostRecentlyInteractedOutput struct {
	Relationship *town.Relationship
}

// ListLeastRecentlyInteractedInput identifies the user and result cap
type ListLeastRecentlyInteractedInput struct {
	UserID string
	Limit  int
}

// ListLeastRecentlyInteractedOutput carries the stalest bonds first
type ListLeastRecentlyInteractedOutput struct {
	Relationships []*town.Relationship
}
