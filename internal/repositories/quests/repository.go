// Package quests provides persistence for daily quests
package quests

import (
	"context"

	"github.com/hearthvale/companion-api/internal/entities/town"
)

// Repository defines the interface for quest persistence
type Repository interface {
	// Get retrieves a quest by ID
	// Returns errors.NotFound if it doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Create creates a new quest
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Update replaces an existing quest
	// Returns errors.NotFound if it doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// ListActiveByUser retrieves the user's pending/in-progress quests
	ListActiveByUser(ctx context.Context, input ListActiveByUserInput) (*ListActiveByUserOutput, error)

	// ListActive retrieves every active quest, for the deadline sweep
	ListActive(ctx context.Context, input ListActiveInput) (*ListActiveOutput, error)
}

// GetInput identifies a quest
type GetInput struct {
	ID string
}

// GetOutput carries the quest
type GetOutput struct {
	Quest *town.DailyQuest
}

// CreateInput carries the quest to create
type CreateInput struct {
	Quest *town.DailyQuest
}

// CreateOutput carries the created quest
type CreateOutput struct {
	Quest *town.DailyQuest
}

// UpdateInput carries the full replacement quest
type UpdateInput struct {
	Quest *town.DailyQuest
}

// UpdateOutput carries the updated quest
type UpdateOutput struct {
	Quest *town.DailyQuest
}

// ListActiveByUserInput identifies the user
type ListActiveByUserInput struct {
	UserID string
}

// ListActiveByUserOutput carries the user's active quests
type ListActiveByUserOutput struct {
	Quests []*town.DailyQuest
}

// ListActiveInput has no parameters yet
type ListActiveInput struct{}

// ListActiveOutput carries every active quest
type ListActiveOutput struct {
	Quests []*town.DailyQuest
}
