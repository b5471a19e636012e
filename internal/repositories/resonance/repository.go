// Package resonance provides persistence for emotional resonance rows
package resonance

import (
	"context"
	"time"

	"github.com/hearthvale/companion-api/internal/entities/town"
)

// Repository defines the interface for resonance persistence. Rows are
// append-only; only a bounded recent window is ever read back.
type Repository interface {
	// Create appends a resonance row
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// ListRecent returns up to Limit rows for a relationship created at or
	// after Since, newest first
	ListRecent(ctx context.Context, input ListRecentInput) (*ListRecentOutput, error)
}

// CreateInput carries the row to append
type CreateInput struct {
	Resonance *town.EmotionalResonance
}

// CreateOutput carries the appended row
type CreateOutput struct {
	Resonance *town.EmotionalResonance
}

// ListRecentInput bounds the window
type ListRecentInput struct {
	RelationshipID string
	Since          time.Time
	Limit          int
}

// ListRecentOutput carries the window, newest first
type ListRecentOutput struct {
	Resonances []*town.EmotionalResonance
}
