package seasonal

import (
	"time"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/orchestrators/achievement"
)

// CreateEventInput schedules a catalog event starting at the given time
type CreateEventInput struct {
	EventType string
	StartDate time.Time
}

// CreateEventOutput carries the scheduled instance
type CreateEventOutput struct {
	Event *town.SeasonalEvent
}

// ParticipateInput checks one activity's requirement and joins the user
type ParticipateInput struct {
	UserID     string
	EventID    string
	ActivityID string
	Context    achievement.CheckContext
}

// ParticipateOutput reports the participation result
type ParticipateOutput struct {
	Event              *town.SeasonalEvent
	Reward             town.Reward
	AlreadyParticipant bool
}

// ListEventsInput has no parameters yet
type ListEventsInput struct{}

// ListEventsOutput carries every known instance
type ListEventsOutput struct {
	Events []*town.SeasonalEvent
}

// ListActiveEventsInput has no parameters yet
type ListActiveEventsInput struct{}

// ListActiveEventsOutput carries the currently active instances
type ListActiveEventsOutput struct {
	Events []*town.SeasonalEvent
}

// SweepEventsInput has no parameters yet
type SweepEventsInput struct{}

// SweepEventsOutput reports the sweep's flips
type SweepEventsOutput struct {
	Activated   int
	Deactivated int
}
