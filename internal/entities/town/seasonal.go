package town

import "time"

// SeasonalEvent is a time-boxed campaign instance. IsActive is only true
// inside [StartDate, EndDate]; Participants only grows.
type SeasonalEvent struct {
	ID           string    `json:"id"`
	EventType    string    `json:"event_type"`
	Name         string    `json:"name"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Participants []string  `json:"participants,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasParticipant reports whether the user already joined this event
func (e *SeasonalEvent) HasParticipant(userID string) bool {
	for _, id := range e.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// InWindow reports whether now falls inside the event's scheduled window
func (e *SeasonalEvent) InWindow(now time.Time) bool {
	return !now.Before(e.StartDate) && !now.After(e.EndDate)
}
