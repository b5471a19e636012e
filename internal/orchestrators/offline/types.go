package offline

import "github.com/hearthvale/companion-api/internal/entities/town"

// GenerateOfflineEventsInput synthesizes companion life for an absence
type GenerateOfflineEventsInput struct {
	UserID       string
	OfflineHours float64
}

// GenerateOfflineEventsOutput carries the synthesized events
type GenerateOfflineEventsOutput struct {
	Events []*town.OfflineProgress
}

// GenerateReunionDialoguesInput greets a returning user
type GenerateReunionDialoguesInput struct {
	UserID       string
	OfflineHours float64
}

// GenerateReunionDialoguesOutput carries the greetings and granted bonuses
type GenerateReunionDialoguesOutput struct {
	Dialogues []*town.ReunionDialogue
}

// ProcessPlayerReturnInput handles a login end to end
type ProcessPlayerReturnInput struct {
	UserID string
}

// ProcessPlayerReturnOutput combines the absence synthesis with the greetings
type ProcessPlayerReturnOutput struct {
	OfflineHours float64
	Events       []*town.OfflineProgress
	Dialogues    []*town.ReunionDialogue
}

// ListUnviewedInput identifies the user
type ListUnviewedInput struct {
	UserID string
}

// ListUnviewedOutput carries the not-yet-viewed events
type ListUnviewedOutput struct {
	Events []*town.OfflineProgress
}

// MarkViewedInput identifies the event to flip
type MarkViewedInput struct {
	UserID  string
	EventID string
}

// MarkViewedOutput carries the flipped event
type MarkViewedOutput struct {
	Event *town.OfflineProgress
}
