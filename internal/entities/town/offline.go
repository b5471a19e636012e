package town

import "time"

// OfflineEventType classifies what a companion "experienced" while the user
// was away.
type OfflineEventType string

// Offline event types
const (
	OfflineMissYou        OfflineEventType = "miss_you"
	OfflineWorryAbout     OfflineEventType = "worry_about"
	OfflineRememberMoment OfflineEventType = "remember_moment"
	OfflineDailyLife      OfflineEventType = "daily_life"
)

// OfflineProgress is one synthesized offline event. WasViewed flips
// false→true exactly once, by the UI layer.
type OfflineProgress struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	NPCID         string           `json:"npc_id"`
	EventType     OfflineEventType `json:"event_type"`
	Content       string           `json:"content"`
	EmotionChange float64          `json:"emotion_change"`
	OccurredAt    time.Time        `json:"occurred_at"`
	WasViewed     bool             `json:"was_viewed"`
}

// ReunionDialogue is the greeting a companion offers when the user returns,
// with the bond bonus that was granted alongside it.
type ReunionDialogue struct {
	NPCID     string `json:"npc_id"`
	Dialogue  string `json:"dialogue"`
	BondBonus int    `json:"bond_bonus"`
}
