package town

import "time"

// AchievementType identifies one entry of the fixed achievement catalog
type AchievementType string

// Achievement is a user's progress against one catalog entry. Unlock is
// terminal: once IsUnlocked flips true the row is never re-evaluated.
type Achievement struct {
	UserID     string          `json:"user_id"`
	Type       AchievementType `json:"type"`
	Progress   float64         `json:"progress"`
	IsUnlocked bool            `json:"is_unlocked"`
	UnlockedAt *time.Time      `json:"unlocked_at,omitempty"`
	Rewards    Reward          `json:"rewards"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
