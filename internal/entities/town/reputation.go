package town

import "time"

// ReputationType is the behavioral "type" derived from a user's positive
// action ratio.
type ReputationType string

// Reputation types
const (
	ReputationHealer       ReputationType = "healer"
	ReputationListener     ReputationType = "listener"
	ReputationHelper       ReputationType = "helper"
	ReputationMysterious   ReputationType = "mysterious"
	ReputationLeader       ReputationType = "leader"
	ReputationTroublemaker ReputationType = "troublemaker"
)

// TownReputation is a user's aggregate town-wide standing. Level and type are
// both derived: level from the influence threshold table, type from the
// positive-action ratio.
type TownReputation struct {
	UserID          string         `json:"user_id"`
	ReputationType  ReputationType `json:"reputation_type"`
	ReputationLevel int            `json:"reputation_level"`
	InfluencePoints int            `json:"influence_points"`
	PositiveActions int            `json:"positive_actions"`
	NegativeActions int            `json:"negative_actions"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
