package reputation

import "github.com/hearthvale/companion-api/internal/entities/town"

// ActionKind classifies a reputation update
type ActionKind string

// Action kinds
const (
	ActionPositive ActionKind = "positive"
	ActionNegative ActionKind = "negative"
)

// UpdateReputationInput applies a scored action to a user's standing
type UpdateReputationInput struct {
	UserID string
	Kind   ActionKind
	Points int
	Reason string
}

// UpdateReputationOutput carries the updated row plus what changed
type UpdateReputationOutput struct {
	Reputation    *town.TownReputation
	AppliedPoints int
	LeveledUp     bool
	TypeChanged   bool
}

// GetReputationInput identifies the user
type GetReputationInput struct {
	UserID string
}

// GetReputationOutput carries the row, created lazily at defaults
type GetReputationOutput struct {
	Reputation *town.TownReputation
}

// CreateGossipInput seeds a new rumor from one companion
type CreateGossipInput struct {
	UserID      string
	SourceNPCID string
	Content     string
	Sentiment   float64
}

// CreateGossipOutput carries the circulated entry and its reputation delta
type CreateGossipOutput struct {
	Gossip          *town.GossipEntry
	ReputationDelta int
}

// SpreadGossipInput identifies the entry to propagate one step
type SpreadGossipInput struct {
	GossipID string
}

// SpreadGossipOutput reports one propagation step
type SpreadGossipOutput struct {
	Gossip           *town.GossipEntry
	AffectedNPCs     []string
	SentimentChange  float64
	ReputationImpact int
}

// NPCAttitudeInput asks how a companion initially regards a user
type NPCAttitudeInput struct {
	NPCID  string
	UserID string
}

// NPCAttitudeOutput decomposes the attitude score
type NPCAttitudeOutput struct {
	Base           int
	GossipModifier float64
	Final          float64
}

// ExpireGossipInput has no parameters yet
type ExpireGossipInput struct{}

// ExpireGossipOutput reports how many entries the sweep deactivated
type ExpireGossipOutput struct {
	Expired int
}
