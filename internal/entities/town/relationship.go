// Package town defines the domain entities of the social simulation: bonds,
// resonance, reputation, gossip, quests, achievements, offline progress, and
// seasonal events.
package town

import "time"

// InteractionType classifies a single user↔companion interaction
type InteractionType string

// Interaction types, roughly ordered by intimacy
const (
	InteractionChat        InteractionType = "chat"
	InteractionJoke        InteractionType = "joke"
	InteractionGift        InteractionType = "gift"
	InteractionComfort     InteractionType = "comfort"
	InteractionDeepTalk    InteractionType = "deep_talk"
	InteractionConfession  InteractionType = "confession"
	InteractionSecretShare InteractionType = "secret_share"
)

// BondMilestone records a level threshold being crossed
type BondMilestone struct {
	Level     int       `json:"level"`
	Title     string    `json:"title,omitempty"`
	ReachedAt time.Time `json:"reached_at"`
}

// Relationship is the leveled affinity state between a user and one
// companion. BondLevel only ever goes up; BondExp is the overflow within the
// current level's band.
type Relationship struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	NPCID             string          `json:"npc_id"`
	BondLevel         int             `json:"bond_level"`
	BondExp           int             `json:"bond_exp"`
	EmotionalSync     float64         `json:"emotional_sync"`
	AffectionLevel    float64         `json:"affection_level"`
	SpecialTitle      string          `json:"special_title,omitempty"`
	SecretsUnlocked   []string        `json:"secrets_unlocked,omitempty"`
	Milestones        []BondMilestone `json:"milestones,omitempty"`
	TotalInteractions int             `json:"total_interactions"`
	LastInteraction   time.Time       `json:"last_interaction"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// HasSecret reports whether the given secret has already been unlocked
func (r *Relationship) HasSecret(secret string) bool {
	for _, s := range r.SecretsUnlocked {
		if s == secret {
			return true
		}
	}
	return false
}
