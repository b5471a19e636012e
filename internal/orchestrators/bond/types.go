package bond

import "github.com/hearthvale/companion-api/internal/entities/town"

// EnsureRelationshipInput identifies the pair to create lazily
type EnsureRelationshipInput struct {
	UserID string
	NPCID  string
}

// EnsureRelationshipOutput carries the existing or freshly-created bond
type EnsureRelationshipOutput struct {
	Relationship *town.Relationship
	Created      bool
}

// AddExperienceInput carries an experience grant
type AddExperienceInput struct {
	UserID string
	NPCID  string
	Amount int
	Reason string
}

// AddExperienceOutput carries the resulting bond state
type AddExperienceOutput struct {
	Relationship  *town.Relationship
	LeveledUp     bool
	PreviousLevel int
}

// ComputeInteractionExpInput carries one interaction's parameters
type ComputeInteractionExpInput struct {
	UserID           string
	NPCID            string
	InteractionType  town.InteractionType
	EmotionIntensity float64
}

// ComputeInteractionExpOutput carries the computed experience
type ComputeInteractionExpOutput struct {
	Exp int
}

// GetLevelInfoInput identifies the pair
type GetLevelInfoInput struct {
	UserID string
	NPCID  string
}

// GetLevelInfoOutput summarizes the bond for display
type GetLevelInfoOutput struct {
	CurrentLevel    int
	NextLevel       int
	ProgressPercent float64
	UnlockedContent []string
	SpecialTitle    string
}
