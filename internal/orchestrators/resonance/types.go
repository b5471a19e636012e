package resonance

import "github.com/hearthvale/companion-api/internal/entities/town"

// ComputeResonanceInput carries one conversation turn's two sides.
// HistoricalSync, when set, blends the stored rolling sync into the score.
type ComputeResonanceInput struct {
	UserText       string
	NPCText        string
	HistoricalSync *float64
}

// ComputeResonanceOutput carries the scored turn
type ComputeResonanceOutput struct {
	SyncLevel               float64
	DominantEmotion         town.EmotionType
	ResonanceType           town.ResonanceType
	BonusExp                int
	SpecialDialogueUnlocked bool
}

// ProcessConversationInput carries a full turn to persist and apply
type ProcessConversationInput struct {
	UserID      string
	NPCID       string
	UserMessage string
	NPCMessage  string
}

// ProcessConversationOutput carries the scored turn and the updated rolling
// sync.
type ProcessConversationOutput struct {
	Result        *ComputeResonanceOutput
	EmotionalSync float64
}
