package town

import "time"

// EmotionType is one of the eight emotion categories used by the resonance
// analysis.
type EmotionType string

// Emotion categories
const (
	EmotionJoy          EmotionType = "joy"
	EmotionSadness      EmotionType = "sadness"
	EmotionAnger        EmotionType = "anger"
	EmotionFear         EmotionType = "fear"
	EmotionSurprise     EmotionType = "surprise"
	EmotionLove         EmotionType = "love"
	EmotionTrust        EmotionType = "trust"
	EmotionAnticipation EmotionType = "anticipation"
)

// EmotionTypes lists the categories in their canonical vector order
var EmotionTypes = []EmotionType{
	EmotionJoy,
	EmotionSadness,
	EmotionAnger,
	EmotionFear,
	EmotionSurprise,
	EmotionLove,
	EmotionTrust,
	EmotionAnticipation,
}

// ResonanceType classifies a single conversation turn's sync level
type ResonanceType string

// Resonance classifications, strongest first
const (
	ResonancePerfectHarmony   ResonanceType = "perfect_harmony"
	ResonanceStrongConnection ResonanceType = "strong_connection"
	ResonanceModerateSync     ResonanceType = "moderate_sync"
	ResonanceWeakResonance    ResonanceType = "weak_resonance"
	ResonanceDissonance       ResonanceType = "dissonance"
)

// EmotionalResonance is one recorded conversation turn. Rows are append-only;
// the rolling 24h window drives the relationship's emotional sync.
type EmotionalResonance struct {
	ID             string      `json:"id"`
	RelationshipID string      `json:"relationship_id"`
	EmotionType    EmotionType `json:"emotion_type"`
	ResonanceLevel float64     `json:"resonance_level"`
	CreatedAt      time.Time   `json:"created_at"`
}
