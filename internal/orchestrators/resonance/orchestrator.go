// Package resonance implements the resonance engine: emotion analysis of
// conversation turns and the sync score that biases bond rewards.
package resonance

import (
	"context"
	"math"
	"time"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	"github.com/hearthvale/companion-api/internal/events"
	"github.com/hearthvale/companion-api/internal/orchestrators/bond"
	"github.com/hearthvale/companion-api/internal/pkg/chance"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	"github.com/hearthvale/companion-api/internal/pkg/idgen"
	"github.com/hearthvale/companion-api/internal/repositories/relationships"
	resonancerepo "github.com/hearthvale/companion-api/internal/repositories/resonance"
)

const (
	// rolling sync window
	syncWindow   = 24 * time.Hour
	syncWindowCap = 10

	// classification thresholds
	perfectHarmonyThreshold   = 0.9
	strongConnectionThreshold = 0.7
	moderateSyncThreshold     = 0.5
	weakResonanceThreshold    = 0.3

	// a matching dominant emotion multiplies the bonus
	sameEmotionMultiplier = 1.5

	// strong connections unlock special dialogue half the time
	strongUnlockChance = 0.5

	// rolling sync at or above this publishes HighEmotionalSync
	highSyncThreshold = 0.9

	// blend weights when historical sync is available
	currentWeight    = 0.7
	historicalWeight = 0.3
)

// Service defines the interface for resonance operations
type Service interface {
	// ComputeResonance scores one conversation turn without persisting
	ComputeResonance(ctx context.Context, input *ComputeResonanceInput) (*ComputeResonanceOutput, error)

	// ProcessConversation scores a turn, persists it, refreshes the rolling
	// sync, and routes any bonus experience through the bond engine
	ProcessConversation(ctx context.Context, input *ProcessConversationInput) (*ProcessConversationOutput, error)
}

// Config holds the dependencies for the resonance engine
type Config struct {
	ResonanceRepo    resonancerepo.Repository
	RelationshipRepo relationships.Repository
	BondService      bond.Service
	EventBus         *events.Bus
	Clock            clock.Clock
	Chance           *chance.Chance
	IDGenerator      idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.ResonanceRepo == nil {
		vb.RequiredField("ResonanceRepo")
	}
	if c.RelationshipRepo == nil {
		vb.RequiredField("RelationshipRepo")
	}
	if c.BondService == nil {
		vb.RequiredField("BondService")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Chance == nil {
		vb.RequiredField("Chance")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	resonanceRepo    resonancerepo.Repository
	relationshipRepo relationships.Repository
	bondService      bond.Service
	eventBus         *events.Bus
	clock            clock.Clock
	chance           *chance.Chance
	idGen            idgen.Generator
}

// New creates a new resonance engine with the provided dependencies
func New(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		resonanceRepo:    cfg.ResonanceRepo,
		relationshipRepo: cfg.RelationshipRepo,
		bondService:      cfg.BondService,
		eventBus:         cfg.EventBus,
		clock:            cfg.Clock,
		chance:           cfg.Chance,
		idGen:            cfg.IDGenerator,
	}, nil
}

func (o *orchestrator) ComputeResonance(_ context.Context, input *ComputeResonanceInput) (*ComputeResonanceOutput, error) {
	userDist := AnalyzeEmotion(input.UserText)
	npcDist := AnalyzeEmotion(input.NPCText)

	sync := Cosine(userDist, npcDist)
	if input.HistoricalSync != nil {
		sync = currentWeight*sync + historicalWeight*(*input.HistoricalSync)
	}

	out := &ComputeResonanceOutput{SyncLevel: sync}

	switch {
	case sync >= perfectHarmonyThreshold:
		out.ResonanceType = town.ResonancePerfectHarmony
		out.BonusExp = 50
		out.SpecialDialogueUnlocked = true
	case sync >= strongConnectionThreshold:
		out.ResonanceType = town.ResonanceStrongConnection
		out.BonusExp = 30
		out.SpecialDialogueUnlocked = o.chance.Happens(strongUnlockChance)
	case sync >= moderateSyncThreshold:
		out.ResonanceType = town.ResonanceModerateSync
		out.BonusExp = 15
	case sync >= weakResonanceThreshold:
		out.ResonanceType = town.ResonanceWeakResonance
		out.BonusExp = 5
	default:
		out.ResonanceType = town.ResonanceDissonance
	}

	userDominant, userWeight := userDist.Dominant()
	npcDominant, npcWeight := npcDist.Dominant()
	out.DominantEmotion = userDominant

	if userWeight > 0 && npcWeight > 0 && userDominant == npcDominant {
		out.BonusExp = int(math.Round(float64(out.BonusExp) * sameEmotionMultiplier))
	}

	return out, nil
}

func (o *orchestrator) ProcessConversation(ctx context.Context, input *ProcessConversationInput) (*ProcessConversationOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	ensured, err := o.bondService.EnsureRelationship(ctx, &bond.EnsureRelationshipInput{
		UserID: input.UserID,
		NPCID:  input.NPCID,
	})
	if err != nil {
		return nil, err
	}
	rel := ensured.Relationship

	computeInput := &ComputeResonanceInput{
		UserText: input.UserMessage,
		NPCText:  input.NPCMessage,
	}
	if rel.TotalInteractions > 0 {
		historical := rel.EmotionalSync
		computeInput.HistoricalSync = &historical
	}

	result, err := o.ComputeResonance(ctx, computeInput)
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	if _, err := o.resonanceRepo.Create(ctx, resonancerepo.CreateInput{
		Resonance: &town.EmotionalResonance{
			ID:             o.idGen.Generate(),
			RelationshipID: rel.ID,
			EmotionType:    result.DominantEmotion,
			ResonanceLevel: result.SyncLevel,
			CreatedAt:      now,
		},
	}); err != nil {
		return nil, errors.Wrap(err, "failed to record resonance")
	}

	newSync, err := o.rollingSync(ctx, rel.ID, now)
	if err != nil {
		return nil, err
	}

	rel.EmotionalSync = newSync
	if _, err := o.relationshipRepo.Update(ctx, relationships.UpdateInput{Relationship: rel}); err != nil {
		return nil, errors.Wrap(err, "failed to persist emotional sync")
	}

	if newSync >= highSyncThreshold {
		o.eventBus.Publish(ctx, events.HighEmotionalSync{
			UserID:    rel.UserID,
			NPCID:     rel.NPCID,
			SyncLevel: newSync,
		})
	}

	if result.BonusExp > 0 {
		if _, err := o.bondService.AddExperience(ctx, &bond.AddExperienceInput{
			UserID: input.UserID,
			NPCID:  input.NPCID,
			Amount: result.BonusExp,
			Reason: "emotional_resonance",
		}); err != nil {
			return nil, err
		}
	}

	return &ProcessConversationOutput{Result: result, EmotionalSync: newSync}, nil
}

// rollingSync averages the most recent rows inside the 24h window
func (o *orchestrator) rollingSync(ctx context.Context, relationshipID string, now time.Time) (float64, error) {
	recent, err := o.resonanceRepo.ListRecent(ctx, resonancerepo.ListRecentInput{
		RelationshipID: relationshipID,
		Since:          now.Add(-syncWindow),
		Limit:          syncWindowCap,
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to read resonance window")
	}

	rows := recent.Resonances
	if len(rows) == 0 {
		return 0, nil
	}

	sum := 0.0
	for _, row := range rows {
		sum += row.ResonanceLevel
	}

	mean := sum / float64(len(rows))
	if mean > 1 {
		mean = 1
	}
	return mean, nil
}
