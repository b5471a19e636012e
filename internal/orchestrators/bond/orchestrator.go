// Package bond implements the bond engine: the leveled relationship state
// machine between a user and one companion.
package bond

import (
	"context"
	"log/slog"
	"math"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	"github.com/hearthvale/companion-api/internal/events"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	"github.com/hearthvale/companion-api/internal/pkg/idgen"
	"github.com/hearthvale/companion-api/internal/repositories/relationships"
)

// Service defines the interface for bond operations
type Service interface {
	// EnsureRelationship returns the bond for a pair, creating it lazily
	// on first interaction
	EnsureRelationship(ctx context.Context, input *EnsureRelationshipInput) (*EnsureRelationshipOutput, error)

	// AddExperience grants experience to an existing bond and handles
	// level-ups. Returns errors.NotFound if the bond doesn't exist.
	AddExperience(ctx context.Context, input *AddExperienceInput) (*AddExperienceOutput, error)

	// ComputeInteractionExp derives the experience one interaction is worth
	ComputeInteractionExp(ctx context.Context, input *ComputeInteractionExpInput) (*ComputeInteractionExpOutput, error)

	// GetLevelInfo summarizes the bond for display
	GetLevelInfo(ctx context.Context, input *GetLevelInfoInput) (*GetLevelInfoOutput, error)
}

// Config holds the dependencies for the bond engine
type Config struct {
	RelationshipRepo relationships.Repository
	EventBus         *events.Bus
	Clock            clock.Clock
	IDGenerator      idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.RelationshipRepo == nil {
		vb.RequiredField("RelationshipRepo")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	relationshipRepo relationships.Repository
	eventBus         *events.Bus
	clock            clock.Clock
	idGen            idgen.Generator
}

// New creates a new bond engine with the provided dependencies
func New(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		relationshipRepo: cfg.RelationshipRepo,
		eventBus:         cfg.EventBus,
		clock:            cfg.Clock,
		idGen:            cfg.IDGenerator,
	}, nil
}

func (o *orchestrator) EnsureRelationship(ctx context.Context, input *EnsureRelationshipInput) (*EnsureRelationshipOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}
	if _, ok := town.NPCByID(input.NPCID); !ok {
		return nil, errors.InvalidArgumentf("unknown companion: %s", input.NPCID)
	}

	existing, err := o.relationshipRepo.Get(ctx, relationships.GetInput{
		UserID: input.UserID,
		NPCID:  input.NPCID,
	})
	if err == nil {
		return &EnsureRelationshipOutput{Relationship: existing.Relationship}, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	created, err := o.relationshipRepo.Create(ctx, relationships.CreateInput{
		Relationship: &town.Relationship{
			ID:              o.idGen.Generate(),
			UserID:          input.UserID,
			NPCID:           input.NPCID,
			AffectionLevel:  0.5,
			LastInteraction: o.clock.Now(),
		},
	})
	if err != nil {
		if errors.IsAlreadyExists(err) {
			// lost a create race; the winner's row is fine
			won, getErr := o.relationshipRepo.Get(ctx, relationships.GetInput{
				UserID: input.UserID,
				NPCID:  input.NPCID,
			})
			if getErr != nil {
				return nil, getErr
			}
			return &EnsureRelationshipOutput{Relationship: won.Relationship}, nil
		}
		return nil, err
	}

	return &EnsureRelationshipOutput{Relationship: created.Relationship, Created: true}, nil
}

func (o *orchestrator) AddExperience(ctx context.Context, input *AddExperienceInput) (*AddExperienceOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}
	if input.NPCID == "" {
		return nil, errors.InvalidArgument("npc ID is required")
	}
	if input.Amount < 0 {
		return nil, errors.InvalidArgumentf("experience amount cannot be negative: %d", input.Amount)
	}

	got, err := o.relationshipRepo.Get(ctx, relationships.GetInput{
		UserID: input.UserID,
		NPCID:  input.NPCID,
	})
	if err != nil {
		return nil, err
	}
	rel := got.Relationship

	previousLevel := rel.BondLevel
	total := rel.BondExp + input.Amount

	newLevel := scanLevel(total)
	if newLevel <= previousLevel {
		// levels never go down; within the current band exp just accumulates
		newLevel = previousLevel
		rel.BondExp = total
	} else {
		rel.BondExp = total - levelThresholds[newLevel]
	}
	rel.BondLevel = newLevel
	if newLevel >= MaxBondLevel {
		rel.BondExp = 0
	}

	leveledUp := newLevel > previousLevel
	var newSecrets []string
	if leveledUp {
		npc, _ := town.NPCByID(rel.NPCID)

		if newLevel >= 4 {
			rel.SpecialTitle = npc.TitleForLevel(newLevel)
		}

		for lvl := previousLevel + 1; lvl <= newLevel; lvl++ {
			for _, secret := range npc.SecretsByLevel[lvl] {
				if !rel.HasSecret(secret) {
					rel.SecretsUnlocked = append(rel.SecretsUnlocked, secret)
					newSecrets = append(newSecrets, secret)
				}
			}
		}

		rel.Milestones = append(rel.Milestones, town.BondMilestone{
			Level:     newLevel,
			Title:     rel.SpecialTitle,
			ReachedAt: o.clock.Now(),
		})
	}

	rel.TotalInteractions++
	rel.LastInteraction = o.clock.Now()

	updated, err := o.relationshipRepo.Update(ctx, relationships.UpdateInput{Relationship: rel})
	if err != nil {
		return nil, errors.Wrap(err, "failed to persist bond experience")
	}

	if leveledUp {
		slog.InfoContext(ctx, "bond level up",
			"user_id", rel.UserID,
			"npc_id", rel.NPCID,
			"previous_level", previousLevel,
			"new_level", newLevel,
			"reason", input.Reason)

		o.eventBus.Publish(ctx, events.BondLevelUp{
			UserID:          rel.UserID,
			NPCID:           rel.NPCID,
			PreviousLevel:   previousLevel,
			NewLevel:        newLevel,
			SpecialTitle:    rel.SpecialTitle,
			UnlockedSecrets: newSecrets,
		})
	}

	return &AddExperienceOutput{
		Relationship:  updated.Relationship,
		LeveledUp:     leveledUp,
		PreviousLevel: previousLevel,
	}, nil
}

func (o *orchestrator) ComputeInteractionExp(ctx context.Context, input *ComputeInteractionExpInput) (*ComputeInteractionExpOutput, error) {
	base, ok := baseInteractionExp[input.InteractionType]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown interaction type: %s", input.InteractionType)
	}
	if input.EmotionIntensity < 0 || input.EmotionIntensity > 1 {
		return nil, errors.InvalidArgumentf("emotion intensity out of range: %v", input.EmotionIntensity)
	}

	got, err := o.relationshipRepo.Get(ctx, relationships.GetInput{
		UserID: input.UserID,
		NPCID:  input.NPCID,
	})
	if err != nil {
		return nil, err
	}

	exp := float64(base) *
		(1 + 0.5*input.EmotionIntensity) *
		(1 + 0.3*got.Relationship.EmotionalSync)

	return &ComputeInteractionExpOutput{Exp: int(math.Round(exp))}, nil
}

func (o *orchestrator) GetLevelInfo(ctx context.Context, input *GetLevelInfoInput) (*GetLevelInfoOutput, error) {
	got, err := o.relationshipRepo.Get(ctx, relationships.GetInput{
		UserID: input.UserID,
		NPCID:  input.NPCID,
	})
	if err != nil {
		return nil, err
	}
	rel := got.Relationship

	out := &GetLevelInfoOutput{
		CurrentLevel:    rel.BondLevel,
		NextLevel:       rel.BondLevel,
		UnlockedContent: rel.SecretsUnlocked,
		SpecialTitle:    rel.SpecialTitle,
	}

	if rel.BondLevel < MaxBondLevel {
		out.NextLevel = rel.BondLevel + 1
		out.ProgressPercent = float64(rel.BondExp) / float64(levelBand(rel.BondLevel)) * 100
	} else {
		out.ProgressPercent = 100
	}

	return out, nil
}
