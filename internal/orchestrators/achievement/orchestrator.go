// Package achievement implements the achievement engine: a fixed catalog of
// unlockable milestones evaluated against live aggregates, with rewards routed
// through the bond and reputation engines.
package achievement

import (
	"context"
	"log/slog"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	"github.com/hearthvale/companion-api/internal/events"
	"github.com/hearthvale/companion-api/internal/orchestrators/bond"
	"github.com/hearthvale/companion-api/internal/orchestrators/reputation"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	achievementrepo "github.com/hearthvale/companion-api/internal/repositories/achievements"
	gossiprepo "github.com/hearthvale/companion-api/internal/repositories/gossip"
	"github.com/hearthvale/companion-api/internal/repositories/relationships"
)

// Service defines the interface for achievement operations
type Service interface {
	// CheckAchievement evaluates one catalog entry for a user. Already
	// unlocked rows are left untouched; on a met predicate the row unlocks
	// exactly once and rewards are granted.
	CheckAchievement(ctx context.Context, input *CheckAchievementInput) (*CheckAchievementOutput, error)

	// CheckAll re-checks every catalog entry for a user
	CheckAll(ctx context.Context, input *CheckAllInput) (*CheckAllOutput, error)

	// ListAchievements returns the user's rows, including locked progress
	ListAchievements(ctx context.Context, input *ListAchievementsInput) (*ListAchievementsOutput, error)

	// EvaluateRequirement evaluates a single predicate against live
	// aggregates. The seasonal event engine reuses this for its activities.
	EvaluateRequirement(ctx context.Context, input *EvaluateRequirementInput) (*EvaluateRequirementOutput, error)

	// RegisterSubscriptions hooks the engine onto the event bus so unlocks
	// happen proactively as the other engines emit progress
	RegisterSubscriptions()
}

// Config holds the dependencies for the achievement engine
type Config struct {
	AchievementRepo   achievementrepo.Repository
	RelationshipRepo  relationships.Repository
	GossipRepo        gossiprepo.Repository
	BondService       bond.Service
	ReputationService reputation.Service
	EventBus          *events.Bus
	Clock             clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.AchievementRepo == nil {
		vb.RequiredField("AchievementRepo")
	}
	if c.RelationshipRepo == nil {
		vb.RequiredField("RelationshipRepo")
	}
	if c.GossipRepo == nil {
		vb.RequiredField("GossipRepo")
	}
	if c.BondService == nil {
		vb.RequiredField("BondService")
	}
	if c.ReputationService == nil {
		vb.RequiredField("ReputationService")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	achievementRepo   achievementrepo.Repository
	relationshipRepo  relationships.Repository
	gossipRepo        gossiprepo.Repository
	bondService       bond.Service
	reputationService reputation.Service
	eventBus          *events.Bus
	clock             clock.Clock
}

// New creates a new achievement engine with the provided dependencies
func New(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		achievementRepo:   cfg.AchievementRepo,
		relationshipRepo:  cfg.RelationshipRepo,
		gossipRepo:        cfg.GossipRepo,
		bondService:       cfg.BondService,
		reputationService: cfg.ReputationService,
		eventBus:          cfg.EventBus,
		clock:             cfg.Clock,
	}, nil
}

func (o *orchestrator) CheckAchievement(ctx context.Context, input *CheckAchievementInput) (*CheckAchievementOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	def, ok := DefinitionFor(input.Type)
	if !ok {
		return nil, errors.NotFoundf("achievement type %s not found", input.Type)
	}

	var prior *town.Achievement
	existing, err := o.achievementRepo.Get(ctx, achievementrepo.GetInput{UserID: input.UserID, Type: input.Type})
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if err == nil {
		prior = existing.Achievement
		if prior.IsUnlocked {
			return &CheckAchievementOutput{Achievement: prior}, nil
		}
	}

	eval, err := o.EvaluateRequirement(ctx, &EvaluateRequirementInput{
		UserID:      input.UserID,
		Requirement: def.Requirement,
		Context:     input.Context,
	})
	if err != nil {
		return nil, err
	}

	now := o.clock.Now()
	row := &town.Achievement{
		UserID:    input.UserID,
		Type:      input.Type,
		Progress:  eval.Progress,
		Rewards:   def.Rewards,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if prior != nil {
		row.CreatedAt = prior.CreatedAt
	}

	if eval.Met {
		row.IsUnlocked = true
		row.Progress = 1
		row.UnlockedAt = &now
	}

	if _, err := o.achievementRepo.Upsert(ctx, achievementrepo.UpsertInput{Achievement: row}); err != nil {
		return nil, errors.Wrap(err, "failed to persist achievement")
	}

	if !eval.Met {
		return &CheckAchievementOutput{Achievement: row}, nil
	}

	if err := o.grantRewards(ctx, input.UserID, def.Rewards); err != nil {
		return nil, err
	}

	o.eventBus.Publish(ctx, events.AchievementUnlocked{
		UserID:          input.UserID,
		AchievementType: string(input.Type),
	})

	slog.Info("achievement unlocked", "user_id", input.UserID, "type", input.Type)

	return &CheckAchievementOutput{Achievement: row, Unlocked: true}, nil
}

func (o *orchestrator) CheckAll(ctx context.Context, input *CheckAllInput) (*CheckAllOutput, error) {
	out := &CheckAllOutput{}
	for _, def := range catalog {
		result, err := o.CheckAchievement(ctx, &CheckAchievementInput{
			UserID:  input.UserID,
			Type:    def.Type,
			Context: input.Context,
		})
		if err != nil {
			return nil, err
		}
		if result.Unlocked {
			out.Unlocked = append(out.Unlocked, def.Type)
		}
	}
	return out, nil
}

func (o *orchestrator) ListAchievements(ctx context.Context, input *ListAchievementsInput) (*ListAchievementsOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	rows, err := o.achievementRepo.ListByUser(ctx, achievementrepo.ListByUserInput{UserID: input.UserID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list achievements")
	}
	return &ListAchievementsOutput{Achievements: rows.Achievements}, nil
}

func (o *orchestrator) EvaluateRequirement(ctx context.Context, input *EvaluateRequirementInput) (*EvaluateRequirementOutput, error) {
	if input.Requirement == nil {
		return nil, errors.InvalidArgument("requirement is required")
	}

	switch req := input.Requirement.(type) {
	case town.BondLevelRequirement:
		maxLevel, err := o.maxBondLevel(ctx, input.UserID)
		if err != nil {
			return nil, err
		}
		return ratioResult(float64(maxLevel), float64(req.Level)), nil

	case town.MultipleBondsRequirement:
		count, err := o.relationshipRepo.CountWithMinLevel(ctx, relationships.CountWithMinLevelInput{
			UserID:   input.UserID,
			MinLevel: req.MinLevel,
		})
		if err != nil {
			return nil, err
		}
		return ratioResult(float64(count.Count), float64(req.Count)), nil

	case town.EmotionalSyncRequirement:
		maxSync, err := o.maxEmotionalSync(ctx, input.UserID)
		if err != nil {
			return nil, err
		}
		return ratioResult(maxSync, req.Sync), nil

	case town.ReputationLevelRequirement:
		rep, err := o.reputationService.GetReputation(ctx, &reputation.GetReputationInput{UserID: input.UserID})
		if err != nil {
			return nil, err
		}
		return ratioResult(float64(rep.Reputation.ReputationLevel), float64(req.Level)), nil

	case town.GossipCountRequirement:
		count, err := o.gossipRepo.CountByUser(ctx, gossiprepo.CountByUserInput{UserID: input.UserID})
		if err != nil {
			return nil, err
		}
		return ratioResult(float64(count.Count), float64(req.Count)), nil

	case town.MemoryFlowersRequirement:
		return ratioResult(float64(input.Context.MemoryFlowers), float64(req.Count)), nil

	case town.LettersRequirement:
		return ratioResult(float64(input.Context.Letters), float64(req.Count)), nil

	case town.EmotionalImpactRequirement:
		return ratioResult(input.Context.EmotionalImpact, req.Total), nil

	case town.AllSecretsRequirement:
		best, err := o.bestSecretRatio(ctx, input.UserID)
		if err != nil {
			return nil, err
		}
		return ratioResult(best, 1), nil

	default:
		return nil, errors.InvalidArgumentf("unknown requirement kind %s", input.Requirement.Kind())
	}
}

func (o *orchestrator) RegisterSubscriptions() {
	o.eventBus.Subscribe(events.TypeBondLevelUp, func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.BondLevelUp)
		if !ok {
			return nil
		}
		return o.checkTypes(ctx, e.UserID, typesForKinds(
			town.RequirementBondLevel,
			town.RequirementMultipleBonds,
			town.RequirementAllSecrets,
		))
	})

	o.eventBus.Subscribe(events.TypeHighEmotionalSync, func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.HighEmotionalSync)
		if !ok {
			return nil
		}
		return o.checkTypes(ctx, e.UserID, typesForKinds(town.RequirementEmotionalSync))
	})

	o.eventBus.Subscribe(events.TypeQuestCompleted, func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.QuestCompleted)
		if !ok {
			return nil
		}
		return o.checkTypes(ctx, e.UserID, typesForKinds(
			town.RequirementBondLevel,
			town.RequirementMultipleBonds,
			town.RequirementReputationLevel,
		))
	})

	o.eventBus.Subscribe(events.TypeReputationLevelUp, func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.ReputationLevelUp)
		if !ok {
			return nil
		}
		return o.checkTypes(ctx, e.UserID, typesForKinds(town.RequirementReputationLevel))
	})

	o.eventBus.Subscribe(events.TypeGossipCreated, func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.GossipCreated)
		if !ok {
			return nil
		}
		return o.checkTypes(ctx, e.UserID, typesForKinds(town.RequirementGossipCount))
	})
}

func (o *orchestrator) checkTypes(ctx context.Context, userID string, types []town.AchievementType) error {
	for _, t := range types {
		if _, err := o.CheckAchievement(ctx, &CheckAchievementInput{UserID: userID, Type: t}); err != nil {
			return err
		}
	}
	return nil
}

// grantRewards applies an unlock's rewards: bond exp to the most recently
// interacted relationship, influence to the town reputation, and the special
// title to the first relationship lacking one.
func (o *orchestrator) grantRewards(ctx context.Context, userID string, rewards town.Reward) error {
	if rewards.BondExp > 0 {
		recent, err := o.relationshipRepo.GetMostRecentlyInteracted(ctx, relationships.GetMostRecentlyInteractedInput{UserID: userID})
		switch {
		case err == nil:
			if _, err := o.bondService.AddExperience(ctx, &bond.AddExperienceInput{
				UserID: userID,
				NPCID:  recent.Relationship.NPCID,
				Amount: rewards.BondExp,
				Reason: "achievement_reward",
			}); err != nil {
				return err
			}
		case errors.IsNotFound(err):
			// nobody to bond with yet, drop the exp portion
		default:
			return err
		}
	}

	if rewards.InfluencePoints > 0 {
		if _, err := o.reputationService.UpdateReputation(ctx, &reputation.UpdateReputationInput{
			UserID: userID,
			Kind:   reputation.ActionPositive,
			Points: rewards.InfluencePoints,
			Reason: "achievement_reward",
		}); err != nil {
			return err
		}
	}

	if rewards.SpecialTitle != "" {
		if err := o.assignTitle(ctx, userID, rewards.SpecialTitle); err != nil {
			return err
		}
	}

	return nil
}

// assignTitle gives the title to the first relationship without one
func (o *orchestrator) assignTitle(ctx context.Context, userID, title string) error {
	list, err := o.relationshipRepo.ListByUser(ctx, relationships.ListByUserInput{UserID: userID})
	if err != nil {
		return errors.Wrap(err, "failed to list relationships")
	}

	for _, rel := range list.Relationships {
		if rel.SpecialTitle != "" {
			continue
		}
		rel.SpecialTitle = title
		if _, err := o.relationshipRepo.Update(ctx, relationships.UpdateInput{Relationship: rel}); err != nil {
			return errors.Wrap(err, "failed to assign title")
		}
		return nil
	}
	return nil
}

func (o *orchestrator) maxBondLevel(ctx context.Context, userID string) (int, error) {
	list, err := o.relationshipRepo.ListByUser(ctx, relationships.ListByUserInput{UserID: userID})
	if err != nil {
		return 0, errors.Wrap(err, "failed to list relationships")
	}

	maxLevel := 0
	for _, rel := range list.Relationships {
		if rel.BondLevel > maxLevel {
			maxLevel = rel.BondLevel
		}
	}
	return maxLevel, nil
}

func (o *orchestrator) maxEmotionalSync(ctx context.Context, userID string) (float64, error) {
	list, err := o.relationshipRepo.ListByUser(ctx, relationships.ListByUserInput{UserID: userID})
	if err != nil {
		return 0, errors.Wrap(err, "failed to list relationships")
	}

	maxSync := 0.0
	for _, rel := range list.Relationships {
		if rel.EmotionalSync > maxSync {
			maxSync = rel.EmotionalSync
		}
	}
	return maxSync, nil
}

// bestSecretRatio returns the highest fraction of a single companion's
// secrets the user has unlocked
func (o *orchestrator) bestSecretRatio(ctx context.Context, userID string) (float64, error) {
	list, err := o.relationshipRepo.ListByUser(ctx, relationships.ListByUserInput{UserID: userID})
	if err != nil {
		return 0, errors.Wrap(err, "failed to list relationships")
	}

	best := 0.0
	for _, rel := range list.Relationships {
		n, ok := town.NPCByID(rel.NPCID)
		if !ok {
			continue
		}
		all := n.AllSecrets()
		if len(all) == 0 {
			continue
		}

		unlocked := make(map[string]bool, len(rel.SecretsUnlocked))
		for _, s := range rel.SecretsUnlocked {
			unlocked[s] = true
		}
		have := 0
		for _, s := range all {
			if unlocked[s] {
				have++
			}
		}

		ratio := float64(have) / float64(len(all))
		if ratio > best {
			best = ratio
		}
	}
	return best, nil
}

// ratioResult clamps value/target into a [0,1] display ratio and reports
// whether the target is met
func ratioResult(value, target float64) *EvaluateRequirementOutput {
	if target <= 0 {
		return &EvaluateRequirementOutput{Met: true, Progress: 1}
	}

	ratio := value / target
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return &EvaluateRequirementOutput{Met: value >= target, Progress: ratio}
}
