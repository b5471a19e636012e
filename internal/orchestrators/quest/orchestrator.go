// Package quest implements the daily quest engine: a small rotating set of
// objectives per user, drawn from a fixed template catalog, with rewards
// routed through the bond and reputation engines.
package quest

import (
	"context"
	"log/slog"
	"time"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	"github.com/hearthvale/companion-api/internal/events"
	"github.com/hearthvale/companion-api/internal/orchestrators/bond"
	"github.com/hearthvale/companion-api/internal/orchestrators/reputation"
	"github.com/hearthvale/companion-api/internal/pkg/chance"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	"github.com/hearthvale/companion-api/internal/pkg/idgen"
	questrepo "github.com/hearthvale/companion-api/internal/repositories/quests"
	"github.com/hearthvale/companion-api/internal/repositories/relationships"
)

// maxActiveQuests caps concurrently active quests per user
const maxActiveQuests = 3

// Service defines the interface for quest operations
type Service interface {
	// GenerateDailyQuests tops the user up to three active quests
	GenerateDailyQuests(ctx context.Context, input *GenerateDailyQuestsInput) (*GenerateDailyQuestsOutput, error)

	// StartQuest moves a pending quest to in progress
	StartQuest(ctx context.Context, input *StartQuestInput) (*StartQuestOutput, error)

	// CompleteQuest finishes an in-progress quest and grants its reward
	CompleteQuest(ctx context.Context, input *CompleteQuestInput) (*CompleteQuestOutput, error)

	// ExpireOverdue fails active quests past their deadline
	ExpireOverdue(ctx context.Context, input *ExpireOverdueInput) (*ExpireOverdueOutput, error)
}

// Config holds the dependencies for the quest engine
type Config struct {
	QuestRepo         questrepo.Repository
	RelationshipRepo  relationships.Repository
	BondService       bond.Service
	ReputationService reputation.Service
	EventBus          *events.Bus
	Clock             clock.Clock
	Chance            *chance.Chance
	IDGenerator       idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.QuestRepo == nil {
		vb.RequiredField("QuestRepo")
	}
	if c.RelationshipRepo == nil {
		vb.RequiredField("RelationshipRepo")
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
	if c.Chance == nil {
		vb.RequiredField("Chance")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	questRepo         questrepo.Repository
	relationshipRepo  relationships.Repository
	bondService       bond.Service
	reputationService reputation.Service
	eventBus          *events.Bus
	clock             clock.Clock
	chance            *chance.Chance
	idGen             idgen.Generator
}

// New creates a new quest engine with the provided dependencies
func New(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		questRepo:         cfg.QuestRepo,
		relationshipRepo:  cfg.RelationshipRepo,
		bondService:       cfg.BondService,
		reputationService: cfg.ReputationService,
		eventBus:          cfg.EventBus,
		clock:             cfg.Clock,
		chance:            cfg.Chance,
		idGen:             cfg.IDGenerator,
	}, nil
}

func (o *orchestrator) GenerateDailyQuests(ctx context.Context, input *GenerateDailyQuestsInput) (*GenerateDailyQuestsOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	active, err := o.questRepo.ListActiveByUser(ctx, questrepo.ListActiveByUserInput{UserID: input.UserID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active quests")
	}
	quests := active.Quests
	if len(quests) >= maxActiveQuests {
		return &GenerateDailyQuestsOutput{Quests: quests}, nil
	}

	usedTypes := make(map[string]bool, len(quests))
	for _, q := range quests {
		usedTypes[q.QuestType] = true
	}

	stale, err := o.relationshipRepo.ListLeastRecentlyInteracted(ctx, relationships.ListLeastRecentlyInteractedInput{
		UserID: input.UserID,
		Limit:  maxActiveQuests,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stale relationships")
	}

	now := o.clock.Now()
	deadline := endOfDay(now)
	generated := 0

	for len(quests) < maxActiveQuests {
		tmpl, ok := o.drawTemplate(usedTypes)
		if !ok {
			break
		}
		usedTypes[tmpl.Type] = true

		npcID := ""
		if tmpl.NeedsNPC {
			npcID = o.pickQuestNPC(stale.Relationships, generated)
		}

		q := &town.DailyQuest{
			ID:          o.idGen.Generate(),
			UserID:      input.UserID,
			NPCID:       npcID,
			QuestType:   tmpl.Type,
			Title:       tmpl.Title,
			Description: tmpl.Description,
			Difficulty:  tmpl.Difficulty,
			Reward:      tmpl.ScaledReward(),
			Status:      town.QuestPending,
			Deadline:    deadline,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if _, err := o.questRepo.Create(ctx, questrepo.CreateInput{Quest: q}); err != nil {
			return nil, errors.Wrap(err, "failed to create quest")
		}
		quests = append(quests, q)
		generated++
	}

	if generated > 0 {
		slog.Info("daily quests generated", "user_id", input.UserID, "count", generated)
	}

	return &GenerateDailyQuestsOutput{Quests: quests, Generated: generated}, nil
}

func (o *orchestrator) StartQuest(ctx context.Context, input *StartQuestInput) (*StartQuestOutput, error) {
	q, err := o.getUserQuest(ctx, input.UserID, input.QuestID)
	if err != nil {
		return nil, err
	}

	if q.Status != town.QuestPending {
		return nil, errors.FailedPreconditionf("quest %s is %s, only pending quests can be started", q.ID, q.Status)
	}

	q.Status = town.QuestInProgress
	q.UpdatedAt = o.clock.Now()
	if _, err := o.questRepo.Update(ctx, questrepo.UpdateInput{Quest: q}); err != nil {
		return nil, errors.Wrap(err, "failed to persist quest start")
	}

	return &StartQuestOutput{Quest: q}, nil
}

func (o *orchestrator) CompleteQuest(ctx context.Context, input *CompleteQuestInput) (*CompleteQuestOutput, error) {
	q, err := o.getUserQuest(ctx, input.UserID, input.QuestID)
	if err != nil {
		return nil, err
	}

	if q.Status != town.QuestInProgress {
		return nil, errors.FailedPreconditionf("quest %s is %s, only in-progress quests can be completed", q.ID, q.Status)
	}

	now := o.clock.Now()
	q.Status = town.QuestCompleted
	q.UpdatedAt = now
	q.CompletedAt = &now
	if _, err := o.questRepo.Update(ctx, questrepo.UpdateInput{Quest: q}); err != nil {
		return nil, errors.Wrap(err, "failed to persist quest completion")
	}

	if err := o.grantReward(ctx, q); err != nil {
		return nil, err
	}

	o.eventBus.Publish(ctx, events.QuestCompleted{
		UserID:    q.UserID,
		QuestID:   q.ID,
		QuestType: q.QuestType,
		NPCID:     q.NPCID,
	})

	slog.Info("quest completed", "user_id", q.UserID, "quest_id", q.ID, "quest_type", q.QuestType)

	return &CompleteQuestOutput{Quest: q, Reward: q.Reward}, nil
}

func (o *orchestrator) ExpireOverdue(ctx context.Context, _ *ExpireOverdueInput) (*ExpireOverdueOutput, error) {
	active, err := o.questRepo.ListActive(ctx, questrepo.ListActiveInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active quests")
	}

	now := o.clock.Now()
	failed := 0
	for _, q := range active.Quests {
		if !now.After(q.Deadline) {
			continue
		}
		q.Status = town.QuestFailed
		q.UpdatedAt = now
		if _, err := o.questRepo.Update(ctx, questrepo.UpdateInput{Quest: q}); err != nil {
			slog.Error("failed to expire quest", "quest_id", q.ID, "error", err)
			continue
		}
		failed++
	}

	if failed > 0 {
		slog.Info("quest sweep complete", "failed", failed)
	}
	return &ExpireOverdueOutput{Failed: failed}, nil
}

// grantReward applies the stored reward through the bond and reputation
// engines. Bond exp goes to the quest's companion when it has one, otherwise
// to the most recently interacted relationship.
func (o *orchestrator) grantReward(ctx context.Context, q *town.DailyQuest) error {
	if q.Reward.BondExp > 0 {
		npcID := q.NPCID
		if npcID == "" {
			recent, err := o.relationshipRepo.GetMostRecentlyInteracted(ctx, relationships.GetMostRecentlyInteractedInput{UserID: q.UserID})
			switch {
			case err == nil:
				npcID = recent.Relationship.NPCID
			case errors.IsNotFound(err):
				// nobody to bond with yet, drop the exp portion
			default:
				return err
			}
		}
		if npcID != "" {
			if _, err := o.bondService.AddExperience(ctx, &bond.AddExperienceInput{
				UserID: q.UserID,
				NPCID:  npcID,
				Amount: q.Reward.BondExp,
				Reason: "quest_reward",
			}); err != nil {
				return err
			}
		}
	}

	if q.Reward.InfluencePoints > 0 {
		if _, err := o.reputationService.UpdateReputation(ctx, &reputation.UpdateReputationInput{
			UserID: q.UserID,
			Kind:   reputation.ActionPositive,
			Points: q.Reward.InfluencePoints,
			Reason: "quest_reward",
		}); err != nil {
			return err
		}
	}

	return nil
}

func (o *orchestrator) getUserQuest(ctx context.Context, userID, questID string) (*town.DailyQuest, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("UserID", userID, vb)
	errors.ValidateRequired("QuestID", questID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	got, err := o.questRepo.Get(ctx, questrepo.GetInput{ID: questID})
	if err != nil {
		return nil, err
	}
	if got.Quest.UserID != userID {
		return nil, errors.NotFoundf("quest %s not found", questID)
	}
	return got.Quest, nil
}

// drawTemplate picks a uniformly random template whose type is unused
func (o *orchestrator) drawTemplate(usedTypes map[string]bool) (Template, bool) {
	var available []Template
	for _, t := range templates {
		if !usedTypes[t.Type] {
			available = append(available, t)
		}
	}
	if len(available) == 0 {
		return Template{}, false
	}
	return available[o.chance.Intn(len(available))], true
}

// pickQuestNPC targets the nth stalest relationship, falling back to a
// random roster companion for users with no relationships yet
func (o *orchestrator) pickQuestNPC(stale []*town.Relationship, n int) string {
	if len(stale) > 0 {
		return stale[n%len(stale)].NPCID
	}
	roster := town.Roster()
	return roster[o.chance.Intn(len(roster))].ID
}

// endOfDay returns the last instant of the day containing t
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
