// Package seasonal implements the seasonal event engine: time-boxed campaigns
// from a fixed catalog whose activities reuse the achievement engine's
// requirement evaluator.
package seasonal

import (
	"context"
	"log/slog"
	"time"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	"github.com/hearthvale/companion-api/internal/events"
	"github.com/hearthvale/companion-api/internal/orchestrators/achievement"
	"github.com/hearthvale/companion-api/internal/orchestrators/bond"
	"github.com/hearthvale/companion-api/internal/orchestrators/reputation"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	"github.com/hearthvale/companion-api/internal/pkg/idgen"
	"github.com/hearthvale/companion-api/internal/repositories/relationships"
	seasonalrepo "github.com/hearthvale/companion-api/internal/repositories/seasonalevents"
)

// Service defines the interface for seasonal event operations
type Service interface {
	// CreateEvent schedules a catalog event instance
	CreateEvent(ctx context.Context, input *CreateEventInput) (*CreateEventOutput, error)

	// Participate checks the activity's requirement, grants its reward, and
	// joins the user. A repeat call for the same user is a no-op.
	Participate(ctx context.Context, input *ParticipateInput) (*ParticipateOutput, error)

	// ListEvents returns every scheduled instance
	ListEvents(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error)

	// ListActiveEvents returns the instances currently in their window
	ListActiveEvents(ctx context.Context, input *ListActiveEventsInput) (*ListActiveEventsOutput, error)

	// SweepEvents activates instances whose window has opened and
	// deactivates expired ones
	SweepEvents(ctx context.Context, input *SweepEventsInput) (*SweepEventsOutput, error)
}

// Config holds the dependencies for the seasonal event engine
type Config struct {
	EventRepo          seasonalrepo.Repository
	RelationshipRepo   relationships.Repository
	BondService        bond.Service
	ReputationService  reputation.Service
	AchievementService achievement.Service
	EventBus           *events.Bus
	Clock              clock.Clock
	IDGenerator        idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.EventRepo == nil {
		vb.RequiredField("EventRepo")
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
	if c.AchievementService == nil {
		vb.RequiredField("AchievementService")
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
	eventRepo          seasonalrepo.Repository
	relationshipRepo   relationships.Repository
	bondService        bond.Service
	reputationService  reputation.Service
	achievementService achievement.Service
	eventBus           *events.Bus
	clock              clock.Clock
	idGen              idgen.Generator
}

// New creates a new seasonal event engine with the provided dependencies
func New(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		eventRepo:          cfg.EventRepo,
		relationshipRepo:   cfg.RelationshipRepo,
		bondService:        cfg.BondService,
		reputationService:  cfg.ReputationService,
		achievementService: cfg.AchievementService,
		eventBus:           cfg.EventBus,
		clock:              cfg.Clock,
		idGen:              cfg.IDGenerator,
	}, nil
}

func (o *orchestrator) CreateEvent(ctx context.Context, input *CreateEventInput) (*CreateEventOutput, error) {
	def, ok := DefinitionFor(input.EventType)
	if !ok {
		return nil, errors.NotFoundf("seasonal event type %s not found", input.EventType)
	}
	if input.StartDate.IsZero() {
		return nil, errors.InvalidArgument("start date is required")
	}

	now := o.clock.Now()
	event := &town.SeasonalEvent{
		ID:        o.idGen.Generate(),
		EventType: def.EventType,
		Name:      def.Name,
		StartDate: input.StartDate,
		EndDate:   input.StartDate.Add(time.Duration(def.DurationDays) * 24 * time.Hour),
		CreatedAt: now,
	}
	event.IsActive = event.InWindow(now)

	if _, err := o.eventRepo.Create(ctx, seasonalrepo.CreateInput{Event: event}); err != nil {
		return nil, errors.Wrap(err, "failed to create seasonal event")
	}

	o.eventBus.Publish(ctx, events.SeasonalEventCreated{EventID: event.ID, EventKind: event.EventType})
	if event.IsActive {
		o.eventBus.Publish(ctx, events.SeasonalEventActivated{EventID: event.ID, EventKind: event.EventType})
	}

	return &CreateEventOutput{Event: event}, nil
}

func (o *orchestrator) Participate(ctx context.Context, input *ParticipateInput) (*ParticipateOutput, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("UserID", input.UserID, vb)
	errors.ValidateRequired("EventID", input.EventID, vb)
	errors.ValidateRequired("ActivityID", input.ActivityID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	got, err := o.eventRepo.Get(ctx, seasonalrepo.GetInput{ID: input.EventID})
	if err != nil {
		return nil, err
	}
	event := got.Event

	if !event.IsActive || !event.InWindow(o.clock.Now()) {
		return nil, errors.FailedPreconditionf("seasonal event %s is not active", event.ID)
	}

	def, ok := DefinitionFor(event.EventType)
	if !ok {
		return nil, errors.Internalf("seasonal event %s has unknown type %s", event.ID, event.EventType)
	}
	activity, ok := def.ActivityFor(input.ActivityID)
	if !ok {
		return nil, errors.NotFoundf("activity %s not found in event %s", input.ActivityID, event.EventType)
	}

	if event.HasParticipant(input.UserID) {
		return &ParticipateOutput{Event: event, AlreadyParticipant: true}, nil
	}

	eval, err := o.achievementService.EvaluateRequirement(ctx, &achievement.EvaluateRequirementInput{
		UserID:      input.UserID,
		Requirement: activity.Requirement,
		Context:     input.Context,
	})
	if err != nil {
		return nil, err
	}
	if !eval.Met {
		return nil, errors.FailedPreconditionf("activity %s requirement not met", activity.ID)
	}

	if err := o.grantReward(ctx, input.UserID, activity.Reward); err != nil {
		return nil, err
	}

	event.Participants = append(event.Participants, input.UserID)
	if _, err := o.eventRepo.Update(ctx, seasonalrepo.UpdateInput{Event: event}); err != nil {
		return nil, errors.Wrap(err, "failed to persist participation")
	}

	slog.Info("seasonal participation",
		"user_id", input.UserID,
		"event_type", event.EventType,
		"activity", activity.ID,
	)

	return &ParticipateOutput{Event: event, Reward: activity.Reward}, nil
}

func (o *orchestrator) ListEvents(ctx context.Context, _ *ListEventsInput) (*ListEventsOutput, error) {
	list, err := o.eventRepo.List(ctx, seasonalrepo.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list seasonal events")
	}
	return &ListEventsOutput{Events: list.Events}, nil
}

func (o *orchestrator) ListActiveEvents(ctx context.Context, _ *ListActiveEventsInput) (*ListActiveEventsOutput, error) {
	list, err := o.eventRepo.ListActive(ctx, seasonalrepo.ListActiveInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active seasonal events")
	}
	return &ListActiveEventsOutput{Events: list.Events}, nil
}

func (o *orchestrator) SweepEvents(ctx context.Context, _ *SweepEventsInput) (*SweepEventsOutput, error) {
	list, err := o.eventRepo.List(ctx, seasonalrepo.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list seasonal events")
	}

	now := o.clock.Now()
	out := &SweepEventsOutput{}

	for _, event := range list.Events {
		inWindow := event.InWindow(now)
		if event.IsActive == inWindow {
			continue
		}

		event.IsActive = inWindow
		if _, err := o.eventRepo.Update(ctx, seasonalrepo.UpdateInput{Event: event}); err != nil {
			slog.Error("failed to flip seasonal event", "event_id", event.ID, "error", err)
			continue
		}

		if inWindow {
			out.Activated++
			o.eventBus.Publish(ctx, events.SeasonalEventActivated{EventID: event.ID, EventKind: event.EventType})
		} else {
			out.Deactivated++
			o.eventBus.Publish(ctx, events.SeasonalEventDeactivated{EventID: event.ID, EventKind: event.EventType})
		}
	}

	if out.Activated > 0 || out.Deactivated > 0 {
		slog.Info("seasonal sweep complete", "activated", out.Activated, "deactivated", out.Deactivated)
	}
	return out, nil
}

// grantReward mirrors the achievement engine's routing: bond exp to the most
// recent relationship, influence to the reputation, titles to the first
// untitled bond.
func (o *orchestrator) grantReward(ctx context.Context, userID string, reward town.Reward) error {
	if reward.BondExp > 0 {
		recent, err := o.relationshipRepo.GetMostRecentlyInteracted(ctx, relationships.GetMostRecentlyInteractedInput{UserID: userID})
		switch {
		case err == nil:
			if _, err := o.bondService.AddExperience(ctx, &bond.AddExperienceInput{
				UserID: userID,
				NPCID:  recent.Relationship.NPCID,
				Amount: reward.BondExp,
				Reason: "seasonal_reward",
			}); err != nil {
				return err
			}
		case errors.IsNotFound(err):
			// nobody to bond with yet, drop the exp portion
		default:
			return err
		}
	}

	if reward.InfluencePoints > 0 {
		if _, err := o.reputationService.UpdateReputation(ctx, &reputation.UpdateReputationInput{
			UserID: userID,
			Kind:   reputation.ActionPositive,
			Points: reward.InfluencePoints,
			Reason: "seasonal_reward",
		}); err != nil {
			return err
		}
	}

	if reward.SpecialTitle != "" {
		list, err := o.relationshipRepo.ListByUser(ctx, relationships.ListByUserInput{UserID: userID})
		if err != nil {
			return errors.Wrap(err, "failed to list relationships")
		}
		for _, rel := range list.Relationships {
			if rel.SpecialTitle != "" {
				continue
			}
			rel.SpecialTitle = reward.SpecialTitle
			if _, err := o.relationshipRepo.Update(ctx, relationships.UpdateInput{Relationship: rel}); err != nil {
				return errors.Wrap(err, "failed to assign title")
			}
			break
		}
	}

	return nil
}
