// Package reputation implements the reputation engine: a per-user influence
// score with a derived level and behavioral type, plus the gossip simulation
// that colors how companions first regard a user.
package reputation

import (
	"context"
	"log/slog"
	"math"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	"github.com/hearthvale/companion-api/internal/events"
	"github.com/hearthvale/companion-api/internal/pkg/chance"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	"github.com/hearthvale/companion-api/internal/pkg/idgen"
	gossiprepo "github.com/hearthvale/companion-api/internal/repositories/gossip"
	reputationrepo "github.com/hearthvale/companion-api/internal/repositories/reputation"
)

// Service defines the interface for reputation operations
type Service interface {
	// GetReputation returns the user's standing, creating defaults lazily
	GetReputation(ctx context.Context, input *GetReputationInput) (*GetReputationOutput, error)

	// UpdateReputation applies a positive or negative action worth the given
	// points, scaled by the user's current type multiplier
	UpdateReputation(ctx context.Context, input *UpdateReputationInput) (*UpdateReputationOutput, error)

	// CreateGossip seeds a rumor and circulates it to an initial target set
	CreateGossip(ctx context.Context, input *CreateGossipInput) (*CreateGossipOutput, error)

	// SpreadGossip propagates an active entry one step with decay
	SpreadGossip(ctx context.Context, input *SpreadGossipInput) (*SpreadGossipOutput, error)

	// CalculateNPCInitialAttitude scores how a companion first regards a user
	CalculateNPCInitialAttitude(ctx context.Context, input *NPCAttitudeInput) (*NPCAttitudeOutput, error)

	// ExpireGossip deactivates entries past expiry or fully spread
	ExpireGossip(ctx context.Context, input *ExpireGossipInput) (*ExpireGossipOutput, error)
}

// Config holds the dependencies for the reputation engine
type Config struct {
	ReputationRepo reputationrepo.Repository
	GossipRepo     gossiprepo.Repository
	EventBus       *events.Bus
	Clock          clock.Clock
	Chance         *chance.Chance
	IDGenerator    idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.ReputationRepo == nil {
		vb.RequiredField("ReputationRepo")
	}
	if c.GossipRepo == nil {
		vb.RequiredField("GossipRepo")
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
	reputationRepo reputationrepo.Repository
	gossipRepo     gossiprepo.Repository
	eventBus       *events.Bus
	clock          clock.Clock
	chance         *chance.Chance
	idGen          idgen.Generator
}

// New creates a new reputation engine with the provided dependencies
func New(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		reputationRepo: cfg.ReputationRepo,
		gossipRepo:     cfg.GossipRepo,
		eventBus:       cfg.EventBus,
		clock:          cfg.Clock,
		chance:         cfg.Chance,
		idGen:          cfg.IDGenerator,
	}, nil
}

func (o *orchestrator) GetReputation(ctx context.Context, input *GetReputationInput) (*GetReputationOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	rep, err := o.ensureReputation(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &GetReputationOutput{Reputation: rep}, nil
}

func (o *orchestrator) UpdateReputation(ctx context.Context, input *UpdateReputationInput) (*UpdateReputationOutput, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("UserID", input.UserID, vb)
	errors.ValidateEnum("Kind", string(input.Kind), []string{string(ActionPositive), string(ActionNegative)}, vb)
	if input.Points < 0 {
		vb.InvalidField("Points", "must not be negative")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	rep, err := o.ensureReputation(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	multiplier, ok := typeMultipliers[rep.ReputationType]
	if !ok {
		multiplier = 1.0
	}
	applied := int(math.Round(float64(input.Points) * multiplier))

	previousLevel := rep.ReputationLevel
	previousType := rep.ReputationType

	if input.Kind == ActionPositive {
		rep.InfluencePoints += applied
		rep.PositiveActions++
	} else {
		rep.InfluencePoints -= applied
		rep.NegativeActions++
	}

	rep.ReputationLevel = scanLevel(rep.InfluencePoints)
	rep.ReputationType = typeForRatio(rep.PositiveActions, rep.NegativeActions)
	rep.UpdatedAt = o.clock.Now()

	if _, err := o.reputationRepo.Update(ctx, reputationrepo.UpdateInput{Reputation: rep}); err != nil {
		return nil, errors.Wrap(err, "failed to persist reputation")
	}

	out := &UpdateReputationOutput{
		Reputation:    rep,
		AppliedPoints: applied,
		LeveledUp:     rep.ReputationLevel > previousLevel,
		TypeChanged:   rep.ReputationType != previousType,
	}

	if out.LeveledUp {
		o.eventBus.Publish(ctx, events.ReputationLevelUp{
			UserID:        rep.UserID,
			PreviousLevel: previousLevel,
			NewLevel:      rep.ReputationLevel,
		})
	}
	if out.TypeChanged {
		o.eventBus.Publish(ctx, events.ReputationTypeChanged{
			UserID:       rep.UserID,
			PreviousType: string(previousType),
			NewType:      string(rep.ReputationType),
		})
	}

	slog.Info("reputation updated",
		"user_id", rep.UserID,
		"kind", input.Kind,
		"applied", applied,
		"reason", input.Reason,
		"level", rep.ReputationLevel,
		"type", rep.ReputationType,
	)

	return out, nil
}

func (o *orchestrator) CreateGossip(ctx context.Context, input *CreateGossipInput) (*CreateGossipOutput, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("UserID", input.UserID, vb)
	errors.ValidateRequired("SourceNPCID", input.SourceNPCID, vb)
	errors.ValidateRequired("Content", input.Content, vb)
	if input.Sentiment < -1 || input.Sentiment > 1 {
		vb.Fieldf("Sentiment", "must be between -1 and 1, got %v", input.Sentiment)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}
	if _, ok := town.NPCByID(input.SourceNPCID); !ok {
		return nil, errors.NotFoundf("companion %s not found", input.SourceNPCID)
	}

	rate := spreadRateFor(input.Sentiment)
	var targets []string
	for _, n := range town.Roster() {
		if n.ID == input.SourceNPCID {
			continue
		}
		if o.chance.Happens(rate) {
			targets = append(targets, n.ID)
		}
	}

	now := o.clock.Now()
	entry := &town.GossipEntry{
		ID:           o.idGen.Generate(),
		UserID:       input.UserID,
		SourceNPCID:  input.SourceNPCID,
		TargetNPCIDs: targets,
		Content:      input.Content,
		Sentiment:    input.Sentiment,
		SpreadCount:  0,
		IsActive:     true,
		CreatedAt:    now,
		ExpiresAt:    now.Add(gossipLifetime),
	}

	if _, err := o.gossipRepo.Create(ctx, gossiprepo.CreateInput{Gossip: entry}); err != nil {
		return nil, errors.Wrap(err, "failed to create gossip")
	}

	delta := int(math.Round(input.Sentiment * gossipReputationScale * float64(len(targets))))
	if delta != 0 {
		kind := ActionPositive
		if delta < 0 {
			kind = ActionNegative
		}
		if _, err := o.UpdateReputation(ctx, &UpdateReputationInput{
			UserID: input.UserID,
			Kind:   kind,
			Points: abs(delta),
			Reason: "gossip_circulated",
		}); err != nil {
			return nil, err
		}
	}

	o.eventBus.Publish(ctx, events.GossipCreated{
		UserID:      entry.UserID,
		GossipID:    entry.ID,
		SourceNPCID: entry.SourceNPCID,
		Sentiment:   entry.Sentiment,
		TargetCount: len(targets),
	})

	return &CreateGossipOutput{Gossip: entry, ReputationDelta: delta}, nil
}

func (o *orchestrator) SpreadGossip(ctx context.Context, input *SpreadGossipInput) (*SpreadGossipOutput, error) {
	if input.GossipID == "" {
		return nil, errors.InvalidArgument("gossip ID is required")
	}

	got, err := o.gossipRepo.Get(ctx, gossiprepo.GetInput{ID: input.GossipID})
	if err != nil {
		return nil, err
	}
	entry := got.Gossip

	if !entry.IsActive {
		return nil, errors.FailedPrecondition("gossip is no longer circulating")
	}
	if entry.SpreadCount >= gossipMaxSpreadCount || o.clock.Now().After(entry.ExpiresAt) {
		o.deactivate(ctx, entry)
		return nil, errors.FailedPrecondition("gossip is no longer circulating")
	}

	rate := spreadRateFor(entry.Sentiment) * math.Pow(spreadDecayBase, float64(entry.SpreadCount))

	var affected []string
	for _, n := range town.Roster() {
		if n.ID == entry.SourceNPCID || entry.Targets(n.ID) {
			continue
		}
		if o.chance.Happens(rate) {
			affected = append(affected, n.ID)
		}
	}

	previousSentiment := entry.Sentiment
	entry.Sentiment *= sentimentDecayStep
	entry.SpreadCount++
	entry.TargetNPCIDs = append(entry.TargetNPCIDs, affected...)
	if entry.SpreadCount >= gossipMaxSpreadCount {
		entry.IsActive = false
	}

	if _, err := o.gossipRepo.Update(ctx, gossiprepo.UpdateInput{Gossip: entry}); err != nil {
		return nil, errors.Wrap(err, "failed to persist gossip spread")
	}

	impact := int(math.Round(entry.Sentiment * float64(len(affected)) * spreadImpactScale))
	if impact != 0 {
		kind := ActionPositive
		if impact < 0 {
			kind = ActionNegative
		}
		if _, err := o.UpdateReputation(ctx, &UpdateReputationInput{
			UserID: entry.UserID,
			Kind:   kind,
			Points: abs(impact),
			Reason: "gossip_spread",
		}); err != nil {
			return nil, err
		}
	}

	if !entry.IsActive {
		o.eventBus.Publish(ctx, events.GossipExpired{UserID: entry.UserID, GossipID: entry.ID})
	}

	return &SpreadGossipOutput{
		Gossip:           entry,
		AffectedNPCs:     affected,
		SentimentChange:  entry.Sentiment - previousSentiment,
		ReputationImpact: impact,
	}, nil
}

func (o *orchestrator) CalculateNPCInitialAttitude(ctx context.Context, input *NPCAttitudeInput) (*NPCAttitudeOutput, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("NPCID", input.NPCID, vb)
	errors.ValidateRequired("UserID", input.UserID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}
	if _, ok := town.NPCByID(input.NPCID); !ok {
		return nil, errors.NotFoundf("companion %s not found", input.NPCID)
	}

	rep, err := o.ensureReputation(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	base := attitudeBase + attitudePerLevel*rep.ReputationLevel

	active, err := o.gossipRepo.ListActiveByUser(ctx, gossiprepo.ListActiveByUserInput{UserID: input.UserID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to read active gossip")
	}

	now := o.clock.Now()
	modifier := 0.0
	for _, entry := range active.Entries {
		if !entry.Targets(input.NPCID) {
			continue
		}
		ageDays := now.Sub(entry.CreatedAt).Hours() / 24
		if ageDays < 0 {
			ageDays = 0
		}
		modifier += entry.Sentiment * attitudeGossipWeight * math.Pow(gossipAgeDecayDaily, ageDays)
	}

	final := float64(base) + modifier
	if final < attitudeFloor {
		final = attitudeFloor
	}
	if final > attitudeCeiling {
		final = attitudeCeiling
	}

	return &NPCAttitudeOutput{Base: base, GossipModifier: modifier, Final: final}, nil
}

func (o *orchestrator) ExpireGossip(ctx context.Context, _ *ExpireGossipInput) (*ExpireGossipOutput, error) {
	active, err := o.gossipRepo.ListActive(ctx, gossiprepo.ListActiveInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active gossip")
	}

	now := o.clock.Now()
	expired := 0
	for _, entry := range active.Entries {
		if entry.SpreadCount < gossipMaxSpreadCount && now.Before(entry.ExpiresAt) {
			continue
		}
		o.deactivate(ctx, entry)
		expired++
	}

	if expired > 0 {
		slog.Info("gossip sweep complete", "expired", expired)
	}
	return &ExpireGossipOutput{Expired: expired}, nil
}

// ensureReputation lazily creates the default row for a user
func (o *orchestrator) ensureReputation(ctx context.Context, userID string) (*town.TownReputation, error) {
	got, err := o.reputationRepo.Get(ctx, reputationrepo.GetInput{UserID: userID})
	if err == nil {
		return got.Reputation, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	now := o.clock.Now()
	created, err := o.reputationRepo.Create(ctx, reputationrepo.CreateInput{
		Reputation: &town.TownReputation{
			UserID:          userID,
			ReputationType:  town.ReputationMysterious,
			ReputationLevel: 0,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	})
	if err != nil {
		// another request may have created it first
		if errors.IsAlreadyExists(err) {
			got, getErr := o.reputationRepo.Get(ctx, reputationrepo.GetInput{UserID: userID})
			if getErr != nil {
				return nil, getErr
			}
			return got.Reputation, nil
		}
		return nil, errors.Wrap(err, "failed to create reputation")
	}
	return created.Reputation, nil
}

// deactivate marks an entry inactive and publishes the expiry, logging but
// not propagating persistence failures during sweeps
func (o *orchestrator) deactivate(ctx context.Context, entry *town.GossipEntry) {
	entry.IsActive = false
	if _, err := o.gossipRepo.Update(ctx, gossiprepo.UpdateInput{Gossip: entry}); err != nil {
		slog.Error("failed to deactivate gossip", "gossip_id", entry.ID, "error", err)
		return
	}
	o.eventBus.Publish(ctx, events.GossipExpired{UserID: entry.UserID, GossipID: entry.ID})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
