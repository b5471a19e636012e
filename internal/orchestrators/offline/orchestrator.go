// Package offline implements the offline progress engine: while a user is
// away their companions "keep living", accumulating events the user reads on
// return, plus reunion greetings that grant a bond bonus.
package offline

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	"github.com/hearthvale/companion-api/internal/orchestrators/bond"
	"github.com/hearthvale/companion-api/internal/pkg/chance"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	"github.com/hearthvale/companion-api/internal/pkg/idgen"
	offlinerepo "github.com/hearthvale/companion-api/internal/repositories/offlineprogress"
	"github.com/hearthvale/companion-api/internal/repositories/players"
	"github.com/hearthvale/companion-api/internal/repositories/relationships"
)

const (
	// reunion bonuses only go to reasonably developed bonds
	reunionMinBondLevel = 3
	reunionMaxBonds     = 3
	reunionBonusCap     = 50
	reunionBonusPerDay  = 10

	// affection shifts scale with bond depth
	bondScalePerLevel = 0.1
)

// Service defines the interface for offline progress operations
type Service interface {
	// GenerateOfflineEvents synthesizes per-companion events for an absence
	GenerateOfflineEvents(ctx context.Context, input *GenerateOfflineEventsInput) (*GenerateOfflineEventsOutput, error)

	// GenerateReunionDialogues greets the user through their closest bonds
	GenerateReunionDialogues(ctx context.Context, input *GenerateReunionDialoguesInput) (*GenerateReunionDialoguesOutput, error)

	// ProcessPlayerReturn runs both halves off the stored last login and
	// advances it
	ProcessPlayerReturn(ctx context.Context, input *ProcessPlayerReturnInput) (*ProcessPlayerReturnOutput, error)

	// ListUnviewed returns the user's unread offline events
	ListUnviewed(ctx context.Context, input *ListUnviewedInput) (*ListUnviewedOutput, error)

	// MarkViewed flips an event's viewed flag
	MarkViewed(ctx context.Context, input *MarkViewedInput) (*MarkViewedOutput, error)
}

// Config holds the dependencies for the offline progress engine
type Config struct {
	ProgressRepo     offlinerepo.Repository
	RelationshipRepo relationships.Repository
	PlayerRepo       players.Repository
	BondService      bond.Service
	Clock            clock.Clock
	Chance           *chance.Chance
	IDGenerator      idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.ProgressRepo == nil {
		vb.RequiredField("ProgressRepo")
	}
	if c.RelationshipRepo == nil {
		vb.RequiredField("RelationshipRepo")
	}
	if c.PlayerRepo == nil {
		vb.RequiredField("PlayerRepo")
	}
	if c.BondService == nil {
		vb.RequiredField("BondService")
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
	progressRepo     offlinerepo.Repository
	relationshipRepo relationships.Repository
	playerRepo       players.Repository
	bondService      bond.Service
	clock            clock.Clock
	chance           *chance.Chance
	idGen            idgen.Generator
}

// New creates a new offline progress engine with the provided dependencies
func New(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		progressRepo:     cfg.ProgressRepo,
		relationshipRepo: cfg.RelationshipRepo,
		playerRepo:       cfg.PlayerRepo,
		bondService:      cfg.BondService,
		clock:            cfg.Clock,
		chance:           cfg.Chance,
		idGen:            cfg.IDGenerator,
	}, nil
}

func (o *orchestrator) GenerateOfflineEvents(ctx context.Context, input *GenerateOfflineEventsInput) (*GenerateOfflineEventsOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}
	if input.OfflineHours < 0 {
		return nil, errors.InvalidArgument("offline hours must not be negative")
	}

	list, err := o.relationshipRepo.ListByUser(ctx, relationships.ListByUserInput{UserID: input.UserID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list relationships")
	}

	now := o.clock.Now()
	out := &GenerateOfflineEventsOutput{}

	for _, rel := range list.Relationships {
		count := eventCount(input.OfflineHours, rel.BondLevel)
		if count == 0 {
			continue
		}

		n, ok := town.NPCByID(rel.NPCID)
		if !ok {
			continue
		}

		scale := 1 + bondScalePerLevel*float64(rel.BondLevel)
		affectionShift := 0.0

		for i := 0; i < count; i++ {
			eventType := o.pickEventType(n, input.OfflineHours, rel.BondLevel)
			tmpl := o.pickTemplate(eventType)

			event := &town.OfflineProgress{
				ID:            o.idGen.Generate(),
				UserID:        rel.UserID,
				NPCID:         rel.NPCID,
				EventType:     eventType,
				Content:       fmt.Sprintf(tmpl.Content, n.Name),
				EmotionChange: tmpl.EmotionChange * scale,
				OccurredAt:    now,
			}
			if _, err := o.progressRepo.Create(ctx, offlinerepo.CreateInput{Progress: event}); err != nil {
				return nil, errors.Wrap(err, "failed to persist offline event")
			}
			affectionShift += event.EmotionChange
			out.Events = append(out.Events, event)
		}

		rel.AffectionLevel = clampUnit(rel.AffectionLevel + affectionShift)
		if _, err := o.relationshipRepo.Update(ctx, relationships.UpdateInput{Relationship: rel}); err != nil {
			return nil, errors.Wrap(err, "failed to persist affection shift")
		}
	}

	return out, nil
}

func (o *orchestrator) GenerateReunionDialogues(ctx context.Context, input *GenerateReunionDialoguesInput) (*GenerateReunionDialoguesOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	list, err := o.relationshipRepo.ListByUser(ctx, relationships.ListByUserInput{UserID: input.UserID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list relationships")
	}

	top := topBonds(list.Relationships, reunionMinBondLevel, reunionMaxBonds)
	bucket := bucketForHours(input.OfflineHours)
	out := &GenerateReunionDialoguesOutput{}

	for _, rel := range top {
		n, ok := town.NPCByID(rel.NPCID)
		if !ok {
			continue
		}

		bonus := reunionBonus(input.OfflineHours, rel.BondLevel)
		if bonus > 0 {
			if _, err := o.bondService.AddExperience(ctx, &bond.AddExperienceInput{
				UserID: rel.UserID,
				NPCID:  rel.NPCID,
				Amount: bonus,
				Reason: "reunion",
			}); err != nil {
				return nil, err
			}
		}

		lines := reunionTemplates[bucket]
		line := lines[o.chance.Intn(len(lines))]
		out.Dialogues = append(out.Dialogues, &town.ReunionDialogue{
			NPCID:     rel.NPCID,
			Dialogue:  fmt.Sprintf(line, n.Name),
			BondBonus: bonus,
		})
	}

	return out, nil
}

func (o *orchestrator) ProcessPlayerReturn(ctx context.Context, input *ProcessPlayerReturnInput) (*ProcessPlayerReturnOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	now := o.clock.Now()

	got, err := o.playerRepo.Get(ctx, players.GetInput{ID: input.UserID})
	if errors.IsNotFound(err) {
		// first login, nothing to synthesize
		if _, err := o.playerRepo.Create(ctx, players.CreateInput{
			Player: &town.Player{ID: input.UserID, LastLogin: now, CreatedAt: now},
		}); err != nil && !errors.IsAlreadyExists(err) {
			return nil, errors.Wrap(err, "failed to create player")
		}
		return &ProcessPlayerReturnOutput{}, nil
	}
	if err != nil {
		return nil, err
	}

	player := got.Player
	hours := now.Sub(player.LastLogin).Hours()
	if hours < 0 {
		hours = 0
	}

	events, err := o.GenerateOfflineEvents(ctx, &GenerateOfflineEventsInput{
		UserID:       input.UserID,
		OfflineHours: hours,
	})
	if err != nil {
		return nil, err
	}

	dialogues, err := o.GenerateReunionDialogues(ctx, &GenerateReunionDialoguesInput{
		UserID:       input.UserID,
		OfflineHours: hours,
	})
	if err != nil {
		return nil, err
	}

	player.LastLogin = now
	if _, err := o.playerRepo.Update(ctx, players.UpdateInput{Player: player}); err != nil {
		return nil, errors.Wrap(err, "failed to advance last login")
	}

	slog.Info("player return processed",
		"user_id", input.UserID,
		"offline_hours", hours,
		"events", len(events.Events),
		"reunions", len(dialogues.Dialogues),
	)

	return &ProcessPlayerReturnOutput{
		OfflineHours: hours,
		Events:       events.Events,
		Dialogues:    dialogues.Dialogues,
	}, nil
}

func (o *orchestrator) ListUnviewed(ctx context.Context, input *ListUnviewedInput) (*ListUnviewedOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID is required")
	}

	unviewed, err := o.progressRepo.ListUnviewedByUser(ctx, offlinerepo.ListUnviewedByUserInput{UserID: input.UserID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list unviewed events")
	}
	return &ListUnviewedOutput{Events: unviewed.Events}, nil
}

func (o *orchestrator) MarkViewed(ctx context.Context, input *MarkViewedInput) (*MarkViewedOutput, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("UserID", input.UserID, vb)
	errors.ValidateRequired("EventID", input.EventID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	got, err := o.progressRepo.Get(ctx, offlinerepo.GetInput{ID: input.EventID})
	if err != nil {
		return nil, err
	}
	event := got.Progress
	if event.UserID != input.UserID {
		return nil, errors.NotFoundf("offline event %s not found", input.EventID)
	}
	if event.WasViewed {
		return &MarkViewedOutput{Event: event}, nil
	}

	event.WasViewed = true
	if _, err := o.progressRepo.Update(ctx, offlinerepo.UpdateInput{Progress: event}); err != nil {
		return nil, errors.Wrap(err, "failed to persist viewed flag")
	}
	return &MarkViewedOutput{Event: event}, nil
}

// eventCount steps with absence length and is capped by bond depth
func eventCount(hours float64, bondLevel int) int {
	var step int
	switch {
	case hours < 1:
		return 0
	case hours < 6:
		step = 1
	case hours < 24:
		step = 3
	case hours < 72:
		step = 5
	default:
		step = 10
	}

	bondCap := 1 + bondLevel
	if step > bondCap {
		step = bondCap
	}
	return step
}

// pickEventType draws from the companion's weights, zeroing out the types the
// absence or the bond hasn't earned yet
func (o *orchestrator) pickEventType(n town.NPC, hours float64, bondLevel int) town.OfflineEventType {
	types := []town.OfflineEventType{
		town.OfflineMissYou,
		town.OfflineWorryAbout,
		town.OfflineRememberMoment,
		town.OfflineDailyLife,
	}

	weights := make([]float64, len(types))
	for i, t := range types {
		w := n.OfflineWeights[t]
		switch t {
		case town.OfflineMissYou:
			if bondLevel < 2 {
				w = 0
			}
		case town.OfflineWorryAbout:
			if hours < 24 || bondLevel < 3 {
				w = 0
			}
		case town.OfflineRememberMoment:
			if bondLevel < 4 {
				w = 0
			}
		}
		weights[i] = w
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return town.OfflineDailyLife
	}

	return types[o.chance.WeightedIndex(weights)]
}

func (o *orchestrator) pickTemplate(eventType town.OfflineEventType) eventTemplate {
	pool := eventTemplates[eventType]
	return pool[o.chance.Intn(len(pool))]
}

// reunionBonus scales with full days away and bond depth, capped
func reunionBonus(hours float64, bondLevel int) int {
	days := math.Floor(hours / 24)
	bonus := int(days * reunionBonusPerDay * (1 + bondScalePerLevel*float64(bondLevel)))
	if bonus > reunionBonusCap {
		bonus = reunionBonusCap
	}
	return bonus
}

// topBonds returns up to limit relationships at or above minLevel, strongest
// first
func topBonds(rels []*town.Relationship, minLevel, limit int) []*town.Relationship {
	var eligible []*town.Relationship
	for _, rel := range rels {
		if rel.BondLevel >= minLevel {
			eligible = append(eligible, rel)
		}
	}

	// insertion sort, the list is tiny
	for i := 1; i < len(eligible); i++ {
		for j := i; j > 0 && eligible[j].BondLevel > eligible[j-1].BondLevel; j-- {
			eligible[j], eligible[j-1] = eligible[j-1], eligible[j]
		}
	}

	if len(eligible) > limit {
		eligible = eligible[:limit]
	}
	return eligible
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
