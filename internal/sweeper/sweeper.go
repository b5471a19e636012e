// Package sweeper runs the periodic maintenance passes: gossip expiry, quest
// deadlines, and seasonal event window flips. Each tick's failures are logged
// and never stop the loop.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/hearthvale/companion-api/internal/errors"
	"github.com/hearthvale/companion-api/internal/orchestrators/quest"
	"github.com/hearthvale/companion-api/internal/orchestrators/reputation"
	"github.com/hearthvale/companion-api/internal/orchestrators/seasonal"
)

// DefaultInterval is how often the sweeps run
const DefaultInterval = time.Hour

// Config holds the dependencies for the sweeper
type Config struct {
	ReputationService reputation.Service
	QuestService      quest.Service
	SeasonalService   seasonal.Service

	// Interval defaults to DefaultInterval when zero
	Interval time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.ReputationService == nil {
		vb.RequiredField("ReputationService")
	}
	if c.QuestService == nil {
		vb.RequiredField("QuestService")
	}
	if c.SeasonalService == nil {
		vb.RequiredField("SeasonalService")
	}

	return vb.Build()
}

// Sweeper drives the periodic passes
type Sweeper struct {
	reputationService reputation.Service
	questService      quest.Service
	seasonalService   seasonal.Service
	interval          time.Duration
}

// New creates a sweeper with the provided dependencies
func New(cfg *Config) (*Sweeper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Sweeper{
		reputationService: cfg.ReputationService,
		questService:      cfg.QuestService,
		seasonalService:   cfg.SeasonalService,
		interval:          interval,
	}, nil
}

// Run ticks until the context is canceled. An immediate pass runs on start so
// a restarted server catches up without waiting a full interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single pass of every sweep. Re-running is idempotent:
// expiry and window flips only ever move state forward.
func (s *Sweeper) RunOnce(ctx context.Context) {
	if _, err := s.reputationService.ExpireGossip(ctx, &reputation.ExpireGossipInput{}); err != nil {
		slog.Error("gossip sweep failed", "error", err)
	}
	if _, err := s.questService.ExpireOverdue(ctx, &quest.ExpireOverdueInput{}); err != nil {
		slog.Error("quest sweep failed", "error", err)
	}
	if _, err := s.seasonalService.SweepEvents(ctx, &seasonal.SweepEventsInput{}); err != nil {
		slog.Error("seasonal sweep failed", "error", err)
	}
}
