package reputation_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	"github.com/hearthvale/companion-api/internal/events"
	"github.com/hearthvale/companion-api/internal/orchestrators/reputation"
	"github.com/hearthvale/companion-api/internal/pkg/chance"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	"github.com/hearthvale/companion-api/internal/pkg/idgen"
	gossiprepo "github.com/hearthvale/companion-api/internal/repositories/gossip"
	reputationrepo "github.com/hearthvale/companion-api/internal/repositories/reputation"
)

const testUserID = "user_123"

type ReputationOrchestratorTestSuite struct {
	suite.Suite
	ctx        context.Context
	clock      *clock.Fixed
	bus        *events.Bus
	roller     *chance.ScriptedRoller
	gossipRepo gossiprepo.Repository
	svc        reputation.Service
}

func (s *ReputationOrchestratorTestSuite) SetupTest() {
	mr := miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	s.ctx = context.Background()
	s.clock = clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	s.bus = events.NewBus()
	s.roller = chance.NewScripted(1)

	repRepo, err := reputationrepo.NewRedis(&reputationrepo.RedisConfig{Client: client, Clock: s.clock})
	s.Require().NoError(err)

	gossipRepo, err := gossiprepo.NewRedis(&gossiprepo.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.gossipRepo = gossipRepo

	svc, err := reputation.New(&reputation.Config{
		ReputationRepo: repRepo,
		GossipRepo:     gossipRepo,
		EventBus:       s.bus,
		Clock:          s.clock,
		Chance:         chance.New(s.roller),
		IDGenerator:    idgen.NewSequential("gossip"),
	})
	s.Require().NoError(err)
	s.svc = svc
}

func (s *ReputationOrchestratorTestSuite) TestGetReputationCreatesDefaults() {
	out, err := s.svc.GetReputation(s.ctx, &reputation.GetReputationInput{UserID: testUserID})
	s.Require().NoError(err)

	s.Equal(town.ReputationMysterious, out.Reputation.ReputationType)
	s.Equal(0, out.Reputation.ReputationLevel)
	s.Equal(0, out.Reputation.InfluencePoints)
}

func (s *ReputationOrchestratorTestSuite) TestUpdateReputationAppliesTypeMultiplier() {
	// mysterious carries a 1.0 multiplier
	out, err := s.svc.UpdateReputation(s.ctx, &reputation.UpdateReputationInput{
		UserID: testUserID,
		Kind:   reputation.ActionPositive,
		Points: 40,
		Reason: "helped at the bakery",
	})
	s.Require().NoError(err)
	s.Equal(40, out.AppliedPoints)
	s.Equal(40, out.Reputation.InfluencePoints)
	s.Equal(1, out.Reputation.PositiveActions)

	// one all-positive action flips the ratio to healer, multiplier 1.5
	s.Equal(town.ReputationHealer, out.Reputation.ReputationType)
	out, err = s.svc.UpdateReputation(s.ctx, &reputation.UpdateReputationInput{
		UserID: testUserID,
		Kind:   reputation.ActionPositive,
		Points: 40,
	})
	s.Require().NoError(err)
	s.Equal(60, out.AppliedPoints)
	s.Equal(100, out.Reputation.InfluencePoints)
}

func (s *ReputationOrchestratorTestSuite) TestUpdateReputationLevelUpEvent() {
	var levelUps []events.ReputationLevelUp
	s.bus.Subscribe(events.TypeReputationLevelUp, func(_ context.Context, ev events.Event) error {
		levelUps = append(levelUps, ev.(events.ReputationLevelUp))
		return nil
	})

	out, err := s.svc.UpdateReputation(s.ctx, &reputation.UpdateReputationInput{
		UserID: testUserID,
		Kind:   reputation.ActionPositive,
		Points: 60,
	})
	s.Require().NoError(err)
	s.True(out.LeveledUp)
	s.Equal(1, out.Reputation.ReputationLevel)

	s.Require().Len(levelUps, 1)
	s.Equal(0, levelUps[0].PreviousLevel)
	s.Equal(1, levelUps[0].NewLevel)
}

func (s *ReputationOrchestratorTestSuite) TestLevelFollowsThresholdTable() {
	// the first gain lands as mysterious (x1.0); every gain after that is
	// healer (x1.5), so raw points are chosen to hit known influence totals
	gains := []struct {
		points        int
		wantInfluence int
		wantLevel     int
	}{
		{40, 40, 0},
		{20, 70, 1},
		{60, 160, 2},
		{100, 310, 3},
		{140, 520, 4},
		{200, 820, 5},
		{300, 1270, 6},
		{500, 2020, 7},
		{2000, 5020, 7},
	}

	previous := 0
	for _, tc := range gains {
		out, err := s.svc.UpdateReputation(s.ctx, &reputation.UpdateReputationInput{
			UserID: testUserID,
			Kind:   reputation.ActionPositive,
			Points: tc.points,
		})
		s.Require().NoError(err)
		s.Equal(tc.wantInfluence, out.Reputation.InfluencePoints)
		s.Equal(tc.wantLevel, out.Reputation.ReputationLevel)

		// levels never decrease as influence grows
		s.GreaterOrEqual(out.Reputation.ReputationLevel, previous)
		previous = out.Reputation.ReputationLevel
	}
}

func (s *ReputationOrchestratorTestSuite) TestTypeDerivationFromRatio() {
	// three positives, one negative: ratio 0.75 lands on listener
	for i := 0; i < 3; i++ {
		_, err := s.svc.UpdateReputation(s.ctx, &reputation.UpdateReputationInput{
			UserID: testUserID,
			Kind:   reputation.ActionPositive,
			Points: 1,
		})
		s.Require().NoError(err)
	}
	out, err := s.svc.UpdateReputation(s.ctx, &reputation.UpdateReputationInput{
		UserID: testUserID,
		Kind:   reputation.ActionNegative,
		Points: 1,
	})
	s.Require().NoError(err)
	s.Equal(town.ReputationListener, out.Reputation.ReputationType)
}

func (s *ReputationOrchestratorTestSuite) TestCreateGossipTargetsAndDelta() {
	// every inclusion check rolls 1, so all four other companions hear it
	out, err := s.svc.CreateGossip(s.ctx, &reputation.CreateGossipInput{
		UserID:      testUserID,
		SourceNPCID: "npc_luna",
		Content:     "they helped carry Mei's flour sacks all morning",
		Sentiment:   0.5,
	})
	s.Require().NoError(err)

	s.Len(out.Gossip.TargetNPCIDs, 4)
	s.NotContains(out.Gossip.TargetNPCIDs, "npc_luna")
	s.True(out.Gossip.IsActive)
	s.Equal(s.clock.Now().Add(7*24*time.Hour), out.Gossip.ExpiresAt)
	// round(0.5 * 10 * 4)
	s.Equal(20, out.ReputationDelta)

	rep, err := s.svc.GetReputation(s.ctx, &reputation.GetReputationInput{UserID: testUserID})
	s.Require().NoError(err)
	s.Equal(20, rep.Reputation.InfluencePoints)
}

func (s *ReputationOrchestratorTestSuite) TestCreateGossipNoTargets() {
	// rolls of 10000 fail every inclusion check
	s.roller.Rolls = []int{10000}

	out, err := s.svc.CreateGossip(s.ctx, &reputation.CreateGossipInput{
		UserID:      testUserID,
		SourceNPCID: "npc_luna",
		Content:     "something barely worth repeating",
		Sentiment:   0.5,
	})
	s.Require().NoError(err)
	s.Empty(out.Gossip.TargetNPCIDs)
	s.Equal(0, out.ReputationDelta)
}

func (s *ReputationOrchestratorTestSuite) TestSpreadGossipDecaysSentiment() {
	created, err := s.svc.CreateGossip(s.ctx, &reputation.CreateGossipInput{
		UserID:      testUserID,
		SourceNPCID: "npc_luna",
		Content:     "they were seen arguing in the square",
		Sentiment:   -0.5,
	})
	s.Require().NoError(err)

	// all other companions already heard it, so a spread finds nobody new
	out, err := s.svc.SpreadGossip(s.ctx, &reputation.SpreadGossipInput{GossipID: created.Gossip.ID})
	s.Require().NoError(err)
	s.Empty(out.AffectedNPCs)
	s.Equal(1, out.Gossip.SpreadCount)
	s.InDelta(-0.45, out.Gossip.Sentiment, 1e-9)
	s.Equal(0, out.ReputationImpact)
}

func (s *ReputationOrchestratorTestSuite) TestSpreadGossipInactive() {
	created, err := s.svc.CreateGossip(s.ctx, &reputation.CreateGossipInput{
		UserID:      testUserID,
		SourceNPCID: "npc_luna",
		Content:     "old news",
		Sentiment:   0.2,
	})
	s.Require().NoError(err)

	s.clock.Advance(8 * 24 * time.Hour)
	_, err = s.svc.SpreadGossip(s.ctx, &reputation.SpreadGossipInput{GossipID: created.Gossip.ID})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *ReputationOrchestratorTestSuite) TestNPCInitialAttitude() {
	_, err := s.svc.CreateGossip(s.ctx, &reputation.CreateGossipInput{
		UserID:      testUserID,
		SourceNPCID: "npc_luna",
		Content:     "they watered Hana's garden without being asked",
		Sentiment:   0.5,
	})
	s.Require().NoError(err)

	out, err := s.svc.CalculateNPCInitialAttitude(s.ctx, &reputation.NPCAttitudeInput{
		NPCID:  "npc_mei",
		UserID: testUserID,
	})
	s.Require().NoError(err)

	// 20 influence is still level 0, so base stays 50; fresh gossip
	// contributes 0.5*10*0.9^0
	s.Equal(50, out.Base)
	s.InDelta(5.0, out.GossipModifier, 1e-9)
	s.InDelta(55.0, out.Final, 1e-9)
}

func (s *ReputationOrchestratorTestSuite) TestExpireGossipSweep() {
	var expired []events.GossipExpired
	s.bus.Subscribe(events.TypeGossipExpired, func(_ context.Context, ev events.Event) error {
		expired = append(expired, ev.(events.GossipExpired))
		return nil
	})

	created, err := s.svc.CreateGossip(s.ctx, &reputation.CreateGossipInput{
		UserID:      testUserID,
		SourceNPCID: "npc_luna",
		Content:     "soon to be forgotten",
		Sentiment:   0.1,
	})
	s.Require().NoError(err)

	s.clock.Advance(8 * 24 * time.Hour)
	out, err := s.svc.ExpireGossip(s.ctx, &reputation.ExpireGossipInput{})
	s.Require().NoError(err)
	s.Equal(1, out.Expired)
	s.Require().Len(expired, 1)
	s.Equal(created.Gossip.ID, expired[0].GossipID)

	// a second sweep finds nothing
	out, err = s.svc.ExpireGossip(s.ctx, &reputation.ExpireGossipInput{})
	s.Require().NoError(err)
	s.Equal(0, out.Expired)
}

func TestReputationOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(ReputationOrchestratorTestSuite))
}
