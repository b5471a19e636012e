package bond_test

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
	"github.com/hearthvale/companion-api/internal/orchestrators/bond"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	"github.com/hearthvale/companion-api/internal/pkg/idgen"
	"github.com/hearthvale/companion-api/internal/repositories/relationships"
)

const (
	testUserID = "user_123"
	testNPCID  = "npc_luna"
)

type BondOrchestratorTestSuite struct {
	suite.Suite
	ctx     context.Context
	clock   *clock.Fixed
	bus     *events.Bus
	relRepo relationships.Repository
	svc     bond.Service
}

func (s *BondOrchestratorTestSuite) SetupTest() {
	mr := miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	s.ctx = context.Background()
	s.clock = clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	s.bus = events.NewBus()

	relRepo, err := relationships.NewRedis(&relationships.RedisConfig{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	s.relRepo = relRepo

	svc, err := bond.New(&bond.Config{
		RelationshipRepo: relRepo,
		EventBus:         s.bus,
		Clock:            s.clock,
		IDGenerator:      idgen.NewSequential("rel"),
	})
	s.Require().NoError(err)
	s.svc = svc
}

func (s *BondOrchestratorTestSuite) ensure() *town.Relationship {
	out, err := s.svc.EnsureRelationship(s.ctx, &bond.EnsureRelationshipInput{
		UserID: testUserID,
		NPCID:  testNPCID,
	})
	s.Require().NoError(err)
	return out.Relationship
}

func (s *BondOrchestratorTestSuite) TestEnsureRelationshipCreatesOnce() {
	first, err := s.svc.EnsureRelationship(s.ctx, &bond.EnsureRelationshipInput{
		UserID: testUserID,
		NPCID:  testNPCID,
	})
	s.Require().NoError(err)
	s.True(first.Created)
	s.Equal(0, first.Relationship.BondLevel)
	s.InDelta(0.5, first.Relationship.AffectionLevel, 1e-9)

	second, err := s.svc.EnsureRelationship(s.ctx, &bond.EnsureRelationshipInput{
		UserID: testUserID,
		NPCID:  testNPCID,
	})
	s.Require().NoError(err)
	s.False(second.Created)
	s.Equal(first.Relationship.ID, second.Relationship.ID)
}

func (s *BondOrchestratorTestSuite) TestEnsureRelationshipUnknownCompanion() {
	_, err := s.svc.EnsureRelationship(s.ctx, &bond.EnsureRelationshipInput{
		UserID: testUserID,
		NPCID:  "npc_nobody",
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *BondOrchestratorTestSuite) TestAddExperienceLevelWalkthrough() {
	s.ensure()

	// 150 exp crosses the level-1 threshold at 100, leaving 50 in band
	out, err := s.svc.AddExperience(s.ctx, &bond.AddExperienceInput{
		UserID: testUserID,
		NPCID:  testNPCID,
		Amount: 150,
		Reason: "interaction",
	})
	s.Require().NoError(err)
	s.True(out.LeveledUp)
	s.Equal(1, out.Relationship.BondLevel)
	s.Equal(50, out.Relationship.BondExp)

	// 260 more: 50+260=310 passes the level-2 threshold at 300
	out, err = s.svc.AddExperience(s.ctx, &bond.AddExperienceInput{
		UserID: testUserID,
		NPCID:  testNPCID,
		Amount: 260,
		Reason: "interaction",
	})
	s.Require().NoError(err)
	s.True(out.LeveledUp)
	s.Equal(2, out.Relationship.BondLevel)
	s.Equal(10, out.Relationship.BondExp)
}

func (s *BondOrchestratorTestSuite) TestAddExperienceAccumulatesWithinLevel() {
	s.ensure()

	_, err := s.svc.AddExperience(s.ctx, &bond.AddExperienceInput{
		UserID: testUserID,
		NPCID:  testNPCID,
		Amount: 150,
	})
	s.Require().NoError(err)

	// a gain that stays inside the level-1 band keeps accumulating
	out, err := s.svc.AddExperience(s.ctx, &bond.AddExperienceInput{
		UserID: testUserID,
		NPCID:  testNPCID,
		Amount: 30,
	})
	s.Require().NoError(err)
	s.False(out.LeveledUp)
	s.Equal(1, out.Relationship.BondLevel)
	s.Equal(80, out.Relationship.BondExp)

	// small gains add up to the level-2 threshold at 300
	for i := 0; i < 22; i++ {
		out, err = s.svc.AddExperience(s.ctx, &bond.AddExperienceInput{
			UserID: testUserID,
			NPCID:  testNPCID,
			Amount: 10,
		})
		s.Require().NoError(err)
	}
	s.True(out.LeveledUp)
	s.Equal(2, out.Relationship.BondLevel)
}

func (s *BondOrchestratorTestSuite) TestAddExperienceNeverDropsLevel() {
	s.ensure()

	_, err := s.svc.AddExperience(s.ctx, &bond.AddExperienceInput{
		UserID: testUserID,
		NPCID:  testNPCID,
		Amount: 350,
	})
	s.Require().NoError(err)

	out, err := s.svc.AddExperience(s.ctx, &bond.AddExperienceInput{
		UserID: testUserID,
		NPCID:  testNPCID,
		Amount: 1,
	})
	s.Require().NoError(err)
	s.False(out.LeveledUp)
	s.Equal(2, out.Relationship.BondLevel)
}

func (s *BondOrchestratorTestSuite) TestLevelUpUnlocksSecretsAndTitle() {
	s.ensure()

	var published []events.BondLevelUp
	s.bus.Subscribe(events.TypeBondLevelUp, func(_ context.Context, ev events.Event) error {
		published = append(published, ev.(events.BondLevelUp))
		return nil
	})

	// straight to level 4: 1000 cumulative
	out, err := s.svc.AddExperience(s.ctx, &bond.AddExperienceInput{
		UserID: testUserID,
		NPCID:  testNPCID,
		Amount: 1000,
	})
	s.Require().NoError(err)
	s.Equal(4, out.Relationship.BondLevel)
	s.Equal("Reading Buddy", out.Relationship.SpecialTitle)
	s.ElementsMatch(
		[]string{"luna_favorite_poem", "luna_abandoned_manuscript"},
		out.Relationship.SecretsUnlocked,
	)

	s.Require().Len(published, 1)
	s.Equal(0, published[0].PreviousLevel)
	s.Equal(4, published[0].NewLevel)
	s.Equal("Reading Buddy", published[0].SpecialTitle)
}

func (s *BondOrchestratorTestSuite) TestAddExperienceUnknownBond() {
	_, err := s.svc.AddExperience(s.ctx, &bond.AddExperienceInput{
		UserID: testUserID,
		NPCID:  testNPCID,
		Amount: 10,
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *BondOrchestratorTestSuite) TestComputeInteractionExp() {
	rel := s.ensure()
	rel.EmotionalSync = 0.5
	_, err := s.relRepo.Update(s.ctx, relationships.UpdateInput{Relationship: rel})
	s.Require().NoError(err)

	// 30 * (1 + 0.5*0.8) * (1 + 0.3*0.5) = 48.3 → 48
	out, err := s.svc.ComputeInteractionExp(s.ctx, &bond.ComputeInteractionExpInput{
		UserID:           testUserID,
		NPCID:            testNPCID,
		InteractionType:  town.InteractionDeepTalk,
		EmotionIntensity: 0.8,
	})
	s.Require().NoError(err)
	s.Equal(48, out.Exp)
}

func (s *BondOrchestratorTestSuite) TestGetLevelInfo() {
	s.ensure()
	_, err := s.svc.AddExperience(s.ctx, &bond.AddExperienceInput{
		UserID: testUserID,
		NPCID:  testNPCID,
		Amount: 150,
	})
	s.Require().NoError(err)

	info, err := s.svc.GetLevelInfo(s.ctx, &bond.GetLevelInfoInput{
		UserID: testUserID,
		NPCID:  testNPCID,
	})
	s.Require().NoError(err)
	s.Equal(1, info.CurrentLevel)
	s.Equal(2, info.NextLevel)
	// 50 exp into a 200-wide band
	s.InDelta(25.0, info.ProgressPercent, 1e-9)
}

func TestBondOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(BondOrchestratorTestSuite))
}
