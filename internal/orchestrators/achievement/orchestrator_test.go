package achievement_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/hearthvale/companion-api/internal/events"
	"github.com/hearthvale/companion-api/internal/orchestrators/achievement"
	"github.com/hearthvale/companion-api/internal/orchestrators/bond"
	"github.com/hearthvale/companion-api/internal/orchestrators/reputation"
	"github.com/hearthvale/companion-api/internal/pkg/chance"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	"github.com/hearthvale/companion-api/internal/pkg/idgen"
	achievementrepo "github.com/hearthvale/companion-api/internal/repositories/achievements"
	gossiprepo "github.com/hearthvale/companion-api/internal/repositories/gossip"
	"github.com/hearthvale/companion-api/internal/repositories/relationships"
	reputationrepo "github.com/hearthvale/companion-api/internal/repositories/reputation"
)

const (
	testUserID = "user_123"
	testNPCID  = "npc_luna"
)

type AchievementOrchestratorTestSuite struct {
	suite.Suite
	ctx     context.Context
	clock   *clock.Fixed
	bus     *events.Bus
	relRepo relationships.Repository
	bondSvc bond.Service
	repSvc  reputation.Service
	svc     achievement.Service
}

func (s *AchievementOrchestratorTestSuite) SetupTest() {
	mr := miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	s.ctx = context.Background()
	s.clock = clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	s.bus = events.NewBus()

	relRepo, err := relationships.NewRedis(&relationships.RedisConfig{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	s.relRepo = relRepo
	achRepo, err := achievementrepo.NewRedis(&achievementrepo.RedisConfig{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	repRepo, err := reputationrepo.NewRedis(&reputationrepo.RedisConfig{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	gossipRepo, err := gossiprepo.NewRedis(&gossiprepo.RedisConfig{Client: client})
	s.Require().NoError(err)

	bondSvc, err := bond.New(&bond.Config{
		RelationshipRepo: relRepo,
		EventBus:         s.bus,
		Clock:            s.clock,
		IDGenerator:      idgen.NewSequential("rel"),
	})
	s.Require().NoError(err)
	s.bondSvc = bondSvc

	repSvc, err := reputation.New(&reputation.Config{
		ReputationRepo: repRepo,
		GossipRepo:     gossipRepo,
		EventBus:       s.bus,
		Clock:          s.clock,
		Chance:         chance.New(chance.NewScripted(1)),
		IDGenerator:    idgen.NewSequential("gossip"),
	})
	s.Require().NoError(err)
	s.repSvc = repSvc

	svc, err := achievement.New(&achievement.Config{
		AchievementRepo:   achRepo,
		RelationshipRepo:  relRepo,
		GossipRepo:        gossipRepo,
		BondService:       bondSvc,
		ReputationService: repSvc,
		EventBus:          s.bus,
		Clock:             s.clock,
	})
	s.Require().NoError(err)
	s.svc = svc
}

func (s *AchievementOrchestratorTestSuite) raiseBond(amount int) {
	_, err := s.bondSvc.EnsureRelationship(s.ctx, &bond.EnsureRelationshipInput{UserID: testUserID, NPCID: testNPCID})
	s.Require().NoError(err)
	if amount > 0 {
		_, err = s.bondSvc.AddExperience(s.ctx, &bond.AddExperienceInput{
			UserID: testUserID,
			NPCID:  testNPCID,
			Amount: amount,
			Reason: "deep_talk",
		})
		s.Require().NoError(err)
	}
}

func (s *AchievementOrchestratorTestSuite) TestLockedCheckStoresProgress() {
	s.raiseBond(150) // level 1

	out, err := s.svc.CheckAchievement(s.ctx, &achievement.CheckAchievementInput{
		UserID: testUserID,
		Type:   achievement.TypeFirstFriend,
	})
	s.Require().NoError(err)
	s.False(out.Unlocked)
	s.False(out.Achievement.IsUnlocked)
	s.InDelta(0.5, out.Achievement.Progress, 0.001)
	s.Nil(out.Achievement.UnlockedAt)

	list, err := s.svc.ListAchievements(s.ctx, &achievement.ListAchievementsInput{UserID: testUserID})
	s.Require().NoError(err)
	s.Require().Len(list.Achievements, 1)
	s.InDelta(0.5, list.Achievements[0].Progress, 0.001)
}

func (s *AchievementOrchestratorTestSuite) TestUnlockGrantsRewardAndPublishes() {
	s.raiseBond(350) // level 2

	var unlocked []events.AchievementUnlocked
	s.bus.Subscribe(events.TypeAchievementUnlocked, func(_ context.Context, ev events.Event) error {
		unlocked = append(unlocked, ev.(events.AchievementUnlocked))
		return nil
	})

	out, err := s.svc.CheckAchievement(s.ctx, &achievement.CheckAchievementInput{
		UserID: testUserID,
		Type:   achievement.TypeFirstFriend,
	})
	s.Require().NoError(err)
	s.True(out.Unlocked)
	s.True(out.Achievement.IsUnlocked)
	s.Equal(1.0, out.Achievement.Progress)
	s.Require().NotNil(out.Achievement.UnlockedAt)

	s.Require().Len(unlocked, 1)
	s.Equal(string(achievement.TypeFirstFriend), unlocked[0].AchievementType)
}

func (s *AchievementOrchestratorTestSuite) TestUnlockIsIdempotent() {
	s.raiseBond(350)

	first, err := s.svc.CheckAchievement(s.ctx, &achievement.CheckAchievementInput{
		UserID: testUserID,
		Type:   achievement.TypeFirstFriend,
	})
	s.Require().NoError(err)
	s.True(first.Unlocked)

	published := 0
	s.bus.Subscribe(events.TypeAchievementUnlocked, func(_ context.Context, _ events.Event) error {
		published++
		return nil
	})

	second, err := s.svc.CheckAchievement(s.ctx, &achievement.CheckAchievementInput{
		UserID: testUserID,
		Type:   achievement.TypeFirstFriend,
	})
	s.Require().NoError(err)
	s.False(second.Unlocked, "re-check of an unlocked achievement must be a no-op")
	s.True(second.Achievement.IsUnlocked)
	s.Equal(0, published)
	s.Equal(first.Achievement.UnlockedAt, second.Achievement.UnlockedAt)
}

func (s *AchievementOrchestratorTestSuite) TestContextCountersDriveExternalKinds() {
	s.raiseBond(0)

	partial, err := s.svc.CheckAchievement(s.ctx, &achievement.CheckAchievementInput{
		UserID:  testUserID,
		Type:    achievement.TypeMemoryGardener,
		Context: achievement.CheckContext{MemoryFlowers: 4},
	})
	s.Require().NoError(err)
	s.False(partial.Unlocked)
	s.InDelta(0.4, partial.Achievement.Progress, 0.001)

	full, err := s.svc.CheckAchievement(s.ctx, &achievement.CheckAchievementInput{
		UserID:  testUserID,
		Type:    achievement.TypeMemoryGardener,
		Context: achievement.CheckContext{MemoryFlowers: 10},
	})
	s.Require().NoError(err)
	s.True(full.Unlocked)
}

func (s *AchievementOrchestratorTestSuite) TestInfluenceRewardRoutesToReputation() {
	s.raiseBond(0)

	out, err := s.svc.CheckAchievement(s.ctx, &achievement.CheckAchievementInput{
		UserID:  testUserID,
		Type:    achievement.TypeFaithfulCorrespondent,
		Context: achievement.CheckContext{Letters: 20},
	})
	s.Require().NoError(err)
	s.True(out.Unlocked)

	rep, err := s.repSvc.GetReputation(s.ctx, &reputation.GetReputationInput{UserID: testUserID})
	s.Require().NoError(err)
	s.Equal(20, rep.Reputation.InfluencePoints)
}

func (s *AchievementOrchestratorTestSuite) TestTitleRewardGoesToFirstUntitledRelationship() {
	s.raiseBond(0)

	out, err := s.svc.CheckAchievement(s.ctx, &achievement.CheckAchievementInput{
		UserID:  testUserID,
		Type:    achievement.TypeEmotionalAnchor,
		Context: achievement.CheckContext{EmotionalImpact: 120},
	})
	s.Require().NoError(err)
	s.True(out.Unlocked)

	rel, err := s.relRepo.Get(s.ctx, relationships.GetInput{UserID: testUserID, NPCID: testNPCID})
	s.Require().NoError(err)
	s.Equal("Emotional Anchor", rel.Relationship.SpecialTitle)
}

func (s *AchievementOrchestratorTestSuite) TestSubscriptionsUnlockOnBondLevelUp() {
	s.svc.RegisterSubscriptions()
	s.raiseBond(350) // crossing level 2 publishes the level-up

	list, err := s.svc.ListAchievements(s.ctx, &achievement.ListAchievementsInput{UserID: testUserID})
	s.Require().NoError(err)

	found := false
	for _, a := range list.Achievements {
		if a.Type == achievement.TypeFirstFriend {
			found = true
			s.True(a.IsUnlocked)
		}
	}
	s.True(found, "bond level-up should have triggered the first friend check")
}

func (s *AchievementOrchestratorTestSuite) TestCheckAllReportsUnlockedTypes() {
	s.raiseBond(350)

	out, err := s.svc.CheckAll(s.ctx, &achievement.CheckAllInput{
		UserID:  testUserID,
		Context: achievement.CheckContext{MemoryFlowers: 10},
	})
	s.Require().NoError(err)
	s.Contains(out.Unlocked, achievement.TypeFirstFriend)
	s.Contains(out.Unlocked, achievement.TypeMemoryGardener)
	s.NotContains(out.Unlocked, achievement.TypeSoulBond)
}

func TestAchievementOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(AchievementOrchestratorTestSuite))
}
