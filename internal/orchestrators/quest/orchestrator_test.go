package quest_test

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
	"github.com/hearthvale/companion-api/internal/orchestrators/quest"
	"github.com/hearthvale/companion-api/internal/orchestrators/reputation"
	"github.com/hearthvale/companion-api/internal/pkg/chance"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	"github.com/hearthvale/companion-api/internal/pkg/idgen"
	gossiprepo "github.com/hearthvale/companion-api/internal/repositories/gossip"
	questrepo "github.com/hearthvale/companion-api/internal/repositories/quests"
	"github.com/hearthvale/companion-api/internal/repositories/relationships"
	reputationrepo "github.com/hearthvale/companion-api/internal/repositories/reputation"
)

const testUserID = "user_123"

type QuestOrchestratorTestSuite struct {
	suite.Suite
	ctx     context.Context
	clock   *clock.Fixed
	bus     *events.Bus
	bondSvc bond.Service
	repSvc  reputation.Service
	svc     quest.Service
}

func (s *QuestOrchestratorTestSuite) SetupTest() {
	mr := miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	s.ctx = context.Background()
	s.clock = clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	s.bus = events.NewBus()
	rng := chance.New(chance.NewScripted(1))

	relRepo, err := relationships.NewRedis(&relationships.RedisConfig{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	questRepo, err := questrepo.NewRedis(&questrepo.RedisConfig{Client: client})
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
		Chance:         rng,
		IDGenerator:    idgen.NewSequential("gossip"),
	})
	s.Require().NoError(err)
	s.repSvc = repSvc

	svc, err := quest.New(&quest.Config{
		QuestRepo:         questRepo,
		RelationshipRepo:  relRepo,
		BondService:       bondSvc,
		ReputationService: repSvc,
		EventBus:          s.bus,
		Clock:             s.clock,
		Chance:            rng,
		IDGenerator:       idgen.NewSequential("quest"),
	})
	s.Require().NoError(err)
	s.svc = svc
}

func (s *QuestOrchestratorTestSuite) seedRelationship(npcID string) {
	_, err := s.bondSvc.EnsureRelationship(s.ctx, &bond.EnsureRelationshipInput{
		UserID: testUserID,
		NPCID:  npcID,
	})
	s.Require().NoError(err)
}

func (s *QuestOrchestratorTestSuite) TestGenerateDailyQuestsTopsUpToThree() {
	s.seedRelationship("npc_luna")
	s.seedRelationship("npc_mei")

	out, err := s.svc.GenerateDailyQuests(s.ctx, &quest.GenerateDailyQuestsInput{UserID: testUserID})
	s.Require().NoError(err)
	s.Len(out.Quests, 3)
	s.Equal(3, out.Generated)

	types := make(map[string]bool)
	for _, q := range out.Quests {
		s.Equal(town.QuestPending, q.Status)
		s.False(types[q.QuestType], "quest types must be distinct")
		types[q.QuestType] = true

		// same-day deadline
		s.Equal(s.clock.Now().Day(), q.Deadline.Day())
		s.True(q.Deadline.After(s.clock.Now()))
	}
}

func (s *QuestOrchestratorTestSuite) TestGenerateDailyQuestsIdempotentAtCap() {
	s.seedRelationship("npc_luna")

	first, err := s.svc.GenerateDailyQuests(s.ctx, &quest.GenerateDailyQuestsInput{UserID: testUserID})
	s.Require().NoError(err)
	s.Equal(3, first.Generated)

	second, err := s.svc.GenerateDailyQuests(s.ctx, &quest.GenerateDailyQuestsInput{UserID: testUserID})
	s.Require().NoError(err)
	s.Equal(0, second.Generated)
	s.Len(second.Quests, 3)
}

func (s *QuestOrchestratorTestSuite) TestStartQuestStateMachine() {
	s.seedRelationship("npc_luna")
	generated, err := s.svc.GenerateDailyQuests(s.ctx, &quest.GenerateDailyQuestsInput{UserID: testUserID})
	s.Require().NoError(err)
	q := generated.Quests[0]

	started, err := s.svc.StartQuest(s.ctx, &quest.StartQuestInput{UserID: testUserID, QuestID: q.ID})
	s.Require().NoError(err)
	s.Equal(town.QuestInProgress, started.Quest.Status)

	// starting twice is a state error
	_, err = s.svc.StartQuest(s.ctx, &quest.StartQuestInput{UserID: testUserID, QuestID: q.ID})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *QuestOrchestratorTestSuite) TestCompleteQuestRequiresInProgress() {
	s.seedRelationship("npc_luna")
	generated, err := s.svc.GenerateDailyQuests(s.ctx, &quest.GenerateDailyQuestsInput{UserID: testUserID})
	s.Require().NoError(err)
	q := generated.Quests[0]

	_, err = s.svc.CompleteQuest(s.ctx, &quest.CompleteQuestInput{UserID: testUserID, QuestID: q.ID})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *QuestOrchestratorTestSuite) TestCompleteQuestGrantsRewardAndPublishes() {
	s.seedRelationship("npc_luna")

	var completed []events.QuestCompleted
	s.bus.Subscribe(events.TypeQuestCompleted, func(_ context.Context, ev events.Event) error {
		completed = append(completed, ev.(events.QuestCompleted))
		return nil
	})

	generated, err := s.svc.GenerateDailyQuests(s.ctx, &quest.GenerateDailyQuestsInput{UserID: testUserID})
	s.Require().NoError(err)
	q := generated.Quests[0]

	_, err = s.svc.StartQuest(s.ctx, &quest.StartQuestInput{UserID: testUserID, QuestID: q.ID})
	s.Require().NoError(err)

	out, err := s.svc.CompleteQuest(s.ctx, &quest.CompleteQuestInput{UserID: testUserID, QuestID: q.ID})
	s.Require().NoError(err)
	s.Equal(town.QuestCompleted, out.Quest.Status)
	s.NotNil(out.Quest.CompletedAt)
	s.False(out.Reward.IsZero())

	s.Require().Len(completed, 1)
	s.Equal(q.ID, completed[0].QuestID)

	if out.Reward.InfluencePoints > 0 {
		rep, err := s.repSvc.GetReputation(s.ctx, &reputation.GetReputationInput{UserID: testUserID})
		s.Require().NoError(err)
		s.Greater(rep.Reputation.InfluencePoints, 0)
	}
}

func (s *QuestOrchestratorTestSuite) TestQuestInvisibleToOtherUsers() {
	s.seedRelationship("npc_luna")
	generated, err := s.svc.GenerateDailyQuests(s.ctx, &quest.GenerateDailyQuestsInput{UserID: testUserID})
	s.Require().NoError(err)

	_, err = s.svc.StartQuest(s.ctx, &quest.StartQuestInput{
		UserID:  "user_other",
		QuestID: generated.Quests[0].ID,
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *QuestOrchestratorTestSuite) TestExpireOverdueFailsPastDeadline() {
	s.seedRelationship("npc_luna")
	generated, err := s.svc.GenerateDailyQuests(s.ctx, &quest.GenerateDailyQuestsInput{UserID: testUserID})
	s.Require().NoError(err)

	s.clock.Advance(24 * time.Hour)
	out, err := s.svc.ExpireOverdue(s.ctx, &quest.ExpireOverdueInput{})
	s.Require().NoError(err)
	s.Equal(3, out.Failed)

	// failed quests no longer count as active
	regenerated, err := s.svc.GenerateDailyQuests(s.ctx, &quest.GenerateDailyQuestsInput{UserID: testUserID})
	s.Require().NoError(err)
	s.Equal(3, regenerated.Generated)

	// completing a failed quest is a state error
	_, err = s.svc.CompleteQuest(s.ctx, &quest.CompleteQuestInput{
		UserID:  testUserID,
		QuestID: generated.Quests[0].ID,
	})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func TestQuestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(QuestOrchestratorTestSuite))
}
