package resonance_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/events"
	"github.com/hearthvale/companion-api/internal/orchestrators/bond"
	"github.com/hearthvale/companion-api/internal/orchestrators/resonance"
	"github.com/hearthvale/companion-api/internal/pkg/chance"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	"github.com/hearthvale/companion-api/internal/pkg/idgen"
	"github.com/hearthvale/companion-api/internal/repositories/relationships"
	resonancerepo "github.com/hearthvale/companion-api/internal/repositories/resonance"
)

const (
	testUserID = "user_123"
	testNPCID  = "npc_mei"
)

type ResonanceOrchestratorTestSuite struct {
	suite.Suite
	ctx     context.Context
	clock   *clock.Fixed
	bus     *events.Bus
	roller  *chance.ScriptedRoller
	relRepo relationships.Repository
	svc     resonance.Service
}

func (s *ResonanceOrchestratorTestSuite) SetupTest() {
	mr := miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	s.ctx = context.Background()
	s.clock = clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	s.bus = events.NewBus()
	s.roller = chance.NewScripted(1)

	relRepo, err := relationships.NewRedis(&relationships.RedisConfig{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	s.relRepo = relRepo

	resRepo, err := resonancerepo.NewRedis(&resonancerepo.RedisConfig{Client: client})
	s.Require().NoError(err)

	bondSvc, err := bond.New(&bond.Config{
		RelationshipRepo: relRepo,
		EventBus:         s.bus,
		Clock:            s.clock,
		IDGenerator:      idgen.NewSequential("rel"),
	})
	s.Require().NoError(err)

	svc, err := resonance.New(&resonance.Config{
		ResonanceRepo:    resRepo,
		RelationshipRepo: relRepo,
		BondService:      bondSvc,
		EventBus:         s.bus,
		Clock:            s.clock,
		Chance:           chance.New(s.roller),
		IDGenerator:      idgen.NewSequential("res"),
	})
	s.Require().NoError(err)
	s.svc = svc
}

func (s *ResonanceOrchestratorTestSuite) TestComputeResonancePerfectHarmony() {
	out, err := s.svc.ComputeResonance(s.ctx, &resonance.ComputeResonanceInput{
		UserText: "開心",
		NPCText:  "快樂",
	})
	s.Require().NoError(err)

	s.InDelta(1.0, out.SyncLevel, 1e-9)
	s.Equal(town.ResonancePerfectHarmony, out.ResonanceType)
	s.True(out.SpecialDialogueUnlocked)
	s.Equal(town.EmotionJoy, out.DominantEmotion)
	// base 50, same dominant emotion on both sides multiplies by 1.5
	s.Equal(75, out.BonusExp)
}

func (s *ResonanceOrchestratorTestSuite) TestComputeResonanceDissonance() {
	out, err := s.svc.ComputeResonance(s.ctx, &resonance.ComputeResonanceInput{
		UserText: "開心",
		NPCText:  "生氣",
	})
	s.Require().NoError(err)

	s.Equal(town.ResonanceDissonance, out.ResonanceType)
	s.Equal(0, out.BonusExp)
	s.False(out.SpecialDialogueUnlocked)
}

func (s *ResonanceOrchestratorTestSuite) TestComputeResonanceHistoricalBlend() {
	historical := 0.0
	out, err := s.svc.ComputeResonance(s.ctx, &resonance.ComputeResonanceInput{
		UserText:       "開心",
		NPCText:        "快樂",
		HistoricalSync: &historical,
	})
	s.Require().NoError(err)

	// 0.7*1.0 + 0.3*0.0 lands in the strong connection band
	s.InDelta(0.7, out.SyncLevel, 1e-9)
	s.Equal(town.ResonanceStrongConnection, out.ResonanceType)
}

func (s *ResonanceOrchestratorTestSuite) TestStrongConnectionUnlockChance() {
	historical := 0.0

	// scripted roll 1 of 10000 is under the 50% cutoff
	out, err := s.svc.ComputeResonance(s.ctx, &resonance.ComputeResonanceInput{
		UserText:       "開心",
		NPCText:        "快樂",
		HistoricalSync: &historical,
	})
	s.Require().NoError(err)
	s.True(out.SpecialDialogueUnlocked)

	s.roller.Rolls = []int{10000}
	out, err = s.svc.ComputeResonance(s.ctx, &resonance.ComputeResonanceInput{
		UserText:       "開心",
		NPCText:        "快樂",
		HistoricalSync: &historical,
	})
	s.Require().NoError(err)
	s.False(out.SpecialDialogueUnlocked)
}

func (s *ResonanceOrchestratorTestSuite) TestProcessConversationUpdatesSyncAndBond() {
	out, err := s.svc.ProcessConversation(s.ctx, &resonance.ProcessConversationInput{
		UserID:      testUserID,
		NPCID:       testNPCID,
		UserMessage: "今天跟你聊天好開心",
		NPCMessage:  "我也很開心呢，哈哈",
	})
	s.Require().NoError(err)
	s.Equal(town.ResonancePerfectHarmony, out.Result.ResonanceType)
	s.InDelta(1.0, out.EmotionalSync, 1e-9)

	rel, err := s.relRepo.Get(s.ctx, relationships.GetInput{UserID: testUserID, NPCID: testNPCID})
	s.Require().NoError(err)
	s.InDelta(1.0, rel.Relationship.EmotionalSync, 1e-9)
	// 75 bonus exp stays inside level 0's band
	s.Equal(75, rel.Relationship.BondExp)
}

func (s *ResonanceOrchestratorTestSuite) TestProcessConversationPublishesHighSync() {
	var highSync []events.HighEmotionalSync
	s.bus.Subscribe(events.TypeHighEmotionalSync, func(_ context.Context, ev events.Event) error {
		highSync = append(highSync, ev.(events.HighEmotionalSync))
		return nil
	})

	_, err := s.svc.ProcessConversation(s.ctx, &resonance.ProcessConversationInput{
		UserID:      testUserID,
		NPCID:       testNPCID,
		UserMessage: "開心",
		NPCMessage:  "開心",
	})
	s.Require().NoError(err)

	s.Require().Len(highSync, 1)
	s.Equal(testUserID, highSync[0].UserID)
	s.GreaterOrEqual(highSync[0].SyncLevel, 0.9)
}

func (s *ResonanceOrchestratorTestSuite) TestDissonantConversationLowersRollingSync() {
	_, err := s.svc.ProcessConversation(s.ctx, &resonance.ProcessConversationInput{
		UserID:      testUserID,
		NPCID:       testNPCID,
		UserMessage: "開心",
		NPCMessage:  "開心",
	})
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	out, err := s.svc.ProcessConversation(s.ctx, &resonance.ProcessConversationInput{
		UserID:      testUserID,
		NPCID:       testNPCID,
		UserMessage: "難過",
		NPCMessage:  "生氣",
	})
	s.Require().NoError(err)

	// the second turn scores 0.7*0 + 0.3*1.0 = 0.3 against the stored
	// history, and the rolling mean averages it with the perfect first turn
	s.Equal(town.ResonanceWeakResonance, out.Result.ResonanceType)
	s.InDelta(0.65, out.EmotionalSync, 1e-9)
}

func TestResonanceOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(ResonanceOrchestratorTestSuite))
}
