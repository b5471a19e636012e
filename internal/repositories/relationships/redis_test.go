package relationships_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	"github.com/hearthvale/companion-api/internal/repositories/relationships"
)

const testUserID = "user_123"

type RedisRepositoryTestSuite struct {
	suite.Suite
	ctx   context.Context
	clock *clock.Fixed
	repo  relationships.Repository
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr := miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	s.ctx = context.Background()
	s.clock = clock.NewFixed(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	repo, err := relationships.NewRedis(&relationships.RedisConfig{Client: client, Clock: s.clock})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) create(npcID string) *town.Relationship {
	out, err := s.repo.Create(s.ctx, relationships.CreateInput{
		Relationship: &town.Relationship{
			ID:              "rel_" + npcID,
			UserID:          testUserID,
			NPCID:           npcID,
			AffectionLevel:  0.5,
			LastInteraction: s.clock.Now(),
		},
	})
	s.Require().NoError(err)
	return out.Relationship
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	created := s.create("npc_luna")
	s.Equal(s.clock.Now(), created.CreatedAt)

	got, err := s.repo.Get(s.ctx, relationships.GetInput{UserID: testUserID, NPCID: "npc_luna"})
	s.Require().NoError(err)
	s.Equal(created.ID, got.Relationship.ID)
	s.Equal(0.5, got.Relationship.AffectionLevel)
}

func (s *RedisRepositoryTestSuite) TestCreateDuplicatePair() {
	s.create("npc_luna")

	_, err := s.repo.Create(s.ctx, relationships.CreateInput{
		Relationship: &town.Relationship{ID: "rel_dup", UserID: testUserID, NPCID: "npc_luna"},
	})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *RedisRepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, relationships.GetInput{UserID: testUserID, NPCID: "npc_luna"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestUpdateStampsUpdatedAt() {
	rel := s.create("npc_luna")

	s.clock.Advance(time.Hour)
	rel.BondLevel = 2
	updated, err := s.repo.Update(s.ctx, relationships.UpdateInput{Relationship: rel})
	s.Require().NoError(err)
	s.Equal(s.clock.Now(), updated.Relationship.UpdatedAt)

	got, err := s.repo.Get(s.ctx, relationships.GetInput{UserID: testUserID, NPCID: "npc_luna"})
	s.Require().NoError(err)
	s.Equal(2, got.Relationship.BondLevel)
}

func (s *RedisRepositoryTestSuite) TestUpdateMissing() {
	_, err := s.repo.Update(s.ctx, relationships.UpdateInput{
		Relationship: &town.Relationship{ID: "rel_x", UserID: testUserID, NPCID: "npc_luna"},
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestListByUserIsScoped() {
	s.create("npc_luna")
	s.create("npc_mei")

	_, err := s.repo.Create(s.ctx, relationships.CreateInput{
		Relationship: &town.Relationship{ID: "rel_other", UserID: "user_other", NPCID: "npc_rin"},
	})
	s.Require().NoError(err)

	list, err := s.repo.ListByUser(s.ctx, relationships.ListByUserInput{UserID: testUserID})
	s.Require().NoError(err)
	s.Len(list.Relationships, 2)
}

func (s *RedisRepositoryTestSuite) TestCountWithMinLevel() {
	luna := s.create("npc_luna")
	s.create("npc_mei")

	luna.BondLevel = 3
	_, err := s.repo.Update(s.ctx, relationships.UpdateInput{Relationship: luna})
	s.Require().NoError(err)

	count, err := s.repo.CountWithMinLevel(s.ctx, relationships.CountWithMinLevelInput{
		UserID:   testUserID,
		MinLevel: 3,
	})
	s.Require().NoError(err)
	s.Equal(1, count.Count)
}

func (s *RedisRepositoryTestSuite) TestInteractionRecencyOrdering() {
	s.create("npc_luna")
	s.clock.Advance(time.Hour)

	mei := s.create("npc_mei")
	mei.LastInteraction = s.clock.Now()
	_, err := s.repo.Update(s.ctx, relationships.UpdateInput{Relationship: mei})
	s.Require().NoError(err)

	recent, err := s.repo.GetMostRecentlyInteracted(s.ctx, relationships.GetMostRecentlyInteractedInput{UserID: testUserID})
	s.Require().NoError(err)
	s.Equal("npc_mei", recent.Relationship.NPCID)

	stale, err := s.repo.ListLeastRecentlyInteracted(s.ctx, relationships.ListLeastRecentlyInteractedInput{
		UserID: testUserID,
		Limit:  1,
	})
	s.Require().NoError(err)
	s.Require().Len(stale.Relationships, 1)
	s.Equal("npc_luna", stale.Relationships[0].NPCID)
}

func (s *RedisRepositoryTestSuite) TestMostRecentlyInteractedEmpty() {
	_, err := s.repo.GetMostRecentlyInteracted(s.ctx, relationships.GetMostRecentlyInteractedInput{UserID: testUserID})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
