package relationships

import (
	"context"
	"encoding/json"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	redisclient "github.com/hearthvale/companion-api/internal/redis"
)

const (
	relationshipKeyPrefix = "relationship:"
	userIndexPrefix       = "relationship:user:"

	errUserIDEmpty = "user ID cannot be empty"
	errNPCIDEmpty  = "npc ID cannot be empty"
	errRelationNil = "relationship cannot be nil"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis relationship repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed relationship repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

func pairKey(userID, npcID string) string {
	return relationshipKeyPrefix + userID + ":" + npcID
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if input.NPCID == "" {
		return nil, errors.InvalidArgument(errNPCIDEmpty)
	}

	result, err := r.client.Get(ctx, pairKey(input.UserID, input.NPCID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("relationship between %s and %s not found", input.UserID, input.NPCID)
		}
		return nil, errors.Wrapf(err, "failed to get relationship")
	}

	var rel town.Relationship
	if err := json.Unmarshal([]byte(result), &rel); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal relationship")
	}

	return &GetOutput{Relationship: &rel}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	rel := input.Relationship
	if rel == nil {
		return nil, errors.InvalidArgument(errRelationNil)
	}
	if rel.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if rel.NPCID == "" {
		return nil, errors.InvalidArgument(errNPCIDEmpty)
	}

	key := pairKey(rel.UserID, rel.NPCID)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("relationship between %s and %s already exists", rel.UserID, rel.NPCID)
	}

	now := r.clock.Now()
	rel.CreatedAt = now
	rel.UpdatedAt = now

	data, err := json.Marshal(rel)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal relationship")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, userIndexPrefix+rel.UserID, rel.NPCID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create relationship")
	}

	return &CreateOutput{Relationship: rel}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	rel := input.Relationship
	if rel == nil {
		return nil, errors.InvalidArgument(errRelationNil)
	}
	if rel.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if rel.NPCID == "" {
		return nil, errors.InvalidArgument(errNPCIDEmpty)
	}

	key := pairKey(rel.UserID, rel.NPCID)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("relationship between %s and %s not found", rel.UserID, rel.NPCID)
	}

	rel.UpdatedAt = r.clock.Now()

	data, err := json.Marshal(rel)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal relationship")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update relationship")
	}

	return &UpdateOutput{Relationship: rel}, nil
}

func (r *redisRepository) ListByUser(ctx context.Context, input ListByUserInput) (*ListByUserOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	rels, err := r.loadAllForUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	return &ListByUserOutput{Relationships: rels}, nil
}

func (r *redisRepository) CountWithMinLevel(ctx context.Context, input CountWithMinLevelInput) (*CountWithMinLevelOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	rels, err := r.loadAllForUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	count := 0
	for _, rel := range rels {
		if rel.BondLevel >= input.MinLevel {
			count++
		}
	}

	return &CountWithMinLevelOutput{Count: count}, nil
}

func (r *redisRepository) GetMostRecentlyInteracted(ctx context.Context, input GetMostRecentlyInteractedInput) (*GetMostRecentlyInteractedOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	rels, err := r.loadAllForUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if len(rels) == 0 {
		return nil, errors.NotFoundf("user %s has no relationships", input.UserID)
	}

	best := rels[0]
	for _, rel := range rels[1:] {
		if rel.LastInteraction.After(best.LastInteraction) {
			best = rel
		}
	}

	return &GetMostRecentlyInteractedOutput{Relationship: best}, nil
}

func (r *redisRepository) ListLeastRecentlyInteracted(ctx context.Context, input ListLeastRecentlyInteractedInput) (*ListLeastRecentlyInteractedOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	rels, err := r.loadAllForUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	sort.Slice(rels, func(i, j int) bool {
		return rels[i].LastInteraction.Before(rels[j].LastInteraction)
	})

	if input.Limit > 0 && len(rels) > input.Limit {
		rels = rels[:input.Limit]
	}

	return &ListLeastRecentlyInteractedOutput{Relationships: rels}, nil
}

func (r *redisRepository) loadAllForUser(ctx context.Context, userID string) ([]*town.Relationship, error) {
	npcIDs, err := r.client.SMembers(ctx, userIndexPrefix+userID).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read user index")
	}

	rels := make([]*town.Relationship, 0, len(npcIDs))
	for _, npcID := range npcIDs {
		result, err := r.client.Get(ctx, pairKey(userID, npcID)).Result()
		if err != nil {
			if err == redis.Nil {
				// index entry without a row; skip rather than fail the listing
				continue
			}
			return nil, errors.Wrapf(err, "failed to load relationship %s", npcID)
		}

		var rel town.Relationship
		if err := json.Unmarshal([]byte(result), &rel); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal relationship %s", npcID)
		}
		rels = append(rels, &rel)
	}

	return rels, nil
}
