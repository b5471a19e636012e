package quests

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	redisclient "github.com/hearthvale/companion-api/internal/redis"
)

const (
	questKeyPrefix  = "quest:"
	userIndexPrefix = "quest:user:"
	activeIndexKey  = "quest:active"

	errQuestNil     = "quest cannot be nil"
	errQuestIDEmpty = "quest ID cannot be empty"
	errUserIDEmpty  = "user ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis quest repository
type RedisConfig struct {
	Client redisclient.Client
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

// NewRedis creates a new Redis-backed quest repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errQuestIDEmpty)
	}

	result, err := r.client.Get(ctx, questKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("quest %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get quest")
	}

	var quest town.DailyQuest
	if err := json.Unmarshal([]byte(result), &quest); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal quest")
	}

	return &GetOutput{Quest: &quest}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	quest := input.Quest
	if quest == nil {
		return nil, errors.InvalidArgument(errQuestNil)
	}
	if quest.ID == "" {
		return nil, errors.InvalidArgument(errQuestIDEmpty)
	}
	if quest.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if err := quest.Reward.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(quest)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal quest")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, questKeyPrefix+quest.ID, data, 0)
	pipe.SAdd(ctx, userIndexPrefix+quest.UserID, quest.ID)
	if quest.IsActive() {
		pipe.SAdd(ctx, activeIndexKey, quest.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create quest")
	}

	return &CreateOutput{Quest: quest}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	quest := input.Quest
	if quest == nil {
		return nil, errors.InvalidArgument(errQuestNil)
	}
	if quest.ID == "" {
		return nil, errors.InvalidArgument(errQuestIDEmpty)
	}

	key := questKeyPrefix + quest.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("quest %s not found", quest.ID)
	}

	data, err := json.Marshal(quest)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal quest")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	if quest.IsActive() {
		pipe.SAdd(ctx, activeIndexKey, quest.ID)
	} else {
		pipe.SRem(ctx, activeIndexKey, quest.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to update quest")
	}

	return &UpdateOutput{Quest: quest}, nil
}

func (r *redisRepository) ListActiveByUser(ctx context.Context, input ListActiveByUserInput) (*ListActiveByUserOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	ids, err := r.client.SMembers(ctx, userIndexPrefix+input.UserID).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read user index")
	}

	quests, err := r.loadMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	active := quests[:0]
	for _, quest := range quests {
		if quest.IsActive() {
			active = append(active, quest)
		}
	}

	return &ListActiveByUserOutput{Quests: active}, nil
}

func (r *redisRepository) ListActive(ctx context.Context, _ ListActiveInput) (*ListActiveOutput, error) {
	ids, err := r.client.SMembers(ctx, activeIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read active index")
	}

	quests, err := r.loadMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &ListActiveOutput{Quests: quests}, nil
}

func (r *redisRepository) loadMany(ctx context.Context, ids []string) ([]*town.DailyQuest, error) {
	quests := make([]*town.DailyQuest, 0, len(ids))
	for _, id := range ids {
		result, err := r.client.Get(ctx, questKeyPrefix+id).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, errors.Wrapf(err, "failed to load quest %s", id)
		}

		var quest town.DailyQuest
		if err := json.Unmarshal([]byte(result), &quest); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal quest %s", id)
		}
		quests = append(quests, &quest)
	}
	return quests, nil
}
