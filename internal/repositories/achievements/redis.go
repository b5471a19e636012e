package achievements

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	"github.com/hearthvale/companion-api/internal/pkg/clock"
	redisclient "github.com/hearthvale/companion-api/internal/redis"
)

const (
	achievementKeyPrefix = "achievement:"
	userIndexPrefix      = "achievement:user:"

	errUserIDEmpty    = "user ID cannot be empty"
	errTypeEmpty      = "achievement type cannot be empty"
	errAchievementNil = "achievement cannot be nil"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis achievement repository
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

// NewRedis creates a new Redis-backed achievement repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{client: cfg.Client, clock: c}, nil
}

func rowKey(userID string, achievementType town.AchievementType) string {
	return achievementKeyPrefix + userID + ":" + string(achievementType)
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if input.Type == "" {
		return nil, errors.InvalidArgument(errTypeEmpty)
	}

	result, err := r.client.Get(ctx, rowKey(input.UserID, input.Type)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("achievement %s for user %s not found", input.Type, input.UserID)
		}
		return nil, errors.Wrapf(err, "failed to get achievement")
	}

	var row town.Achievement
	if err := json.Unmarshal([]byte(result), &row); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal achievement")
	}

	return &GetOutput{Achievement: &row}, nil
}

func (r *redisRepository) Upsert(ctx context.Context, input UpsertInput) (*UpsertOutput, error) {
	row := input.Achievement
	if row == nil {
		return nil, errors.InvalidArgument(errAchievementNil)
	}
	if row.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if row.Type == "" {
		return nil, errors.InvalidArgument(errTypeEmpty)
	}

	now := r.clock.Now()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	data, err := json.Marshal(row)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal achievement")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, rowKey(row.UserID, row.Type), data, 0)
	pipe.SAdd(ctx, userIndexPrefix+row.UserID, string(row.Type))

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to upsert achievement")
	}

	return &UpsertOutput{Achievement: row}, nil
}

func (r *redisRepository) ListByUser(ctx context.Context, input ListByUserInput) (*ListByUserOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	types, err := r.client.SMembers(ctx, userIndexPrefix+input.UserID).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read user index")
	}

	rows := make([]*town.Achievement, 0, len(types))
	for _, t := range types {
		result, err := r.client.Get(ctx, rowKey(input.UserID, town.AchievementType(t))).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, errors.Wrapf(err, "failed to load achievement %s", t)
		}

		var row town.Achievement
		if err := json.Unmarshal([]byte(result), &row); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal achievement %s", t)
		}
		rows = append(rows, &row)
	}

	return &ListByUserOutput{Achievements: rows}, nil
}
