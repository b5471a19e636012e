package reputation

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
	reputationKeyPrefix = "reputation:"

	errUserIDEmpty   = "user ID cannot be empty"
	errReputationNil = "reputation cannot be nil"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis reputation repository
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

// NewRedis creates a new Redis-backed reputation repository
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

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	result, err := r.client.Get(ctx, reputationKeyPrefix+input.UserID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("reputation for user %s not found", input.UserID)
		}
		return nil, errors.Wrapf(err, "failed to get reputation")
	}

	var rep town.TownReputation
	if err := json.Unmarshal([]byte(result), &rep); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal reputation")
	}

	return &GetOutput{Reputation: &rep}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	rep := input.Reputation
	if rep == nil {
		return nil, errors.InvalidArgument(errReputationNil)
	}
	if rep.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	key := reputationKeyPrefix + rep.UserID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("reputation for user %s already exists", rep.UserID)
	}

	now := r.clock.Now()
	rep.CreatedAt = now
	rep.UpdatedAt = now

	data, err := json.Marshal(rep)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal reputation")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to create reputation")
	}

	return &CreateOutput{Reputation: rep}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	rep := input.Reputation
	if rep == nil {
		return nil, errors.InvalidArgument(errReputationNil)
	}
	if rep.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	key := reputationKeyPrefix + rep.UserID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("reputation for user %s not found", rep.UserID)
	}

	rep.UpdatedAt = r.clock.Now()

	data, err := json.Marshal(rep)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal reputation")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update reputation")
	}

	return &UpdateOutput{Reputation: rep}, nil
}
