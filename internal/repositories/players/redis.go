package players

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
	playerKeyPrefix = "player:"

	errPlayerNil     = "player cannot be nil"
	errPlayerIDEmpty = "player ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis player repository
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

// NewRedis creates a new Redis-backed player repository
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
	if input.ID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	result, err := r.client.Get(ctx, playerKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("player %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get player")
	}

	var p town.Player
	if err := json.Unmarshal([]byte(result), &p); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal player")
	}

	return &GetOutput{Player: &p}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	p := input.Player
	if p == nil {
		return nil, errors.InvalidArgument(errPlayerNil)
	}
	if p.ID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	key := playerKeyPrefix + p.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("player %s already exists", p.ID)
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.clock.Now()
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal player")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to create player")
	}

	return &CreateOutput{Player: p}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	p := input.Player
	if p == nil {
		return nil, errors.InvalidArgument(errPlayerNil)
	}
	if p.ID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	key := playerKeyPrefix + p.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("player %s not found", p.ID)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal player")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update player")
	}

	return &UpdateOutput{Player: p}, nil
}
