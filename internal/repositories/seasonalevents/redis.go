package seasonalevents

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	redisclient "github.com/hearthvale/companion-api/internal/redis"
)

const (
	eventKeyPrefix = "sevent:"
	allIndexKey    = "sevent:all"

	errEventNil     = "event cannot be nil"
	errEventIDEmpty = "event ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis seasonal event repository
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

// NewRedis creates a new Redis-backed seasonal event repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errEventIDEmpty)
	}

	result, err := r.client.Get(ctx, eventKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("seasonal event %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get seasonal event")
	}

	var event town.SeasonalEvent
	if err := json.Unmarshal([]byte(result), &event); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal seasonal event")
	}

	return &GetOutput{Event: &event}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	event := input.Event
	if event == nil {
		return nil, errors.InvalidArgument(errEventNil)
	}
	if event.ID == "" {
		return nil, errors.InvalidArgument(errEventIDEmpty)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal seasonal event")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, eventKeyPrefix+event.ID, data, 0)
	pipe.SAdd(ctx, allIndexKey, event.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create seasonal event")
	}

	return &CreateOutput{Event: event}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	event := input.Event
	if event == nil {
		return nil, errors.InvalidArgument(errEventNil)
	}
	if event.ID == "" {
		return nil, errors.InvalidArgument(errEventIDEmpty)
	}

	key := eventKeyPrefix + event.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("seasonal event %s not found", event.ID)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal seasonal event")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update seasonal event")
	}

	return &UpdateOutput{Event: event}, nil
}

func (r *redisRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	events, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Events: events}, nil
}

func (r *redisRepository) ListActive(ctx context.Context, _ ListActiveInput) (*ListActiveOutput, error) {
	events, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	active := events[:0]
	for _, event := range events {
		if event.IsActive {
			active = append(active, event)
		}
	}

	return &ListActiveOutput{Events: active}, nil
}

func (r *redisRepository) loadAll(ctx context.Context) ([]*town.SeasonalEvent, error) {
	ids, err := r.client.SMembers(ctx, allIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read event index")
	}

	events := make([]*town.SeasonalEvent, 0, len(ids))
	for _, id := range ids {
		result, err := r.client.Get(ctx, eventKeyPrefix+id).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, errors.Wrapf(err, "failed to load seasonal event %s", id)
		}

		var event town.SeasonalEvent
		if err := json.Unmarshal([]byte(result), &event); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal seasonal event %s", id)
		}
		events = append(events, &event)
	}

	return events, nil
}
