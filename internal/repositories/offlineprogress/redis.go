package offlineprogress

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	redisclient "github.com/hearthvale/companion-api/internal/redis"
)

const (
	progressKeyPrefix = "offline:"
	userIndexPrefix   = "offline:user:"

	errProgressNil = "offline progress cannot be nil"
	errIDEmpty     = "offline progress ID cannot be empty"
	errUserIDEmpty = "user ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis offline progress repository
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

// NewRedis creates a new Redis-backed offline progress repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	result, err := r.client.Get(ctx, progressKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("offline progress %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get offline progress")
	}

	var row town.OfflineProgress
	if err := json.Unmarshal([]byte(result), &row); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal offline progress")
	}

	return &GetOutput{Progress: &row}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	row := input.Progress
	if row == nil {
		return nil, errors.InvalidArgument(errProgressNil)
	}
	if row.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}
	if row.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	data, err := json.Marshal(row)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal offline progress")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, progressKeyPrefix+row.ID, data, 0)
	pipe.SAdd(ctx, userIndexPrefix+row.UserID, row.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create offline progress")
	}

	return &CreateOutput{Progress: row}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	row := input.Progress
	if row == nil {
		return nil, errors.InvalidArgument(errProgressNil)
	}
	if row.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	key := progressKeyPrefix + row.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("offline progress %s not found", row.ID)
	}

	data, err := json.Marshal(row)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal offline progress")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update offline progress")
	}

	return &UpdateOutput{Progress: row}, nil
}

func (r *redisRepository) ListUnviewedByUser(ctx context.Context, input ListUnviewedByUserInput) (*ListUnviewedByUserOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	ids, err := r.client.SMembers(ctx, userIndexPrefix+input.UserID).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read user index")
	}

	events := make([]*town.OfflineProgress, 0, len(ids))
	for _, id := range ids {
		result, err := r.client.Get(ctx, progressKeyPrefix+id).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, errors.Wrapf(err, "failed to load offline progress %s", id)
		}

		var row town.OfflineProgress
		if err := json.Unmarshal([]byte(result), &row); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal offline progress %s", id)
		}
		if !row.WasViewed {
			events = append(events, &row)
		}
	}

	return &ListUnviewedByUserOutput{Events: events}, nil
}
