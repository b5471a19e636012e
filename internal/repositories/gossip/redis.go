package gossip

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	redisclient "github.com/hearthvale/companion-api/internal/redis"
)

const (
	gossipKeyPrefix = "gossip:"
	userIndexPrefix = "gossip:user:"
	activeIndexKey  = "gossip:active"

	errGossipNil     = "gossip cannot be nil"
	errGossipIDEmpty = "gossip ID cannot be empty"
	errUserIDEmpty   = "user ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis gossip repository
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

// NewRedis creates a new Redis-backed gossip repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errGossipIDEmpty)
	}

	result, err := r.client.Get(ctx, gossipKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("gossip %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get gossip")
	}

	var entry town.GossipEntry
	if err := json.Unmarshal([]byte(result), &entry); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal gossip")
	}

	return &GetOutput{Gossip: &entry}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	entry := input.Gossip
	if entry == nil {
		return nil, errors.InvalidArgument(errGossipNil)
	}
	if entry.ID == "" {
		return nil, errors.InvalidArgument(errGossipIDEmpty)
	}
	if entry.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal gossip")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, gossipKeyPrefix+entry.ID, data, 0)
	pipe.SAdd(ctx, userIndexPrefix+entry.UserID, entry.ID)
	if entry.IsActive {
		pipe.SAdd(ctx, activeIndexKey, entry.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create gossip")
	}

	return &CreateOutput{Gossip: entry}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	entry := input.Gossip
	if entry == nil {
		return nil, errors.InvalidArgument(errGossipNil)
	}
	if entry.ID == "" {
		return nil, errors.InvalidArgument(errGossipIDEmpty)
	}

	key := gossipKeyPrefix + entry.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("gossip %s not found", entry.ID)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal gossip")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	if entry.IsActive {
		pipe.SAdd(ctx, activeIndexKey, entry.ID)
	} else {
		pipe.SRem(ctx, activeIndexKey, entry.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to update gossip")
	}

	return &UpdateOutput{Gossip: entry}, nil
}

func (r *redisRepository) ListActiveByUser(ctx context.Context, input ListActiveByUserInput) (*ListActiveByUserOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	ids, err := r.client.SMembers(ctx, userIndexPrefix+input.UserID).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read user index")
	}

	entries, err := r.loadMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	active := entries[:0]
	for _, entry := range entries {
		if entry.IsActive {
			active = append(active, entry)
		}
	}

	return &ListActiveByUserOutput{Entries: active}, nil
}

func (r *redisRepository) ListActive(ctx context.Context, _ ListActiveInput) (*ListActiveOutput, error) {
	ids, err := r.client.SMembers(ctx, activeIndexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read active index")
	}

	entries, err := r.loadMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &ListActiveOutput{Entries: entries}, nil
}

func (r *redisRepository) CountByUser(ctx context.Context, input CountByUserInput) (*CountByUserOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	n, err := r.client.SCard(ctx, userIndexPrefix+input.UserID).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to count gossip")
	}

	return &CountByUserOutput{Count: int(n)}, nil
}

func (r *redisRepository) loadMany(ctx context.Context, ids []string) ([]*town.GossipEntry, error) {
	entries := make([]*town.GossipEntry, 0, len(ids))
	for _, id := range ids {
		result, err := r.client.Get(ctx, gossipKeyPrefix+id).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, errors.Wrapf(err, "failed to load gossip %s", id)
		}

		var entry town.GossipEntry
		if err := json.Unmarshal([]byte(result), &entry); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal gossip %s", id)
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}
