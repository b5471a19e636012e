package resonance

import (
	"context"
	"encoding/json"

	"github.com/hearthvale/companion-api/internal/entities/town"
	"github.com/hearthvale/companion-api/internal/errors"
	redisclient "github.com/hearthvale/companion-api/internal/redis"
)

const (
	relationshipIndexPrefix = "resonance:rel:"

	// rows older than the newest maxStoredRows are trimmed away; the sync
	// window only ever reads back the most recent handful
	maxStoredRows = 50
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis resonance repository
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

// NewRedis creates a new Redis-backed resonance repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	row := input.Resonance
	if row == nil {
		return nil, errors.InvalidArgument("resonance cannot be nil")
	}
	if row.RelationshipID == "" {
		return nil, errors.InvalidArgument("relationship ID cannot be empty")
	}

	data, err := json.Marshal(row)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal resonance")
	}

	key := relationshipIndexPrefix + row.RelationshipID

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, maxStoredRows-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to append resonance")
	}

	return &CreateOutput{Resonance: row}, nil
}

func (r *redisRepository) ListRecent(ctx context.Context, input ListRecentInput) (*ListRecentOutput, error) {
	if input.RelationshipID == "" {
		return nil, errors.InvalidArgument("relationship ID cannot be empty")
	}

	limit := input.Limit
	if limit <= 0 || limit > maxStoredRows {
		limit = maxStoredRows
	}

	raw, err := r.client.LRange(ctx, relationshipIndexPrefix+input.RelationshipID, 0, maxStoredRows-1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read resonance window")
	}

	rows := make([]*town.EmotionalResonance, 0, limit)
	for _, item := range raw {
		var row town.EmotionalResonance
		if err := json.Unmarshal([]byte(item), &row); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal resonance")
		}
		if row.CreatedAt.Before(input.Since) {
			// rows are newest first, everything after is older still
			break
		}
		rows = append(rows, &row)
		if len(rows) == limit {
			break
		}
	}

	return &ListRecentOutput{Resonances: rows}, nil
}
