package cooldown

import (
	"context"
	"strconv"

	redis "github.com/redis/go-redis/v9"

	"github.com/questforge/questforge-api/internal/errors"
	redisclient "github.com/questforge/questforge-api/internal/redis"
)

const (
	// Key pattern: explore_cooldown:{character_id}
	cooldownKeyPrefix = "explore_cooldown:"

	errCharacterIDEmpty = "character ID cannot be empty"
)

// RedisConfig contains configuration for the Redis cooldown repository.
type RedisConfig struct {
	Client redisclient.Client
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedis creates a new Redis-backed cooldown repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	result, err := r.client.Get(ctx, cooldownKeyPrefix+input.CharacterID).Result()
	if err != nil {
		if err == redis.Nil {
			return &GetOutput{NextAllowed: 0}, nil
		}
		return nil, errors.Wrapf(err, "failed to get cooldown")
	}

	nextAllowed, err := strconv.ParseInt(result, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse cooldown value %q", result)
	}

	return &GetOutput{NextAllowed: nextAllowed}, nil
}

func (r *redisRepository) Set(ctx context.Context, input SetInput) (*SetOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	key := cooldownKeyPrefix + input.CharacterID
	value := strconv.FormatInt(input.NextAllowed, 10)
	if err := r.client.Set(ctx, key, value, input.TTL).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to set cooldown")
	}

	return &SetOutput{}, nil
}
