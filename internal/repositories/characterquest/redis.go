package characterquest

import (
	"context"
	"encoding/json"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/questforge/questforge-api/internal/entities"
	"github.com/questforge/questforge-api/internal/errors"
	redisclient "github.com/questforge/questforge-api/internal/redis"
)

const (
	questKeyPrefix      = "character_quest:"
	characterIndexPrefix = "character_quest:character:"

	// Error messages
	errQuestNil         = "character quest cannot be nil"
	errQuestIDEmpty     = "character quest ID cannot be empty"
	errCharacterIDEmpty = "character ID cannot be empty"
)

// RedisConfig contains configuration for the Redis character quest repository.
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

// NewRedis creates a new Redis-backed character quest repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.CharacterQuest == nil {
		return nil, errors.InvalidArgument(errQuestNil)
	}
	if input.CharacterQuest.ID == "" {
		return nil, errors.InvalidArgument(errQuestIDEmpty)
	}
	if input.CharacterQuest.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	key := questKeyPrefix + input.CharacterQuest.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("character quest with ID %s already exists", input.CharacterQuest.ID)
	}

	data, err := json.Marshal(input.CharacterQuest)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character quest")
	}

	// Record plus character index in one transaction
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, characterIndexPrefix+input.CharacterQuest.CharacterID, input.CharacterQuest.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create character quest")
	}

	return &CreateOutput{CharacterQuest: input.CharacterQuest}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errQuestIDEmpty)
	}

	key := questKeyPrefix + input.ID
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character quest with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get character quest")
	}

	var cq entities.CharacterQuest
	if err := json.Unmarshal([]byte(result), &cq); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character quest")
	}

	return &GetOutput{CharacterQuest: &cq}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.CharacterQuest == nil {
		return nil, errors.InvalidArgument(errQuestNil)
	}
	if input.CharacterQuest.ID == "" {
		return nil, errors.InvalidArgument(errQuestIDEmpty)
	}

	key := questKeyPrefix + input.CharacterQuest.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("character quest with ID %s not found", input.CharacterQuest.ID)
	}

	data, err := json.Marshal(input.CharacterQuest)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character quest")
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update character quest")
	}

	return &UpdateOutput{CharacterQuest: input.CharacterQuest}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errQuestIDEmpty)
	}

	getOutput, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, questKeyPrefix+input.ID)
	pipe.SRem(ctx, characterIndexPrefix+getOutput.CharacterQuest.CharacterID, input.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character quest")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListByCharacterID(
	ctx context.Context,
	input ListByCharacterIDInput,
) (*ListByCharacterIDOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	indexKey := characterIndexPrefix + input.CharacterID
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read character quest index %s", indexKey)
	}

	quests := make([]*entities.CharacterQuest, 0, len(ids))
	for _, id := range ids {
		getOutput, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			// Stale index entry, clean it up and keep going
			if errors.IsNotFound(err) {
				slog.WarnContext(ctx, "character quest missing, cleaning up index",
					"character_quest_id", id,
					"index_key", indexKey)
				r.client.SRem(ctx, indexKey, id)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get character quest %s", id)
		}
		quests = append(quests, getOutput.CharacterQuest)
	}

	return &ListByCharacterIDOutput{CharacterQuests: quests}, nil
}
