package dice_roll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/rollcall/internal/common/clock"
	"github.com/KirkDiggler/rollcall/internal/common/uuid"
	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	diceRollKeyPrefix      = "dice_roll:"
	campaignRollsKeyPrefix = "campaign_dice_rolls:"
	diceRollSeqKey         = "dice_roll_seq"
)

// clearCampaignScript deletes every roll in the campaign index and the index
// itself in one step. Index members are "{seq}:{id}".
var clearCampaignScript = redis.NewScript(`
local members = redis.call('ZRANGE', KEYS[1], 0, -1)
for _, member in ipairs(members) do
  local sep = string.find(member, ':', 1, true)
  if sep then
    redis.call('DEL', ARGV[1] .. string.sub(member, sep + 1))
  end
end
redis.call('DEL', KEYS[1])
return #members
`)

// Config holds configuration for the Redis dice roll repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Clock stamps CreatedAt; defaults to the wall clock
	Clock clock.Clock

	// UUIDGenerator assigns roll IDs; defaults to random UUIDs
	UUIDGenerator uuid.UUID
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client        *redis.Client
	clock         clock.Clock
	uuidGenerator uuid.UUID
}

// NewRedis creates a new Redis-backed dice roll repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	repo := &redisRepository{
		client:        cfg.RedisClient,
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
	}
	if repo.clock == nil {
		repo.clock = clock.New()
	}
	if repo.uuidGenerator == nil {
		repo.uuidGenerator = uuid.New()
	}

	return repo, nil
}

// Insert persists a roll and adds it to the campaign index in one transaction
func (r *redisRepository) Insert(ctx context.Context, input *InsertInput) (*models.DiceRoll, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	seq, err := r.client.Incr(ctx, diceRollSeqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate roll sequence: %w", err)
	}

	roll := *input.Roll
	roll.ID = r.uuidGenerator.NewUUID()
	roll.CreatedAt = r.clock.Now().UTC()
	roll.Seq = seq
	roll.BatchCount = batchCount(&roll)
	roll.Rolls = append([]int(nil), input.Roll.Rolls...)
	roll.DisplayName = ""

	rollJSON, err := json.Marshal(&roll)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal roll: %w", err)
	}

	rollKey := diceRollKeyPrefix + roll.ID
	indexKey := campaignRollsKeyPrefix + roll.CampaignID

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, rollKey, rollJSON, 0)
		pipe.ZAdd(ctx, indexKey, redis.Z{
			Score:  float64(roll.CreatedAt.UnixMilli()),
			Member: indexMember(roll.Seq, roll.ID),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save roll: %w", err)
	}

	return &roll, nil
}

// FetchRecent reads the campaign index newest first and loads the records
func (r *redisRepository) FetchRecent(ctx context.Context, input *FetchRecentInput) (*FetchRecentOutput, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	indexKey := campaignRollsKeyPrefix + input.CampaignID
	members, err := r.client.ZRevRange(ctx, indexKey, 0, int64(input.Limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read campaign roll index: %w", err)
	}

	if len(members) == 0 {
		return &FetchRecentOutput{
			Rolls: []*models.DiceRoll{},
		}, nil
	}

	// Get all roll records in one round trip
	pipe := r.client.Pipeline()
	rollCommands := make([]*redis.StringCmd, 0, len(members))
	for _, member := range members {
		rollCommands = append(rollCommands, pipe.Get(ctx, diceRollKeyPrefix+memberID(member)))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get rolls: %w", err)
	}

	rolls := make([]*models.DiceRoll, 0, len(members))
	for i, cmd := range rollCommands {
		rollJSON, err := cmd.Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Record cleared between reading the index and the records
				continue
			}
			return nil, fmt.Errorf("failed to get roll %s: %w", memberID(members[i]), err)
		}

		var roll models.DiceRoll
		if err := json.Unmarshal([]byte(rollJSON), &roll); err != nil {
			return nil, fmt.Errorf("failed to unmarshal roll %s: %w", memberID(members[i]), err)
		}

		rolls = append(rolls, &roll)
	}

	return &FetchRecentOutput{
		Rolls: rolls,
	}, nil
}

// ClearAll removes every roll in the campaign with a single script
func (r *redisRepository) ClearAll(ctx context.Context, input *ClearAllInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	indexKey := campaignRollsKeyPrefix + input.CampaignID
	if err := clearCampaignScript.Run(ctx, r.client, []string{indexKey}, diceRollKeyPrefix).Err(); err != nil {
		return fmt.Errorf("failed to clear campaign rolls: %w", err)
	}

	return nil
}

// indexMember zero pads seq so equal scores sort by insertion order
func indexMember(seq int64, id string) string {
	return fmt.Sprintf("%020d:%s", seq, id)
}

func memberID(member string) string {
	_, id, ok := strings.Cut(member, ":")
	if !ok {
		return member
	}
	return id
}
