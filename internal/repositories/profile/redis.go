package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for Redis
	profileKeyPrefix = "profile:"
)

// ErrProfileNotFound is returned when a profile is not found
var ErrProfileNotFound = errors.New("profile not found")

// Config holds configuration for the Redis profile repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed profile repository
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

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveProfile persists a profile to Redis
func (r *redisRepository) SaveProfile(ctx context.Context, input *SaveProfileInput) error {
	if input == nil || input.Profile == nil {
		return errors.New("input and profile cannot be nil")
	}

	if input.Profile.ID == "" {
		return errors.New("profile ID cannot be empty")
	}

	profileJSON, err := json.Marshal(input.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := r.client.Set(ctx, profileKeyPrefix+input.Profile.ID, profileJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

// GetProfile retrieves a profile by user ID from Redis
func (r *redisRepository) GetProfile(ctx context.Context, input *GetProfileInput) (*models.Profile, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	profileJSON, err := r.client.Get(ctx, profileKeyPrefix+input.UserID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var profile models.Profile
	if err := json.Unmarshal([]byte(profileJSON), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

// GetProfiles retrieves profiles with a single pipeline
func (r *redisRepository) GetProfiles(ctx context.Context, input *GetProfilesInput) (*GetProfilesOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	profiles := make(map[string]*models.Profile, len(input.UserIDs))
	if len(input.UserIDs) == 0 {
		return &GetProfilesOutput{
			Profiles: profiles,
		}, nil
	}

	pipe := r.client.Pipeline()
	profileCommands := make(map[string]*redis.StringCmd, len(input.UserIDs))
	for _, userID := range input.UserIDs {
		if userID == "" {
			continue
		}
		if _, ok := profileCommands[userID]; ok {
			continue
		}
		profileCommands[userID] = pipe.Get(ctx, profileKeyPrefix+userID)
	}

	if len(profileCommands) == 0 {
		return &GetProfilesOutput{
			Profiles: profiles,
		}, nil
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}

	for userID, cmd := range profileCommands {
		profileJSON, err := cmd.Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to get profile %s: %w", userID, err)
		}

		var profile models.Profile
		if err := json.Unmarshal([]byte(profileJSON), &profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile %s: %w", userID, err)
		}

		profiles[userID] = &profile
	}

	return &GetProfilesOutput{
		Profiles: profiles,
	}, nil
}
