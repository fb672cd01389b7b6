package campaign

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	campaignKeyPrefix = "campaign:"
	channelKeyPrefix  = "channel_campaign:"
	campaignsKey      = "campaigns"
)

// ErrCampaignNotFound is returned when a campaign is not found
var ErrCampaignNotFound = errors.New("campaign not found")

// Config holds configuration for the Redis campaign repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed campaign repository
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

// SaveCampaign persists a campaign to Redis
func (r *redisRepository) SaveCampaign(ctx context.Context, input *SaveCampaignInput) error {
	if input == nil || input.Campaign == nil {
		return errors.New("input and campaign cannot be nil")
	}

	if input.Campaign.ID == "" {
		return errors.New("campaign ID cannot be empty")
	}

	campaignJSON, err := json.Marshal(input.Campaign)
	if err != nil {
		return fmt.Errorf("failed to marshal campaign: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, campaignKeyPrefix+input.Campaign.ID, campaignJSON, 0)
		pipe.ZAdd(ctx, campaignsKey, redis.Z{
			Score:  float64(input.Campaign.CreatedAt.UnixMilli()),
			Member: input.Campaign.ID,
		})

		// Channel-to-campaign mapping
		if input.Campaign.ChannelID != "" {
			pipe.Set(ctx, channelKeyPrefix+input.Campaign.ChannelID, input.Campaign.ID, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save campaign: %w", err)
	}

	return nil
}

// GetCampaign retrieves a campaign by ID from Redis
func (r *redisRepository) GetCampaign(ctx context.Context, input *GetCampaignInput) (*models.Campaign, error) {
	if input == nil || input.CampaignID == "" {
		return nil, errors.New("input and campaign ID cannot be empty")
	}

	campaignJSON, err := r.client.Get(ctx, campaignKeyPrefix+input.CampaignID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	var campaign models.Campaign
	if err := json.Unmarshal([]byte(campaignJSON), &campaign); err != nil {
		return nil, fmt.Errorf("failed to unmarshal campaign: %w", err)
	}

	return &campaign, nil
}

// GetCampaignByChannel retrieves a campaign by channel ID from Redis
func (r *redisRepository) GetCampaignByChannel(ctx context.Context, input *GetCampaignByChannelInput) (*models.Campaign, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	campaignID, err := r.client.Get(ctx, channelKeyPrefix+input.ChannelID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign ID for channel: %w", err)
	}

	return r.GetCampaign(ctx, &GetCampaignInput{
		CampaignID: campaignID,
	})
}

// ListCampaigns retrieves every campaign, oldest first
func (r *redisRepository) ListCampaigns(ctx context.Context, input *ListCampaignsInput) (*ListCampaignsOutput, error) {
	campaignIDs, err := r.client.ZRange(ctx, campaignsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign IDs: %w", err)
	}

	if len(campaignIDs) == 0 {
		return &ListCampaignsOutput{
			Campaigns: []*models.Campaign{},
		}, nil
	}

	pipe := r.client.Pipeline()
	campaignCommands := make([]*redis.StringCmd, 0, len(campaignIDs))
	for _, campaignID := range campaignIDs {
		campaignCommands = append(campaignCommands, pipe.Get(ctx, campaignKeyPrefix+campaignID))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get campaigns: %w", err)
	}

	campaigns := make([]*models.Campaign, 0, len(campaignIDs))
	for i, cmd := range campaignCommands {
		campaignJSON, err := cmd.Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to get campaign %s: %w", campaignIDs[i], err)
		}

		var campaign models.Campaign
		if err := json.Unmarshal([]byte(campaignJSON), &campaign); err != nil {
			return nil, fmt.Errorf("failed to unmarshal campaign %s: %w", campaignIDs[i], err)
		}
		campaigns = append(campaigns, &campaign)
	}

	return &ListCampaignsOutput{
		Campaigns: campaigns,
	}, nil
}
