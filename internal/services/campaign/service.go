package campaign

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/rollcall/internal/common/clock"
	"github.com/KirkDiggler/rollcall/internal/common/uuid"
	"github.com/KirkDiggler/rollcall/internal/models"
	campaignRepo "github.com/KirkDiggler/rollcall/internal/repositories/campaign"
	profileRepo "github.com/KirkDiggler/rollcall/internal/repositories/profile"
	"go.uber.org/zap"
)

// DefaultCampaignName is used when setup gives no name
const DefaultCampaignName = "Campaign"

// service implements the Service interface
type service struct {
	campaignRepo  campaignRepo.Repository
	profileRepo   profileRepo.Repository
	clock         clock.Clock
	uuidGenerator uuid.UUID
	logger        *zap.Logger
}

// New creates a new campaign service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.CampaignRepo == nil {
		return nil, ErrNilCampaignRepo
	}

	if cfg.ProfileRepo == nil {
		return nil, ErrNilProfileRepo
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &service{
		campaignRepo:  cfg.CampaignRepo,
		profileRepo:   cfg.ProfileRepo,
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
		logger:        logger.Named("campaign"),
	}, nil
}

// CreateCampaign binds a channel to a new campaign owned by the caller.
// A channel holds at most one campaign.
func (s *service) CreateCampaign(ctx context.Context, input *CreateCampaignInput) (*CreateCampaignOutput, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidInput)
	}

	if input.ChannelID == "" {
		return nil, fmt.Errorf("%w: channel ID cannot be empty", ErrInvalidInput)
	}

	if input.GMUserID == "" {
		return nil, fmt.Errorf("%w: GM user ID cannot be empty", ErrInvalidInput)
	}

	existing, err := s.campaignRepo.GetCampaignByChannel(ctx, &campaignRepo.GetCampaignByChannelInput{
		ChannelID: input.ChannelID,
	})
	if err == nil {
		return &CreateCampaignOutput{Campaign: existing}, ErrChannelAlreadyBound
	}
	if !errors.Is(err, campaignRepo.ErrCampaignNotFound) {
		return nil, fmt.Errorf("failed to check channel binding: %w", err)
	}

	name := input.Name
	if name == "" {
		name = DefaultCampaignName
	}

	campaign := &models.Campaign{
		ID:        s.uuidGenerator.NewUUID(),
		Name:      name,
		GMUserID:  input.GMUserID,
		ChannelID: input.ChannelID,
		CreatedAt: s.clock.Now(),
	}

	if err := s.campaignRepo.SaveCampaign(ctx, &campaignRepo.SaveCampaignInput{
		Campaign: campaign,
	}); err != nil {
		return nil, fmt.Errorf("failed to save campaign: %w", err)
	}

	if input.GMUsername != "" {
		if err := s.SaveProfile(ctx, &SaveProfileInput{
			UserID:   input.GMUserID,
			Username: input.GMUsername,
		}); err != nil {
			// The campaign exists; a missing name only shows as Unknown
			s.logger.Warn("failed to save GM profile",
				zap.String("campaign_id", campaign.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("campaign created",
		zap.String("campaign_id", campaign.ID),
		zap.String("channel_id", campaign.ChannelID),
		zap.String("gm_user_id", campaign.GMUserID),
	)

	return &CreateCampaignOutput{
		Campaign: campaign,
	}, nil
}

// GetCampaignByChannel returns the campaign bound to a channel
func (s *service) GetCampaignByChannel(ctx context.Context, input *GetCampaignByChannelInput) (*models.Campaign, error) {
	if input == nil || input.ChannelID == "" {
		return nil, fmt.Errorf("%w: channel ID cannot be empty", ErrInvalidInput)
	}

	campaign, err := s.campaignRepo.GetCampaignByChannel(ctx, &campaignRepo.GetCampaignByChannelInput{
		ChannelID: input.ChannelID,
	})
	if err != nil {
		if errors.Is(err, campaignRepo.ErrCampaignNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return campaign, nil
}

// ListCampaigns returns every campaign, oldest first
func (s *service) ListCampaigns(ctx context.Context, input *ListCampaignsInput) (*ListCampaignsOutput, error) {
	out, err := s.campaignRepo.ListCampaigns(ctx, &campaignRepo.ListCampaignsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	return &ListCampaignsOutput{
		Campaigns: out.Campaigns,
	}, nil
}

// ResolveViewer classifies a user within a campaign. The campaign owner is
// the GM; everyone else is a player. An empty user ID yields an anonymous
// player.
func (s *service) ResolveViewer(ctx context.Context, input *ResolveViewerInput) (*ResolveViewerOutput, error) {
	if input == nil || input.CampaignID == "" {
		return nil, fmt.Errorf("%w: campaign ID cannot be empty", ErrInvalidInput)
	}

	campaign, err := s.campaignRepo.GetCampaign(ctx, &campaignRepo.GetCampaignInput{
		CampaignID: input.CampaignID,
	})
	if err != nil {
		if errors.Is(err, campaignRepo.ErrCampaignNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	return &ResolveViewerOutput{
		Viewer: models.Viewer{
			ID:   input.UserID,
			IsGM: input.UserID != "" && input.UserID == campaign.GMUserID,
		},
		Campaign: campaign,
	}, nil
}

// SaveProfile upserts the name shown next to a user's rolls
func (s *service) SaveProfile(ctx context.Context, input *SaveProfileInput) error {
	if input == nil || input.UserID == "" {
		return fmt.Errorf("%w: user ID cannot be empty", ErrInvalidInput)
	}

	if input.Username == "" {
		return fmt.Errorf("%w: username cannot be empty", ErrInvalidInput)
	}

	return s.profileRepo.SaveProfile(ctx, &profileRepo.SaveProfileInput{
		Profile: &models.Profile{
			ID:       input.UserID,
			Username: input.Username,
		},
	})
}

// SetBoardMessage records the campaign's public roll board message
func (s *service) SetBoardMessage(ctx context.Context, input *SetBoardMessageInput) error {
	if input == nil || input.CampaignID == "" {
		return fmt.Errorf("%w: campaign ID cannot be empty", ErrInvalidInput)
	}

	campaign, err := s.campaignRepo.GetCampaign(ctx, &campaignRepo.GetCampaignInput{
		CampaignID: input.CampaignID,
	})
	if err != nil {
		if errors.Is(err, campaignRepo.ErrCampaignNotFound) {
			return ErrCampaignNotFound
		}
		return fmt.Errorf("failed to get campaign: %w", err)
	}

	if campaign.BoardMessageID == input.MessageID {
		return nil
	}

	campaign.BoardMessageID = input.MessageID
	if err := s.campaignRepo.SaveCampaign(ctx, &campaignRepo.SaveCampaignInput{
		Campaign: campaign,
	}); err != nil {
		return fmt.Errorf("failed to save campaign: %w", err)
	}

	return nil
}
