package campaign

import (
	"github.com/KirkDiggler/rollcall/internal/common/clock"
	"github.com/KirkDiggler/rollcall/internal/common/uuid"
	"github.com/KirkDiggler/rollcall/internal/models"
	campaignRepo "github.com/KirkDiggler/rollcall/internal/repositories/campaign"
	profileRepo "github.com/KirkDiggler/rollcall/internal/repositories/profile"
	"go.uber.org/zap"
)

// Config holds configuration for the campaign service
type Config struct {
	// Repository dependencies
	CampaignRepo campaignRepo.Repository
	ProfileRepo  profileRepo.Repository

	// Utility dependencies
	Clock         clock.Clock
	UUIDGenerator uuid.UUID

	// Optional
	Logger *zap.Logger
}

// CreateCampaignInput contains parameters for creating a campaign
type CreateCampaignInput struct {
	Name      string
	ChannelID string

	// GMUserID becomes the campaign owner
	GMUserID   string
	GMUsername string
}

// CreateCampaignOutput contains the new campaign
type CreateCampaignOutput struct {
	Campaign *models.Campaign
}

// GetCampaignByChannelInput contains parameters for a channel lookup
type GetCampaignByChannelInput struct {
	ChannelID string
}

// ListCampaignsInput contains parameters for listing campaigns
type ListCampaignsInput struct {
}

// ListCampaignsOutput contains every campaign
type ListCampaignsOutput struct {
	Campaigns []*models.Campaign
}

// ResolveViewerInput contains parameters for classifying a user
type ResolveViewerInput struct {
	CampaignID string
	UserID     string
}

// ResolveViewerOutput contains the classified viewer
type ResolveViewerOutput struct {
	Viewer   models.Viewer
	Campaign *models.Campaign
}

// SaveProfileInput contains parameters for saving a profile
type SaveProfileInput struct {
	UserID   string
	Username string
}

// SetBoardMessageInput contains parameters for recording a board message
type SetBoardMessageInput struct {
	CampaignID string
	MessageID  string
}
