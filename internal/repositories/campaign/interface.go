package campaign

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/rollcall/internal/repositories/campaign Repository

import (
	"context"

	"github.com/KirkDiggler/rollcall/internal/models"
)

// Repository defines the interface for campaign data persistence
type Repository interface {
	// SaveCampaign persists a campaign and its channel binding
	SaveCampaign(ctx context.Context, input *SaveCampaignInput) error

	// GetCampaign retrieves a campaign by ID
	GetCampaign(ctx context.Context, input *GetCampaignInput) (*models.Campaign, error)

	// GetCampaignByChannel retrieves the campaign bound to a channel
	GetCampaignByChannel(ctx context.Context, input *GetCampaignByChannelInput) (*models.Campaign, error)

	// ListCampaigns retrieves every campaign
	ListCampaigns(ctx context.Context, input *ListCampaignsInput) (*ListCampaignsOutput, error)
}
