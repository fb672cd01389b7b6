package campaign

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/rollcall/internal/services/campaign Service

import (
	"context"

	"github.com/KirkDiggler/rollcall/internal/models"
)

// Service manages campaigns, their channel bindings and roller profiles
type Service interface {
	// CreateCampaign binds a channel to a new campaign owned by the caller
	CreateCampaign(ctx context.Context, input *CreateCampaignInput) (*CreateCampaignOutput, error)

	// GetCampaignByChannel returns the campaign bound to a channel
	GetCampaignByChannel(ctx context.Context, input *GetCampaignByChannelInput) (*models.Campaign, error)

	// ListCampaigns returns every campaign, oldest first
	ListCampaigns(ctx context.Context, input *ListCampaignsInput) (*ListCampaignsOutput, error)

	// ResolveViewer classifies a user as GM or player within a campaign
	ResolveViewer(ctx context.Context, input *ResolveViewerInput) (*ResolveViewerOutput, error)

	// SaveProfile records the name shown next to a user's rolls
	SaveProfile(ctx context.Context, input *SaveProfileInput) error

	// SetBoardMessage records the campaign's public roll board message
	SetBoardMessage(ctx context.Context, input *SetBoardMessageInput) error
}
