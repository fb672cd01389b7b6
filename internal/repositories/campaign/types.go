package campaign

import "github.com/KirkDiggler/rollcall/internal/models"

type SaveCampaignInput struct {
	Campaign *models.Campaign
}

type GetCampaignInput struct {
	CampaignID string
}

type GetCampaignByChannelInput struct {
	ChannelID string
}

type ListCampaignsInput struct {
}

type ListCampaignsOutput struct {
	Campaigns []*models.Campaign
}
