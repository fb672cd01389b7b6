package campaign

// CampaignError is a custom error type for campaign errors
type CampaignError string

// Error implements the error interface
func (e CampaignError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrCampaignNotFound    CampaignError = "campaign not found"
	ErrChannelAlreadyBound CampaignError = "channel already has a campaign"
	ErrInvalidInput        CampaignError = "invalid campaign request"
	ErrNilConfig           CampaignError = "config cannot be nil"
	ErrNilCampaignRepo     CampaignError = "campaign repository cannot be nil"
	ErrNilProfileRepo      CampaignError = "profile repository cannot be nil"
	ErrNilClock            CampaignError = "clock cannot be nil"
	ErrNilUUIDGenerator    CampaignError = "UUID generator cannot be nil"
)
