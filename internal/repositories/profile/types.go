package profile

import "github.com/KirkDiggler/rollcall/internal/models"

type SaveProfileInput struct {
	Profile *models.Profile
}

type GetProfileInput struct {
	UserID string
}

type GetProfilesInput struct {
	UserIDs []string
}

type GetProfilesOutput struct {
	// Profiles keyed by user ID
	Profiles map[string]*models.Profile
}
