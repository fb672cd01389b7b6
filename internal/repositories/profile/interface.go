package profile

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/rollcall/internal/repositories/profile Repository

import (
	"context"

	"github.com/KirkDiggler/rollcall/internal/models"
)

// Repository defines the interface for profile data persistence
type Repository interface {
	// SaveProfile persists a profile
	SaveProfile(ctx context.Context, input *SaveProfileInput) error

	// GetProfile retrieves a profile by user ID
	GetProfile(ctx context.Context, input *GetProfileInput) (*models.Profile, error)

	// GetProfiles retrieves many profiles in one round trip; unknown IDs are omitted
	GetProfiles(ctx context.Context, input *GetProfilesInput) (*GetProfilesOutput, error)
}
