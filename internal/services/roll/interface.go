package roll

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/rollcall/internal/services/roll Service

import "context"

// Service defines the interface for campaign roll operations
type Service interface {
	// Roll draws, persists and announces one roll
	Roll(ctx context.Context, input *RollInput) (*RollOutput, error)

	// FetchRecent returns the newest rolls with display names attached
	FetchRecent(ctx context.Context, input *FetchRecentInput) (*FetchRecentOutput, error)

	// History returns the newest rolls the viewer may see
	History(ctx context.Context, input *HistoryInput) (*HistoryOutput, error)

	// ClearAll deletes every roll in the campaign; GM only
	ClearAll(ctx context.Context, input *ClearAllInput) (*ClearAllOutput, error)
}
