package dice_roll

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/rollcall/internal/repositories/dice_roll Repository

import (
	"context"

	"github.com/KirkDiggler/rollcall/internal/models"
)

// Repository defines the interface for dice roll persistence.
// Rolls are append only: the only mutations are Insert and ClearAll.
type Repository interface {
	// Insert persists a roll. The store assigns ID, CreatedAt and Seq;
	// rolls, total, modifier and mode are stored verbatim.
	Insert(ctx context.Context, input *InsertInput) (*models.DiceRoll, error)

	// FetchRecent returns the newest rolls for a campaign, newest first,
	// ties broken by insertion order
	FetchRecent(ctx context.Context, input *FetchRecentInput) (*FetchRecentOutput, error)

	// ClearAll deletes every roll for a campaign atomically.
	// Clearing an empty campaign succeeds.
	ClearAll(ctx context.Context, input *ClearAllInput) error
}
