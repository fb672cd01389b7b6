package feed

import "github.com/KirkDiggler/rollcall/internal/models"

// RollInput describes a roll made through a feed; the campaign and roller
// come from the feed
type RollInput struct {
	Sides      int
	DiceCount  int
	BatchCount int
	Modifier   int
	Mode       models.RollMode

	MasterRoll      bool
	HideFromPlayers bool
}
