// Package visibility decides which rolls a viewer may see.
package visibility

import (
	"github.com/KirkDiggler/rollcall/internal/models"
)

// CanSee reports whether viewer may see roll.
// The GM sees everything. Anyone else sees their own rolls and rolls that
// are neither hidden nor master rolls; hidden suppresses regardless of the
// master flag.
func CanSee(roll *models.DiceRoll, viewer models.Viewer) bool {
	if roll == nil {
		return false
	}
	if viewer.IsGM {
		return true
	}
	if viewer.ID != "" && roll.UserID == viewer.ID {
		return true
	}
	return !roll.HiddenFromPlayers && !roll.IsMasterRoll
}

// Filter returns the rolls viewer may see, in their original order
func Filter(rolls []*models.DiceRoll, viewer models.Viewer) []*models.DiceRoll {
	visible := make([]*models.DiceRoll, 0, len(rolls))
	for _, roll := range rolls {
		if CanSee(roll, viewer) {
			visible = append(visible, roll)
		}
	}
	return visible
}
