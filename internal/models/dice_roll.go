package models

import (
	"time"
)

// RollMode is the aggregation rule applied to the dice of one roll
type RollMode string

const (
	// RollModeSum adds every die and applies the modifier once
	RollModeSum RollMode = "sum"

	// RollModeSeparate applies the modifier to every die
	RollModeSeparate RollMode = "separate"

	// RollModeAdvantage keeps the highest die
	RollModeAdvantage RollMode = "advantage"

	// RollModeDisadvantage keeps the lowest die
	RollModeDisadvantage RollMode = "disadvantage"
)

// IsValid reports whether m is one of the known roll modes
func (m RollMode) IsValid() bool {
	switch m {
	case RollModeSum, RollModeSeparate, RollModeAdvantage, RollModeDisadvantage:
		return true
	}
	return false
}

// DisplayName is the label shown next to a roll in history
func (m RollMode) DisplayName() string {
	switch m {
	case RollModeSum:
		return "Sum"
	case RollModeSeparate:
		return "Separate"
	case RollModeAdvantage:
		return "Advantage"
	case RollModeDisadvantage:
		return "Disadvantage"
	}
	return string(m)
}

// DiceRoll is one persisted roll in a campaign
type DiceRoll struct {
	// ID is the unique identifier for the roll
	ID string `json:"id"`

	// CampaignID scopes every query
	CampaignID string `json:"campaign_id"`

	// UserID is the roller
	UserID string `json:"user_id"`

	// DiceType is the shape label, e.g. "2d20" or "3x2d6"
	DiceType string `json:"dice_type"`

	// Rolls holds the raw faces in draw order
	Rolls []int `json:"rolls"`

	// Total is frozen at roll time
	Total int `json:"total"`

	// Modifier is applied per the roll mode
	Modifier int `json:"modifier"`

	// BatchCount is stored as multiplier
	BatchCount int `json:"multiplier"`

	// RollMode is the aggregation rule used for Total
	RollMode RollMode `json:"roll_mode"`

	// IsMasterRoll marks a roll made by the GM for the GM
	IsMasterRoll bool `json:"is_master_roll"`

	// HiddenFromPlayers hides the roll from everyone but the GM and the roller
	HiddenFromPlayers bool `json:"hidden_from_players"`

	// CreatedAt is assigned by the store
	CreatedAt time.Time `json:"created_at"`

	// Seq is the store's insertion sequence, used to break createdAt ties
	Seq int64 `json:"seq"`

	// DisplayName of the roller, attached on fetch and never persisted
	DisplayName string `json:"-"`
}
