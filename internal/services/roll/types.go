package roll

import (
	"github.com/KirkDiggler/rollcall/internal/dice"
	"github.com/KirkDiggler/rollcall/internal/metrics"
	"github.com/KirkDiggler/rollcall/internal/models"
	"github.com/KirkDiggler/rollcall/internal/notify"
	diceRollRepo "github.com/KirkDiggler/rollcall/internal/repositories/dice_roll"
	profileRepo "github.com/KirkDiggler/rollcall/internal/repositories/profile"
	"go.uber.org/zap"
)

// UnknownDisplayName is shown for rollers without a profile
const UnknownDisplayName = "Unknown"

// Defaults match the roll panel limits
const (
	DefaultMaxSides      = 1000
	DefaultMaxDiceCount  = 20
	DefaultMaxBatchCount = 10
	DefaultMaxModifier   = 99
	DefaultHistoryLimit  = 20
)

// Config holds configuration for the roll service
type Config struct {
	// Maximum sides per die
	MaxSides int

	// Maximum dice per batch
	MaxDiceCount int

	// Maximum number of batches in one roll
	MaxBatchCount int

	// Maximum absolute modifier
	MaxModifier int

	// Number of rolls returned when a fetch gives no limit
	HistoryLimit int

	// Repository dependencies
	DiceRollRepo diceRollRepo.Repository
	ProfileRepo  profileRepo.Repository

	// Service dependencies
	Broker     notify.Broker
	DiceRoller dice.Roller

	// Optional
	Logger  *zap.Logger
	Metrics *metrics.RollMetrics
}

// RollInput contains parameters for one roll
type RollInput struct {
	CampaignID string

	// Viewer is the roller, as classified by the campaign service
	Viewer models.Viewer

	Sides     int
	DiceCount int

	// BatchCount defaults to 1
	BatchCount int
	Modifier   int

	// Mode defaults to sum
	Mode models.RollMode

	// MasterRoll and HideFromPlayers are GM only
	MasterRoll      bool
	HideFromPlayers bool
}

// RollOutput contains the persisted roll
type RollOutput struct {
	Roll *models.DiceRoll

	// NotificationFailed is set when the roll was stored but subscribers
	// could not be signalled
	NotificationFailed bool
}

// FetchRecentInput contains parameters for fetching recent rolls
type FetchRecentInput struct {
	CampaignID string

	// Limit defaults to the configured history limit
	Limit int
}

// FetchRecentOutput contains rolls newest first
type FetchRecentOutput struct {
	Rolls []*models.DiceRoll
}

// HistoryInput contains parameters for a viewer's history
type HistoryInput struct {
	CampaignID string
	Viewer     models.Viewer

	// Limit defaults to the configured history limit
	Limit int
}

// HistoryOutput contains the rolls the viewer may see, newest first
type HistoryOutput struct {
	Rolls []*models.DiceRoll
}

// ClearAllInput contains parameters for clearing a campaign's rolls
type ClearAllInput struct {
	CampaignID string
	Viewer     models.Viewer
}

// ClearAllOutput contains the result of a clear
type ClearAllOutput struct {
	NotificationFailed bool
}
