package messaging

import (
	"math/rand"

	"github.com/KirkDiggler/rollcall/internal/models"
)

// MessageTone represents the tone of a message
type MessageTone string

const (
	// ToneNeutral is a neutral tone
	ToneNeutral MessageTone = "neutral"

	// ToneFunny is a humorous tone
	ToneFunny MessageTone = "funny"

	// ToneEncouraging is an encouraging tone
	ToneEncouraging MessageTone = "encouraging"

	// ToneCelebration is a celebratory tone
	ToneCelebration MessageTone = "celebration"
)

// Outcome classifies the deciding face of a roll
type Outcome string

const (
	// OutcomeNormal is any roll without a natural result
	OutcomeNormal Outcome = "normal"

	// OutcomeNaturalMax is a deciding face equal to the die size, e.g. a natural 20
	OutcomeNaturalMax Outcome = "natural_max"

	// OutcomeNaturalOne is a deciding face of 1
	OutcomeNaturalOne Outcome = "natural_one"
)

// ErrorType names a class of user-facing failure
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeNotAllowed    ErrorType = "not_allowed"
	ErrorTypePersistence   ErrorType = "persistence"
	ErrorTypeNoCampaign    ErrorType = "no_campaign"
	ErrorTypeChannelBound  ErrorType = "channel_bound"
	ErrorTypeNotifyFailure ErrorType = "notify_failure"
)

// GetRollResultMessageInput contains the input for GetRollResultMessage
type GetRollResultMessageInput struct {
	PlayerName string
	Roll       *models.DiceRoll

	// IsPersonalMessage is set for replies only the roller sees
	IsPersonalMessage bool
}

// GetRollResultMessageOutput contains the output for GetRollResultMessage
type GetRollResultMessageOutput struct {
	Title   string
	Message string
	Outcome Outcome
}

// GetRollWhisperMessageInput contains parameters for a hidden roll aside
type GetRollWhisperMessageInput struct {
	// PlayerName is the name of the player who rolled
	PlayerName string

	// Roll is the committed roll
	Roll *models.DiceRoll

	// PreferredTone is the preferred tone for the message (optional)
	PreferredTone MessageTone
}

// GetRollWhisperMessageOutput contains the result of getting a whisper message
type GetRollWhisperMessageOutput struct {
	// Message is the generated whisper message
	Message string

	// Tone is the tone of the message
	Tone MessageTone
}

// GetErrorMessageInput contains parameters for getting an error message
type GetErrorMessageInput struct {
	// ErrorType is the type of error
	ErrorType ErrorType

	// PreferredTone is the preferred tone for the message (optional)
	PreferredTone MessageTone
}

// GetErrorMessageOutput contains the result of getting an error message
type GetErrorMessageOutput struct {
	// Message is the generated message
	Message string

	// Tone is the tone of the message
	Tone MessageTone
}

// ServiceConfig contains configuration for the messaging service
type ServiceConfig struct {
	// Source picks among message variants; defaults to a time-seeded source
	Source rand.Source
}
