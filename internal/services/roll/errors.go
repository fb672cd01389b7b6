package roll

// RollError is a custom error type for roll service errors
type RollError string

// Error implements the error interface
func (e RollError) Error() string {
	return string(e)
}

// Define errors
const (
	// Classification; returned errors wrap one of these
	ErrValidation          RollError = "invalid roll request"
	ErrPersistence         RollError = "roll store failure"
	ErrAuthorizationDenied RollError = "not allowed"

	ErrNilConfig       RollError = "config cannot be nil"
	ErrNilDiceRollRepo RollError = "dice roll repository cannot be nil"
	ErrNilProfileRepo  RollError = "profile repository cannot be nil"
	ErrNilBroker       RollError = "broker cannot be nil"
	ErrNilDiceRoller   RollError = "dice roller cannot be nil"
)
