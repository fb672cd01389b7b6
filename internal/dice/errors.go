package dice

// Error is a dice validation error
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrInvalidSides is returned when a die has fewer than one side
	ErrInvalidSides Error = "dice must have at least one side"

	// ErrInvalidDiceCount is returned when fewer than one die is requested per batch
	ErrInvalidDiceCount Error = "dice count must be positive"

	// ErrInvalidBatchCount is returned for a negative batch count
	ErrInvalidBatchCount Error = "batch count cannot be negative"

	// ErrInvalidRollMode is returned for an unknown roll mode
	ErrInvalidRollMode Error = "unknown roll mode"

	// ErrTotalOverflow is returned when a total does not fit in an int
	ErrTotalOverflow Error = "roll total out of range"

	// ErrInvalidShape is returned when a dice label cannot be parsed
	ErrInvalidShape Error = "invalid dice label"
)
