package messaging

import "context"

// Service is the interface for the messaging service
type Service interface {
	// GetRollResultMessage returns a title and flavour line for a committed roll
	GetRollResultMessage(ctx context.Context, input *GetRollResultMessageInput) (*GetRollResultMessageOutput, error)

	// GetRollWhisperMessage returns a private aside for a hidden roll
	GetRollWhisperMessage(ctx context.Context, input *GetRollWhisperMessageInput) (*GetRollWhisperMessageOutput, error)

	// GetErrorMessage returns a user-friendly error message
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)
}
