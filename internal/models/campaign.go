package models

import (
	"time"
)

// Campaign is the scope every roll belongs to
type Campaign struct {
	// ID is the unique identifier for the campaign
	ID string `json:"id"`

	// Name is shown on the roll board
	Name string `json:"name"`

	// GMUserID is the campaign owner
	GMUserID string `json:"gm_user_id"`

	// ChannelID is the Discord channel bound to the campaign
	ChannelID string `json:"channel_id"`

	// BoardMessageID is the public roll board message in the channel
	BoardMessageID string `json:"board_message_id"`

	// CreatedAt is when the campaign was created
	CreatedAt time.Time `json:"created_at"`
}
