package models

// Profile maps a user to the name shown next to their rolls
type Profile struct {
	// ID is the Discord user ID
	ID string `json:"id"`

	// Username is the display name
	Username string `json:"username"`
}
