package models

// Viewer is who is looking at a campaign's rolls
type Viewer struct {
	// ID is the viewer's user ID; empty for an anonymous viewer
	ID string

	// IsGM is true for the campaign owner
	IsGM bool
}
