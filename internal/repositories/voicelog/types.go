package voicelog

import "github.com/voicegate/voicegate/internal/models"

// AppendAssignmentInput contains parameters for recording a transition.
// An empty ChannelID means the player left all tracked channels.
type AppendAssignmentInput struct {
	ExternalID   string
	GameUsername string
	ChannelID    string
}

// AppendAssignmentOutput contains the result of recording a transition
type AppendAssignmentOutput struct {
	// PreviousChannelID is the channel the player held before this write,
	// empty if they had none
	PreviousChannelID string
}

// GetCurrentInput contains parameters for reading a player's latest assignment
type GetCurrentInput struct {
	ExternalID string
}

// ListOccupantsInput contains parameters for listing a channel's occupants
type ListOccupantsInput struct {
	ChannelID string
}

// ListOccupantsOutput contains the result of listing a channel's occupants
type ListOccupantsOutput struct {
	Occupants []models.Occupant
}

// GetHistoryInput contains parameters for reading a player's recent assignments
type GetHistoryInput struct {
	ExternalID string

	// Limit caps the number of records returned; 0 means repository default
	Limit int
}

// GetHistoryOutput contains the result of reading a player's assignments
type GetHistoryOutput struct {
	Assignments []*models.VoiceAssignment
}
