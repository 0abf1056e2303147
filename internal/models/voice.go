package models

import (
	"time"
)

// VoiceAssignment records a single voice-channel transition for a player.
// The log is append-only; the player's current channel is the ChannelID of
// their most recent record.
type VoiceAssignment struct {
	// ID is the unique identifier for the record
	ID string

	// ExternalID is the Discord user ID of the player
	ExternalID string

	// GameUsername is the player's in-game name at the time of the transition
	GameUsername string

	// ChannelID is the voice channel the player moved into.
	// Empty means the player is not in any tracked channel.
	ChannelID string

	// PreviousChannelID is the channel the player moved out of, if any
	PreviousChannelID string

	// Timestamp is when the transition was observed
	Timestamp time.Time
}

// InChannel reports whether the assignment places the player in a channel.
func (a *VoiceAssignment) InChannel() bool {
	return a.ChannelID != ""
}

// Occupant is a player currently present in a voice channel.
type Occupant struct {
	// ExternalID is the Discord user ID of the occupant
	ExternalID string `json:"external_id"`

	// GameUsername is the occupant's in-game name
	GameUsername string `json:"game_username"`
}
