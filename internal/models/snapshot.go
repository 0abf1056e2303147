package models

import (
	"time"
)

// PlayerStatus is one player's row in a dashboard snapshot.
type PlayerStatus struct {
	// GameUsername is the player's in-game name
	GameUsername string `json:"game_username"`

	// ExternalID is the player's Discord ID, empty if unlinked
	ExternalID string `json:"external_id,omitempty"`

	// ChannelID is the player's current tracked channel, empty if none
	ChannelID string `json:"channel_id,omitempty"`

	// ChannelLabel is the display label of the current channel
	ChannelLabel string `json:"channel_label,omitempty"`

	// State is the player's enforcement state
	State GateState `json:"state"`

	// SecondsRemaining is the countdown remainder while State is warned
	SecondsRemaining int `json:"seconds_remaining,omitempty"`

	// Exempt reports whether gating is skipped for this player
	Exempt bool `json:"exempt,omitempty"`
}

// ChannelStatus is the occupancy of one tracked channel.
type ChannelStatus struct {
	// ChannelID is the Discord voice channel ID
	ChannelID string `json:"channel_id"`

	// Label is the configured display label
	Label string `json:"label"`

	// Occupants are the players currently in the channel
	Occupants []Occupant `json:"occupants"`
}

// Snapshot is the aggregate live state pushed to dashboard subscribers.
type Snapshot struct {
	// Taken is when the snapshot was assembled
	Taken time.Time `json:"taken"`

	// Players are the currently connected players, bot excluded
	Players []PlayerStatus `json:"players"`

	// Channels are the tracked channels and their occupants
	Channels []ChannelStatus `json:"channels"`

	// ActiveCountdowns is the number of countdowns in flight
	ActiveCountdowns int `json:"active_countdowns"`
}
