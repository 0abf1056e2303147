package models

import (
	"time"
)

// Identity links a Discord account to a game username.
//
// Identities are unique on ExternalID and are never deleted: the link is
// permanent history even after the player's runtime state is cleared.
type Identity struct {
	// ExternalID is the Discord user ID of the player
	ExternalID string

	// GameUsername is the player's in-game name
	GameUsername string

	// LastUpdated is when the link was last confirmed or corrected
	LastUpdated time.Time
}
