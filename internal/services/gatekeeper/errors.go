package gatekeeper

import "errors"

// Define errors
var (
	// ErrUnknownIdentity is returned when a player has no identity link
	ErrUnknownIdentity = errors.New("no identity link for player")

	// ErrPlayerNotActive is returned when an operation targets a player
	// who is not connected to the game
	ErrPlayerNotActive = errors.New("player is not in the game")
)
