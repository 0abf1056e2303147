package models

// GateState is the enforcement state of a player.
type GateState string

const (
	// GateStateUnchecked indicates the player has not been checked yet
	GateStateUnchecked GateState = "unchecked"

	// GateStateCompliant indicates the player is in a tracked voice channel
	GateStateCompliant GateState = "compliant"

	// GateStateWarned indicates a countdown is running for the player
	GateStateWarned GateState = "warned"

	// GateStateKicked indicates the player was removed for non-compliance
	GateStateKicked GateState = "kicked"
)

// IdentityLinkEvent is emitted when a chat line discloses a player's
// Discord identity.
type IdentityLinkEvent struct {
	// GameUsername is the in-game name from the disclosure
	GameUsername string

	// ExternalID is the Discord user ID from the disclosure
	ExternalID string
}

// DirectedCommandEvent is emitted when a chat line addresses the bot by name.
type DirectedCommandEvent struct {
	// Sender is the in-game name of the player who sent the line
	Sender string

	// ExternalID is the sender's resolved Discord ID, if known
	ExternalID string

	// RawCommand is the text after the mention token
	RawCommand string

	// FullLine is the original chat line
	FullLine string

	// Permitted reports whether the sender may run gated commands
	Permitted bool
}

// PeerRelayEvent is emitted when a chat line matches the relay trigger phrase.
type PeerRelayEvent struct {
	// ExternalID is the sender's resolved Discord ID
	ExternalID string

	// Sender is the in-game name of the player who sent the line
	Sender string

	// Payload is the text after the trigger phrase
	Payload string

	// TargetID is the relay destination mapped from the sender's channel
	TargetID string
}
