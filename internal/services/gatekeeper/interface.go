package gatekeeper

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/voicegate/voicegate/internal/services/gatekeeper Service,Notifier,Kicker,VoiceLookup

// Service defines the interface for the voice gating state machine
type Service interface {
	// HandlePlayerJoin runs the entry check when a player connects to the game
	HandlePlayerJoin(ctx context.Context, input *HandlePlayerJoinInput) error

	// HandlePlayerLeave clears a player's runtime state when they disconnect
	HandlePlayerLeave(ctx context.Context, input *HandlePlayerLeaveInput) error

	// HandleIdentityLink upserts an identity disclosure and re-checks the player
	HandleIdentityLink(ctx context.Context, input *HandleIdentityLinkInput) error

	// HandleVoiceChange reacts to a voice-channel transition
	HandleVoiceChange(ctx context.Context, input *HandleVoiceChangeInput) error

	// CheckPermission resolves a player and reports whether they may run
	// gated commands
	CheckPermission(ctx context.Context, input *CheckPermissionInput) (*CheckPermissionOutput, error)

	// RefreshPlayer re-runs the entry check for one active player
	RefreshPlayer(ctx context.Context, input *RefreshPlayerInput) error

	// RefreshAll re-runs the entry check for every active player
	RefreshAll(ctx context.Context, input *RefreshAllInput) (*RefreshAllOutput, error)

	// GetSnapshot assembles the aggregate live state for the dashboard
	GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error)
}

// Notifier delivers a private text message to a named game player.
// Delivery is best-effort; implementations try their redundant paths and
// report overall success. A false return never blocks enforcement.
type Notifier interface {
	SendDirectMessage(ctx context.Context, gameUsername, text string) bool
}

// Kicker removes a player from the game, applying any privilege elevation
// the game requires first. Best-effort like the Notifier.
type Kicker interface {
	Kick(ctx context.Context, gameUsername, reasonText string) bool
}

// VoiceLookup is a live view of voice membership, fresher than the log.
type VoiceLookup interface {
	// CurrentChannel returns the raw channel the user occupies, empty if none
	CurrentChannel(ctx context.Context, externalID string) (string, error)
}
