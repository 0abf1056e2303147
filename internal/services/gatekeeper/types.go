package gatekeeper

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/voicegate/voicegate/internal/common/clock"
	"github.com/voicegate/voicegate/internal/models"
	"github.com/voicegate/voicegate/internal/repositories/identity"
	"github.com/voicegate/voicegate/internal/repositories/voicelog"
	"github.com/voicegate/voicegate/internal/services/messaging"
)

// Config holds configuration for the gatekeeper service
type Config struct {
	// IdentityRepo resolves game usernames and Discord IDs
	IdentityRepo identity.Repository

	// VoiceLog persists voice-channel transitions
	VoiceLog voicelog.Repository

	// Notifier delivers private messages to players
	Notifier Notifier

	// Kicker removes non-compliant players
	Kicker Kicker

	// VoiceLookup is an optional live membership view; the voice log is
	// used when it is nil or failing
	VoiceLookup VoiceLookup

	// Messages formats all player-facing text
	Messages messaging.Service

	// Clock is used for snapshot timestamps; defaults to the system clock
	Clock clock.Clock

	// Logger for enforcement events
	Logger zerolog.Logger

	// TrackedChannels maps voice channel IDs to display labels.
	// Channels outside this map count as no channel at all.
	TrackedChannels map[string]string

	// BotUsername is the bot's own in-game name, exempt from gating
	BotUsername string

	// OwnerUsername is the owner override by game name
	OwnerUsername string

	// OwnerExternalID is the owner override by Discord ID
	OwnerExternalID string

	// WarnWindow is the full countdown length; defaults to 30s
	WarnWindow time.Duration

	// CheckInterval is the re-check cadence; defaults to 5s
	CheckInterval time.Duration
}

// HandlePlayerJoinInput contains parameters for a game join event
type HandlePlayerJoinInput struct {
	GameUsername string
}

// HandlePlayerLeaveInput contains parameters for a game leave event
type HandlePlayerLeaveInput struct {
	GameUsername string
}

// HandleIdentityLinkInput contains parameters for an identity disclosure
type HandleIdentityLinkInput struct {
	GameUsername string
	ExternalID   string
}

// HandleVoiceChangeInput contains parameters for a voice-channel transition.
// ChannelID is the raw channel from the platform; untracked channels are
// treated as no channel.
type HandleVoiceChangeInput struct {
	ExternalID string
	ChannelID  string
}

// CheckPermissionInput contains parameters for a permission check
type CheckPermissionInput struct {
	GameUsername string
}

// CheckPermissionOutput contains the result of a permission check
type CheckPermissionOutput struct {
	// ExternalID is the sender's resolved Discord ID, empty if unlinked
	ExternalID string

	// ChannelID is the sender's current tracked channel, empty if none
	ChannelID string

	// Exempt reports whether the sender bypasses gating
	Exempt bool

	// Permitted reports whether the sender may run gated commands
	Permitted bool
}

// RefreshPlayerInput contains parameters for a targeted refresh
type RefreshPlayerInput struct {
	GameUsername string
}

// RefreshAllInput contains parameters for a manual refresh
type RefreshAllInput struct{}

// RefreshAllOutput contains the result of a manual refresh
type RefreshAllOutput struct {
	// Checked is the number of players re-checked
	Checked int
}

// GetSnapshotInput contains parameters for a snapshot request
type GetSnapshotInput struct{}

// GetSnapshotOutput contains the assembled snapshot
type GetSnapshotOutput struct {
	Snapshot *models.Snapshot
}
