package ingest

import (
	"github.com/rs/zerolog"

	"github.com/voicegate/voicegate/internal/models"
	"github.com/voicegate/voicegate/internal/services/gatekeeper"
)

// Config holds configuration for the ingest service
type Config struct {
	// Gatekeeper resolves senders and computes command permission
	Gatekeeper gatekeeper.Service

	// BotName is the mention token that marks a directed command
	BotName string

	// TriggerPhrase is the two-word prefix that marks a peer relay;
	// defaults to "<BotName> pls"
	TriggerPhrase string

	// RelayTargets maps a tracked voice channel ID to the outbound relay
	// target for peer-relay payloads from that channel
	RelayTargets map[string]string

	// Logger for parse drops
	Logger zerolog.Logger
}

// IngestLineInput contains one raw chat-stream line
type IngestLineInput struct {
	Line string
}

// IngestLineOutput contains the events parsed from one line. All fields are
// nil when the line matched nothing.
type IngestLineOutput struct {
	IdentityLink *models.IdentityLinkEvent
	Command      *models.DirectedCommandEvent
	Relay        *models.PeerRelayEvent
}
