package dispatch

import (
	"github.com/rs/zerolog"

	"github.com/voicegate/voicegate/internal/models"
	"github.com/voicegate/voicegate/internal/services/gatekeeper"
	"github.com/voicegate/voicegate/internal/services/messaging"
)

// Config holds configuration for the dispatch service
type Config struct {
	// Gatekeeper serves the status, players and refresh actions
	Gatekeeper gatekeeper.Service

	// Messages formats help and acknowledgment replies
	Messages messaging.Service

	// BotName appears in the help text
	BotName string

	// Logger for dispatch decisions
	Logger zerolog.Logger
}

// DispatchInput contains one parsed directed command
type DispatchInput struct {
	Command *models.DirectedCommandEvent
}

// DispatchOutput contains the reply for the sender
type DispatchOutput struct {
	Reply string
}
