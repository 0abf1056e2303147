package voicelog

import (
	"context"

	"github.com/voicegate/voicegate/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/voicegate/voicegate/internal/repositories/voicelog Repository

// Repository defines the interface for the voice assignment log.
// The log is append-only; reads follow most-recent-wins semantics.
type Repository interface {
	// AppendAssignment records a voice-channel transition and returns the
	// channel the player was previously assigned to
	AppendAssignment(ctx context.Context, input *AppendAssignmentInput) (*AppendAssignmentOutput, error)

	// GetCurrent retrieves a player's most recent assignment
	GetCurrent(ctx context.Context, input *GetCurrentInput) (*models.VoiceAssignment, error)

	// ListOccupants retrieves the players currently assigned to a channel
	ListOccupants(ctx context.Context, input *ListOccupantsInput) (*ListOccupantsOutput, error)

	// GetHistory retrieves a player's recent assignments, newest first
	GetHistory(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error)
}
