package voicelog

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/voicegate/voicegate/internal/models"
)

// FallbackConfig holds configuration for the fallback voice log repository
type FallbackConfig struct {
	// Primary is the preferred repository, usually Redis
	Primary Repository

	// Fallback is consulted when the primary fails, usually the flat file
	Fallback Repository

	// Logger for failover events
	Logger zerolog.Logger
}

// fallbackRepository decorates a primary repository with a fallback one.
// Appends go to both so the fallback can answer reads during an outage.
type fallbackRepository struct {
	primary  Repository
	fallback Repository
	log      zerolog.Logger
}

// NewFallback creates a repository that fails over from primary to fallback
func NewFallback(cfg *FallbackConfig) (*fallbackRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Primary == nil || cfg.Fallback == nil {
		return nil, errors.New("primary and fallback repositories cannot be nil")
	}

	return &fallbackRepository{
		primary:  cfg.Primary,
		fallback: cfg.Fallback,
		log:      cfg.Logger,
	}, nil
}

// AppendAssignment writes to the primary and mirrors to the fallback
func (r *fallbackRepository) AppendAssignment(ctx context.Context, input *AppendAssignmentInput) (*AppendAssignmentOutput, error) {
	out, primaryErr := r.primary.AppendAssignment(ctx, input)
	if primaryErr != nil {
		r.log.Warn().Err(primaryErr).Msg("primary voice log write failed, using fallback")
	}

	fallbackOut, err := r.fallback.AppendAssignment(ctx, input)
	if err != nil {
		if primaryErr != nil {
			return nil, err
		}
		r.log.Warn().Err(err).Msg("fallback voice log mirror write failed")
	}

	if primaryErr != nil {
		return fallbackOut, nil
	}
	return out, nil
}

// GetCurrent reads from the primary, failing over on error
func (r *fallbackRepository) GetCurrent(ctx context.Context, input *GetCurrentInput) (*models.VoiceAssignment, error) {
	record, err := r.primary.GetCurrent(ctx, input)
	if err == nil || errors.Is(err, ErrNoAssignment) {
		return record, err
	}

	r.log.Warn().Err(err).Msg("primary voice log read failed, using fallback")
	return r.fallback.GetCurrent(ctx, input)
}

// ListOccupants reads from the primary, failing over on error
func (r *fallbackRepository) ListOccupants(ctx context.Context, input *ListOccupantsInput) (*ListOccupantsOutput, error) {
	out, err := r.primary.ListOccupants(ctx, input)
	if err == nil {
		return out, nil
	}

	r.log.Warn().Err(err).Msg("primary voice log occupant read failed, using fallback")
	return r.fallback.ListOccupants(ctx, input)
}

// GetHistory reads from the primary, failing over on error
func (r *fallbackRepository) GetHistory(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error) {
	out, err := r.primary.GetHistory(ctx, input)
	if err == nil {
		return out, nil
	}

	r.log.Warn().Err(err).Msg("primary voice log history read failed, using fallback")
	return r.fallback.GetHistory(ctx, input)
}
