package identity

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/voicegate/voicegate/internal/models"
)

// FallbackConfig holds configuration for the fallback identity repository
type FallbackConfig struct {
	// Primary is the preferred repository, usually Redis
	Primary Repository

	// Fallback is consulted when the primary fails, usually the flat file
	Fallback Repository

	// Logger for failover events
	Logger zerolog.Logger
}

// fallbackRepository decorates a primary repository with a fallback one.
// Writes are mirrored to the fallback so it stays warm; reads fail over
// only when the primary errors.
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

// SaveIdentity writes to the primary and mirrors to the fallback
func (r *fallbackRepository) SaveIdentity(ctx context.Context, input *SaveIdentityInput) error {
	primaryErr := r.primary.SaveIdentity(ctx, input)
	if primaryErr != nil {
		r.log.Warn().Err(primaryErr).Msg("primary identity store write failed, using fallback")
	}

	if err := r.fallback.SaveIdentity(ctx, input); err != nil {
		if primaryErr != nil {
			return err
		}
		r.log.Warn().Err(err).Msg("fallback identity store mirror write failed")
	}

	// The write is durable as long as either store took it
	return nil
}

// GetByExternalID reads from the primary, failing over on error
func (r *fallbackRepository) GetByExternalID(ctx context.Context, input *GetByExternalIDInput) (*models.Identity, error) {
	ident, err := r.primary.GetByExternalID(ctx, input)
	if err == nil || errors.Is(err, ErrIdentityNotFound) {
		return ident, err
	}

	r.log.Warn().Err(err).Msg("primary identity store read failed, using fallback")
	return r.fallback.GetByExternalID(ctx, input)
}

// GetByUsername reads from the primary, failing over on error
func (r *fallbackRepository) GetByUsername(ctx context.Context, input *GetByUsernameInput) (*models.Identity, error) {
	ident, err := r.primary.GetByUsername(ctx, input)
	if err == nil || errors.Is(err, ErrIdentityNotFound) {
		return ident, err
	}

	r.log.Warn().Err(err).Msg("primary identity store read failed, using fallback")
	return r.fallback.GetByUsername(ctx, input)
}

// ListIdentities reads from the primary, failing over on error
func (r *fallbackRepository) ListIdentities(ctx context.Context, input *ListIdentitiesInput) (*ListIdentitiesOutput, error) {
	out, err := r.primary.ListIdentities(ctx, input)
	if err == nil {
		return out, nil
	}

	r.log.Warn().Err(err).Msg("primary identity store list failed, using fallback")
	return r.fallback.ListIdentities(ctx, input)
}
