package identity

import (
	"context"

	"github.com/voicegate/voicegate/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/voicegate/voicegate/internal/repositories/identity Repository

// Repository defines the interface for identity persistence
type Repository interface {
	// SaveIdentity upserts an identity keyed on its external ID
	SaveIdentity(ctx context.Context, input *SaveIdentityInput) error

	// GetByExternalID retrieves an identity by Discord user ID
	GetByExternalID(ctx context.Context, input *GetByExternalIDInput) (*models.Identity, error)

	// GetByUsername retrieves an identity by game username.
	// Matching is case-insensitive with exact-match preference.
	GetByUsername(ctx context.Context, input *GetByUsernameInput) (*models.Identity, error)

	// ListIdentities retrieves all known identities
	ListIdentities(ctx context.Context, input *ListIdentitiesInput) (*ListIdentitiesOutput, error)
}
