package identity

import "github.com/voicegate/voicegate/internal/models"

// SaveIdentityInput contains parameters for saving an identity
type SaveIdentityInput struct {
	Identity *models.Identity
}

// GetByExternalIDInput contains parameters for retrieving an identity by Discord ID
type GetByExternalIDInput struct {
	ExternalID string
}

// GetByUsernameInput contains parameters for retrieving an identity by game username
type GetByUsernameInput struct {
	GameUsername string
}

// ListIdentitiesInput contains parameters for listing identities
type ListIdentitiesInput struct{}

// ListIdentitiesOutput contains the result of listing identities
type ListIdentitiesOutput struct {
	Identities []*models.Identity
}
