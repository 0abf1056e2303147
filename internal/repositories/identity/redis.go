package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/voicegate/voicegate/internal/models"
)

const (
	// Key prefixes for Redis
	identityKeyPrefix = "identity:"
	identityIndexKey  = "identities"
)

// ErrIdentityNotFound is returned when an identity is not found
var ErrIdentityNotFound = errors.New("identity not found")

// Config holds configuration for the Redis identity repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Logger for duplicate-username warnings
	Logger zerolog.Logger
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewRedis creates a new Redis-backed identity repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
		log:    cfg.Logger,
	}, nil
}

// SaveIdentity upserts an identity keyed on its external ID
func (r *redisRepository) SaveIdentity(ctx context.Context, input *SaveIdentityInput) error {
	if input == nil || input.Identity == nil {
		return errors.New("input and identity cannot be nil")
	}

	ident := input.Identity

	if ident.ExternalID == "" {
		return errors.New("identity external ID cannot be empty")
	}

	identJSON, err := json.Marshal(ident)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, identityKeyPrefix+ident.ExternalID, identJSON, 0)
	pipe.SAdd(ctx, identityIndexKey, ident.ExternalID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save identity: %w", err)
	}

	return nil
}

// GetByExternalID retrieves an identity by Discord user ID
func (r *redisRepository) GetByExternalID(ctx context.Context, input *GetByExternalIDInput) (*models.Identity, error) {
	if input == nil || input.ExternalID == "" {
		return nil, errors.New("input and external ID cannot be empty")
	}

	identJSON, err := r.client.Get(ctx, identityKeyPrefix+input.ExternalID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	var ident models.Identity
	if err := json.Unmarshal([]byte(identJSON), &ident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal identity: %w", err)
	}

	return &ident, nil
}

// GetByUsername retrieves an identity by game username, case-insensitively
// with exact-match preference. Duplicate usernames mapped to different
// external IDs are tolerated and logged, not rejected.
func (r *redisRepository) GetByUsername(ctx context.Context, input *GetByUsernameInput) (*models.Identity, error) {
	if input == nil || input.GameUsername == "" {
		return nil, errors.New("input and game username cannot be empty")
	}

	out, err := r.ListIdentities(ctx, &ListIdentitiesInput{})
	if err != nil {
		return nil, err
	}

	return matchUsername(out.Identities, input.GameUsername, r.log)
}

// ListIdentities retrieves all known identities
func (r *redisRepository) ListIdentities(ctx context.Context, input *ListIdentitiesInput) (*ListIdentitiesOutput, error) {
	ids, err := r.client.SMembers(ctx, identityIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list identity IDs: %w", err)
	}

	if len(ids) == 0 {
		return &ListIdentitiesOutput{Identities: []*models.Identity{}}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(ids))
	for _, id := range ids {
		cmds[id] = pipe.Get(ctx, identityKeyPrefix+id)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get identities: %w", err)
	}

	identities := make([]*models.Identity, 0, len(ids))
	for id, cmd := range cmds {
		identJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("failed to get identity %s: %w", id, err)
		}

		var ident models.Identity
		if err := json.Unmarshal([]byte(identJSON), &ident); err != nil {
			return nil, fmt.Errorf("failed to unmarshal identity %s: %w", id, err)
		}

		identities = append(identities, &ident)
	}

	return &ListIdentitiesOutput{Identities: identities}, nil
}

// matchUsername applies the shared lookup rule: exact match wins, otherwise
// the first case-insensitive match. Multiple matches are logged.
func matchUsername(identities []*models.Identity, username string, log zerolog.Logger) (*models.Identity, error) {
	var firstFold *models.Identity
	matches := 0

	for _, ident := range identities {
		if ident.GameUsername == username {
			return ident, nil
		}
		if strings.EqualFold(ident.GameUsername, username) {
			matches++
			if firstFold == nil {
				firstFold = ident
			}
		}
	}

	if matches > 1 {
		log.Warn().Str("username", username).Int("matches", matches).
			Msg("duplicate game usernames mapped to different external IDs")
	}

	if firstFold == nil {
		return nil, ErrIdentityNotFound
	}

	return firstFold, nil
}
