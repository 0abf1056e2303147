package voicelog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/voicegate/voicegate/internal/common/clock"
	"github.com/voicegate/voicegate/internal/common/uuid"
	"github.com/voicegate/voicegate/internal/models"
)

const (
	// Key prefixes for Redis
	logKeyPrefix     = "voicelog:"
	channelKeyPrefix = "voice_channel:"

	// maxLogLength bounds the per-player history kept in Redis
	maxLogLength = 200

	defaultHistoryLimit = 20
)

// ErrNoAssignment is returned when a player has no recorded assignment
var ErrNoAssignment = errors.New("no voice assignment recorded")

// Config holds configuration for the Redis voice log repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Clock stamps new records; defaults to the system clock
	Clock clock.Clock

	// UUID generates record IDs; defaults to random UUIDs
	UUID uuid.UUID
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	clock  clock.Clock
	uuid   uuid.UUID
}

// NewRedis creates a new Redis-backed voice log repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	clk := cfg.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}

	uid := cfg.UUID
	if uid == nil {
		uid = uuid.New()
	}

	return &redisRepository{
		client: cfg.RedisClient,
		clock:  clk,
		uuid:   uid,
	}, nil
}

// AppendAssignment records a voice-channel transition
func (r *redisRepository) AppendAssignment(ctx context.Context, input *AppendAssignmentInput) (*AppendAssignmentOutput, error) {
	if input == nil || input.ExternalID == "" {
		return nil, errors.New("input and external ID cannot be empty")
	}

	previous := ""
	current, err := r.GetCurrent(ctx, &GetCurrentInput{ExternalID: input.ExternalID})
	if err != nil && !errors.Is(err, ErrNoAssignment) {
		return nil, err
	}
	if current != nil {
		previous = current.ChannelID
	}

	record := &models.VoiceAssignment{
		ID:                r.uuid.NewUUID(),
		ExternalID:        input.ExternalID,
		GameUsername:      input.GameUsername,
		ChannelID:         input.ChannelID,
		PreviousChannelID: previous,
		Timestamp:         r.clock.Now(),
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal assignment: %w", err)
	}

	logKey := logKeyPrefix + input.ExternalID

	pipe := r.client.Pipeline()
	pipe.LPush(ctx, logKey, recordJSON)
	pipe.LTrim(ctx, logKey, 0, maxLogLength-1)
	if previous != "" && previous != input.ChannelID {
		pipe.SRem(ctx, channelKeyPrefix+previous, input.ExternalID)
	}
	if input.ChannelID != "" {
		pipe.SAdd(ctx, channelKeyPrefix+input.ChannelID, input.ExternalID)
	} else if previous != "" {
		pipe.SRem(ctx, channelKeyPrefix+previous, input.ExternalID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to append assignment: %w", err)
	}

	return &AppendAssignmentOutput{PreviousChannelID: previous}, nil
}

// GetCurrent retrieves a player's most recent assignment
func (r *redisRepository) GetCurrent(ctx context.Context, input *GetCurrentInput) (*models.VoiceAssignment, error) {
	if input == nil || input.ExternalID == "" {
		return nil, errors.New("input and external ID cannot be empty")
	}

	recordJSON, err := r.client.LIndex(ctx, logKeyPrefix+input.ExternalID, 0).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNoAssignment
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	var record models.VoiceAssignment
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assignment: %w", err)
	}

	return &record, nil
}

// ListOccupants retrieves the players currently assigned to a channel
func (r *redisRepository) ListOccupants(ctx context.Context, input *ListOccupantsInput) (*ListOccupantsOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	ids, err := r.client.SMembers(ctx, channelKeyPrefix+input.ChannelID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list channel members: %w", err)
	}

	occupants := make([]models.Occupant, 0, len(ids))
	for _, id := range ids {
		current, err := r.GetCurrent(ctx, &GetCurrentInput{ExternalID: id})
		if err != nil {
			if errors.Is(err, ErrNoAssignment) {
				continue
			}
			return nil, err
		}

		// The set entry may lag behind the log; trust the log
		if current.ChannelID != input.ChannelID {
			continue
		}

		occupants = append(occupants, models.Occupant{
			ExternalID:   current.ExternalID,
			GameUsername: current.GameUsername,
		})
	}

	return &ListOccupantsOutput{Occupants: occupants}, nil
}

// GetHistory retrieves a player's recent assignments, newest first
func (r *redisRepository) GetHistory(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error) {
	if input == nil || input.ExternalID == "" {
		return nil, errors.New("input and external ID cannot be empty")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	entries, err := r.client.LRange(ctx, logKeyPrefix+input.ExternalID, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	assignments := make([]*models.VoiceAssignment, 0, len(entries))
	for _, entry := range entries {
		var record models.VoiceAssignment
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal assignment: %w", err)
		}
		assignments = append(assignments, &record)
	}

	return &GetHistoryOutput{Assignments: assignments}, nil
}
