package voicelog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/voicegate/voicegate/internal/common/clock"
	"github.com/voicegate/voicegate/internal/common/uuid"
	"github.com/voicegate/voicegate/internal/models"
)

const voiceLogFileName = "voicelog.dat"

// FileConfig holds configuration for the flat-file voice log repository
type FileConfig struct {
	// DataDir is the directory the log file lives in
	DataDir string

	// Clock stamps new records; defaults to the system clock
	Clock clock.Clock

	// UUID generates record IDs; defaults to random UUIDs
	UUID uuid.UUID

	// Logger for malformed-record warnings
	Logger zerolog.Logger
}

// fileRepository implements the Repository interface on an append-only file.
// Records are one per line, timestamp:id:externalID:username:previous:channel.
type fileRepository struct {
	path  string
	clock clock.Clock
	uuid  uuid.UUID
	log   zerolog.Logger

	mu      sync.RWMutex
	file    *os.File
	history map[string][]*models.VoiceAssignment // newest first, per external ID
}

// NewFile creates a flat-file voice log repository, replaying any existing log
func NewFile(cfg *FileConfig) (*fileRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.DataDir == "" {
		return nil, errors.New("data dir cannot be empty")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	clk := cfg.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}

	uid := cfg.UUID
	if uid == nil {
		uid = uuid.New()
	}

	repo := &fileRepository{
		path:    filepath.Join(cfg.DataDir, voiceLogFileName),
		clock:   clk,
		uuid:    uid,
		log:     cfg.Logger,
		history: make(map[string][]*models.VoiceAssignment),
	}

	if err := repo.load(); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(repo.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open voice log: %w", err)
	}
	repo.file = f

	return repo, nil
}

// Close releases the underlying log file
func (r *fileRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// AppendAssignment records a voice-channel transition
func (r *fileRepository) AppendAssignment(ctx context.Context, input *AppendAssignmentInput) (*AppendAssignmentOutput, error) {
	if input == nil || input.ExternalID == "" {
		return nil, errors.New("input and external ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous := ""
	if records := r.history[input.ExternalID]; len(records) > 0 {
		previous = records[0].ChannelID
	}

	record := &models.VoiceAssignment{
		ID:                r.uuid.NewUUID(),
		ExternalID:        input.ExternalID,
		GameUsername:      input.GameUsername,
		ChannelID:         input.ChannelID,
		PreviousChannelID: previous,
		Timestamp:         r.clock.Now(),
	}

	line := fmt.Sprintf("%d:%s:%s:%s:%s:%s\n",
		record.Timestamp.Unix(), record.ID, record.ExternalID,
		record.GameUsername, record.PreviousChannelID, record.ChannelID)

	if _, err := r.file.WriteString(line); err != nil {
		return nil, fmt.Errorf("failed to append to voice log: %w", err)
	}

	r.prepend(record)

	return &AppendAssignmentOutput{PreviousChannelID: previous}, nil
}

// GetCurrent retrieves a player's most recent assignment
func (r *fileRepository) GetCurrent(ctx context.Context, input *GetCurrentInput) (*models.VoiceAssignment, error) {
	if input == nil || input.ExternalID == "" {
		return nil, errors.New("input and external ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.history[input.ExternalID]
	if len(records) == 0 {
		return nil, ErrNoAssignment
	}

	cp := *records[0]
	return &cp, nil
}

// ListOccupants retrieves the players currently assigned to a channel
func (r *fileRepository) ListOccupants(ctx context.Context, input *ListOccupantsInput) (*ListOccupantsOutput, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	occupants := make([]models.Occupant, 0)
	for _, records := range r.history {
		if len(records) == 0 {
			continue
		}
		current := records[0]
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
func (r *fileRepository) GetHistory(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error) {
	if input == nil || input.ExternalID == "" {
		return nil, errors.New("input and external ID cannot be empty")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.history[input.ExternalID]
	if len(records) > limit {
		records = records[:limit]
	}

	assignments := make([]*models.VoiceAssignment, 0, len(records))
	for _, record := range records {
		cp := *record
		assignments = append(assignments, &cp)
	}

	return &GetHistoryOutput{Assignments: assignments}, nil
}

// prepend inserts a record at the head of the player's history.
// Caller must hold the write lock.
func (r *fileRepository) prepend(record *models.VoiceAssignment) {
	records := r.history[record.ExternalID]
	records = append([]*models.VoiceAssignment{record}, records...)
	if len(records) > maxLogLength {
		records = records[:maxLogLength]
	}
	r.history[record.ExternalID] = records
}

func (r *fileRepository) load() error {
	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open voice log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		record, err := parseAssignmentLine(line)
		if err != nil {
			r.log.Warn().Str("line", line).Err(err).Msg("skipping malformed voice log record")
			continue
		}

		r.prepend(record)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read voice log: %w", err)
	}

	return nil
}

func parseAssignmentLine(line string) (*models.VoiceAssignment, error) {
	fields := strings.SplitN(line, ":", 6)
	if len(fields) != 6 {
		return nil, errors.New("expected 6 fields")
	}

	ts, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad timestamp: %w", err)
	}

	if fields[2] == "" {
		return nil, errors.New("empty external ID")
	}

	return &models.VoiceAssignment{
		ID:                fields[1],
		ExternalID:        fields[2],
		GameUsername:      fields[3],
		PreviousChannelID: fields[4],
		ChannelID:         fields[5],
		Timestamp:         time.Unix(ts, 0).UTC(),
	}, nil
}
