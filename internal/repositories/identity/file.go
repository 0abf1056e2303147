package identity

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/voicegate/voicegate/internal/models"
)

const identityFileName = "identities.dat"

// FileConfig holds configuration for the flat-file identity repository
type FileConfig struct {
	// DataDir is the directory the identity file lives in
	DataDir string

	// Logger for duplicate-username warnings
	Logger zerolog.Logger
}

// fileRepository implements the Repository interface on a flat file.
// Records are one per line, externalID=username:lastUpdatedUnix.
type fileRepository struct {
	path string
	log  zerolog.Logger

	mu         sync.RWMutex
	identities map[string]*models.Identity
}

// NewFile creates a flat-file identity repository, loading any existing records
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

	repo := &fileRepository{
		path:       filepath.Join(cfg.DataDir, identityFileName),
		log:        cfg.Logger,
		identities: make(map[string]*models.Identity),
	}

	if err := repo.load(); err != nil {
		return nil, err
	}

	return repo, nil
}

// SaveIdentity upserts an identity and rewrites the backing file
func (r *fileRepository) SaveIdentity(ctx context.Context, input *SaveIdentityInput) error {
	if input == nil || input.Identity == nil {
		return errors.New("input and identity cannot be nil")
	}

	ident := input.Identity
	if ident.ExternalID == "" {
		return errors.New("identity external ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *ident
	r.identities[ident.ExternalID] = &cp

	return r.persist()
}

// GetByExternalID retrieves an identity by Discord user ID
func (r *fileRepository) GetByExternalID(ctx context.Context, input *GetByExternalIDInput) (*models.Identity, error) {
	if input == nil || input.ExternalID == "" {
		return nil, errors.New("input and external ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ident, ok := r.identities[input.ExternalID]
	if !ok {
		return nil, ErrIdentityNotFound
	}

	cp := *ident
	return &cp, nil
}

// GetByUsername retrieves an identity by game username, case-insensitively
// with exact-match preference
func (r *fileRepository) GetByUsername(ctx context.Context, input *GetByUsernameInput) (*models.Identity, error) {
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
func (r *fileRepository) ListIdentities(ctx context.Context, input *ListIdentitiesInput) (*ListIdentitiesOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identities := make([]*models.Identity, 0, len(r.identities))
	for _, ident := range r.identities {
		cp := *ident
		identities = append(identities, &cp)
	}

	// Stable order keeps the username match deterministic
	sort.Slice(identities, func(i, j int) bool {
		return identities[i].ExternalID < identities[j].ExternalID
	})

	return &ListIdentitiesOutput{Identities: identities}, nil
}

func (r *fileRepository) load() error {
	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open identity file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ident, err := parseIdentityLine(line)
		if err != nil {
			r.log.Warn().Str("line", line).Err(err).Msg("skipping malformed identity record")
			continue
		}

		r.identities[ident.ExternalID] = ident
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read identity file: %w", err)
	}

	return nil
}

// persist rewrites the whole file through a temp-file rename.
// Caller must hold the write lock.
func (r *fileRepository) persist() error {
	tmp := r.path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create identity file: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, ident := range r.identities {
		fmt.Fprintf(w, "%s=%s:%d\n", ident.ExternalID, ident.GameUsername, ident.LastUpdated.Unix())
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write identity file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close identity file: %w", err)
	}

	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace identity file: %w", err)
	}

	return nil
}

func parseIdentityLine(line string) (*models.Identity, error) {
	externalID, rest, ok := strings.Cut(line, "=")
	if !ok {
		return nil, errors.New("missing '=' separator")
	}

	// Split on the last ':' so usernames keep their full text
	idx := strings.LastIndex(rest, ":")
	if idx < 0 {
		return nil, errors.New("missing ':' separator")
	}

	username := rest[:idx]
	ts, err := strconv.ParseInt(rest[idx+1:], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad timestamp: %w", err)
	}

	if externalID == "" || username == "" {
		return nil, errors.New("empty field")
	}

	return &models.Identity{
		ExternalID:   externalID,
		GameUsername: username,
		LastUpdated:  time.Unix(ts, 0).UTC(),
	}, nil
}
