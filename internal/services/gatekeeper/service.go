package gatekeeper

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/voicegate/voicegate/internal/common/clock"
	"github.com/voicegate/voicegate/internal/models"
	identityRepo "github.com/voicegate/voicegate/internal/repositories/identity"
	voicelogRepo "github.com/voicegate/voicegate/internal/repositories/voicelog"
	"github.com/voicegate/voicegate/internal/services/messaging"
)

const (
	defaultWarnWindow    = 30 * time.Second
	defaultCheckInterval = 5 * time.Second
)

// service implements the Service interface
type service struct {
	identityRepo identityRepo.Repository
	voiceLog     voicelogRepo.Repository
	notifier     Notifier
	kicker       Kicker
	lookup       VoiceLookup
	messages     messaging.Service
	clock        clock.Clock
	log          zerolog.Logger

	tracked         map[string]string
	botUsername     string
	ownerUsername   string
	ownerExternalID string
	warnWindow      time.Duration
	checkInterval   time.Duration

	// mu guards the three runtime tables below. Countdown goroutines take
	// it before every transition, which serializes all enforcement for a
	// given username.
	mu         sync.Mutex
	active     map[string]struct{}
	states     map[string]models.GateState
	countdowns map[string]*countdown
}

// New creates a new gatekeeper service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.IdentityRepo == nil {
		return nil, errors.New("identity repository cannot be nil")
	}
	if cfg.VoiceLog == nil {
		return nil, errors.New("voice log repository cannot be nil")
	}
	if cfg.Notifier == nil {
		return nil, errors.New("notifier cannot be nil")
	}
	if cfg.Kicker == nil {
		return nil, errors.New("kicker cannot be nil")
	}
	if cfg.Messages == nil {
		return nil, errors.New("messaging service cannot be nil")
	}
	if len(cfg.TrackedChannels) == 0 {
		return nil, errors.New("tracked channels cannot be empty")
	}
	if cfg.BotUsername == "" {
		return nil, errors.New("bot username cannot be empty")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}

	warnWindow := cfg.WarnWindow
	if warnWindow <= 0 {
		warnWindow = defaultWarnWindow
	}

	checkInterval := cfg.CheckInterval
	if checkInterval <= 0 {
		checkInterval = defaultCheckInterval
	}

	tracked := make(map[string]string, len(cfg.TrackedChannels))
	for id, label := range cfg.TrackedChannels {
		tracked[id] = label
	}

	return &service{
		identityRepo:    cfg.IdentityRepo,
		voiceLog:        cfg.VoiceLog,
		notifier:        cfg.Notifier,
		kicker:          cfg.Kicker,
		lookup:          cfg.VoiceLookup,
		messages:        cfg.Messages,
		clock:           clk,
		log:             cfg.Logger,
		tracked:         tracked,
		botUsername:     cfg.BotUsername,
		ownerUsername:   cfg.OwnerUsername,
		ownerExternalID: cfg.OwnerExternalID,
		warnWindow:      warnWindow,
		checkInterval:   checkInterval,
		active:          make(map[string]struct{}),
		states:          make(map[string]models.GateState),
		countdowns:      make(map[string]*countdown),
	}, nil
}

// Close stops every running countdown. Used on shutdown so timer goroutines
// do not fire against torn-down collaborators.
func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for username := range s.countdowns {
		s.cancelCountdownLocked(username)
	}
}

// HandlePlayerJoin runs the entry check when a player connects to the game
func (s *service) HandlePlayerJoin(ctx context.Context, input *HandlePlayerJoinInput) error {
	if input == nil || input.GameUsername == "" {
		return errors.New("input and game username cannot be empty")
	}

	username := input.GameUsername
	if strings.EqualFold(username, s.botUsername) {
		return nil
	}

	s.mu.Lock()
	s.active[username] = struct{}{}
	if _, ok := s.states[username]; !ok {
		s.states[username] = models.GateStateUnchecked
	}
	s.mu.Unlock()

	s.log.Info().Str("player", username).Msg("player joined game")
	return s.entryCheck(ctx, username)
}

// HandlePlayerLeave clears a player's runtime state when they disconnect
func (s *service) HandlePlayerLeave(ctx context.Context, input *HandlePlayerLeaveInput) error {
	if input == nil || input.GameUsername == "" {
		return errors.New("input and game username cannot be empty")
	}

	username := input.GameUsername

	s.mu.Lock()
	s.cancelCountdownLocked(username)
	delete(s.active, username)
	delete(s.states, username)
	s.mu.Unlock()

	s.log.Info().Str("player", username).Msg("player left game")

	// Clear the voice assignment but keep identity history
	ident, err := s.identityRepo.GetByUsername(ctx, &identityRepo.GetByUsernameInput{
		GameUsername: username,
	})
	if err != nil {
		if !errors.Is(err, identityRepo.ErrIdentityNotFound) {
			s.log.Warn().Err(err).Str("player", username).Msg("identity lookup failed on leave")
		}
		return nil
	}

	if _, err := s.recordAssignment(ctx, ident.ExternalID, username, ""); err != nil {
		s.log.Warn().Err(err).Str("player", username).Msg("failed to clear voice assignment on leave")
	}

	return nil
}

// HandleIdentityLink upserts an identity disclosure and re-checks the player
func (s *service) HandleIdentityLink(ctx context.Context, input *HandleIdentityLinkInput) error {
	if input == nil || input.GameUsername == "" || input.ExternalID == "" {
		return errors.New("input, game username and external ID cannot be empty")
	}

	existing, err := s.identityRepo.GetByExternalID(ctx, &identityRepo.GetByExternalIDInput{
		ExternalID: input.ExternalID,
	})
	if err != nil && !errors.Is(err, identityRepo.ErrIdentityNotFound) {
		s.log.Warn().Err(err).Str("external_id", input.ExternalID).Msg("identity lookup failed on link")
	}
	if existing != nil && existing.GameUsername != input.GameUsername {
		s.log.Info().Str("external_id", input.ExternalID).
			Str("old", existing.GameUsername).Str("new", input.GameUsername).
			Msg("correcting game username for linked identity")
	}

	err = s.identityRepo.SaveIdentity(ctx, &identityRepo.SaveIdentityInput{
		Identity: &models.Identity{
			ExternalID:   input.ExternalID,
			GameUsername: input.GameUsername,
			LastUpdated:  s.clock.Now(),
		},
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	_, isActive := s.active[input.GameUsername]
	s.mu.Unlock()

	if !isActive {
		return nil
	}

	return s.entryCheck(ctx, input.GameUsername)
}

// HandleVoiceChange reacts to a voice-channel transition
func (s *service) HandleVoiceChange(ctx context.Context, input *HandleVoiceChangeInput) error {
	if input == nil || input.ExternalID == "" {
		return errors.New("input and external ID cannot be empty")
	}

	channel := s.normalizeChannel(input.ChannelID)

	ident, err := s.identityRepo.GetByExternalID(ctx, &identityRepo.GetByExternalIDInput{
		ExternalID: input.ExternalID,
	})
	if err != nil {
		if errors.Is(err, identityRepo.ErrIdentityNotFound) {
			// Voice activity from an unlinked account; nothing to gate
			return nil
		}
		s.log.Warn().Err(err).Str("external_id", input.ExternalID).Msg("identity lookup failed on voice change")
		return nil
	}

	username := ident.GameUsername

	previous, err := s.recordAssignment(ctx, ident.ExternalID, username, channel)
	if err != nil {
		s.log.Warn().Err(err).Str("player", username).Msg("failed to persist voice change")
	}

	s.mu.Lock()
	_, isActive := s.active[username]
	state := s.states[username]
	s.mu.Unlock()

	if !isActive || s.isExempt(username, ident.ExternalID) {
		return nil
	}

	if channel != "" {
		return s.handleTrackedArrival(ctx, username, ident.ExternalID, previous, channel, state)
	}

	// Dropped to null or an untracked channel
	if state == models.GateStateCompliant {
		out, err := s.messages.GetDisconnectedMessage(ctx, &messaging.GetDisconnectedMessageInput{
			WindowSeconds: int(s.warnWindow / time.Second),
		})
		if err != nil {
			return err
		}
		s.startCountdown(ctx, username, ident.ExternalID, out.Message)
	}
	return nil
}

// handleTrackedArrival applies the COMPLIANT/WARNED transitions for a player
// who reached a tracked channel.
func (s *service) handleTrackedArrival(ctx context.Context, username, externalID, previous, channel string, state models.GateState) error {
	if state == models.GateStateWarned {
		s.completeCompliance(ctx, username, channel)
		return nil
	}

	s.setState(username, models.GateStateCompliant)

	label := s.tracked[channel]

	switch {
	case previous != "" && previous != channel:
		out, err := s.messages.GetSwitchedMessage(ctx, &messaging.GetSwitchedMessageInput{
			FromLabel: s.tracked[previous],
			ToLabel:   label,
		})
		if err != nil {
			return err
		}
		s.notify(ctx, username, out.Message)
		s.notifyOccupants(ctx, previous, username, false)
		s.notifyOccupants(ctx, channel, username, true)
	case previous == "":
		out, err := s.messages.GetConnectedMessage(ctx, &messaging.GetConnectedMessageInput{
			ChannelLabel: label,
		})
		if err != nil {
			return err
		}
		s.notify(ctx, username, out.Message)
	}

	return nil
}

// CheckPermission resolves a player and reports whether they may run gated commands
func (s *service) CheckPermission(ctx context.Context, input *CheckPermissionInput) (*CheckPermissionOutput, error) {
	if input == nil || input.GameUsername == "" {
		return nil, errors.New("input and game username cannot be empty")
	}

	username := input.GameUsername

	ident, err := s.identityRepo.GetByUsername(ctx, &identityRepo.GetByUsernameInput{
		GameUsername: username,
	})
	if err != nil {
		if errors.Is(err, identityRepo.ErrIdentityNotFound) {
			exempt := s.isExempt(username, "")
			return &CheckPermissionOutput{Exempt: exempt, Permitted: exempt}, nil
		}
		return nil, err
	}

	out := &CheckPermissionOutput{
		ExternalID: ident.ExternalID,
		Exempt:     s.isExempt(username, ident.ExternalID),
	}

	channel, err := s.currentChannel(ctx, ident.ExternalID)
	if err != nil {
		s.log.Warn().Err(err).Str("player", username).Msg("channel lookup failed during permission check")
		channel = ""
	}
	out.ChannelID = channel
	out.Permitted = out.Exempt || channel != ""

	return out, nil
}

// RefreshPlayer re-runs the entry check for one active player. Unlike the
// automatic paths this is an operator action, so missing players and missing
// identity links surface as errors instead of failing open.
func (s *service) RefreshPlayer(ctx context.Context, input *RefreshPlayerInput) error {
	if input == nil || input.GameUsername == "" {
		return errors.New("input and game username cannot be empty")
	}

	username := input.GameUsername

	s.mu.Lock()
	_, isActive := s.active[username]
	warned := s.states[username] == models.GateStateWarned
	s.mu.Unlock()

	if !isActive {
		return ErrPlayerNotActive
	}
	if warned {
		// A running countdown keeps its window
		return nil
	}
	if s.isExempt(username, "") {
		return nil
	}

	if _, err := s.identityRepo.GetByUsername(ctx, &identityRepo.GetByUsernameInput{
		GameUsername: username,
	}); err != nil {
		if errors.Is(err, identityRepo.ErrIdentityNotFound) {
			return ErrUnknownIdentity
		}
		return err
	}

	return s.entryCheck(ctx, username)
}

// RefreshAll re-runs the entry check for every active player
func (s *service) RefreshAll(ctx context.Context, input *RefreshAllInput) (*RefreshAllOutput, error) {
	s.mu.Lock()
	players := make([]string, 0, len(s.active))
	for username := range s.active {
		// Players already under countdown keep their running window
		if s.states[username] == models.GateStateWarned {
			continue
		}
		players = append(players, username)
	}
	s.mu.Unlock()

	for _, username := range players {
		if err := s.entryCheck(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("player", username).Msg("refresh check failed")
		}
	}

	return &RefreshAllOutput{Checked: len(players)}, nil
}

// GetSnapshot assembles the aggregate live state for the dashboard
func (s *service) GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error) {
	s.mu.Lock()
	usernames := make([]string, 0, len(s.active))
	for username := range s.active {
		usernames = append(usernames, username)
	}
	states := make(map[string]models.GateState, len(s.states))
	for username, state := range s.states {
		states[username] = state
	}
	remaining := make(map[string]int, len(s.countdowns))
	for username, cd := range s.countdowns {
		remaining[username] = cd.remainingSeconds
	}
	s.mu.Unlock()

	sort.Strings(usernames)

	snapshot := &models.Snapshot{
		Taken:            s.clock.Now(),
		Players:          make([]models.PlayerStatus, 0, len(usernames)),
		Channels:         make([]models.ChannelStatus, 0, len(s.tracked)),
		ActiveCountdowns: len(remaining),
	}

	for _, username := range usernames {
		status := models.PlayerStatus{
			GameUsername:     username,
			State:            states[username],
			SecondsRemaining: remaining[username],
		}

		ident, err := s.identityRepo.GetByUsername(ctx, &identityRepo.GetByUsernameInput{
			GameUsername: username,
		})
		if err == nil {
			status.ExternalID = ident.ExternalID
			status.Exempt = s.isExempt(username, ident.ExternalID)
			if channel, err := s.currentChannel(ctx, ident.ExternalID); err == nil && channel != "" {
				status.ChannelID = channel
				status.ChannelLabel = s.tracked[channel]
			}
		} else {
			status.Exempt = s.isExempt(username, "")
		}

		snapshot.Players = append(snapshot.Players, status)
	}

	channelIDs := make([]string, 0, len(s.tracked))
	for id := range s.tracked {
		channelIDs = append(channelIDs, id)
	}
	sort.Strings(channelIDs)

	for _, id := range channelIDs {
		channelStatus := models.ChannelStatus{
			ChannelID: id,
			Label:     s.tracked[id],
			Occupants: []models.Occupant{},
		}

		out, err := s.voiceLog.ListOccupants(ctx, &voicelogRepo.ListOccupantsInput{ChannelID: id})
		if err != nil {
			s.log.Warn().Err(err).Str("channel", id).Msg("occupant lookup failed during snapshot")
		} else {
			channelStatus.Occupants = out.Occupants
		}

		snapshot.Channels = append(snapshot.Channels, channelStatus)
	}

	return &GetSnapshotOutput{Snapshot: snapshot}, nil
}

// entryCheck runs the gate for one player: compliant players are confirmed,
// everyone else non-exempt enters the countdown. Store and lookup failures
// here fail open; we never kick on bad data.
func (s *service) entryCheck(ctx context.Context, username string) error {
	ident, err := s.identityRepo.GetByUsername(ctx, &identityRepo.GetByUsernameInput{
		GameUsername: username,
	})
	if err != nil {
		if errors.Is(err, identityRepo.ErrIdentityNotFound) {
			s.log.Debug().Str("player", username).Msg("no identity link, gating skipped")
		} else {
			s.log.Warn().Err(err).Str("player", username).Msg("identity lookup failed, gating skipped")
		}
		return nil
	}

	channel, err := s.currentChannel(ctx, ident.ExternalID)
	if err != nil {
		s.log.Warn().Err(err).Str("player", username).Msg("channel lookup failed, gating skipped")
		return nil
	}

	if s.isExempt(username, ident.ExternalID) {
		// Exempt players still get their assignment recorded for display
		if _, err := s.recordAssignment(ctx, ident.ExternalID, username, channel); err != nil {
			s.log.Warn().Err(err).Str("player", username).Msg("failed to persist exempt assignment")
		}
		s.setState(username, models.GateStateCompliant)
		return nil
	}

	if channel != "" {
		s.mu.Lock()
		s.cancelCountdownLocked(username)
		s.states[username] = models.GateStateCompliant
		s.mu.Unlock()

		previous, err := s.recordAssignment(ctx, ident.ExternalID, username, channel)
		if err != nil {
			s.log.Warn().Err(err).Str("player", username).Msg("failed to persist entry assignment")
			return nil
		}

		if previous == "" {
			out, err := s.messages.GetConnectedMessage(ctx, &messaging.GetConnectedMessageInput{
				ChannelLabel: s.tracked[channel],
			})
			if err != nil {
				return err
			}
			s.notify(ctx, username, out.Message)
		}
		return nil
	}

	labels := make([]string, 0, len(s.tracked))
	for _, label := range s.tracked {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out, err := s.messages.GetWarningMessage(ctx, &messaging.GetWarningMessageInput{
		PlayerName:    username,
		WindowSeconds: int(s.warnWindow / time.Second),
		ChannelLabels: labels,
	})
	if err != nil {
		return err
	}

	s.startCountdown(ctx, username, ident.ExternalID, out.Message)
	return nil
}

// completeCompliance cancels an active countdown because the player reached
// a tracked channel.
func (s *service) completeCompliance(ctx context.Context, username, channel string) {
	s.mu.Lock()
	s.cancelCountdownLocked(username)
	s.states[username] = models.GateStateCompliant
	s.mu.Unlock()

	out, err := s.messages.GetConnectedMessage(ctx, &messaging.GetConnectedMessageInput{
		ChannelLabel:       s.tracked[channel],
		CancelledCountdown: true,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to format compliance message")
		return
	}

	s.log.Info().Str("player", username).Str("channel", channel).Msg("countdown cancelled, player compliant")
	s.notify(ctx, username, out.Message)
}

// currentChannel resolves a player's current tracked channel, preferring the
// live lookup and falling back to the voice log.
func (s *service) currentChannel(ctx context.Context, externalID string) (string, error) {
	if s.lookup != nil {
		channel, err := s.lookup.CurrentChannel(ctx, externalID)
		if err == nil {
			return s.normalizeChannel(channel), nil
		}
		s.log.Debug().Err(err).Str("external_id", externalID).Msg("live channel lookup failed, using voice log")
	}

	current, err := s.voiceLog.GetCurrent(ctx, &voicelogRepo.GetCurrentInput{
		ExternalID: externalID,
	})
	if err != nil {
		if errors.Is(err, voicelogRepo.ErrNoAssignment) {
			return "", nil
		}
		return "", err
	}

	return s.normalizeChannel(current.ChannelID), nil
}

// recordAssignment persists a transition and returns the previous channel.
// A write failure does not roll back in-memory state; the next re-check
// reconciles.
func (s *service) recordAssignment(ctx context.Context, externalID, username, channel string) (string, error) {
	out, err := s.voiceLog.AppendAssignment(ctx, &voicelogRepo.AppendAssignmentInput{
		ExternalID:   externalID,
		GameUsername: username,
		ChannelID:    channel,
	})
	if err != nil {
		return "", err
	}
	return out.PreviousChannelID, nil
}

// notifyOccupants tells everyone in a channel that a peer joined or left.
func (s *service) notifyOccupants(ctx context.Context, channel, mover string, joined bool) {
	out, err := s.voiceLog.ListOccupants(ctx, &voicelogRepo.ListOccupantsInput{ChannelID: channel})
	if err != nil {
		s.log.Warn().Err(err).Str("channel", channel).Msg("occupant lookup failed for notice")
		return
	}

	msg, err := s.messages.GetOccupantNoticeMessage(ctx, &messaging.GetOccupantNoticeMessageInput{
		PlayerName:   mover,
		ChannelLabel: s.tracked[channel],
		Joined:       joined,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to format occupant notice")
		return
	}

	for _, occupant := range out.Occupants {
		if occupant.GameUsername == mover {
			continue
		}
		s.notify(ctx, occupant.GameUsername, msg.Message)
	}
}

// notify delivers a message best-effort; failures are logged and never
// interrupt enforcement.
func (s *service) notify(ctx context.Context, username, text string) {
	if !s.notifier.SendDirectMessage(ctx, username, text) {
		s.log.Warn().Str("player", username).Msg("failed to deliver message on all paths")
	}
}

func (s *service) setState(username string, state models.GateState) {
	s.mu.Lock()
	s.states[username] = state
	s.mu.Unlock()
}

func (s *service) normalizeChannel(channel string) string {
	if _, ok := s.tracked[channel]; ok {
		return channel
	}
	return ""
}

// isExempt applies the three independent exemption predicates: the bot's own
// name, the owner's game name, and the owner's Discord ID.
func (s *service) isExempt(username, externalID string) bool {
	if strings.EqualFold(username, s.botUsername) {
		return true
	}
	if s.ownerUsername != "" && strings.EqualFold(username, s.ownerUsername) {
		return true
	}
	if s.ownerExternalID != "" && externalID == s.ownerExternalID {
		return true
	}
	return false
}
