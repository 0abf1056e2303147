package gatekeeper

import (
	"context"
	"time"

	"github.com/voicegate/voicegate/internal/models"
	"github.com/voicegate/voicegate/internal/services/messaging"
)

// countdown is the per-player timer pair backing the WARNED state. The
// ticker drives reminder/compliance checks, the deadline timer fires the
// kick. Both are owned by a single goroutine; cancellation happens under
// the service mutex via the stopped flag and done channel.
type countdown struct {
	username         string
	externalID       string
	stepSeconds      int
	remainingSeconds int
	ticker           *time.Ticker
	deadline         *time.Timer
	done             chan struct{}
	stopped          bool
}

// startCountdown warns the player and begins their enforcement window. Any
// existing countdown for the same username is cleared first so a player can
// never have two running timer pairs.
func (s *service) startCountdown(ctx context.Context, username, externalID, warning string) {
	stepSeconds := int(s.checkInterval / time.Second)
	if stepSeconds < 1 {
		stepSeconds = 1
	}
	ticks := int(s.warnWindow / s.checkInterval)
	if ticks < 1 {
		ticks = 1
	}

	cd := &countdown{
		username:         username,
		externalID:       externalID,
		stepSeconds:      stepSeconds,
		remainingSeconds: stepSeconds * ticks,
		ticker:           time.NewTicker(s.checkInterval),
		deadline:         time.NewTimer(s.warnWindow),
		done:             make(chan struct{}),
	}

	s.mu.Lock()
	s.cancelCountdownLocked(username)
	s.countdowns[username] = cd
	s.states[username] = models.GateStateWarned
	s.mu.Unlock()

	s.log.Info().Str("player", username).
		Int("window_seconds", cd.remainingSeconds).
		Msg("countdown started")
	s.notify(ctx, username, warning)

	go s.runCountdown(cd)
}

func (s *service) runCountdown(cd *countdown) {
	defer cd.ticker.Stop()
	defer cd.deadline.Stop()

	for {
		select {
		case <-cd.done:
			return
		case <-cd.ticker.C:
			if !s.handleTick(cd) {
				return
			}
		case <-cd.deadline.C:
			s.handleDeadline(cd)
			return
		}
	}
}

// handleTick performs one interval check. Returns false when the countdown
// resolved (player turned compliant) and the goroutine should exit.
func (s *service) handleTick(cd *countdown) bool {
	ctx := context.Background()

	channel, err := s.currentChannel(ctx, cd.externalID)
	if err != nil {
		// Mid-countdown the failure mode flips: assume non-compliant and
		// let the deadline stand.
		s.log.Warn().Err(err).Str("player", cd.username).Msg("channel check failed mid-countdown")
		channel = ""
	}

	s.mu.Lock()
	if cd.stopped {
		s.mu.Unlock()
		return false
	}

	if channel != "" {
		s.mu.Unlock()
		s.completeCompliance(ctx, cd.username, channel)
		return false
	}

	cd.remainingSeconds -= cd.stepSeconds
	remaining := cd.remainingSeconds
	s.mu.Unlock()

	if remaining <= 0 {
		// The deadline timer fires the kick; no reminder for zero
		return true
	}

	out, err := s.messages.GetReminderMessage(ctx, &messaging.GetReminderMessageInput{
		SecondsRemaining: remaining,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to format reminder")
		return true
	}

	s.notify(ctx, cd.username, out.Message)
	return true
}

// handleDeadline fires the kick, unless the countdown was cancelled between
// the timer firing and this goroutine taking the lock. Compliance wins that
// race.
func (s *service) handleDeadline(cd *countdown) {
	ctx := context.Background()

	// One last chance before kicking
	channel, err := s.currentChannel(ctx, cd.externalID)
	if err != nil {
		s.log.Warn().Err(err).Str("player", cd.username).Msg("final channel check failed, proceeding with kick")
		channel = ""
	}

	s.mu.Lock()
	if cd.stopped {
		s.mu.Unlock()
		return
	}

	if channel != "" {
		s.mu.Unlock()
		s.completeCompliance(ctx, cd.username, channel)
		return
	}

	cd.stopped = true
	delete(s.countdowns, cd.username)
	s.states[cd.username] = models.GateStateKicked
	s.mu.Unlock()

	if final, err := s.messages.GetFinalWarningMessage(ctx, &messaging.GetFinalWarningMessageInput{
		PlayerName: cd.username,
	}); err == nil {
		s.notify(ctx, cd.username, final.Message)
	}

	reason, err := s.messages.GetKickReason(ctx, &messaging.GetKickReasonInput{})
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to format kick reason")
		return
	}

	s.log.Info().Str("player", cd.username).Msg("countdown expired, kicking player")
	if !s.kicker.Kick(ctx, cd.username, reason.Reason) {
		s.log.Error().Str("player", cd.username).Msg("kick failed")
	}
}

// cancelCountdownLocked stops a player's countdown. Callers must hold s.mu.
func (s *service) cancelCountdownLocked(username string) {
	cd, ok := s.countdowns[username]
	if !ok {
		return
	}
	cd.stopped = true
	close(cd.done)
	delete(s.countdowns, username)
}
