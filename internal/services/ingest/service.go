package ingest

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/voicegate/voicegate/internal/models"
	"github.com/voicegate/voicegate/internal/services/gatekeeper"
)

// recallDepth bounds how far back a Discord line may reach for its matching
// Player line in the two-line disclosure form.
const recallDepth = 10

var (
	// "- Player: Foo (550e8400-...)"
	playerLineRe = regexp.MustCompile(`(?i)-\s*Player:\s*(\S+)\s*\(([^)]*)\)`)

	// "- Discord: foo#0 (#4711) 123456789"
	discordLineRe = regexp.MustCompile(`(?i)-\s*Discord:\s*\S+\s*\(#\d+\)\s*(\d+)`)

	// "<Carol> some message"
	chatLineRe = regexp.MustCompile(`^<([^>]+)>\s*(.*)$`)
)

// service implements the Service interface
type service struct {
	gatekeeper    gatekeeper.Service
	botName       string
	triggerPhrase string
	relayTargets  map[string]string
	log           zerolog.Logger

	// recent holds the last recallDepth lines, oldest first
	recent []string
}

// NewService creates a new ingest service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Gatekeeper == nil {
		return nil, errors.New("gatekeeper service cannot be nil")
	}
	if cfg.BotName == "" {
		return nil, errors.New("bot name cannot be empty")
	}

	trigger := cfg.TriggerPhrase
	if trigger == "" {
		trigger = cfg.BotName + " pls"
	}

	targets := make(map[string]string, len(cfg.RelayTargets))
	for channel, target := range cfg.RelayTargets {
		targets[channel] = target
	}

	return &service{
		gatekeeper:    cfg.Gatekeeper,
		botName:       cfg.BotName,
		triggerPhrase: trigger,
		relayTargets:  targets,
		log:           cfg.Logger,
	}, nil
}

// IngestLine parses one raw chat-stream line
func (s *service) IngestLine(ctx context.Context, input *IngestLineInput) (*IngestLineOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	line := strings.TrimSpace(input.Line)
	out := &IngestLineOutput{}
	if line == "" {
		return out, nil
	}
	defer s.remember(line)

	out.IdentityLink = s.parseIdentityLink(line)

	if sender, body, ok := parseChatLine(line); ok {
		if payload, ok := s.matchTrigger(body); ok {
			out.Relay = s.parseRelay(ctx, sender, payload)
		} else if command, ok := s.matchMention(body); ok {
			out.Command = s.parseCommand(ctx, sender, command, line)
		}
	}

	return out, nil
}

// parseIdentityLink handles both disclosure forms. The combined form carries
// the Player and Discord fragments in one line; the legacy form delivers the
// Discord fragment on its own and the username is recalled from recent lines.
func (s *service) parseIdentityLink(line string) *models.IdentityLinkEvent {
	discordMatch := discordLineRe.FindStringSubmatch(line)
	if discordMatch == nil {
		return nil
	}

	externalID := discordMatch[1]

	if playerMatch := playerLineRe.FindStringSubmatch(line); playerMatch != nil {
		return &models.IdentityLinkEvent{
			GameUsername: playerMatch[1],
			ExternalID:   externalID,
		}
	}

	// Legacy two-line form: scan newest-first for the Player line
	for i := len(s.recent) - 1; i >= 0; i-- {
		if playerMatch := playerLineRe.FindStringSubmatch(s.recent[i]); playerMatch != nil {
			return &models.IdentityLinkEvent{
				GameUsername: playerMatch[1],
				ExternalID:   externalID,
			}
		}
	}

	s.log.Warn().Str("external_id", externalID).Msg("discord disclosure with no recallable player line, dropped")
	return nil
}

// parseCommand resolves the sender and computes their permission flag
func (s *service) parseCommand(ctx context.Context, sender, command, line string) *models.DirectedCommandEvent {
	event := &models.DirectedCommandEvent{
		Sender:     sender,
		RawCommand: command,
		FullLine:   line,
	}

	perm, err := s.gatekeeper.CheckPermission(ctx, &gatekeeper.CheckPermissionInput{
		GameUsername: sender,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("sender", sender).Msg("permission check failed, command not permitted")
		return event
	}

	event.ExternalID = perm.ExternalID
	event.Permitted = perm.Permitted
	return event
}

// parseRelay resolves the sender's tracked channel and maps it to the relay
// target. Unresolved senders and untracked channels drop the line.
func (s *service) parseRelay(ctx context.Context, sender, payload string) *models.PeerRelayEvent {
	perm, err := s.gatekeeper.CheckPermission(ctx, &gatekeeper.CheckPermissionInput{
		GameUsername: sender,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("sender", sender).Msg("relay sender lookup failed, dropped")
		return nil
	}

	if perm.ExternalID == "" || perm.ChannelID == "" {
		s.log.Debug().Str("sender", sender).Msg("relay from unresolved or untracked sender, dropped")
		return nil
	}

	target, ok := s.relayTargets[perm.ChannelID]
	if !ok {
		s.log.Debug().Str("sender", sender).Str("channel", perm.ChannelID).Msg("no relay target for channel, dropped")
		return nil
	}

	return &models.PeerRelayEvent{
		ExternalID: perm.ExternalID,
		Sender:     sender,
		Payload:    payload,
		TargetID:   target,
	}
}

// matchTrigger reports whether the body starts with the relay trigger phrase
// and returns the trailing payload.
func (s *service) matchTrigger(body string) (string, bool) {
	if len(body) < len(s.triggerPhrase) {
		return "", false
	}
	if !strings.EqualFold(body[:len(s.triggerPhrase)], s.triggerPhrase) {
		return "", false
	}

	payload := strings.TrimSpace(body[len(s.triggerPhrase):])
	if payload == "" {
		return "", false
	}
	return payload, true
}

// matchMention reports whether the body mentions the bot by name and returns
// the text after the mention token.
func (s *service) matchMention(body string) (string, bool) {
	fields := strings.Fields(body)
	for i, field := range fields {
		if strings.EqualFold(strings.Trim(field, ".,!?:;"), s.botName) {
			return strings.Join(fields[i+1:], " "), true
		}
	}
	return "", false
}

func (s *service) remember(line string) {
	s.recent = append(s.recent, line)
	if len(s.recent) > recallDepth {
		s.recent = s.recent[len(s.recent)-recallDepth:]
	}
}

func parseChatLine(line string) (sender, body string, ok bool) {
	match := chatLineRe.FindStringSubmatch(line)
	if match == nil {
		return "", "", false
	}
	return match[1], match[2], true
}
