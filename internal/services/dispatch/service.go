package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/voicegate/voicegate/internal/models"
	"github.com/voicegate/voicegate/internal/services/gatekeeper"
	"github.com/voicegate/voicegate/internal/services/messaging"
)

// service implements the Service interface
type service struct {
	gatekeeper gatekeeper.Service
	messages   messaging.Service
	botName    string
	log        zerolog.Logger
}

// NewService creates a new dispatch service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Gatekeeper == nil {
		return nil, errors.New("gatekeeper service cannot be nil")
	}
	if cfg.Messages == nil {
		return nil, errors.New("messaging service cannot be nil")
	}
	if cfg.BotName == "" {
		return nil, errors.New("bot name cannot be empty")
	}

	return &service{
		gatekeeper: cfg.Gatekeeper,
		messages:   cfg.Messages,
		botName:    cfg.BotName,
		log:        cfg.Logger,
	}, nil
}

// Dispatch resolves the first token of the command to an action
func (s *service) Dispatch(ctx context.Context, input *DispatchInput) (*DispatchOutput, error) {
	if input == nil || input.Command == nil {
		return nil, errors.New("input and command cannot be nil")
	}

	command := input.Command
	fields := strings.Fields(command.RawCommand)

	var action string
	if len(fields) > 0 {
		action = strings.ToLower(fields[0])
	}

	s.log.Debug().Str("sender", command.Sender).Str("action", action).Msg("dispatching command")

	switch action {
	case "status":
		return s.statusReply(ctx)
	case "players":
		return s.playersReply(ctx)
	case "refresh":
		return s.refreshReply(ctx, fields[1:])
	case "help":
		out, err := s.messages.GetHelpMessage(ctx, &messaging.GetHelpMessageInput{
			BotName: s.botName,
		})
		if err != nil {
			return nil, err
		}
		return &DispatchOutput{Reply: out.Message}, nil
	default:
		out, err := s.messages.GetAcknowledgmentMessage(ctx, &messaging.GetAcknowledgmentMessageInput{
			Sender:    command.Sender,
			Permitted: command.Permitted,
		})
		if err != nil {
			return nil, err
		}
		return &DispatchOutput{Reply: out.Message}, nil
	}
}

func (s *service) statusReply(ctx context.Context) (*DispatchOutput, error) {
	out, err := s.gatekeeper.GetSnapshot(ctx, &gatekeeper.GetSnapshotInput{})
	if err != nil {
		return nil, err
	}

	snapshot := out.Snapshot
	var compliant int
	for _, player := range snapshot.Players {
		if player.State == models.GateStateCompliant {
			compliant++
		}
	}

	return &DispatchOutput{
		Reply: fmt.Sprintf("%d players online, %d compliant, %d countdowns active.",
			len(snapshot.Players), compliant, snapshot.ActiveCountdowns),
	}, nil
}

func (s *service) playersReply(ctx context.Context) (*DispatchOutput, error) {
	out, err := s.gatekeeper.GetSnapshot(ctx, &gatekeeper.GetSnapshotInput{})
	if err != nil {
		return nil, err
	}

	if len(out.Snapshot.Players) == 0 {
		return &DispatchOutput{Reply: "No players online."}, nil
	}

	entries := make([]string, 0, len(out.Snapshot.Players))
	for _, player := range out.Snapshot.Players {
		entry := fmt.Sprintf("%s [%s]", player.GameUsername, player.State)
		if player.ChannelLabel != "" {
			entry = fmt.Sprintf("%s [%s, %s]", player.GameUsername, player.State, player.ChannelLabel)
		}
		entries = append(entries, entry)
	}

	return &DispatchOutput{Reply: "Players: " + strings.Join(entries, ", ")}, nil
}

// refreshReply re-checks a named player when an argument is given, otherwise
// every active player.
func (s *service) refreshReply(ctx context.Context, args []string) (*DispatchOutput, error) {
	if len(args) > 0 {
		name := args[0]
		err := s.gatekeeper.RefreshPlayer(ctx, &gatekeeper.RefreshPlayerInput{
			GameUsername: name,
		})
		switch {
		case errors.Is(err, gatekeeper.ErrPlayerNotActive):
			return &DispatchOutput{Reply: fmt.Sprintf("%s is not in the game.", name)}, nil
		case errors.Is(err, gatekeeper.ErrUnknownIdentity):
			return &DispatchOutput{Reply: fmt.Sprintf("%s has no identity link.", name)}, nil
		case err != nil:
			return nil, err
		}
		return &DispatchOutput{Reply: fmt.Sprintf("Re-checked %s.", name)}, nil
	}

	out, err := s.gatekeeper.RefreshAll(ctx, &gatekeeper.RefreshAllInput{})
	if err != nil {
		return nil, err
	}

	return &DispatchOutput{
		Reply: fmt.Sprintf("Re-checked %d players.", out.Checked),
	}, nil
}
