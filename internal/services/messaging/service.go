package messaging

import (
	"context"
	"fmt"
	"strings"
)

const defaultUrgentThreshold = 10

// service implements the Service interface
type service struct {
	urgentThreshold int
}

// NewService creates a new messaging service
func NewService(cfg *Config) (Service, error) {
	threshold := defaultUrgentThreshold
	if cfg != nil && cfg.UrgentThresholdSeconds > 0 {
		threshold = cfg.UrgentThresholdSeconds
	}

	return &service{
		urgentThreshold: threshold,
	}, nil
}

// GetWarningMessage returns the initial countdown warning
func (s *service) GetWarningMessage(ctx context.Context, input *GetWarningMessageInput) (*GetWarningMessageOutput, error) {
	labels := strings.Join(input.ChannelLabels, ", ")
	if labels == "" {
		labels = "a tracked voice channel"
	}

	return &GetWarningMessageOutput{
		Message: fmt.Sprintf("Hey %s! Join a voice channel (%s) within %ds or you will be kicked.",
			input.PlayerName, labels, input.WindowSeconds),
	}, nil
}

// GetReminderMessage returns an interval reminder carrying the remaining seconds
func (s *service) GetReminderMessage(ctx context.Context, input *GetReminderMessageInput) (*GetReminderMessageOutput, error) {
	if input.SecondsRemaining < s.urgentThreshold {
		return &GetReminderMessageOutput{
			Message: fmt.Sprintf("LAST CHANCE: %d seconds left! Join a voice channel NOW!", input.SecondsRemaining),
			Urgent:  true,
		}, nil
	}

	return &GetReminderMessageOutput{
		Message: fmt.Sprintf("Reminder: %d seconds left to join a voice channel.", input.SecondsRemaining),
	}, nil
}

// GetFinalWarningMessage returns the message sent just before a kick
func (s *service) GetFinalWarningMessage(ctx context.Context, input *GetFinalWarningMessageInput) (*GetFinalWarningMessageOutput, error) {
	return &GetFinalWarningMessageOutput{
		Message: fmt.Sprintf("Time is up, %s. You are being removed for not joining voice.", input.PlayerName),
	}, nil
}

// GetKickReason returns the reason text attached to a kick
func (s *service) GetKickReason(ctx context.Context, input *GetKickReasonInput) (*GetKickReasonOutput, error) {
	return &GetKickReasonOutput{
		Reason: "Not connected to a voice channel",
	}, nil
}

// GetConnectedMessage returns the confirmation when a player reaches a tracked channel
func (s *service) GetConnectedMessage(ctx context.Context, input *GetConnectedMessageInput) (*GetConnectedMessageOutput, error) {
	if input.CancelledCountdown {
		return &GetConnectedMessageOutput{
			Message: fmt.Sprintf("Connected to %s, countdown cancelled. Have fun!", input.ChannelLabel),
		}, nil
	}

	return &GetConnectedMessageOutput{
		Message: fmt.Sprintf("Connected to %s.", input.ChannelLabel),
	}, nil
}

// GetSwitchedMessage returns the notice when a player moves between tracked channels
func (s *service) GetSwitchedMessage(ctx context.Context, input *GetSwitchedMessageInput) (*GetSwitchedMessageOutput, error) {
	return &GetSwitchedMessageOutput{
		Message: fmt.Sprintf("Switched from %s to %s.", input.FromLabel, input.ToLabel),
	}, nil
}

// GetDisconnectedMessage returns the notice when a player drops out of tracked channels
func (s *service) GetDisconnectedMessage(ctx context.Context, input *GetDisconnectedMessageInput) (*GetDisconnectedMessageOutput, error) {
	return &GetDisconnectedMessageOutput{
		Message: fmt.Sprintf("You disconnected from voice. Rejoin within %ds or you will be kicked.", input.WindowSeconds),
	}, nil
}

// GetOccupantNoticeMessage returns the notice sent to channel occupants
func (s *service) GetOccupantNoticeMessage(ctx context.Context, input *GetOccupantNoticeMessageInput) (*GetOccupantNoticeMessageOutput, error) {
	if input.Joined {
		return &GetOccupantNoticeMessageOutput{
			Message: fmt.Sprintf("%s joined %s.", input.PlayerName, input.ChannelLabel),
		}, nil
	}

	return &GetOccupantNoticeMessageOutput{
		Message: fmt.Sprintf("%s left %s.", input.PlayerName, input.ChannelLabel),
	}, nil
}

// GetHelpMessage returns the dispatcher help text
func (s *service) GetHelpMessage(ctx context.Context, input *GetHelpMessageInput) (*GetHelpMessageOutput, error) {
	return &GetHelpMessageOutput{
		Message: fmt.Sprintf("Commands: %s status | %s players | %s refresh | %s help",
			input.BotName, input.BotName, input.BotName, input.BotName),
	}, nil
}

// GetAcknowledgmentMessage returns the generic reply for unrecognized commands
func (s *service) GetAcknowledgmentMessage(ctx context.Context, input *GetAcknowledgmentMessageInput) (*GetAcknowledgmentMessageOutput, error) {
	if !input.Permitted {
		return &GetAcknowledgmentMessageOutput{
			Message: fmt.Sprintf("Sorry %s, join a voice channel first.", input.Sender),
		}, nil
	}

	return &GetAcknowledgmentMessageOutput{
		Message: fmt.Sprintf("Heard you, %s.", input.Sender),
	}, nil
}
