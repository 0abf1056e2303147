package messaging

import "context"

// Service is the interface for the messaging service.
// It owns the wording of everything the bot says to players so the
// gatekeeper logic stays free of format strings.
type Service interface {
	// GetWarningMessage returns the initial countdown warning
	GetWarningMessage(ctx context.Context, input *GetWarningMessageInput) (*GetWarningMessageOutput, error)

	// GetReminderMessage returns an interval reminder carrying the remaining seconds
	GetReminderMessage(ctx context.Context, input *GetReminderMessageInput) (*GetReminderMessageOutput, error)

	// GetFinalWarningMessage returns the message sent just before a kick
	GetFinalWarningMessage(ctx context.Context, input *GetFinalWarningMessageInput) (*GetFinalWarningMessageOutput, error)

	// GetKickReason returns the reason text attached to a kick
	GetKickReason(ctx context.Context, input *GetKickReasonInput) (*GetKickReasonOutput, error)

	// GetConnectedMessage returns the confirmation when a player reaches a tracked channel
	GetConnectedMessage(ctx context.Context, input *GetConnectedMessageInput) (*GetConnectedMessageOutput, error)

	// GetSwitchedMessage returns the notice when a player moves between tracked channels
	GetSwitchedMessage(ctx context.Context, input *GetSwitchedMessageInput) (*GetSwitchedMessageOutput, error)

	// GetDisconnectedMessage returns the notice when a player drops out of tracked channels
	GetDisconnectedMessage(ctx context.Context, input *GetDisconnectedMessageInput) (*GetDisconnectedMessageOutput, error)

	// GetOccupantNoticeMessage returns the notice sent to channel occupants
	// when a peer joins or leaves their channel
	GetOccupantNoticeMessage(ctx context.Context, input *GetOccupantNoticeMessageInput) (*GetOccupantNoticeMessageOutput, error)

	// GetHelpMessage returns the dispatcher help text
	GetHelpMessage(ctx context.Context, input *GetHelpMessageInput) (*GetHelpMessageOutput, error)

	// GetAcknowledgmentMessage returns the generic reply for unrecognized commands
	GetAcknowledgmentMessage(ctx context.Context, input *GetAcknowledgmentMessageInput) (*GetAcknowledgmentMessageOutput, error)
}
