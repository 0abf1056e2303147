package messaging

// GetWarningMessageInput contains parameters for the initial countdown warning
type GetWarningMessageInput struct {
	// PlayerName is the name of the warned player
	PlayerName string

	// WindowSeconds is the full countdown window
	WindowSeconds int

	// ChannelLabels are the display labels of the tracked channels
	ChannelLabels []string
}

// GetWarningMessageOutput contains the initial countdown warning
type GetWarningMessageOutput struct {
	Message string
}

// GetReminderMessageInput contains parameters for an interval reminder
type GetReminderMessageInput struct {
	// SecondsRemaining is the literal remainder to put in the message
	SecondsRemaining int
}

// GetReminderMessageOutput contains an interval reminder
type GetReminderMessageOutput struct {
	Message string

	// Urgent reports whether the escalated wording was used
	Urgent bool
}

// GetFinalWarningMessageInput contains parameters for the pre-kick warning
type GetFinalWarningMessageInput struct {
	PlayerName string
}

// GetFinalWarningMessageOutput contains the pre-kick warning
type GetFinalWarningMessageOutput struct {
	Message string
}

// GetKickReasonInput contains parameters for a kick reason
type GetKickReasonInput struct {
	PlayerName string
}

// GetKickReasonOutput contains a kick reason
type GetKickReasonOutput struct {
	Reason string
}

// GetConnectedMessageInput contains parameters for a connection confirmation
type GetConnectedMessageInput struct {
	// ChannelLabel is the display label of the channel the player reached
	ChannelLabel string

	// CancelledCountdown reports whether an active countdown was cancelled
	CancelledCountdown bool
}

// GetConnectedMessageOutput contains a connection confirmation
type GetConnectedMessageOutput struct {
	Message string
}

// GetSwitchedMessageInput contains parameters for a channel-switch notice
type GetSwitchedMessageInput struct {
	FromLabel string
	ToLabel   string
}

// GetSwitchedMessageOutput contains a channel-switch notice
type GetSwitchedMessageOutput struct {
	Message string
}

// GetDisconnectedMessageInput contains parameters for a disconnection notice
type GetDisconnectedMessageInput struct {
	// WindowSeconds is the countdown window the player has to rejoin
	WindowSeconds int
}

// GetDisconnectedMessageOutput contains a disconnection notice
type GetDisconnectedMessageOutput struct {
	Message string
}

// GetOccupantNoticeMessageInput contains parameters for an occupant notice
type GetOccupantNoticeMessageInput struct {
	// PlayerName is the peer who moved
	PlayerName string

	// ChannelLabel is the channel the notice is about
	ChannelLabel string

	// Joined is true when the peer arrived, false when they left
	Joined bool
}

// GetOccupantNoticeMessageOutput contains an occupant notice
type GetOccupantNoticeMessageOutput struct {
	Message string
}

// GetHelpMessageInput contains parameters for the help text
type GetHelpMessageInput struct {
	// BotName is the mention token players address commands to
	BotName string
}

// GetHelpMessageOutput contains the help text
type GetHelpMessageOutput struct {
	Message string
}

// GetAcknowledgmentMessageInput contains parameters for the generic reply
type GetAcknowledgmentMessageInput struct {
	// Sender is the player who sent the unrecognized command
	Sender string

	// Permitted reports whether the sender may run gated commands
	Permitted bool
}

// GetAcknowledgmentMessageOutput contains the generic reply
type GetAcknowledgmentMessageOutput struct {
	Message string
}

// Config contains configuration for the messaging service
type Config struct {
	// UrgentThresholdSeconds is the remainder below which reminders escalate
	UrgentThresholdSeconds int
}
