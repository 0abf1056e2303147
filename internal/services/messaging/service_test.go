package messaging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	service Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()

	svc, err := NewService(&Config{})
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceTestSuite) TestGetWarningMessage() {
	out, err := s.service.GetWarningMessage(s.ctx, &GetWarningMessageInput{
		PlayerName:    "alice",
		WindowSeconds: 30,
		ChannelLabels: []string{"General", "Gaming"},
	})
	s.Require().NoError(err)

	s.Contains(out.Message, "alice")
	s.Contains(out.Message, "30s")
	s.Contains(out.Message, "General, Gaming")
	s.Contains(out.Message, "kicked")
}

func (s *ServiceTestSuite) TestGetReminderMessage() {
	out, err := s.service.GetReminderMessage(s.ctx, &GetReminderMessageInput{
		SecondsRemaining: 25,
	})
	s.Require().NoError(err)
	s.Contains(out.Message, "25 seconds left")
	s.False(out.Urgent)
}

func (s *ServiceTestSuite) TestGetReminderMessage_EscalatesBelowThreshold() {
	out, err := s.service.GetReminderMessage(s.ctx, &GetReminderMessageInput{
		SecondsRemaining: 5,
	})
	s.Require().NoError(err)
	s.Contains(out.Message, "5 seconds left")
	s.Contains(out.Message, "LAST CHANCE")
	s.True(out.Urgent)
}

func (s *ServiceTestSuite) TestGetReminderMessage_ThresholdBoundary() {
	out, err := s.service.GetReminderMessage(s.ctx, &GetReminderMessageInput{
		SecondsRemaining: 10,
	})
	s.Require().NoError(err)
	s.False(out.Urgent)
}

func (s *ServiceTestSuite) TestGetKickReason() {
	out, err := s.service.GetKickReason(s.ctx, &GetKickReasonInput{})
	s.Require().NoError(err)
	s.Contains(out.Reason, "voice")
}

func (s *ServiceTestSuite) TestGetConnectedMessage() {
	out, err := s.service.GetConnectedMessage(s.ctx, &GetConnectedMessageInput{
		ChannelLabel: "General",
	})
	s.Require().NoError(err)
	s.Equal("Connected to General.", out.Message)

	out, err = s.service.GetConnectedMessage(s.ctx, &GetConnectedMessageInput{
		ChannelLabel:       "General",
		CancelledCountdown: true,
	})
	s.Require().NoError(err)
	s.Contains(out.Message, "countdown cancelled")
}

func (s *ServiceTestSuite) TestGetSwitchedMessage() {
	out, err := s.service.GetSwitchedMessage(s.ctx, &GetSwitchedMessageInput{
		FromLabel: "General",
		ToLabel:   "Gaming",
	})
	s.Require().NoError(err)
	s.Equal("Switched from General to Gaming.", out.Message)
}

func (s *ServiceTestSuite) TestGetOccupantNoticeMessage() {
	out, err := s.service.GetOccupantNoticeMessage(s.ctx, &GetOccupantNoticeMessageInput{
		PlayerName:   "alice",
		ChannelLabel: "Gaming",
		Joined:       true,
	})
	s.Require().NoError(err)
	s.Equal("alice joined Gaming.", out.Message)

	out, err = s.service.GetOccupantNoticeMessage(s.ctx, &GetOccupantNoticeMessageInput{
		PlayerName:   "alice",
		ChannelLabel: "Gaming",
	})
	s.Require().NoError(err)
	s.Equal("alice left Gaming.", out.Message)
}

func (s *ServiceTestSuite) TestGetAcknowledgmentMessage() {
	out, err := s.service.GetAcknowledgmentMessage(s.ctx, &GetAcknowledgmentMessageInput{
		Sender:    "carol",
		Permitted: true,
	})
	s.Require().NoError(err)
	s.Contains(out.Message, "carol")

	out, err = s.service.GetAcknowledgmentMessage(s.ctx, &GetAcknowledgmentMessageInput{
		Sender: "carol",
	})
	s.Require().NoError(err)
	s.Contains(out.Message, "join a voice channel first")
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
