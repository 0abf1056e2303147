package gatekeeper_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/voicegate/voicegate/internal/models"
	identityRepo "github.com/voicegate/voicegate/internal/repositories/identity"
	voicelogRepo "github.com/voicegate/voicegate/internal/repositories/voicelog"
	"github.com/voicegate/voicegate/internal/services/gatekeeper"
	"github.com/voicegate/voicegate/internal/services/gatekeeper/mocks"
	"github.com/voicegate/voicegate/internal/services/messaging"
)

const (
	testWarnWindow    = 200 * time.Millisecond
	testCheckInterval = 40 * time.Millisecond
)

// gateService is the exported surface plus shutdown
type gateService interface {
	gatekeeper.Service
	Close()
}

type sentMessage struct {
	Username string
	Text     string
}

type ServiceTestSuite struct {
	suite.Suite
	ctx context.Context

	mr         *miniredis.Miniredis
	client     *redis.Client
	identities identityRepo.Repository
	voiceLog   voicelogRepo.Repository

	ctrl     *gomock.Controller
	notifier *mocks.MockNotifier
	kicker   *mocks.MockKicker

	sentMu sync.Mutex
	sent   []sentMessage

	service gateService
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	s.identities, err = identityRepo.NewRedis(&identityRepo.Config{
		RedisClient: s.client,
		Logger:      zerolog.Nop(),
	})
	s.Require().NoError(err)

	s.voiceLog, err = voicelogRepo.NewRedis(&voicelogRepo.Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)

	s.ctrl = gomock.NewController(s.T())
	s.notifier = mocks.NewMockNotifier(s.ctrl)
	s.kicker = mocks.NewMockKicker(s.ctrl)

	s.sentMu.Lock()
	s.sent = nil
	s.sentMu.Unlock()

	s.notifier.EXPECT().
		SendDirectMessage(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, username, text string) bool {
			s.sentMu.Lock()
			defer s.sentMu.Unlock()
			s.sent = append(s.sent, sentMessage{Username: username, Text: text})
			return true
		}).
		AnyTimes()

	messages, err := messaging.NewService(&messaging.Config{})
	s.Require().NoError(err)

	s.service, err = gatekeeper.New(&gatekeeper.Config{
		IdentityRepo: s.identities,
		VoiceLog:     s.voiceLog,
		Notifier:     s.notifier,
		Kicker:       s.kicker,
		Messages:     messages,
		Logger:       zerolog.Nop(),
		TrackedChannels: map[string]string{
			"chan-general": "General",
			"chan-gaming":  "Gaming",
		},
		BotUsername:     "devil",
		OwnerUsername:   "warden",
		OwnerExternalID: "owner-999",
		WarnWindow:      testWarnWindow,
		CheckInterval:   testCheckInterval,
	})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TearDownTest() {
	s.service.Close()
	s.client.Close()
	s.mr.Close()
}

func (s *ServiceTestSuite) linkIdentity(externalID, username string) {
	err := s.identities.SaveIdentity(s.ctx, &identityRepo.SaveIdentityInput{
		Identity: &models.Identity{
			ExternalID:   externalID,
			GameUsername: username,
			LastUpdated:  time.Now(),
		},
	})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) placeInChannel(externalID, username, channelID string) {
	_, err := s.voiceLog.AppendAssignment(s.ctx, &voicelogRepo.AppendAssignmentInput{
		ExternalID:   externalID,
		GameUsername: username,
		ChannelID:    channelID,
	})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) messagesFor(username string) []string {
	s.sentMu.Lock()
	defer s.sentMu.Unlock()

	var out []string
	for _, msg := range s.sent {
		if msg.Username == username {
			out = append(out, msg.Text)
		}
	}
	return out
}

func (s *ServiceTestSuite) snapshot() *models.Snapshot {
	out, err := s.service.GetSnapshot(s.ctx, &gatekeeper.GetSnapshotInput{})
	s.Require().NoError(err)
	return out.Snapshot
}

// playerState reads a player's state from the snapshot; absent players
// report the zero state
func (s *ServiceTestSuite) playerState(username string) models.GateState {
	for _, player := range s.snapshot().Players {
		if player.GameUsername == username {
			return player.State
		}
	}
	return ""
}

func (s *ServiceTestSuite) activeCountdowns() int {
	return s.snapshot().ActiveCountdowns
}

func (s *ServiceTestSuite) TestHandlePlayerJoin_UnlinkedPlayerNotGated() {
	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "ghost"})
	s.Require().NoError(err)

	s.Equal(models.GateStateUnchecked, s.playerState("ghost"))
	s.Zero(s.activeCountdowns())
	s.Empty(s.messagesFor("ghost"))
}

func (s *ServiceTestSuite) TestHandlePlayerJoin_InTrackedChannelIsCompliant() {
	s.linkIdentity("disc-1", "alice")
	s.placeInChannel("disc-1", "alice", "chan-general")

	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "alice"})
	s.Require().NoError(err)

	s.Equal(models.GateStateCompliant, s.playerState("alice"))
	s.Zero(s.activeCountdowns())
}

func (s *ServiceTestSuite) TestHandlePlayerJoin_NotInChannelStartsCountdown() {
	s.linkIdentity("disc-1", "alice")

	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "alice"})
	s.Require().NoError(err)

	s.Equal(models.GateStateWarned, s.playerState("alice"))
	s.Equal(1, s.activeCountdowns())

	msgs := s.messagesFor("alice")
	s.Require().NotEmpty(msgs)
	s.Contains(msgs[0], "voice channel")
	s.Contains(msgs[0], "kicked")
}

func (s *ServiceTestSuite) TestCountdownExpiryKicksPlayer() {
	s.linkIdentity("disc-1", "alice")

	kicked := make(chan string, 1)
	s.kicker.EXPECT().
		Kick(gomock.Any(), "alice", gomock.Any()).
		DoAndReturn(func(_ context.Context, username, reason string) bool {
			s.Contains(reason, "voice")
			kicked <- username
			return true
		})

	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "alice"})
	s.Require().NoError(err)

	select {
	case <-kicked:
	case <-time.After(2 * time.Second):
		s.FailNow("kick never fired")
	}

	s.Equal(models.GateStateKicked, s.playerState("alice"))
	s.Zero(s.activeCountdowns())

	// Warning first, then at least one reminder carrying the remaining time
	msgs := s.messagesFor("alice")
	s.Require().GreaterOrEqual(len(msgs), 2)
	var sawReminder bool
	for _, msg := range msgs[1:] {
		if strings.Contains(msg, "seconds left") {
			sawReminder = true
		}
	}
	s.True(sawReminder)
}

func (s *ServiceTestSuite) TestJoiningVoiceCancelsCountdown() {
	s.linkIdentity("disc-2", "bob")

	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "bob"})
	s.Require().NoError(err)
	s.Equal(models.GateStateWarned, s.playerState("bob"))

	// Land between ticks so no reminder races the cancellation notice
	time.Sleep(2*testCheckInterval + testCheckInterval/2)

	err = s.service.HandleVoiceChange(s.ctx, &gatekeeper.HandleVoiceChangeInput{
		ExternalID: "disc-2",
		ChannelID:  "chan-general",
	})
	s.Require().NoError(err)

	s.Equal(models.GateStateCompliant, s.playerState("bob"))
	s.Zero(s.activeCountdowns())

	msgs := s.messagesFor("bob")
	s.Require().NotEmpty(msgs)
	s.Contains(msgs[len(msgs)-1], "countdown cancelled")

	// Past the original deadline nothing else fires; an unexpected kick
	// would fail the controller
	time.Sleep(testWarnWindow + 2*testCheckInterval)
	s.Equal(models.GateStateCompliant, s.playerState("bob"))
}

func (s *ServiceTestSuite) TestOwnerIsNeverWarned() {
	s.linkIdentity("disc-3", "warden")

	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "warden"})
	s.Require().NoError(err)

	s.Equal(models.GateStateCompliant, s.playerState("warden"))
	s.Zero(s.activeCountdowns())
	s.Empty(s.messagesFor("warden"))
}

func (s *ServiceTestSuite) TestOwnerExternalIDIsExempt() {
	s.linkIdentity("owner-999", "someoneelse")

	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "someoneelse"})
	s.Require().NoError(err)

	s.Equal(models.GateStateCompliant, s.playerState("someoneelse"))
	s.Zero(s.activeCountdowns())
}

func (s *ServiceTestSuite) TestDisconnectRestartsEnforcement() {
	s.linkIdentity("disc-4", "carol")
	s.placeInChannel("disc-4", "carol", "chan-general")

	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "carol"})
	s.Require().NoError(err)
	s.Equal(models.GateStateCompliant, s.playerState("carol"))

	err = s.service.HandleVoiceChange(s.ctx, &gatekeeper.HandleVoiceChangeInput{
		ExternalID: "disc-4",
		ChannelID:  "",
	})
	s.Require().NoError(err)

	s.Equal(models.GateStateWarned, s.playerState("carol"))
	s.Equal(1, s.activeCountdowns())

	err = s.service.HandleVoiceChange(s.ctx, &gatekeeper.HandleVoiceChangeInput{
		ExternalID: "disc-4",
		ChannelID:  "chan-gaming",
	})
	s.Require().NoError(err)

	s.Equal(models.GateStateCompliant, s.playerState("carol"))
	s.Zero(s.activeCountdowns())
}

func (s *ServiceTestSuite) TestUntrackedChannelCountsAsNone() {
	s.linkIdentity("disc-5", "dave")
	s.placeInChannel("disc-5", "dave", "chan-general")

	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "dave"})
	s.Require().NoError(err)

	err = s.service.HandleVoiceChange(s.ctx, &gatekeeper.HandleVoiceChangeInput{
		ExternalID: "disc-5",
		ChannelID:  "chan-afk",
	})
	s.Require().NoError(err)

	s.Equal(models.GateStateWarned, s.playerState("dave"))
}

func (s *ServiceTestSuite) TestHandlePlayerLeaveCancelsCountdown() {
	s.linkIdentity("disc-6", "erin")

	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "erin"})
	s.Require().NoError(err)
	s.Equal(1, s.activeCountdowns())

	err = s.service.HandlePlayerLeave(s.ctx, &gatekeeper.HandlePlayerLeaveInput{GameUsername: "erin"})
	s.Require().NoError(err)
	s.Zero(s.activeCountdowns())

	// The deadline comes and goes without a kick; an unexpected Kick call
	// would fail the controller
	time.Sleep(testWarnWindow + 2*testCheckInterval)
	s.Equal(models.GateState(""), s.playerState("erin"))
}

func (s *ServiceTestSuite) TestHandleIdentityLinkRechecksActivePlayer() {
	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "frank"})
	s.Require().NoError(err)
	s.Zero(s.activeCountdowns())

	err = s.service.HandleIdentityLink(s.ctx, &gatekeeper.HandleIdentityLinkInput{
		GameUsername: "frank",
		ExternalID:   "disc-7",
	})
	s.Require().NoError(err)

	s.Equal(models.GateStateWarned, s.playerState("frank"))
	s.Equal(1, s.activeCountdowns())
}

func (s *ServiceTestSuite) TestRelinkDuringCountdownKeepsSingleTimerPair() {
	s.linkIdentity("disc-13", "judy")

	kicked := make(chan struct{}, 1)
	s.kicker.EXPECT().
		Kick(gomock.Any(), "judy", gomock.Any()).
		DoAndReturn(func(context.Context, string, string) bool {
			kicked <- struct{}{}
			return true
		}).
		Times(1)

	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "judy"})
	s.Require().NoError(err)
	s.Equal(1, s.activeCountdowns())

	time.Sleep(testWarnWindow / 2)

	// Re-linking re-runs the entry check, which replaces the running pair
	err = s.service.HandleIdentityLink(s.ctx, &gatekeeper.HandleIdentityLinkInput{
		GameUsername: "judy",
		ExternalID:   "disc-13",
	})
	s.Require().NoError(err)
	s.Equal(1, s.activeCountdowns())

	select {
	case <-kicked:
	case <-time.After(2 * time.Second):
		s.FailNow("kick never fired")
	}

	// Ride out the first pair's deadline too; a second kick would trip the
	// controller's Times(1)
	time.Sleep(testWarnWindow + 2*testCheckInterval)
	s.Equal(models.GateStateKicked, s.playerState("judy"))
	s.Zero(s.activeCountdowns())
}

func (s *ServiceTestSuite) TestRefreshPlayer_NotActive() {
	err := s.service.RefreshPlayer(s.ctx, &gatekeeper.RefreshPlayerInput{GameUsername: "nobody"})
	s.ErrorIs(err, gatekeeper.ErrPlayerNotActive)
}

func (s *ServiceTestSuite) TestRefreshPlayer_UnlinkedPlayer() {
	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "ghost"})
	s.Require().NoError(err)

	err = s.service.RefreshPlayer(s.ctx, &gatekeeper.RefreshPlayerInput{GameUsername: "ghost"})
	s.ErrorIs(err, gatekeeper.ErrUnknownIdentity)
}

func (s *ServiceTestSuite) TestRefreshPlayer_WarnedPlayerKeepsWindow() {
	s.linkIdentity("disc-14", "kate")

	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "kate"})
	s.Require().NoError(err)
	s.Equal(models.GateStateWarned, s.playerState("kate"))

	err = s.service.RefreshPlayer(s.ctx, &gatekeeper.RefreshPlayerInput{GameUsername: "kate"})
	s.Require().NoError(err)

	s.Equal(models.GateStateWarned, s.playerState("kate"))
	s.Equal(1, s.activeCountdowns())
}

func (s *ServiceTestSuite) TestRefreshPlayer_StartsCountdownAfterMissedDrop() {
	s.linkIdentity("disc-15", "liam")
	s.placeInChannel("disc-15", "liam", "chan-general")

	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "liam"})
	s.Require().NoError(err)
	s.Equal(models.GateStateCompliant, s.playerState("liam"))

	// The drop event was missed; only the log knows
	s.placeInChannel("disc-15", "liam", "")

	err = s.service.RefreshPlayer(s.ctx, &gatekeeper.RefreshPlayerInput{GameUsername: "liam"})
	s.Require().NoError(err)

	s.Equal(models.GateStateWarned, s.playerState("liam"))
	s.Equal(1, s.activeCountdowns())
}

func (s *ServiceTestSuite) TestCheckPermission() {
	s.linkIdentity("disc-8", "grace")
	s.placeInChannel("disc-8", "grace", "chan-general")

	out, err := s.service.CheckPermission(s.ctx, &gatekeeper.CheckPermissionInput{GameUsername: "grace"})
	s.Require().NoError(err)
	s.True(out.Permitted)
	s.False(out.Exempt)
	s.Equal("chan-general", out.ChannelID)

	out, err = s.service.CheckPermission(s.ctx, &gatekeeper.CheckPermissionInput{GameUsername: "nobody"})
	s.Require().NoError(err)
	s.False(out.Permitted)

	out, err = s.service.CheckPermission(s.ctx, &gatekeeper.CheckPermissionInput{GameUsername: "warden"})
	s.Require().NoError(err)
	s.True(out.Permitted)
	s.True(out.Exempt)
}

func (s *ServiceTestSuite) TestRefreshAllSkipsWarnedPlayers() {
	s.linkIdentity("disc-9", "henry")
	s.placeInChannel("disc-9", "henry", "chan-general")
	s.linkIdentity("disc-10", "iris")

	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "henry"})
	s.Require().NoError(err)
	err = s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "iris"})
	s.Require().NoError(err)

	s.Equal(models.GateStateWarned, s.playerState("iris"))

	out, err := s.service.RefreshAll(s.ctx, &gatekeeper.RefreshAllInput{})
	s.Require().NoError(err)
	s.Equal(1, out.Checked)
}

func (s *ServiceTestSuite) TestGetSnapshot() {
	s.linkIdentity("disc-11", "alice")
	s.placeInChannel("disc-11", "alice", "chan-general")
	s.linkIdentity("disc-12", "bob")

	err := s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "alice"})
	s.Require().NoError(err)
	err = s.service.HandlePlayerJoin(s.ctx, &gatekeeper.HandlePlayerJoinInput{GameUsername: "bob"})
	s.Require().NoError(err)

	snapshot := s.snapshot()
	s.Len(snapshot.Players, 2)
	s.Equal(1, snapshot.ActiveCountdowns)

	byName := make(map[string]models.PlayerStatus)
	for _, player := range snapshot.Players {
		byName[player.GameUsername] = player
	}
	s.Equal(models.GateStateCompliant, byName["alice"].State)
	s.Equal("chan-general", byName["alice"].ChannelID)
	s.Equal("General", byName["alice"].ChannelLabel)
	s.Equal(models.GateStateWarned, byName["bob"].State)
	s.Positive(byName["bob"].SecondsRemaining)

	s.Len(snapshot.Channels, 2)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
