package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/voicegate/voicegate/internal/models"
	"github.com/voicegate/voicegate/internal/services/gatekeeper"
	gatekeepermocks "github.com/voicegate/voicegate/internal/services/gatekeeper/mocks"
)

type ServerTestSuite struct {
	suite.Suite

	ctrl       *gomock.Controller
	gatekeeper *gatekeepermocks.MockService
	kicker     *gatekeepermocks.MockKicker

	server     *Server
	testServer *httptest.Server
}

func (s *ServerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.gatekeeper = gatekeepermocks.NewMockService(s.ctrl)
	s.kicker = gatekeepermocks.NewMockKicker(s.ctrl)

	server, err := New(&Config{
		Addr:       ":0",
		Gatekeeper: s.gatekeeper,
		Kicker:     s.kicker,
		Logger:     zerolog.Nop(),
	})
	s.Require().NoError(err)
	s.server = server

	s.testServer = httptest.NewServer(server.Router())
}

func (s *ServerTestSuite) TearDownTest() {
	s.testServer.Close()
}

func (s *ServerTestSuite) snapshot() *gatekeeper.GetSnapshotOutput {
	return &gatekeeper.GetSnapshotOutput{
		Snapshot: &models.Snapshot{
			Taken: time.Now(),
			Players: []models.PlayerStatus{
				{GameUsername: "alice", State: models.GateStateCompliant, ChannelID: "chan-general", ChannelLabel: "General"},
				{GameUsername: "bob", State: models.GateStateWarned, SecondsRemaining: 20},
			},
			Channels: []models.ChannelStatus{
				{ChannelID: "chan-general", Label: "General", Occupants: []models.Occupant{{ExternalID: "disc-1", GameUsername: "alice"}}},
			},
			ActiveCountdowns: 1,
		},
	}
}

func (s *ServerTestSuite) TestGetStatus() {
	s.gatekeeper.EXPECT().
		GetSnapshot(gomock.Any(), gomock.Any()).
		Return(s.snapshot(), nil)

	resp, err := http.Get(s.testServer.URL + "/api/status")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/json", resp.Header.Get("Content-Type"))

	var snapshot models.Snapshot
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&snapshot))
	s.Len(snapshot.Players, 2)
	s.Equal(1, snapshot.ActiveCountdowns)
}

func (s *ServerTestSuite) TestGetPlayers() {
	s.gatekeeper.EXPECT().
		GetSnapshot(gomock.Any(), gomock.Any()).
		Return(s.snapshot(), nil)

	resp, err := http.Get(s.testServer.URL + "/api/players")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var players []models.PlayerStatus
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&players))
	s.Require().Len(players, 2)
	s.Equal("alice", players[0].GameUsername)
	s.Equal(models.GateStateWarned, players[1].State)
}

func (s *ServerTestSuite) TestPostRefresh() {
	s.gatekeeper.EXPECT().
		RefreshAll(gomock.Any(), gomock.Any()).
		Return(&gatekeeper.RefreshAllOutput{Checked: 4}, nil)

	resp, err := http.Post(s.testServer.URL+"/api/refresh", "application/json", nil)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]int
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal(4, body["checked"])
}

func (s *ServerTestSuite) TestPostKick() {
	s.kicker.EXPECT().
		Kick(gomock.Any(), "alice", "Removed via dashboard").
		Return(true)

	resp, err := http.Post(s.testServer.URL+"/api/players/alice/kick", "application/json", nil)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]string
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal("alice", body["kicked"])
}

func (s *ServerTestSuite) TestPostKickFailure() {
	s.kicker.EXPECT().
		Kick(gomock.Any(), "alice", gomock.Any()).
		Return(false)

	resp, err := http.Post(s.testServer.URL+"/api/players/alice/kick", "application/json", nil)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusBadGateway, resp.StatusCode)
}

func (s *ServerTestSuite) TestPostPlayerRefresh() {
	s.gatekeeper.EXPECT().
		RefreshPlayer(gomock.Any(), &gatekeeper.RefreshPlayerInput{GameUsername: "alice"}).
		Return(nil)

	resp, err := http.Post(s.testServer.URL+"/api/players/alice/refresh", "application/json", nil)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]string
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal("alice", body["refreshed"])
}

func (s *ServerTestSuite) TestPostPlayerRefreshUnknownPlayer() {
	s.gatekeeper.EXPECT().
		RefreshPlayer(gomock.Any(), gomock.Any()).
		Return(gatekeeper.ErrPlayerNotActive)

	resp, err := http.Post(s.testServer.URL+"/api/players/ghost/refresh", "application/json", nil)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *ServerTestSuite) TestRefreshRejectsGet() {
	resp, err := http.Get(s.testServer.URL + "/api/refresh")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusMethodNotAllowed, resp.StatusCode)
}

func (s *ServerTestSuite) TestWebsocketReceivesSnapshot() {
	// one push on connect, possibly more from the broadcaster
	s.gatekeeper.EXPECT().
		GetSnapshot(gomock.Any(), gomock.Any()).
		Return(s.snapshot(), nil).
		AnyTimes()

	hubCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.server.hub.Run(hubCtx)

	wsURL := "ws" + strings.TrimPrefix(s.testServer.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	s.Require().NoError(err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, payload, err := conn.ReadMessage()
	s.Require().NoError(err)

	var snapshot models.Snapshot
	s.Require().NoError(json.Unmarshal(payload, &snapshot))
	s.Len(snapshot.Players, 2)
}

func (s *ServerTestSuite) TestHubAttachAfterShutdownReturns() {
	hub := NewHub(zerolog.Nop(), nil)

	hubCtx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(hubCtx)
		close(stopped)
	}()
	cancel()
	<-stopped

	attached := make(chan struct{})
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Attach(conn)
		close(attached)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	s.Require().NoError(err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	select {
	case <-attached:
	case <-time.After(2 * time.Second):
		s.FailNow("attach blocked against a stopped hub")
	}
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
