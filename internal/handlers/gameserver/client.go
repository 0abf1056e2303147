package gameserver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/voicegate/voicegate/internal/models"
	identityRepo "github.com/voicegate/voicegate/internal/repositories/identity"
	"github.com/voicegate/voicegate/internal/services/dispatch"
	"github.com/voicegate/voicegate/internal/services/gatekeeper"
	"github.com/voicegate/voicegate/internal/services/ingest"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second

	defaultKickDelay = 500 * time.Millisecond
)

// DMSender is the fallback delivery path for players whose in-game whisper
// fails. Implemented by the Discord bot.
type DMSender interface {
	SendDM(ctx context.Context, externalID, text string) bool
}

// Client maintains the websocket connection to the game-server bridge. It
// feeds lifecycle and chat events into the core services and carries the
// outbound whisper/kick/relay actions.
type Client struct {
	url        string
	gatekeeper gatekeeper.Service
	ingest     ingest.Service
	dispatch   dispatch.Service
	identities identityRepo.Repository
	dmSender   DMSender
	kickDelay  time.Duration
	log        zerolog.Logger

	writeMu sync.Mutex
	conn    *websocket.Conn

	closed atomic.Bool
	done   chan struct{}
}

// Config holds the configuration for the game-server client
type Config struct {
	// URL is the websocket address of the game-server bridge
	URL string

	// IdentityRepo resolves usernames for the DM fallback
	IdentityRepo identityRepo.Repository

	// DMSender is the optional fallback delivery path
	DMSender DMSender

	// KickDelay is the pause between privilege elevation and the kick;
	// defaults to 500ms
	KickDelay time.Duration

	// Logger for connection and routing errors
	Logger zerolog.Logger
}

// New creates a new game-server client. The core services are bound at
// Start; the client itself is a constructor dependency of the gatekeeper
// (its Notifier and Kicker), so it has to exist first.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.URL == "" {
		return nil, errors.New("url cannot be empty")
	}
	if cfg.IdentityRepo == nil {
		return nil, errors.New("identity repository cannot be nil")
	}

	kickDelay := cfg.KickDelay
	if kickDelay <= 0 {
		kickDelay = defaultKickDelay
	}

	return &Client{
		url:        cfg.URL,
		identities: cfg.IdentityRepo,
		dmSender:   cfg.DMSender,
		kickDelay:  kickDelay,
		log:        cfg.Logger,
		done:       make(chan struct{}),
	}, nil
}

// Start binds the core services, dials the bridge and launches the read
// loop. The loop reconnects with bounded exponential backoff until Stop or
// context cancellation.
func (c *Client) Start(ctx context.Context, gk gatekeeper.Service, ing ingest.Service, disp dispatch.Service) error {
	if gk == nil || ing == nil || disp == nil {
		return errors.New("gatekeeper, ingest and dispatch services cannot be nil")
	}
	c.gatekeeper = gk
	c.ingest = ing
	c.dispatch = disp

	conn, err := c.dial()
	if err != nil {
		return fmt.Errorf("failed to connect to game server: %w", err)
	}
	c.setConn(conn)

	go c.readLoop(ctx)
	return nil
}

// Stop closes the connection and ends the read loop
func (c *Client) Stop() {
	if c.closed.Swap(true) {
		return
	}
	close(c.done)
	c.closeConn()
}

func (c *Client) dial() (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.writeMu.Lock()
	c.conn = conn
	c.writeMu.Unlock()
}

func (c *Client) closeConn() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn != nil {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"),
			time.Now().Add(500*time.Millisecond))
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) readLoop(ctx context.Context) {
	backoff := initialBackoff

	for {
		c.writeMu.Lock()
		conn := c.conn
		c.writeMu.Unlock()

		if conn != nil {
			var event envelope
			err := conn.ReadJSON(&event)
			if err == nil {
				c.route(ctx, &event)
				backoff = initialBackoff
				continue
			}

			if c.closed.Load() {
				return
			}
			c.log.Warn().Err(err).Msg("game stream read failed, reconnecting")
		}

		c.closeConn()

		// reconnect with backoff
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.done:
				return
			case <-time.After(backoff):
			}

			conn, err := c.dial()
			if err != nil {
				c.log.Warn().Err(err).Dur("backoff", backoff).Msg("game stream reconnect failed")
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
				continue
			}

			c.setConn(conn)
			c.log.Info().Str("url", c.url).Msg("game stream reconnected")
			backoff = initialBackoff
			break
		}
	}
}

// route maps one inbound frame to the core services
func (c *Client) route(ctx context.Context, event *envelope) {
	switch event.Type {
	case typeJoin:
		if err := c.gatekeeper.HandlePlayerJoin(ctx, &gatekeeper.HandlePlayerJoinInput{
			GameUsername: event.Username,
		}); err != nil {
			c.log.Error().Err(err).Str("player", event.Username).Msg("join handling failed")
		}
	case typeLeave:
		if err := c.gatekeeper.HandlePlayerLeave(ctx, &gatekeeper.HandlePlayerLeaveInput{
			GameUsername: event.Username,
		}); err != nil {
			c.log.Error().Err(err).Str("player", event.Username).Msg("leave handling failed")
		}
	case typeChat:
		c.routeChatLine(ctx, event.Line)
	default:
		c.log.Debug().Str("type", event.Type).Msg("unrecognized game stream frame")
	}
}

func (c *Client) routeChatLine(ctx context.Context, line string) {
	out, err := c.ingest.IngestLine(ctx, &ingest.IngestLineInput{Line: line})
	if err != nil {
		c.log.Error().Err(err).Msg("chat line ingestion failed")
		return
	}

	if out.IdentityLink != nil {
		if err := c.gatekeeper.HandleIdentityLink(ctx, &gatekeeper.HandleIdentityLinkInput{
			GameUsername: out.IdentityLink.GameUsername,
			ExternalID:   out.IdentityLink.ExternalID,
		}); err != nil {
			c.log.Error().Err(err).Str("player", out.IdentityLink.GameUsername).Msg("identity link failed")
		}
	}

	if out.Command != nil {
		reply, err := c.dispatch.Dispatch(ctx, &dispatch.DispatchInput{Command: out.Command})
		if err != nil {
			c.log.Error().Err(err).Str("sender", out.Command.Sender).Msg("command dispatch failed")
		} else if reply.Reply != "" {
			c.SendDirectMessage(ctx, out.Command.Sender, reply.Reply)
		}
	}

	if out.Relay != nil {
		c.Relay(ctx, out.Relay)
	}
}

// SendDirectMessage whispers a player in game, falling back to a Discord DM
// when the whisper cannot be written.
func (c *Client) SendDirectMessage(ctx context.Context, gameUsername, text string) bool {
	err := c.writeJSON(&envelope{
		Type:     typeTell,
		Username: gameUsername,
		Text:     text,
	})
	if err == nil {
		return true
	}

	c.log.Warn().Err(err).Str("player", gameUsername).Msg("whisper failed, trying DM fallback")

	if c.dmSender == nil {
		return false
	}

	ident, lookupErr := c.identities.GetByUsername(ctx, &identityRepo.GetByUsernameInput{
		GameUsername: gameUsername,
	})
	if lookupErr != nil {
		c.log.Warn().Err(lookupErr).Str("player", gameUsername).Msg("no identity for DM fallback")
		return false
	}

	return c.dmSender.SendDM(ctx, ident.ExternalID, text)
}

// Kick elevates the bot's privileges, waits briefly for the elevation to
// apply, then removes the player.
func (c *Client) Kick(ctx context.Context, gameUsername, reasonText string) bool {
	if err := c.writeJSON(&envelope{Type: typeOp}); err != nil {
		c.log.Warn().Err(err).Msg("privilege elevation failed")
	}

	select {
	case <-ctx.Done():
		return false
	case <-time.After(c.kickDelay):
	}

	err := c.writeJSON(&envelope{
		Type:     typeKick,
		Username: gameUsername,
		Reason:   reasonText,
	})
	if err != nil {
		c.log.Error().Err(err).Str("player", gameUsername).Msg("kick write failed")
		return false
	}
	return true
}

// Relay forwards a peer-relay payload to its mapped target
func (c *Client) Relay(ctx context.Context, event *models.PeerRelayEvent) {
	err := c.writeJSON(&envelope{
		Type:   typeRelay,
		Target: event.TargetID,
		Sender: event.Sender,
		Text:   event.Payload,
	})
	if err != nil {
		c.log.Warn().Err(err).Str("target", event.TargetID).Msg("relay write failed")
	}
}

func (c *Client) writeJSON(event *envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return errors.New("not connected")
	}
	return c.conn.WriteJSON(event)
}
