package web

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/voicegate/voicegate/internal/common/uuid"
)

const (
	clientSendBuffer = 8
	writeWait        = 10 * time.Second
)

// Hub fans snapshot payloads out to dashboard websocket subscribers. Clients
// that cannot keep up are dropped rather than allowed to stall a broadcast.
type Hub struct {
	log  zerolog.Logger
	uuid uuid.UUID

	register   chan *client
	unregister chan *client
	broadcast  chan []byte

	// done is closed when Run exits so attach/detach sends cannot block
	// against a stopped hub
	done chan struct{}
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a new broadcast hub
func NewHub(log zerolog.Logger, ids uuid.UUID) *Hub {
	if ids == nil {
		ids = uuid.New()
	}

	return &Hub{
		log:        log,
		uuid:       ids,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 1),
		done:       make(chan struct{}),
	}
}

// Run owns the client table until the context ends
func (h *Hub) Run(ctx context.Context) {
	clients := make(map[*client]struct{})

	defer func() {
		close(h.done)
		for c := range clients {
			close(c.send)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			clients[c] = struct{}{}
			h.log.Debug().Str("client_id", c.id).Msg("dashboard client connected")
		case c := <-h.unregister:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				close(c.send)
				h.log.Debug().Str("client_id", c.id).Msg("dashboard client disconnected")
			}
		case payload := <-h.broadcast:
			for c := range clients {
				select {
				case c.send <- payload:
				default:
					// slow client
					delete(clients, c)
					close(c.send)
					h.log.Warn().Str("client_id", c.id).Msg("dropping slow dashboard client")
				}
			}
		}
	}
}

// Broadcast queues a payload for every subscriber
func (h *Hub) Broadcast(payload []byte) {
	select {
	case h.broadcast <- payload:
	default:
		// overwrite the pending payload with the fresher one
		select {
		case <-h.broadcast:
		default:
		}
		h.broadcast <- payload
	}
}

// Attach registers a freshly upgraded connection with the hub
func (h *Hub) Attach(conn *websocket.Conn) {
	c := &client{
		id:   h.uuid.NewUUID(),
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(h)
}

func (c *client) writePump() {
	defer c.conn.Close()

	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}

	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

// readPump discards inbound frames; its job is detecting disconnects
func (c *client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
