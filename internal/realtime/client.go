package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is one websocket feed connection, pinned to a single chat.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	chatID uuid.UUID
	userID uuid.UUID

	send      chan []byte
	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, chatID, userID uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		chatID: chatID,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
}

// Serve registers the client and runs its pumps. It blocks until the
// connection drops, then unregisters and closes it.
func (c *Client) Serve() {
	c.hub.Register(c)

	go c.writePump()
	c.readPump()
}

// readPump drains inbound frames. The feed is push-only, so the client is
// not expected to send anything except control frames; the read loop exists
// to notice disconnects and answer pings.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("feed connection read error", "chat_id", c.chatID, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue hands an encoded event to the write pump without blocking. Slow
// consumers lose events rather than stalling the hub.
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		slog.Warn("feed client send buffer full, dropping event", "chat_id", c.chatID)
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}
