package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"fintrust-support-be/internal/entity"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is a middleman between one websocket connection and the presence
// registry. It implements presence.Handle.
type Client struct {
	// Unique per connection; the registry and session store key on this.
	ID string

	Conn *websocket.Conn

	UserID uuid.UUID
	Role   entity.UserRole

	// Buffered channel of outbound frames.
	Send chan []byte

	closeOnce sync.Once

	// onClose runs exactly once when the read pump exits.
	onClose func(*Client)
}

func NewClient(conn *websocket.Conn, userID uuid.UUID, role entity.UserRole, onClose func(*Client)) *Client {
	return &Client{
		ID:      uuid.NewString(),
		Conn:    conn,
		UserID:  userID,
		Role:    role,
		Send:    make(chan []byte, 256),
		onClose: onClose,
	}
}

// Key implements presence.Handle.
func (c *Client) Key() string {
	return c.ID
}

// Push implements presence.Handle. Frames are JSON {type, data} envelopes.
// Returns false when the send buffer is full or already closed; the caller
// treats that as the connection being gone.
func (c *Client) Push(event string, data interface{}) bool {
	payload, err := json.Marshal(map[string]interface{}{
		"type": event,
		"data": data,
	})
	if err != nil {
		return false
	}

	defer func() {
		// Send may be closed concurrently by the write pump teardown.
		_ = recover()
	}()

	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// readPump pumps control frames from the websocket connection and triggers
// disconnect cleanup when the connection drops.
func (c *Client) readPump() {
	defer func() {
		c.closeOnce.Do(func() {
			if c.onClose != nil {
				c.onClose(c)
			}
			close(c.Send)
		})
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
		// Inbound traffic is ignored; all requests arrive over REST.
	}
}

// writePump pumps frames from the Send channel to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush any frames queued behind this one.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
