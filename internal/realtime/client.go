package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBuffer     = 256
)

// NewUpgrader accepts browser origins from the allow list. Requests without
// an Origin header (native clients) are accepted.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed["*"] || allowed[origin]
		},
	}
}

// Client is one websocket connection bound to an authenticated user.
type Client struct {
	conn   *websocket.Conn
	hub    *Hub
	userID uuid.UUID

	mu     sync.Mutex
	send   chan []byte
	closed bool
	once   sync.Once
}

// Serve registers conn with the hub and starts its pumps.
func Serve(ctx context.Context, h *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	c := &Client{conn: conn, hub: h, userID: userID, send: make(chan []byte, sendBuffer)}
	h.Register(ctx, c)
	go c.writePump()
	go c.readPump(ctx)
	return c
}

func (c *Client) UserID() uuid.UUID {
	return c.userID
}

func (c *Client) Deliver(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Close unregisters the client and stops both pumps. Safe to call more than once.
func (c *Client) Close() {
	c.once.Do(func() {
		c.hub.Unregister(context.Background(), c)
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		_ = c.conn.Close()
	})
}

func (c *Client) readPump(ctx context.Context) {
	defer c.Close()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.hub.Touch(ctx, c.userID)
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket closed unexpectedly", "user_id", c.userID, "error", err)
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Event == "" {
			if frame, encErr := encode(EventError, errorPayload{Error: "malformed frame", Code: "validation_error"}); encErr == nil {
				c.Deliver(frame)
			}
			continue
		}
		if !c.hub.Submit(c, env) {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
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
