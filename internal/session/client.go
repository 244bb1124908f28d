package session

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Praveenkumar76/skypad-backend/internal/models"
)

type Client struct {
	UserID string
	Conn   *websocket.Conn
	mu     sync.Mutex
	hook   func(models.WSFrame)
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{UserID: userID, Conn: conn}
}

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(models.WSFrame)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

// Send delivers one frame best-effort. A write error is swallowed: delivery
// is at-most-once and a disconnected client reconciles via the status query.
func (c *Client) Send(frame models.WSFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(frame)
		return
	}
	if c.Conn == nil {
		return
	}
	_ = c.Conn.WriteJSON(frame)
}
