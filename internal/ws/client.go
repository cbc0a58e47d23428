package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
	maxMessageLen = 64 * 1024
)

// Client is a single websocket connection, identified by a generated id
// for the lifetime of the connection.
type Client struct {
	ID       string
	UserName string

	conn   *websocket.Conn
	send   chan []byte
	closed int32
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Send queues an envelope for delivery, dropping it if the client's buffer
// is full rather than blocking the broadcaster.
func (c *Client) Send(env Envelope) {
	b, err := json.Marshal(env)
	if err != nil {
		return
	}
	select {
	case c.send <- b:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

func (c *Client) close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		close(c.send)
		_ = c.conn.Close()
	}
}
