package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shelfshare/shelfshare-go/internal/infrastructure/observability/logging"
	"github.com/shelfshare/shelfshare-go/pkg/config"
)

// Client pumps messages between one websocket connection and the hub.
type Client struct {
	connID string
	userID string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger *logging.ChanneledLogger
}

func newClient(connID, userID string, hub *Hub, conn *websocket.Conn, logger *logging.ChanneledLogger) *Client {
	return &Client{
		connID: connID,
		userID: userID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, config.ClientSendBufferSize),
		logger: logger,
	}
}

// deliver queues a message without blocking the hub. A full buffer drops
// the message; presence state is re-broadcast on the next transition, so a
// slow consumer loses intermediate counts, not the final one.
func (c *Client) deliver(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// readPump consumes client frames until the connection drops, dispatching
// each to the hub. It owns teardown: the hub unregisters first, so no new
// deliveries can race the channel close.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c.connID)
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Realtime().Warn("Unexpected close", "connId", c.connID, "error", err)
			}
			return
		}
		c.dispatch(raw)
	}
}

// dispatch routes one inbound frame. Malformed or unknown frames are
// ignored; the protocol has no error replies.
func (c *Client) dispatch(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Realtime().Debug("Malformed frame ignored", "connId", c.connID, "error", err)
		return
	}
	var req RoomRequest
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &req); err != nil {
			c.logger.Realtime().Debug("Malformed payload ignored", "connId", c.connID, "event", env.Event, "error", err)
			return
		}
	}

	switch env.Event {
	case EventBookJoin:
		if req.BookID != "" {
			c.hub.JoinBook(c.connID, req.BookID)
		}
	case EventBookLeave:
		if req.BookID != "" {
			c.hub.LeaveBook(c.connID, req.BookID)
		}
	case EventThreadJoin:
		if req.ThreadID != "" {
			c.hub.JoinThread(c.connID, req.ThreadID)
		}
	case EventThreadLeave:
		if req.ThreadID != "" {
			c.hub.LeaveThread(c.connID, req.ThreadID)
		}
	case EventTypingStart:
		if req.ThreadID != "" {
			c.hub.TypingStart(c.connID, req.ThreadID)
		}
	case EventTypingStop:
		if req.ThreadID != "" {
			c.hub.TypingStop(c.connID, req.ThreadID)
		}
	default:
		c.logger.Realtime().Debug("Unknown event ignored", "connId", c.connID, "event", env.Event)
	}
}

// writePump drains the send buffer onto the wire and keeps the connection
// alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
