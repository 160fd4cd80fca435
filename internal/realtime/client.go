package realtime

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client represents one connected collaborator.
type Client struct {
	userID string
	email  string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	rooms  map[string]bool
	logger *slog.Logger
}

// NewClient wraps an upgraded connection for the given user.
func NewClient(hub *Hub, conn *websocket.Conn, userID, email string, logger *slog.Logger) *Client {
	return &Client{
		userID: userID,
		email:  email,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		rooms:  make(map[string]bool),
		logger: logger,
	}
}

// ReadPump pumps events from the connection to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("presence read error", "user_id", c.userID, "error", err)
			}
			break
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			c.logger.Warn("invalid presence event", "user_id", c.userID, "error", err)
			continue
		}

		// The sender's identity comes from the verified token, never the payload.
		event.From = c.userID
		event.Email = c.email
		event.Timestamp = time.Now().UTC()

		c.handleEvent(&event)
	}
}

// WritePump pumps events from the hub to the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("presence write error", "user_id", c.userID, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventJoin:
		if event.Room != "" {
			c.hub.JoinRoom(c, event.Room)
		}

	case EventLeave:
		if event.Room != "" {
			c.hub.LeaveRoom(c, event.Room)
		}

	case EventCursorMove:
		if event.Room != "" && c.rooms[event.Room] {
			c.hub.broadcast <- event
		}

	case EventPing:
		pong := &Event{Type: EventPong, Timestamp: time.Now().UTC()}
		data, _ := json.Marshal(pong)
		select {
		case c.send <- data:
		default:
		}
	}
}
