package realtime

import "time"

// EventType defines presence channel events.
type EventType string

const (
	// Client -> server
	EventJoin       EventType = "join"
	EventLeave      EventType = "leave"
	EventCursorMove EventType = "cursor-move"
	EventPing       EventType = "ping"

	// Server -> client
	EventPresence EventType = "presence"
	EventPong     EventType = "pong"
)

// Event is the wire format for the presence channel. Room is the id of the
// workspace, folder or file the client is viewing.
type Event struct {
	Type      EventType      `json:"type"`
	Room      string         `json:"room,omitempty"`
	From      string         `json:"from,omitempty"` // user id
	Email     string         `json:"email,omitempty"`
	Cursor    map[string]any `json:"cursor,omitempty"`
	Online    []Member       `json:"online,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Member identifies one online collaborator in a room.
type Member struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
