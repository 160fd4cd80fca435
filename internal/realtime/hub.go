package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// Hub maintains active presence clients and relays events between them.
// Rooms are created on first join and removed with their last member.
type Hub struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *slog.Logger
}

// NewHub creates a new presence hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes hub events until Shutdown is called. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("presence client connected", "user_id", client.userID)

		case client := <-h.unregister:
			h.removeClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.rooms = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return
		}
	}
}

// Shutdown disconnects all clients and stops the run loop.
func (h *Hub) Shutdown() {
	close(h.done)
}

// Register hands a client to the run loop. Returns immediately if the hub
// has shut down.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client from the run loop. Pumps call this from their
// exit path, which can race Shutdown; the done case keeps them from
// blocking on a loop that has already returned.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	vacated := make([]string, 0, len(client.rooms))
	for room := range client.rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, room)
			} else {
				vacated = append(vacated, room)
			}
		}
	}
	close(client.send)
	h.mu.Unlock()

	h.logger.Debug("presence client disconnected", "user_id", client.userID)

	// Tell remaining members who is still online.
	for _, room := range vacated {
		h.broadcastEvent(h.rosterEvent(room))
	}
}

// JoinRoom adds a client to a room and announces the updated roster.
func (h *Hub) JoinRoom(client *Client, room string) {
	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.rooms[room] = true
	h.mu.Unlock()

	h.broadcastEvent(h.rosterEvent(room))
}

// LeaveRoom removes a client from a room and announces the updated roster.
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(client.rooms, room)
	h.mu.Unlock()

	h.broadcastEvent(h.rosterEvent(room))
}

// Online returns the members currently present in a room.
func (h *Hub) Online(room string) []Member {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := []Member{}
	for client := range h.rooms[room] {
		members = append(members, Member{UserID: client.userID, Email: client.email})
	}
	return members
}

func (h *Hub) rosterEvent(room string) *Event {
	return &Event{
		Type:      EventPresence,
		Room:      room,
		Online:    h.Online(room),
		Timestamp: time.Now().UTC(),
	}
}

// broadcastEvent sends an event to every client in its room, skipping the
// sender for cursor relays.
func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal presence event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[event.Room] {
		if event.Type == EventCursorMove && client.userID == event.From {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Client buffer full, skip
			h.logger.Warn("presence client send buffer full", "user_id", client.userID)
		}
	}
}
