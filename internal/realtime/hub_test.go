package realtime

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func testClient(userID, email string) *Client {
	return &Client{
		userID: userID,
		email:  email,
		send:   make(chan []byte, 16),
		rooms:  make(map[string]bool),
		logger: slog.New(slog.DiscardHandler),
	}
}

func drain(t *testing.T, c *Client) []Event {
	t.Helper()
	var events []Event
	for {
		select {
		case data := <-c.send:
			var ev Event
			if err := json.Unmarshal(data, &ev); err != nil {
				t.Fatalf("unmarshal event: %v", err)
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestJoinRoomBroadcastsRoster(t *testing.T) {
	hub := NewHub(slog.New(slog.DiscardHandler))
	alice := testClient("u1", "alice@example.com")
	bob := testClient("u2", "bob@example.com")

	hub.JoinRoom(alice, "ws1")
	hub.JoinRoom(bob, "ws1")

	// Bob's join reaches both members.
	events := drain(t, alice)
	if len(events) != 2 {
		t.Fatalf("alice received %d events, want 2", len(events))
	}
	last := events[len(events)-1]
	if last.Type != EventPresence || len(last.Online) != 2 {
		t.Errorf("final roster = %+v, want presence with 2 members", last)
	}
}

func TestLeaveRoomShrinksRoster(t *testing.T) {
	hub := NewHub(slog.New(slog.DiscardHandler))
	alice := testClient("u1", "alice@example.com")
	bob := testClient("u2", "bob@example.com")

	hub.JoinRoom(alice, "ws1")
	hub.JoinRoom(bob, "ws1")
	drain(t, alice)

	hub.LeaveRoom(bob, "ws1")

	events := drain(t, alice)
	if len(events) != 1 {
		t.Fatalf("alice received %d events, want 1", len(events))
	}
	if len(events[0].Online) != 1 || events[0].Online[0].UserID != "u1" {
		t.Errorf("roster after leave = %+v", events[0].Online)
	}

	if online := hub.Online("ws1"); len(online) != 1 {
		t.Errorf("Online() = %+v, want 1 member", online)
	}
}

func TestCursorMoveSkipsSender(t *testing.T) {
	hub := NewHub(slog.New(slog.DiscardHandler))
	alice := testClient("u1", "alice@example.com")
	bob := testClient("u2", "bob@example.com")

	hub.JoinRoom(alice, "ws1")
	hub.JoinRoom(bob, "ws1")
	drain(t, alice)
	drain(t, bob)

	hub.broadcastEvent(&Event{
		Type:   EventCursorMove,
		Room:   "ws1",
		From:   "u1",
		Cursor: map[string]any{"x": 10.0, "y": 20.0},
	})

	if events := drain(t, alice); len(events) != 0 {
		t.Errorf("sender received own cursor event: %+v", events)
	}
	events := drain(t, bob)
	if len(events) != 1 || events[0].Type != EventCursorMove {
		t.Fatalf("bob events = %+v, want one cursor-move", events)
	}
	if events[0].Cursor["x"] != 10.0 {
		t.Errorf("cursor payload = %+v", events[0].Cursor)
	}
}

func TestEmptyRoomIsRemoved(t *testing.T) {
	hub := NewHub(slog.New(slog.DiscardHandler))
	alice := testClient("u1", "alice@example.com")

	hub.JoinRoom(alice, "ws1")
	hub.LeaveRoom(alice, "ws1")

	hub.mu.RLock()
	_, exists := hub.rooms["ws1"]
	hub.mu.RUnlock()
	if exists {
		t.Error("empty room was not removed")
	}
}

func TestUnregisterReturnsAfterShutdown(t *testing.T) {
	hub := NewHub(slog.New(slog.DiscardHandler))
	go hub.Run()

	alice := testClient("u1", "alice@example.com")
	alice.hub = hub
	hub.Register(alice)
	hub.Shutdown()

	// The read pump unregisters on its way out. With the run loop gone,
	// that must still return instead of hanging the goroutine.
	returned := make(chan struct{})
	go func() {
		hub.Unregister(alice)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked after hub shutdown")
	}
}
