package state

import (
	"strings"
	"sync"
)

// Focus identifies the entity the user is currently navigated to. Any field
// may be empty when nothing is selected at that depth.
type Focus struct {
	WorkspaceID string `json:"workspace_id,omitempty"`
	FolderID    string `json:"folder_id,omitempty"`
	FileID      string `json:"file_id,omitempty"`
}

// Listener is notified with the snapshot produced by each dispatch.
type Listener func(AppState)

// Store owns the workspace tree and serializes every mutation through
// Dispatch. It is created at session start with its initial state injected
// and passed explicitly to consumers; there is no package-level instance.
type Store struct {
	mu        sync.Mutex
	state     AppState
	focus     Focus
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a store seeded with the given state.
func NewStore(initial AppState) *Store {
	return &Store{
		state:     Reduce(AppState{}, SetWorkspaces{Workspaces: initial.Workspaces}),
		listeners: make(map[int]Listener),
	}
}

// Dispatch applies the action and notifies subscribers with the resulting
// snapshot. Actions are applied strictly in call order; the reducer runs
// under the store lock so two rapid edits to the same field land in
// issuance order.
func (s *Store) Dispatch(a Action) AppState {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next
}

// Snapshot returns the current state. The returned value is never mutated
// by later dispatches.
func (s *Store) Snapshot() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener and returns an unsubscribe function.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Focus returns the current navigation focus. Consumers must tolerate empty
// ids: nothing is focused until the first navigation.
func (s *Store) Focus() Focus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus
}

// SetFocus records the focused workspace/folder/file directly.
func (s *Store) SetFocus(f Focus) {
	s.mu.Lock()
	s.focus = f
	s.mu.Unlock()
}

// SetFocusFromPath derives the focus from a dashboard URL path such as
// "/dashboard/<workspaceId>/<folderId>/<fileId>". Shorter paths focus only
// the segments present; paths that never reach the dashboard clear the focus.
func (s *Store) SetFocusFromPath(path string) Focus {
	f := FocusFromPath(path)
	s.SetFocus(f)
	return f
}

// FocusFromPath parses a dashboard URL path without touching any store.
func FocusFromPath(path string) Focus {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] != "dashboard" {
		return Focus{}
	}

	var f Focus
	if len(segments) > 1 {
		f.WorkspaceID = segments[1]
	}
	if len(segments) > 2 {
		f.FolderID = segments[2]
	}
	if len(segments) > 3 {
		f.FileID = segments[3]
	}
	return f
}
