package sync

import (
	"log/slog"
	stdsync "sync"
	"time"

	"cypress/internal/domain/repositories"
	"cypress/internal/state"
)

// Sessions hands out one Syncer, and with it one state store, per
// authenticated user. A user's tree holds only the workspaces they can see;
// a store shared across users would expose private workspaces between
// tenants. Repositories and the notifier are shared, the store and
// debouncer are not.
type Sessions struct {
	workspaces    repositories.WorkspaceRepository
	folders       repositories.FolderRepository
	files         repositories.FileRepository
	collaborators repositories.CollaboratorRepository
	txManager     repositories.TransactionManager
	notifier      Notifier
	debounceDelay time.Duration
	logger        *slog.Logger

	mu     stdsync.Mutex
	byUser map[string]*Syncer
}

// NewSessions wires the per-user sync registry.
func NewSessions(
	workspaces repositories.WorkspaceRepository,
	folders repositories.FolderRepository,
	files repositories.FileRepository,
	collaborators repositories.CollaboratorRepository,
	txManager repositories.TransactionManager,
	notifier Notifier,
	debounceDelay time.Duration,
	logger *slog.Logger,
) *Sessions {
	return &Sessions{
		workspaces:    workspaces,
		folders:       folders,
		files:         files,
		collaborators: collaborators,
		txManager:     txManager,
		notifier:      notifier,
		debounceDelay: debounceDelay,
		logger:        logger,
		byUser:        make(map[string]*Syncer),
	}
}

// For returns the caller's syncer, creating it with a fresh empty store on
// first use. Subsequent calls for the same user return the same syncer.
func (s *Sessions) For(userID string) *Syncer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sy, ok := s.byUser[userID]; ok {
		return sy
	}
	sy := NewSyncer(
		state.NewStore(state.AppState{}),
		s.workspaces, s.folders, s.files, s.collaborators, s.txManager,
		s.notifier, s.debounceDelay,
		s.logger.With("user_id", userID),
	)
	s.byUser[userID] = sy
	return sy
}

// Close flushes every session's pending debounced edits and waits for their
// in-flight persistence calls.
func (s *Sessions) Close() {
	s.mu.Lock()
	syncers := make([]*Syncer, 0, len(s.byUser))
	for _, sy := range s.byUser {
		syncers = append(syncers, sy)
	}
	s.mu.Unlock()

	for _, sy := range syncers {
		sy.Close()
	}
}
