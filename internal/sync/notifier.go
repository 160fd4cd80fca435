// Package sync coordinates optimistic local mutations with best-effort
// remote persistence. Every user edit is dispatched into the state store
// synchronously, then persisted through the repository gateway without
// blocking the caller. A confirmed gateway failure rolls the optimistic
// change back and raises a notification, uniformly across operation kinds.
package sync

import (
	"log/slog"
)

// Notifier is the toast/notification collaborator. The UI supplies its own
// implementation; the default just logs.
type Notifier interface {
	Error(message string)
	Success(message string)
}

// LogNotifier reports notifications through slog. Used as the fallback when
// no UI notifier is wired in (cmd/seed, tests).
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Error(message string) {
	n.Logger.Error("notification", "level", "error", "message", message)
}

func (n *LogNotifier) Success(message string) {
	n.Logger.Info("notification", "level", "success", "message", message)
}
