package view

import (
	"cypress/internal/state"
)

// NodeKind selects which entity a title lookup targets.
type NodeKind string

const (
	KindWorkspace NodeKind = "workspace"
	KindFolder    NodeKind = "folder"
	KindFile      NodeKind = "file"
)

// ResolveTitle prefers the live tree's title for the node and falls back to
// the server-rendered one when the tree has no entry yet or the entry's
// title is empty. Keeps titles from flickering before the tree hydrates.
func ResolveTitle(s state.AppState, kind NodeKind, id, fallback string) string {
	idx := state.NewIndex(s)

	var live string
	switch kind {
	case KindWorkspace:
		if w := idx.Workspace(id); w != nil {
			live = w.Title
		}
	case KindFolder:
		if f := idx.Folder(id); f != nil {
			live = f.Title
		}
	case KindFile:
		if f := idx.File(id); f != nil {
			live = f.Title
		}
	}

	if live == "" {
		return fallback
	}
	return live
}
