package state

import (
	"cypress/internal/domain/models"
)

// AppFolder is a folder with its files hydrated, ordered by created_at.
type AppFolder struct {
	models.Folder
	Files []models.File `json:"files"`
}

// AppWorkspace is a workspace with its folders hydrated, ordered by created_at.
type AppWorkspace struct {
	models.Workspace
	Folders []AppFolder `json:"folders"`
}

// AppState is the normalized in-memory tree of every workspace visible to
// the current user: private, owned-shared and collaborating.
//
// Snapshots are immutable: the reducer never mutates a previously returned
// AppState, so a snapshot handed to a consumer stays valid while later
// actions are dispatched.
type AppState struct {
	Workspaces []AppWorkspace `json:"workspaces"`
}

// NewWorkspace wraps a bare workspace row with an empty folder list, the
// shape SetWorkspaces seeds at load time.
func NewWorkspace(w models.Workspace) AppWorkspace {
	return AppWorkspace{Workspace: w, Folders: []AppFolder{}}
}

// NewFolder wraps a bare folder row with an empty file list.
func NewFolder(f models.Folder) AppFolder {
	return AppFolder{Folder: f, Files: []models.File{}}
}
