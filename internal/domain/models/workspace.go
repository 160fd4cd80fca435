package models

import (
	"time"
)

// Workspace is the top-level container owned by one user. It may be shared
// with other users through collaborator rows; membership is not embedded here.
type Workspace struct {
	ID             string    `json:"id" db:"id"`
	WorkspaceOwner string    `json:"workspace_owner" db:"workspace_owner"`
	Title          string    `json:"title" db:"title"`
	IconID         string    `json:"icon_id" db:"icon_id"`
	Data           *string   `json:"data,omitempty" db:"data"`
	Logo           *string   `json:"logo,omitempty" db:"logo"`       // opaque blob ref
	BannerURL      *string   `json:"banner_url,omitempty" db:"banner_url"` // opaque blob ref
	InTrash        *string   `json:"in_trash,omitempty" db:"in_trash"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// InTrashed reports whether the workspace is soft-deleted.
func (w *Workspace) InTrashed() bool {
	return w.InTrash != nil && *w.InTrash != ""
}
