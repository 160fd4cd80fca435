package models

import (
	"time"
)

// Folder belongs to exactly one workspace.
type Folder struct {
	ID          string    `json:"id" db:"id"`
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	Title       string    `json:"title" db:"title"`
	IconID      string    `json:"icon_id" db:"icon_id"`
	Data        *string   `json:"data,omitempty" db:"data"`
	BannerURL   *string   `json:"banner_url,omitempty" db:"banner_url"`
	InTrash     *string   `json:"in_trash,omitempty" db:"in_trash"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// InTrashed reports whether the folder is soft-deleted.
func (f *Folder) InTrashed() bool {
	return f.InTrash != nil && *f.InTrash != ""
}
