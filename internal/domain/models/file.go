package models

import (
	"time"
)

// File is a rich-text document owned by exactly one folder. WorkspaceID is
// denormalized from the parent folder at creation time and never re-validated.
type File struct {
	ID          string    `json:"id" db:"id"`
	FolderID    string    `json:"folder_id" db:"folder_id"`
	WorkspaceID string    `json:"workspace_id" db:"workspace_id"`
	Title       string    `json:"title" db:"title"`
	IconID      string    `json:"icon_id" db:"icon_id"`
	Data        *string   `json:"data,omitempty" db:"data"` // rich-document payload, opaque to the core
	BannerURL   *string   `json:"banner_url,omitempty" db:"banner_url"`
	InTrash     *string   `json:"in_trash,omitempty" db:"in_trash"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// InTrashed reports whether the file is soft-deleted.
func (f *File) InTrashed() bool {
	return f.InTrash != nil && *f.InTrash != ""
}
