package repositories

import (
	"context"

	"cypress/internal/domain/models"
)

// WorkspaceRepository is the persistence gateway for workspaces.
//
// Gateway contract (shared by all entity repositories here):
//   - every id argument must be a well-formed UUID; malformed ids fail with
//     domain.ErrInvalidID before the store is touched
//   - Update and Delete against a missing row are silent no-ops
//   - list results are ordered by created_at ascending
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *models.Workspace) error
	GetByID(ctx context.Context, id string) (*models.Workspace, error)
	Update(ctx context.Context, id string, patch models.WorkspacePatch) error
	Delete(ctx context.Context, id string) error

	// ListPrivate returns workspaces owned by the user with no collaborators.
	ListPrivate(ctx context.Context, userID string) ([]models.Workspace, error)
	// ListShared returns workspaces owned by the user that have collaborators.
	ListShared(ctx context.Context, userID string) ([]models.Workspace, error)
	// ListCollaborating returns workspaces the user was added to but does not own.
	ListCollaborating(ctx context.Context, userID string) ([]models.Workspace, error)
}

// FolderRepository is the persistence gateway for folders.
type FolderRepository interface {
	Create(ctx context.Context, folder *models.Folder) error
	GetByID(ctx context.Context, id string) (*models.Folder, error)
	Update(ctx context.Context, id string, patch models.FolderPatch) error
	Delete(ctx context.Context, id string) error
	ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Folder, error)
	DeleteByWorkspace(ctx context.Context, workspaceID string) error
}

// FileRepository is the persistence gateway for files.
type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id string) (*models.File, error)
	Update(ctx context.Context, id string, patch models.FilePatch) error
	Delete(ctx context.Context, id string) error
	ListByFolder(ctx context.Context, folderID string) ([]models.File, error)
	DeleteByWorkspace(ctx context.Context, workspaceID string) error
}
