package state

import (
	"cypress/internal/domain/models"
)

// Action is the closed set of tree transitions. Every action is total:
// targeting an id that does not exist leaves the state unchanged.
type Action interface {
	isAction()
}

// SetWorkspaces replaces the whole collection. Dispatched once at load to
// seed private + shared + collaborating workspaces.
type SetWorkspaces struct {
	Workspaces []AppWorkspace
}

// AddWorkspace appends a workspace to the collection.
type AddWorkspace struct {
	Workspace AppWorkspace
}

// DeleteWorkspace removes a workspace by id.
type DeleteWorkspace struct {
	WorkspaceID string
}

// UpdateWorkspace merges a patch into the matching workspace.
type UpdateWorkspace struct {
	WorkspaceID string
	Patch       models.WorkspacePatch
}

// SetFolders replaces a workspace's folder list, re-sorted by created_at.
type SetFolders struct {
	WorkspaceID string
	Folders     []AppFolder
}

// AddFolder appends a folder to a workspace, keeping created_at order.
type AddFolder struct {
	WorkspaceID string
	Folder      AppFolder
}

// UpdateFolder merges a patch into the matching folder.
type UpdateFolder struct {
	WorkspaceID string
	FolderID    string
	Patch       models.FolderPatch
}

// DeleteFolder removes a folder from a workspace.
type DeleteFolder struct {
	WorkspaceID string
	FolderID    string
}

// SetFiles replaces a folder's file list, re-sorted by created_at.
type SetFiles struct {
	WorkspaceID string
	FolderID    string
	Files       []models.File
}

// AddFile appends a file to a folder, keeping created_at order.
type AddFile struct {
	WorkspaceID string
	FolderID    string
	File        models.File
}

// UpdateFile merges a patch into the matching file.
type UpdateFile struct {
	WorkspaceID string
	FolderID    string
	FileID      string
	Patch       models.FilePatch
}

// DeleteFile removes a file from a folder.
type DeleteFile struct {
	WorkspaceID string
	FolderID    string
	FileID      string
}

func (SetWorkspaces) isAction()   {}
func (AddWorkspace) isAction()    {}
func (DeleteWorkspace) isAction() {}
func (UpdateWorkspace) isAction() {}
func (SetFolders) isAction()      {}
func (AddFolder) isAction()       {}
func (UpdateFolder) isAction()    {}
func (DeleteFolder) isAction()    {}
func (SetFiles) isAction()        {}
func (AddFile) isAction()         {}
func (UpdateFile) isAction()      {}
func (DeleteFile) isAction()      {}
