package view

import (
	"cypress/internal/domain/models"
	"cypress/internal/state"
)

// TrashListing collects the soft-deleted nodes of one workspace.
type TrashListing struct {
	Folders []models.Folder `json:"folders"`
	Files   []models.File   `json:"files"`
}

// TrashItems returns every trashed folder directly under the workspace and
// every trashed file across all of its folders. Files are scanned
// independently of whether their parent folder is itself trashed: trashing
// a folder does not flag its files.
func TrashItems(s state.AppState, workspaceID string) TrashListing {
	listing := TrashListing{
		Folders: []models.Folder{},
		Files:   []models.File{},
	}

	workspace := state.NewIndex(s).Workspace(workspaceID)
	if workspace == nil {
		return listing
	}

	for _, folder := range workspace.Folders {
		if folder.InTrashed() {
			listing.Folders = append(listing.Folders, folder.Folder)
		}
		for _, file := range folder.Files {
			if file.InTrashed() {
				listing.Files = append(listing.Files, file)
			}
		}
	}
	return listing
}
