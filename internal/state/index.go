package state

import (
	"cypress/internal/domain/models"
)

// Index is an id-keyed view over one snapshot, replacing repeated linear
// walks through the nested lists. It holds pointers into the snapshot's
// nodes, which is safe because snapshots are never mutated; rebuild the
// index when a new snapshot is taken.
type Index struct {
	workspaces map[string]*AppWorkspace
	folders    map[string]*AppFolder
	files      map[string]*models.File

	folderWorkspace map[string]string // folder id -> workspace id
	fileFolder      map[string]string // file id -> folder id
}

// NewIndex builds an index over the snapshot.
func NewIndex(s AppState) *Index {
	idx := &Index{
		workspaces:      make(map[string]*AppWorkspace, len(s.Workspaces)),
		folders:         make(map[string]*AppFolder),
		files:           make(map[string]*models.File),
		folderWorkspace: make(map[string]string),
		fileFolder:      make(map[string]string),
	}

	for wi := range s.Workspaces {
		w := &s.Workspaces[wi]
		idx.workspaces[w.ID] = w
		for fi := range w.Folders {
			f := &w.Folders[fi]
			idx.folders[f.ID] = f
			idx.folderWorkspace[f.ID] = w.ID
			for di := range f.Files {
				file := &f.Files[di]
				idx.files[file.ID] = file
				idx.fileFolder[file.ID] = f.ID
			}
		}
	}
	return idx
}

// Workspace looks up a workspace by id, nil if absent.
func (idx *Index) Workspace(id string) *AppWorkspace {
	return idx.workspaces[id]
}

// Folder looks up a folder by id, nil if absent.
func (idx *Index) Folder(id string) *AppFolder {
	return idx.folders[id]
}

// File looks up a file by id, nil if absent.
func (idx *Index) File(id string) *models.File {
	return idx.files[id]
}

// FolderParent returns the owning workspace id, "" if the folder is unknown.
func (idx *Index) FolderParent(folderID string) string {
	return idx.folderWorkspace[folderID]
}

// FileParent returns the owning folder id, "" if the file is unknown.
func (idx *Index) FileParent(fileID string) string {
	return idx.fileFolder[fileID]
}
