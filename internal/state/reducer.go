package state

import (
	"sort"

	"cypress/internal/domain/models"
)

// Reduce applies an action to a snapshot and returns the next snapshot.
// It is a pure total function: no side effects, no mutation of s, unknown
// target ids leave the state unchanged. List-producing transitions return
// freshly ordered collections; untouched branches are structurally shared.
func Reduce(s AppState, a Action) AppState {
	switch a := a.(type) {
	case SetWorkspaces:
		ws := make([]AppWorkspace, len(a.Workspaces))
		copy(ws, a.Workspaces)
		return AppState{Workspaces: ws}

	case AddWorkspace:
		ws := make([]AppWorkspace, 0, len(s.Workspaces)+1)
		ws = append(ws, s.Workspaces...)
		ws = append(ws, a.Workspace)
		return AppState{Workspaces: ws}

	case DeleteWorkspace:
		ws := make([]AppWorkspace, 0, len(s.Workspaces))
		for _, w := range s.Workspaces {
			if w.ID != a.WorkspaceID {
				ws = append(ws, w)
			}
		}
		return AppState{Workspaces: ws}

	case UpdateWorkspace:
		return mapWorkspace(s, a.WorkspaceID, func(w AppWorkspace) AppWorkspace {
			a.Patch.Apply(&w.Workspace)
			return w
		})

	case SetFolders:
		return mapWorkspace(s, a.WorkspaceID, func(w AppWorkspace) AppWorkspace {
			folders := make([]AppFolder, len(a.Folders))
			copy(folders, a.Folders)
			sortFolders(folders)
			w.Folders = folders
			return w
		})

	case AddFolder:
		return mapWorkspace(s, a.WorkspaceID, func(w AppWorkspace) AppWorkspace {
			folders := make([]AppFolder, 0, len(w.Folders)+1)
			folders = append(folders, w.Folders...)
			folders = append(folders, a.Folder)
			sortFolders(folders)
			w.Folders = folders
			return w
		})

	case UpdateFolder:
		return mapFolder(s, a.WorkspaceID, a.FolderID, func(f AppFolder) AppFolder {
			a.Patch.Apply(&f.Folder)
			return f
		})

	case DeleteFolder:
		return mapWorkspace(s, a.WorkspaceID, func(w AppWorkspace) AppWorkspace {
			folders := make([]AppFolder, 0, len(w.Folders))
			for _, f := range w.Folders {
				if f.ID != a.FolderID {
					folders = append(folders, f)
				}
			}
			w.Folders = folders
			return w
		})

	case SetFiles:
		return mapFolder(s, a.WorkspaceID, a.FolderID, func(f AppFolder) AppFolder {
			files := make([]models.File, len(a.Files))
			copy(files, a.Files)
			sortFiles(files)
			f.Files = files
			return f
		})

	case AddFile:
		return mapFolder(s, a.WorkspaceID, a.FolderID, func(f AppFolder) AppFolder {
			files := make([]models.File, 0, len(f.Files)+1)
			files = append(files, f.Files...)
			files = append(files, a.File)
			sortFiles(files)
			f.Files = files
			return f
		})

	case UpdateFile:
		return mapFile(s, a.WorkspaceID, a.FolderID, a.FileID, func(file models.File) models.File {
			a.Patch.Apply(&file)
			return file
		})

	case DeleteFile:
		return mapFolder(s, a.WorkspaceID, a.FolderID, func(f AppFolder) AppFolder {
			files := make([]models.File, 0, len(f.Files))
			for _, file := range f.Files {
				if file.ID != a.FileID {
					files = append(files, file)
				}
			}
			f.Files = files
			return f
		})
	}

	return s
}

// mapWorkspace rebuilds the workspace list with fn applied to the matching
// workspace. The copy keeps prior snapshots intact.
func mapWorkspace(s AppState, workspaceID string, fn func(AppWorkspace) AppWorkspace) AppState {
	found := false
	ws := make([]AppWorkspace, len(s.Workspaces))
	for i, w := range s.Workspaces {
		if w.ID == workspaceID {
			w = fn(w)
			found = true
		}
		ws[i] = w
	}
	if !found {
		return s
	}
	return AppState{Workspaces: ws}
}

func mapFolder(s AppState, workspaceID, folderID string, fn func(AppFolder) AppFolder) AppState {
	return mapWorkspace(s, workspaceID, func(w AppWorkspace) AppWorkspace {
		folders := make([]AppFolder, len(w.Folders))
		for i, f := range w.Folders {
			if f.ID == folderID {
				f = fn(f)
			}
			folders[i] = f
		}
		w.Folders = folders
		return w
	})
}

func mapFile(s AppState, workspaceID, folderID, fileID string, fn func(models.File) models.File) AppState {
	return mapFolder(s, workspaceID, folderID, func(f AppFolder) AppFolder {
		files := make([]models.File, len(f.Files))
		for i, file := range f.Files {
			if file.ID == fileID {
				file = fn(file)
			}
			files[i] = file
		}
		f.Files = files
		return f
	})
}

// sortFolders orders by created_at ascending; insertion order breaks ties.
func sortFolders(folders []AppFolder) {
	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].CreatedAt.Before(folders[j].CreatedAt)
	})
}

func sortFiles(files []models.File) {
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt.Before(files[j].CreatedAt)
	})
}
