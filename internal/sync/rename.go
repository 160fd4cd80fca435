package sync

import (
	"context"

	"cypress/internal/domain/models"
	"cypress/internal/state"
)

// Debounced edits: every keystroke lands in the tree immediately so the
// visible value always reflects the latest input, while persistence waits
// for a quiet period. The baseline recorded at the start of a debounce
// window is the last value the store confirmed; a failed flush rolls the
// tree back to it.

const (
	fieldTitle = "title"
	fieldData  = "data"
)

// baselineFor records the pre-edit value the first time a debounce window
// opens for the key, and returns it.
func (s *Syncer) baselineFor(key DebounceKey, current string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.baselines[key]; ok {
		return v
	}
	s.baselines[key] = current
	return current
}

func (s *Syncer) clearBaseline(key DebounceKey) {
	s.mu.Lock()
	delete(s.baselines, key)
	s.mu.Unlock()
}

// RenameWorkspace applies one title keystroke. The remote update fires once
// typing has paused for the full debounce delay, with the final value.
func (s *Syncer) RenameWorkspace(ctx context.Context, workspaceID, title string) {
	key := DebounceKey{EntityID: workspaceID, Field: fieldTitle}

	var baseline string
	idx := state.NewIndex(s.store.Snapshot())
	if w := idx.Workspace(workspaceID); w != nil {
		baseline = s.baselineFor(key, w.Title)
	}

	s.store.Dispatch(state.UpdateWorkspace{WorkspaceID: workspaceID, Patch: models.WorkspacePatch{
		Title: models.StringPtr(title),
	}})

	pctx := context.WithoutCancel(ctx)
	s.debouncer.Schedule(key, func() {
		s.persist("rename workspace",
			func() error {
				err := s.workspaces.Update(pctx, workspaceID, models.WorkspacePatch{Title: models.StringPtr(title)})
				if err == nil {
					s.clearBaseline(key)
				}
				return err
			},
			func() {
				s.clearBaseline(key)
				s.store.Dispatch(state.UpdateWorkspace{WorkspaceID: workspaceID, Patch: models.WorkspacePatch{
					Title: models.StringPtr(baseline),
				}})
			},
			"Could not rename the workspace",
		)
	})
}

// RenameFolder applies one title keystroke to a folder.
func (s *Syncer) RenameFolder(ctx context.Context, workspaceID, folderID, title string) {
	key := DebounceKey{EntityID: folderID, Field: fieldTitle}

	var baseline string
	idx := state.NewIndex(s.store.Snapshot())
	if f := idx.Folder(folderID); f != nil {
		baseline = s.baselineFor(key, f.Title)
	}

	s.store.Dispatch(state.UpdateFolder{WorkspaceID: workspaceID, FolderID: folderID, Patch: models.FolderPatch{
		Title: models.StringPtr(title),
	}})

	pctx := context.WithoutCancel(ctx)
	s.debouncer.Schedule(key, func() {
		s.persist("rename folder",
			func() error {
				err := s.folders.Update(pctx, folderID, models.FolderPatch{Title: models.StringPtr(title)})
				if err == nil {
					s.clearBaseline(key)
				}
				return err
			},
			func() {
				s.clearBaseline(key)
				s.store.Dispatch(state.UpdateFolder{WorkspaceID: workspaceID, FolderID: folderID, Patch: models.FolderPatch{
					Title: models.StringPtr(baseline),
				}})
			},
			"Could not rename the folder",
		)
	})
}

// RenameFile applies one title keystroke to a file.
func (s *Syncer) RenameFile(ctx context.Context, workspaceID, folderID, fileID, title string) {
	key := DebounceKey{EntityID: fileID, Field: fieldTitle}

	var baseline string
	idx := state.NewIndex(s.store.Snapshot())
	if f := idx.File(fileID); f != nil {
		baseline = s.baselineFor(key, f.Title)
	}

	s.store.Dispatch(state.UpdateFile{WorkspaceID: workspaceID, FolderID: folderID, FileID: fileID, Patch: models.FilePatch{
		Title: models.StringPtr(title),
	}})

	pctx := context.WithoutCancel(ctx)
	s.debouncer.Schedule(key, func() {
		s.persist("rename file",
			func() error {
				err := s.files.Update(pctx, fileID, models.FilePatch{Title: models.StringPtr(title)})
				if err == nil {
					s.clearBaseline(key)
				}
				return err
			},
			func() {
				s.clearBaseline(key)
				s.store.Dispatch(state.UpdateFile{WorkspaceID: workspaceID, FolderID: folderID, FileID: fileID, Patch: models.FilePatch{
					Title: models.StringPtr(baseline),
				}})
			},
			"Could not rename the file",
		)
	})
}

// SaveFileData applies an editor content change. Content saves share the
// rename machinery: immediate local dispatch, debounced remote write keyed
// by (file id, "data").
func (s *Syncer) SaveFileData(ctx context.Context, workspaceID, folderID, fileID, data string) {
	key := DebounceKey{EntityID: fileID, Field: fieldData}

	var baseline string
	idx := state.NewIndex(s.store.Snapshot())
	if f := idx.File(fileID); f != nil && f.Data != nil {
		baseline = s.baselineFor(key, *f.Data)
	}

	s.store.Dispatch(state.UpdateFile{WorkspaceID: workspaceID, FolderID: folderID, FileID: fileID, Patch: models.FilePatch{
		Data: models.Assign(data),
	}})

	pctx := context.WithoutCancel(ctx)
	s.debouncer.Schedule(key, func() {
		s.persist("save file data",
			func() error {
				err := s.files.Update(pctx, fileID, models.FilePatch{Data: models.Assign(data)})
				if err == nil {
					s.clearBaseline(key)
				}
				return err
			},
			func() {
				s.clearBaseline(key)
				s.store.Dispatch(state.UpdateFile{WorkspaceID: workspaceID, FolderID: folderID, FileID: fileID, Patch: models.FilePatch{
					Data: models.Assign(baseline),
				}})
			},
			"Could not save your document",
		)
	})
}
