package sync

import (
	"context"
	"fmt"

	"cypress/internal/domain/models"
	"cypress/internal/state"
)

// Icon, banner and trash edits are low-frequency discrete events: dispatch
// immediately, persist immediately, no debounce.

// TrashReason builds the audit string stored in in_trash, identifying who
// soft-deleted the node.
func TrashReason(actorEmail string) string {
	return fmt.Sprintf("Deleted by user %s", actorEmail)
}

func (s *Syncer) updateWorkspaceNow(ctx context.Context, workspaceID string, patch, inverse models.WorkspacePatch, op, failMsg string) {
	s.store.Dispatch(state.UpdateWorkspace{WorkspaceID: workspaceID, Patch: patch})

	pctx := context.WithoutCancel(ctx)
	s.persist(op,
		func() error { return s.workspaces.Update(pctx, workspaceID, patch) },
		func() { s.store.Dispatch(state.UpdateWorkspace{WorkspaceID: workspaceID, Patch: inverse}) },
		failMsg,
	)
}

func (s *Syncer) updateFolderNow(ctx context.Context, workspaceID, folderID string, patch, inverse models.FolderPatch, op, failMsg string) {
	s.store.Dispatch(state.UpdateFolder{WorkspaceID: workspaceID, FolderID: folderID, Patch: patch})

	pctx := context.WithoutCancel(ctx)
	s.persist(op,
		func() error { return s.folders.Update(pctx, folderID, patch) },
		func() {
			s.store.Dispatch(state.UpdateFolder{WorkspaceID: workspaceID, FolderID: folderID, Patch: inverse})
		},
		failMsg,
	)
}

func (s *Syncer) updateFileNow(ctx context.Context, workspaceID, folderID, fileID string, patch, inverse models.FilePatch, op, failMsg string) {
	s.store.Dispatch(state.UpdateFile{WorkspaceID: workspaceID, FolderID: folderID, FileID: fileID, Patch: patch})

	pctx := context.WithoutCancel(ctx)
	s.persist(op,
		func() error { return s.files.Update(pctx, fileID, patch) },
		func() {
			s.store.Dispatch(state.UpdateFile{WorkspaceID: workspaceID, FolderID: folderID, FileID: fileID, Patch: inverse})
		},
		failMsg,
	)
}

// SetWorkspaceIcon changes the workspace emoji.
func (s *Syncer) SetWorkspaceIcon(ctx context.Context, workspaceID, iconID string) {
	var old string
	if w := state.NewIndex(s.store.Snapshot()).Workspace(workspaceID); w != nil {
		old = w.IconID
	}
	s.updateWorkspaceNow(ctx, workspaceID,
		models.WorkspacePatch{IconID: models.StringPtr(iconID)},
		models.WorkspacePatch{IconID: models.StringPtr(old)},
		"set workspace icon", "Could not update the workspace emoji")
}

// SetWorkspaceBanner records a freshly uploaded banner ref.
func (s *Syncer) SetWorkspaceBanner(ctx context.Context, workspaceID, bannerRef string) {
	var old models.NullableString
	if w := state.NewIndex(s.store.Snapshot()).Workspace(workspaceID); w != nil {
		old = models.NullableString{Set: true, Value: w.BannerURL}
	}
	s.updateWorkspaceNow(ctx, workspaceID,
		models.WorkspacePatch{BannerURL: models.Assign(bannerRef)},
		models.WorkspacePatch{BannerURL: old},
		"set workspace banner", "Could not upload your banner")
}

// RemoveWorkspaceBanner clears the banner ref.
func (s *Syncer) RemoveWorkspaceBanner(ctx context.Context, workspaceID string) {
	var old models.NullableString
	if w := state.NewIndex(s.store.Snapshot()).Workspace(workspaceID); w != nil {
		old = models.NullableString{Set: true, Value: w.BannerURL}
	}
	s.updateWorkspaceNow(ctx, workspaceID,
		models.WorkspacePatch{BannerURL: models.Clear()},
		models.WorkspacePatch{BannerURL: old},
		"remove workspace banner", "Could not remove your banner")
}

// SetWorkspaceLogo records a freshly uploaded logo ref.
func (s *Syncer) SetWorkspaceLogo(ctx context.Context, workspaceID, logoRef string) {
	var old models.NullableString
	if w := state.NewIndex(s.store.Snapshot()).Workspace(workspaceID); w != nil {
		old = models.NullableString{Set: true, Value: w.Logo}
	}
	s.updateWorkspaceNow(ctx, workspaceID,
		models.WorkspacePatch{Logo: models.Assign(logoRef)},
		models.WorkspacePatch{Logo: old},
		"set workspace logo", "Could not upload your logo")
}

// SetFolderIcon changes the folder emoji.
func (s *Syncer) SetFolderIcon(ctx context.Context, workspaceID, folderID, iconID string) {
	var old string
	if f := state.NewIndex(s.store.Snapshot()).Folder(folderID); f != nil {
		old = f.IconID
	}
	s.updateFolderNow(ctx, workspaceID, folderID,
		models.FolderPatch{IconID: models.StringPtr(iconID)},
		models.FolderPatch{IconID: models.StringPtr(old)},
		"set folder icon", "Could not update the folder emoji")
}

// SetFolderBanner records a freshly uploaded banner ref.
func (s *Syncer) SetFolderBanner(ctx context.Context, workspaceID, folderID, bannerRef string) {
	var old models.NullableString
	if f := state.NewIndex(s.store.Snapshot()).Folder(folderID); f != nil {
		old = models.NullableString{Set: true, Value: f.BannerURL}
	}
	s.updateFolderNow(ctx, workspaceID, folderID,
		models.FolderPatch{BannerURL: models.Assign(bannerRef)},
		models.FolderPatch{BannerURL: old},
		"set folder banner", "Could not upload your banner")
}

// RemoveFolderBanner clears the banner ref.
func (s *Syncer) RemoveFolderBanner(ctx context.Context, workspaceID, folderID string) {
	var old models.NullableString
	if f := state.NewIndex(s.store.Snapshot()).Folder(folderID); f != nil {
		old = models.NullableString{Set: true, Value: f.BannerURL}
	}
	s.updateFolderNow(ctx, workspaceID, folderID,
		models.FolderPatch{BannerURL: models.Clear()},
		models.FolderPatch{BannerURL: old},
		"remove folder banner", "Could not remove your banner")
}

// SetFileIcon changes the file emoji.
func (s *Syncer) SetFileIcon(ctx context.Context, workspaceID, folderID, fileID, iconID string) {
	var old string
	if f := state.NewIndex(s.store.Snapshot()).File(fileID); f != nil {
		old = f.IconID
	}
	s.updateFileNow(ctx, workspaceID, folderID, fileID,
		models.FilePatch{IconID: models.StringPtr(iconID)},
		models.FilePatch{IconID: models.StringPtr(old)},
		"set file icon", "Could not update the file emoji")
}

// SetFileBanner records a freshly uploaded banner ref.
func (s *Syncer) SetFileBanner(ctx context.Context, workspaceID, folderID, fileID, bannerRef string) {
	var old models.NullableString
	if f := state.NewIndex(s.store.Snapshot()).File(fileID); f != nil {
		old = models.NullableString{Set: true, Value: f.BannerURL}
	}
	s.updateFileNow(ctx, workspaceID, folderID, fileID,
		models.FilePatch{BannerURL: models.Assign(bannerRef)},
		models.FilePatch{BannerURL: old},
		"set file banner", "Could not upload your banner")
}

// RemoveFileBanner clears the banner ref.
func (s *Syncer) RemoveFileBanner(ctx context.Context, workspaceID, folderID, fileID string) {
	var old models.NullableString
	if f := state.NewIndex(s.store.Snapshot()).File(fileID); f != nil {
		old = models.NullableString{Set: true, Value: f.BannerURL}
	}
	s.updateFileNow(ctx, workspaceID, folderID, fileID,
		models.FilePatch{BannerURL: models.Clear()},
		models.FilePatch{BannerURL: old},
		"remove file banner", "Could not remove your banner")
}

// TrashFolder soft-deletes a folder with an audit reason naming the actor.
// Files inside it are untouched; they are trashed individually.
func (s *Syncer) TrashFolder(ctx context.Context, workspaceID, folderID, actorEmail string) {
	s.updateFolderNow(ctx, workspaceID, folderID,
		models.FolderPatch{InTrash: models.Assign(TrashReason(actorEmail))},
		models.FolderPatch{InTrash: models.Clear()},
		"trash folder", "Could not move the folder to trash")
}

// RestoreFolder clears the folder's trash marker; the inverse of TrashFolder.
func (s *Syncer) RestoreFolder(ctx context.Context, workspaceID, folderID string) {
	var old models.NullableString
	if f := state.NewIndex(s.store.Snapshot()).Folder(folderID); f != nil {
		old = models.NullableString{Set: true, Value: f.InTrash}
	}
	s.updateFolderNow(ctx, workspaceID, folderID,
		models.FolderPatch{InTrash: models.Clear()},
		models.FolderPatch{InTrash: old},
		"restore folder", "Could not restore the folder")
}

// TrashFile soft-deletes a file with an audit reason naming the actor.
func (s *Syncer) TrashFile(ctx context.Context, workspaceID, folderID, fileID, actorEmail string) {
	s.updateFileNow(ctx, workspaceID, folderID, fileID,
		models.FilePatch{InTrash: models.Assign(TrashReason(actorEmail))},
		models.FilePatch{InTrash: models.Clear()},
		"trash file", "Could not move the file to trash")
}

// RestoreFile clears the file's trash marker.
func (s *Syncer) RestoreFile(ctx context.Context, workspaceID, folderID, fileID string) {
	var old models.NullableString
	if f := state.NewIndex(s.store.Snapshot()).File(fileID); f != nil {
		old = models.NullableString{Set: true, Value: f.InTrash}
	}
	s.updateFileNow(ctx, workspaceID, folderID, fileID,
		models.FilePatch{InTrash: models.Clear()},
		models.FilePatch{InTrash: old},
		"restore file", "Could not restore the file")
}
