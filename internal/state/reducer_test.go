package state

import (
	"reflect"
	"testing"
	"time"

	"cypress/internal/domain/models"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testWorkspace(id, title string) AppWorkspace {
	return NewWorkspace(models.Workspace{
		ID:             id,
		WorkspaceOwner: "owner-1",
		Title:          title,
		IconID:         "💼",
		CreatedAt:      base,
	})
}

func testFolder(id, workspaceID, title string, createdAt time.Time) AppFolder {
	return NewFolder(models.Folder{
		ID:          id,
		WorkspaceID: workspaceID,
		Title:       title,
		IconID:      "📁",
		CreatedAt:   createdAt,
	})
}

func testFile(id, folderID, workspaceID, title string, createdAt time.Time) models.File {
	return models.File{
		ID:          id,
		FolderID:    folderID,
		WorkspaceID: workspaceID,
		Title:       title,
		IconID:      "📄",
		CreatedAt:   createdAt,
	}
}

func TestReduceUnknownIDsAreNoOps(t *testing.T) {
	seeded := Reduce(AppState{}, SetWorkspaces{Workspaces: []AppWorkspace{
		testWorkspace("ws-1", "Team"),
	}})

	tests := []struct {
		name   string
		action Action
	}{
		{"update missing workspace", UpdateWorkspace{WorkspaceID: "nope", Patch: models.WorkspacePatch{Title: models.StringPtr("x")}}},
		{"delete missing workspace", DeleteWorkspace{WorkspaceID: "nope"}},
		{"add folder to missing workspace", AddFolder{WorkspaceID: "nope", Folder: testFolder("f-1", "nope", "Notes", base)}},
		{"update missing folder", UpdateFolder{WorkspaceID: "ws-1", FolderID: "nope", Patch: models.FolderPatch{Title: models.StringPtr("x")}}},
		{"delete missing folder", DeleteFolder{WorkspaceID: "ws-1", FolderID: "nope"}},
		{"set files in missing folder", SetFiles{WorkspaceID: "ws-1", FolderID: "nope", Files: []models.File{testFile("d-1", "nope", "ws-1", "Doc", base)}}},
		{"update missing file", UpdateFile{WorkspaceID: "ws-1", FolderID: "nope", FileID: "nope", Patch: models.FilePatch{Title: models.StringPtr("x")}}},
		{"delete missing file", DeleteFile{WorkspaceID: "ws-1", FolderID: "nope", FileID: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(seeded, tt.action)
			if !reflect.DeepEqual(got, seeded) {
				t.Errorf("expected state unchanged, got %+v", got)
			}
		})
	}
}

func TestReduceSetFoldersIdempotent(t *testing.T) {
	s := Reduce(AppState{}, SetWorkspaces{Workspaces: []AppWorkspace{testWorkspace("ws-1", "Team")}})

	folders := []AppFolder{
		testFolder("f-2", "ws-1", "Later", base.Add(time.Hour)),
		testFolder("f-1", "ws-1", "Earlier", base),
	}

	once := Reduce(s, SetFolders{WorkspaceID: "ws-1", Folders: folders})
	twice := Reduce(once, SetFolders{WorkspaceID: "ws-1", Folders: folders})

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("SetFolders is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestReduceAddFolderKeepsCreatedAtOrder(t *testing.T) {
	s := Reduce(AppState{}, SetWorkspaces{Workspaces: []AppWorkspace{testWorkspace("ws-1", "Team")}})

	// Append out of chronological order; the list must stay sorted after
	// every single dispatch, not just the last one.
	inserts := []AppFolder{
		testFolder("f-3", "ws-1", "C", base.Add(3*time.Hour)),
		testFolder("f-1", "ws-1", "A", base.Add(1*time.Hour)),
		testFolder("f-2", "ws-1", "B", base.Add(2*time.Hour)),
	}

	for _, f := range inserts {
		s = Reduce(s, AddFolder{WorkspaceID: "ws-1", Folder: f})
		folders := s.Workspaces[0].Folders
		for i := 1; i < len(folders); i++ {
			if folders[i].CreatedAt.Before(folders[i-1].CreatedAt) {
				t.Fatalf("folders out of order after inserting %s: %v", f.ID, folderIDs(folders))
			}
		}
	}

	if got := folderIDs(s.Workspaces[0].Folders); !reflect.DeepEqual(got, []string{"f-1", "f-2", "f-3"}) {
		t.Errorf("final order = %v, want [f-1 f-2 f-3]", got)
	}
}

func TestReduceAddFileSortsAndTieBreaksStably(t *testing.T) {
	s := Reduce(AppState{}, SetWorkspaces{Workspaces: []AppWorkspace{testWorkspace("ws-1", "Team")}})
	s = Reduce(s, AddFolder{WorkspaceID: "ws-1", Folder: testFolder("f-1", "ws-1", "Notes", base)})

	// Equal timestamps keep insertion order.
	s = Reduce(s, AddFile{WorkspaceID: "ws-1", FolderID: "f-1", File: testFile("d-1", "f-1", "ws-1", "First", base)})
	s = Reduce(s, AddFile{WorkspaceID: "ws-1", FolderID: "f-1", File: testFile("d-2", "f-1", "ws-1", "Second", base)})

	files := s.Workspaces[0].Folders[0].Files
	if len(files) != 2 || files[0].ID != "d-1" || files[1].ID != "d-2" {
		t.Errorf("tie-break order broken: %v", fileIDs(files))
	}
}

func TestReducePriorSnapshotsStayValid(t *testing.T) {
	before := Reduce(AppState{}, SetWorkspaces{Workspaces: []AppWorkspace{testWorkspace("ws-1", "Team")}})
	before = Reduce(before, AddFolder{WorkspaceID: "ws-1", Folder: testFolder("f-1", "ws-1", "Notes", base)})
	before = Reduce(before, AddFile{WorkspaceID: "ws-1", FolderID: "f-1", File: testFile("d-1", "f-1", "ws-1", "Doc", base)})

	snapshot := before

	after := Reduce(before, UpdateFile{
		WorkspaceID: "ws-1", FolderID: "f-1", FileID: "d-1",
		Patch: models.FilePatch{Title: models.StringPtr("Renamed")},
	})
	after = Reduce(after, DeleteFolder{WorkspaceID: "ws-1", FolderID: "f-1"})

	if got := snapshot.Workspaces[0].Folders[0].Files[0].Title; got != "Doc" {
		t.Errorf("prior snapshot mutated: file title = %q, want Doc", got)
	}
	if len(snapshot.Workspaces[0].Folders) != 1 {
		t.Errorf("prior snapshot mutated: folder list changed")
	}
	if len(after.Workspaces[0].Folders) != 0 {
		t.Errorf("new snapshot missing DeleteFolder effect")
	}
}

func TestReduceUpdatePatchesOnlyNamedFields(t *testing.T) {
	s := Reduce(AppState{}, SetWorkspaces{Workspaces: []AppWorkspace{testWorkspace("ws-1", "Team")}})

	s = Reduce(s, UpdateWorkspace{WorkspaceID: "ws-1", Patch: models.WorkspacePatch{
		IconID: models.StringPtr("🚀"),
	}})

	w := s.Workspaces[0]
	if w.IconID != "🚀" {
		t.Errorf("icon = %q, want 🚀", w.IconID)
	}
	if w.Title != "Team" {
		t.Errorf("title changed by unrelated patch: %q", w.Title)
	}
}

func TestReduceTrashRoundTrip(t *testing.T) {
	s := Reduce(AppState{}, SetWorkspaces{Workspaces: []AppWorkspace{testWorkspace("ws-1", "Team")}})
	s = Reduce(s, AddFolder{WorkspaceID: "ws-1", Folder: testFolder("f-1", "ws-1", "Notes", base)})

	s = Reduce(s, UpdateFolder{WorkspaceID: "ws-1", FolderID: "f-1", Patch: models.FolderPatch{
		InTrash: models.Assign("Deleted by user a@b.c"),
	}})
	if !s.Workspaces[0].Folders[0].InTrashed() {
		t.Fatalf("folder not trashed after InTrash patch")
	}

	s = Reduce(s, UpdateFolder{WorkspaceID: "ws-1", FolderID: "f-1", Patch: models.FolderPatch{
		InTrash: models.Clear(),
	}})
	if s.Workspaces[0].Folders[0].InTrashed() {
		t.Fatalf("folder still trashed after restore patch")
	}
}

func folderIDs(folders []AppFolder) []string {
	ids := make([]string, len(folders))
	for i, f := range folders {
		ids[i] = f.ID
	}
	return ids
}

func fileIDs(files []models.File) []string {
	ids := make([]string, len(files))
	for i, f := range files {
		ids[i] = f.ID
	}
	return ids
}
