package state

import (
	"reflect"
	"testing"

	"cypress/internal/domain/models"
)

func TestStoreDispatchAppliesInIssuanceOrder(t *testing.T) {
	store := NewStore(AppState{Workspaces: []AppWorkspace{testWorkspace("ws-1", "Team")}})

	// Two rapid edits to the same field: the later dispatch wins.
	store.Dispatch(UpdateWorkspace{WorkspaceID: "ws-1", Patch: models.WorkspacePatch{Title: models.StringPtr("draft")}})
	store.Dispatch(UpdateWorkspace{WorkspaceID: "ws-1", Patch: models.WorkspacePatch{Title: models.StringPtr("final")}})

	if got := store.Snapshot().Workspaces[0].Title; got != "final" {
		t.Errorf("title = %q, want final", got)
	}
}

func TestStoreSubscribeAndUnsubscribe(t *testing.T) {
	store := NewStore(AppState{})

	var seen []int
	unsubscribe := store.Subscribe(func(s AppState) {
		seen = append(seen, len(s.Workspaces))
	})

	store.Dispatch(AddWorkspace{Workspace: testWorkspace("ws-1", "One")})
	store.Dispatch(AddWorkspace{Workspace: testWorkspace("ws-2", "Two")})
	unsubscribe()
	store.Dispatch(AddWorkspace{Workspace: testWorkspace("ws-3", "Three")})

	if !reflect.DeepEqual(seen, []int{1, 2}) {
		t.Errorf("listener saw %v, want [1 2]", seen)
	}
}

func TestStoreFocusFromPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Focus
	}{
		{"empty path", "", Focus{}},
		{"root", "/", Focus{}},
		{"outside dashboard", "/settings/profile", Focus{}},
		{"dashboard only", "/dashboard", Focus{}},
		{"workspace", "/dashboard/ws-1", Focus{WorkspaceID: "ws-1"}},
		{"folder", "/dashboard/ws-1/f-1", Focus{WorkspaceID: "ws-1", FolderID: "f-1"}},
		{"file", "/dashboard/ws-1/f-1/d-1", Focus{WorkspaceID: "ws-1", FolderID: "f-1", FileID: "d-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(AppState{})
			if got := store.SetFocusFromPath(tt.path); got != tt.want {
				t.Errorf("SetFocusFromPath(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
			if got := store.Focus(); got != tt.want {
				t.Errorf("Focus() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIndexLookups(t *testing.T) {
	s := Reduce(AppState{}, SetWorkspaces{Workspaces: []AppWorkspace{testWorkspace("ws-1", "Team")}})
	s = Reduce(s, AddFolder{WorkspaceID: "ws-1", Folder: testFolder("f-1", "ws-1", "Notes", base)})
	s = Reduce(s, AddFile{WorkspaceID: "ws-1", FolderID: "f-1", File: testFile("d-1", "f-1", "ws-1", "Doc", base)})

	idx := NewIndex(s)

	if w := idx.Workspace("ws-1"); w == nil || w.Title != "Team" {
		t.Errorf("workspace lookup failed: %+v", w)
	}
	if f := idx.Folder("f-1"); f == nil || f.Title != "Notes" {
		t.Errorf("folder lookup failed: %+v", f)
	}
	if d := idx.File("d-1"); d == nil || d.Title != "Doc" {
		t.Errorf("file lookup failed: %+v", d)
	}
	if got := idx.FolderParent("f-1"); got != "ws-1" {
		t.Errorf("FolderParent = %q, want ws-1", got)
	}
	if got := idx.FileParent("d-1"); got != "f-1" {
		t.Errorf("FileParent = %q, want f-1", got)
	}
	if idx.Workspace("missing") != nil || idx.Folder("missing") != nil || idx.File("missing") != nil {
		t.Errorf("missing ids must resolve to nil")
	}
}
