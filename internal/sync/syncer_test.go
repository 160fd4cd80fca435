package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"log/slog"

	"cypress/internal/domain"
	"cypress/internal/domain/models"
	"cypress/internal/domain/repositories"
	"cypress/internal/state"
)

// --- fakes -----------------------------------------------------------------

type fakeWorkspaceRepo struct {
	mu      stdsync.Mutex
	created []models.Workspace
	updates []models.WorkspacePatch
	deleted []string
	fail    error
}

func (r *fakeWorkspaceRepo) Create(_ context.Context, w *models.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.created = append(r.created, *w)
	return nil
}

func (r *fakeWorkspaceRepo) GetByID(context.Context, string) (*models.Workspace, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeWorkspaceRepo) Update(_ context.Context, _ string, patch models.WorkspacePatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.updates = append(r.updates, patch)
	return nil
}

func (r *fakeWorkspaceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeWorkspaceRepo) ListPrivate(context.Context, string) ([]models.Workspace, error) {
	return nil, nil
}
func (r *fakeWorkspaceRepo) ListShared(context.Context, string) ([]models.Workspace, error) {
	return nil, nil
}
func (r *fakeWorkspaceRepo) ListCollaborating(context.Context, string) ([]models.Workspace, error) {
	return nil, nil
}

func (r *fakeWorkspaceRepo) updateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

type fakeFolderRepo struct {
	mu      stdsync.Mutex
	created []models.Folder
	updates []models.FolderPatch
	deleted []string
	fail    error
}

func (r *fakeFolderRepo) Create(_ context.Context, f *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.created = append(r.created, *f)
	return nil
}

func (r *fakeFolderRepo) GetByID(context.Context, string) (*models.Folder, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeFolderRepo) Update(_ context.Context, _ string, patch models.FolderPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.updates = append(r.updates, patch)
	return nil
}

func (r *fakeFolderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeFolderRepo) ListByWorkspace(context.Context, string) ([]models.Folder, error) {
	return nil, nil
}
func (r *fakeFolderRepo) DeleteByWorkspace(context.Context, string) error { return nil }

func (r *fakeFolderRepo) updateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

type fakeFileRepo struct {
	mu      stdsync.Mutex
	created []models.File
	updates []models.FilePatch
	deleted []string
	fail    error
}

func (r *fakeFileRepo) Create(_ context.Context, f *models.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.created = append(r.created, *f)
	return nil
}

func (r *fakeFileRepo) GetByID(context.Context, string) (*models.File, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeFileRepo) Update(_ context.Context, _ string, patch models.FilePatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.updates = append(r.updates, patch)
	return nil
}

func (r *fakeFileRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeFileRepo) ListByFolder(context.Context, string) ([]models.File, error) { return nil, nil }
func (r *fakeFileRepo) DeleteByWorkspace(context.Context, string) error             { return nil }

func (r *fakeFileRepo) updateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

type fakeCollaboratorRepo struct {
	mu      stdsync.Mutex
	members map[string]bool // workspaceID+userID
	fail    error
}

func (r *fakeCollaboratorRepo) key(workspaceID, userID string) string {
	return workspaceID + "/" + userID
}

func (r *fakeCollaboratorRepo) Add(_ context.Context, workspaceID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	if r.members == nil {
		r.members = make(map[string]bool)
	}
	r.members[r.key(workspaceID, userID)] = true
	return nil
}

func (r *fakeCollaboratorRepo) Remove(_ context.Context, workspaceID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	delete(r.members, r.key(workspaceID, userID))
	return nil
}

func (r *fakeCollaboratorRepo) Exists(_ context.Context, workspaceID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.members[r.key(workspaceID, userID)], nil
}

func (r *fakeCollaboratorRepo) ListUsers(context.Context, string) ([]models.User, error) {
	return nil, nil
}
func (r *fakeCollaboratorRepo) DeleteByWorkspace(context.Context, string) error { return nil }

type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type recordingNotifier struct {
	mu     stdsync.Mutex
	errors []string
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	n.errors = append(n.errors, message)
	n.mu.Unlock()
}

func (n *recordingNotifier) Success(string) {}

func (n *recordingNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

// --- harness ---------------------------------------------------------------

type harness struct {
	syncer     *Syncer
	store      *state.Store
	workspaces *fakeWorkspaceRepo
	folders    *fakeFolderRepo
	files      *fakeFileRepo
	collabs    *fakeCollaboratorRepo
	notifier   *recordingNotifier
}

func newHarness(t *testing.T, debounce time.Duration, initial state.AppState) *harness {
	t.Helper()
	h := &harness{
		store:      state.NewStore(initial),
		workspaces: &fakeWorkspaceRepo{},
		folders:    &fakeFolderRepo{},
		files:      &fakeFileRepo{},
		collabs:    &fakeCollaboratorRepo{},
		notifier:   &recordingNotifier{},
	}
	logger := slog.New(slog.DiscardHandler)
	h.syncer = NewSyncer(h.store, h.workspaces, h.folders, h.files, h.collabs,
		fakeTxManager{}, h.notifier, debounce, logger)
	t.Cleanup(h.syncer.Close)
	return h
}

const ownerID = "7b7a0a5e-9d18-4cf0-9f2e-25a1c1a914d9"

func seededState() state.AppState {
	ws := state.NewWorkspace(models.Workspace{
		ID: "c7a1d8ee-43b3-4a4c-86a6-25c5cf26bd2f", WorkspaceOwner: ownerID,
		Title: "Team", IconID: "💼", CreatedAt: time.Now().Add(-time.Hour),
	})
	return state.AppState{Workspaces: []state.AppWorkspace{ws}}
}

func wsID(h *harness) string { return h.store.Snapshot().Workspaces[0].ID }

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

// --- tests -----------------------------------------------------------------

func TestCreateFileVisibleBeforePersistResolves(t *testing.T) {
	h := newHarness(t, time.Second, seededState())
	ctx := context.Background()

	folder, err := h.syncer.CreateFolder(ctx, CreateFolderRequest{WorkspaceID: wsID(h), Title: "Notes"})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}

	file, err := h.syncer.CreateFile(ctx, CreateFileRequest{
		WorkspaceID: wsID(h), FolderID: folder.ID, Title: "Roadmap",
	})
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}

	// Read back through the snapshot immediately, without waiting for the
	// gateway round-trip.
	got := state.NewIndex(h.store.Snapshot()).File(file.ID)
	if got == nil {
		t.Fatalf("file not visible in snapshot right after create")
	}
	if got.ID != file.ID || got.Title != "Roadmap" || got.FolderID != folder.ID || got.WorkspaceID != wsID(h) {
		t.Errorf("optimistic file = %+v, want id/title/parents as passed", got)
	}

	h.syncer.Wait()
	if len(h.files.created) != 1 || h.files.created[0].ID != file.ID {
		t.Errorf("gateway create not issued exactly once: %v", h.files.created)
	}
}

func TestCreateFolderRollsBackOnGatewayFailure(t *testing.T) {
	h := newHarness(t, time.Second, seededState())
	h.folders.fail = errors.New("connection refused")

	folder, err := h.syncer.CreateFolder(context.Background(), CreateFolderRequest{WorkspaceID: wsID(h), Title: "Notes"})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	h.syncer.Wait()

	if state.NewIndex(h.store.Snapshot()).Folder(folder.ID) != nil {
		t.Errorf("folder still in tree after confirmed gateway failure")
	}
	if h.notifier.errorCount() != 1 {
		t.Errorf("notifications = %d, want 1", h.notifier.errorCount())
	}
}

func TestCreateWorkspaceValidation(t *testing.T) {
	h := newHarness(t, time.Second, state.AppState{})

	tests := []struct {
		name string
		req  CreateWorkspaceRequest
	}{
		{"empty title", CreateWorkspaceRequest{OwnerID: ownerID}},
		{"malformed owner id", CreateWorkspaceRequest{OwnerID: "not-a-uuid", Title: "W"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.syncer.CreateWorkspace(context.Background(), tt.req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}

	if len(h.store.Snapshot().Workspaces) != 0 {
		t.Errorf("rejected create still mutated the tree")
	}
}

func TestCreateFileRejectsCrossWorkspaceFolder(t *testing.T) {
	h := newHarness(t, time.Second, seededState())

	folder, err := h.syncer.CreateFolder(context.Background(), CreateFolderRequest{WorkspaceID: wsID(h), Title: "Notes"})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}

	_, err = h.syncer.CreateFile(context.Background(), CreateFileRequest{
		WorkspaceID: "4a51a841-21f1-4b6f-b4b9-bf29f2fba42a", // not the folder's workspace
		FolderID:    folder.ID,
		Title:       "Doc",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation for denormalization mismatch", err)
	}
}

func TestRenameDebouncePersistsOnceWithFinalValue(t *testing.T) {
	// Scaled-down timing: 60ms debounce, keystrokes every 15ms. With a
	// 5s delay and keystrokes at t=0,1,2s this is the single flush at
	// t=7s carrying the last keystroke.
	h := newHarness(t, 60*time.Millisecond, seededState())
	ctx := context.Background()
	id := wsID(h)

	for _, title := range []string{"T", "Te", "Team Spirit"} {
		h.syncer.RenameWorkspace(ctx, id, title)
		time.Sleep(15 * time.Millisecond)
	}

	// Every keystroke is visible locally at once.
	if got := h.store.Snapshot().Workspaces[0].Title; got != "Team Spirit" {
		t.Errorf("local title = %q before flush, want latest keystroke", got)
	}
	if h.workspaces.updateCount() != 0 {
		t.Fatalf("persisted before the quiet period elapsed")
	}

	if !waitFor(t, time.Second, func() bool { return h.workspaces.updateCount() > 0 }) {
		t.Fatalf("debounced persist never fired")
	}
	time.Sleep(80 * time.Millisecond) // no second flush may follow

	if got := h.workspaces.updateCount(); got != 1 {
		t.Errorf("persist calls = %d, want exactly 1", got)
	}
	h.workspaces.mu.Lock()
	titlePatch := h.workspaces.updates[0].Title
	h.workspaces.mu.Unlock()
	if titlePatch == nil || *titlePatch != "Team Spirit" {
		t.Errorf("persisted title = %v, want final keystroke value", titlePatch)
	}
}

func TestRenameRollbackRestoresLastPersistedTitle(t *testing.T) {
	h := newHarness(t, 30*time.Millisecond, seededState())
	h.workspaces.fail = errors.New("store unavailable")
	ctx := context.Background()
	id := wsID(h)

	h.syncer.RenameWorkspace(ctx, id, "Renamed")

	if !waitFor(t, time.Second, func() bool {
		return h.store.Snapshot().Workspaces[0].Title == "Team"
	}) {
		t.Errorf("title = %q, want rollback to %q", h.store.Snapshot().Workspaces[0].Title, "Team")
	}
	if h.notifier.errorCount() == 0 {
		t.Errorf("rename failure produced no notification")
	}
}

func TestTrashAndRestoreFolder(t *testing.T) {
	h := newHarness(t, time.Second, seededState())
	ctx := context.Background()

	folder, err := h.syncer.CreateFolder(ctx, CreateFolderRequest{WorkspaceID: wsID(h), Title: "Notes"})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	h.syncer.Wait()

	h.syncer.TrashFolder(ctx, wsID(h), folder.ID, "a@b.c")
	h.syncer.Wait()

	got := state.NewIndex(h.store.Snapshot()).Folder(folder.ID)
	if got == nil || !got.InTrashed() {
		t.Fatalf("folder not trashed")
	}
	if *got.InTrash != "Deleted by user a@b.c" {
		t.Errorf("trash reason = %q", *got.InTrash)
	}
	// Trash persists immediately, no debounce.
	if h.folders.updateCount() != 1 {
		t.Errorf("trash persisted %d times, want 1", h.folders.updateCount())
	}

	h.syncer.RestoreFolder(ctx, wsID(h), folder.ID)
	h.syncer.Wait()

	got = state.NewIndex(h.store.Snapshot()).Folder(folder.ID)
	if got == nil || got.InTrashed() {
		t.Errorf("folder still trashed after restore")
	}
}

func TestDeleteFileRollsBackOnGatewayFailure(t *testing.T) {
	h := newHarness(t, time.Second, seededState())
	ctx := context.Background()

	folder, _ := h.syncer.CreateFolder(ctx, CreateFolderRequest{WorkspaceID: wsID(h), Title: "Notes"})
	file, _ := h.syncer.CreateFile(ctx, CreateFileRequest{WorkspaceID: wsID(h), FolderID: folder.ID, Title: "Doc"})
	h.syncer.Wait()

	h.files.fail = errors.New("store unavailable")
	h.syncer.DeleteFile(ctx, wsID(h), folder.ID, file.ID)
	h.syncer.Wait()

	if state.NewIndex(h.store.Snapshot()).File(file.ID) == nil {
		t.Errorf("file not restored after confirmed delete failure")
	}
	if h.notifier.errorCount() != 1 {
		t.Errorf("delete failure notifications = %d, want 1", h.notifier.errorCount())
	}
}

func TestDeleteWorkspaceCascades(t *testing.T) {
	h := newHarness(t, time.Second, seededState())
	ctx := context.Background()
	id := wsID(h)

	h.syncer.DeleteWorkspace(ctx, id)
	h.syncer.Wait()

	if len(h.store.Snapshot().Workspaces) != 0 {
		t.Errorf("workspace still in tree")
	}
	h.workspaces.mu.Lock()
	deleted := h.workspaces.deleted
	h.workspaces.mu.Unlock()
	if len(deleted) != 1 || deleted[0] != id {
		t.Errorf("workspace row delete = %v, want [%s]", deleted, id)
	}
}

func TestCollaboratorIdempotenceAndValidation(t *testing.T) {
	h := newHarness(t, time.Second, seededState())
	ctx := context.Background()
	userID := "e2a56f5c-5a92-4c2e-b9c6-5d6b0c3e21f0"

	if err := h.syncer.AddCollaborator(ctx, wsID(h), userID); err != nil {
		t.Fatalf("AddCollaborator: %v", err)
	}
	// Second add is a no-op at the gateway, not an error.
	if err := h.syncer.AddCollaborator(ctx, wsID(h), userID); err != nil {
		t.Fatalf("repeated AddCollaborator: %v", err)
	}
	if err := h.syncer.RemoveCollaborator(ctx, wsID(h), userID); err != nil {
		t.Fatalf("RemoveCollaborator: %v", err)
	}
	// Removing an absent member is also a no-op.
	if err := h.syncer.RemoveCollaborator(ctx, wsID(h), userID); err != nil {
		t.Fatalf("repeated RemoveCollaborator: %v", err)
	}

	if err := h.syncer.AddCollaborator(ctx, "garbage", userID); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("malformed workspace id: err = %v, want ErrValidation", err)
	}
}

func TestRemoveBannerClearsFolderAndFile(t *testing.T) {
	h := newHarness(t, time.Second, seededState())
	ctx := context.Background()

	folder, err := h.syncer.CreateFolder(ctx, CreateFolderRequest{WorkspaceID: wsID(h), Title: "Notes"})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	file, err := h.syncer.CreateFile(ctx, CreateFileRequest{
		WorkspaceID: wsID(h), FolderID: folder.ID, Title: "Roadmap",
	})
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}

	h.syncer.SetFolderBanner(ctx, wsID(h), folder.ID, "banners/folder.png")
	h.syncer.SetFileBanner(ctx, wsID(h), folder.ID, file.ID, "banners/file.png")
	h.syncer.Wait()

	h.syncer.RemoveFolderBanner(ctx, wsID(h), folder.ID)
	h.syncer.RemoveFileBanner(ctx, wsID(h), folder.ID, file.ID)
	h.syncer.Wait()

	idx := state.NewIndex(h.store.Snapshot())
	if got := idx.Folder(folder.ID); got == nil || got.BannerURL != nil {
		t.Errorf("folder banner not cleared: %+v", got)
	}
	if got := idx.File(file.ID); got == nil || got.BannerURL != nil {
		t.Errorf("file banner not cleared: %+v", got)
	}
}

func TestSessionsIsolateStoresPerUser(t *testing.T) {
	sessions := NewSessions(&fakeWorkspaceRepo{}, &fakeFolderRepo{}, &fakeFileRepo{},
		&fakeCollaboratorRepo{}, fakeTxManager{}, &recordingNotifier{},
		time.Second, slog.New(slog.DiscardHandler))
	t.Cleanup(sessions.Close)

	otherID := "e2a56f5c-5a92-4c2e-b9c6-5d6b0c3e21f0"
	if sessions.For(ownerID) != sessions.For(ownerID) {
		t.Fatal("same user resolved to two syncers")
	}
	if sessions.For(ownerID) == sessions.For(otherID) {
		t.Fatal("two users share one syncer")
	}

	sessions.For(ownerID).Store().Dispatch(state.AddWorkspace{
		Workspace: state.NewWorkspace(models.Workspace{
			ID: "c7a1d8ee-43b3-4a4c-86a6-25c5cf26bd2f", WorkspaceOwner: ownerID, Title: "Team",
		}),
	})

	if n := len(sessions.For(otherID).Store().Snapshot().Workspaces); n != 0 {
		t.Errorf("another user's snapshot holds %d workspaces, want 0", n)
	}
	if n := len(sessions.For(ownerID).Store().Snapshot().Workspaces); n != 1 {
		t.Errorf("owner's snapshot holds %d workspaces, want 1", n)
	}
}

func TestDebouncerSingleTimerPerKey(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var mu stdsync.Mutex
	fired := []string{}

	d.Schedule(DebounceKey{EntityID: "x", Field: "title"}, func() {
		mu.Lock()
		fired = append(fired, "first")
		mu.Unlock()
	})
	d.Schedule(DebounceKey{EntityID: "x", Field: "title"}, func() {
		mu.Lock()
		fired = append(fired, "second")
		mu.Unlock()
	})
	// A different field on the same entity is an independent timer.
	d.Schedule(DebounceKey{EntityID: "x", Field: "data"}, func() {
		mu.Lock()
		fired = append(fired, "data")
		mu.Unlock()
	})

	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 2 {
		t.Fatalf("fired = %v, want exactly [second data]", fired)
	}
	for _, f := range fired {
		if f == "first" {
			t.Errorf("superseded timer fired")
		}
	}
}

func TestDebouncerFlushRunsPendingImmediately(t *testing.T) {
	d := NewDebouncer(time.Hour)
	defer d.Stop()

	var mu stdsync.Mutex
	fired := []string{}

	d.Schedule(DebounceKey{EntityID: "x", Field: "title"}, func() {
		mu.Lock()
		fired = append(fired, "title")
		mu.Unlock()
	})
	d.Schedule(DebounceKey{EntityID: "y", Field: "data"}, func() {
		mu.Lock()
		fired = append(fired, "data")
		mu.Unlock()
	})
	d.Cancel(DebounceKey{EntityID: "y", Field: "data"})

	d.Flush()

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 || fired[0] != "title" {
		t.Fatalf("fired = %v, want [title]", fired)
	}
	if d.Pending(DebounceKey{EntityID: "x", Field: "title"}) {
		t.Errorf("flushed key still pending")
	}
}
