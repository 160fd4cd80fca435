package sync

import (
	"context"
	"fmt"
	"log/slog"
	stdsync "sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"cypress/internal/config"
	"cypress/internal/domain"
	"cypress/internal/domain/models"
	"cypress/internal/domain/repositories"
	"cypress/internal/state"
)

// Syncer applies each user edit to the state store immediately and persists
// it through the repository gateway off the caller's goroutine. On a
// confirmed gateway failure it dispatches the inverse action and notifies;
// one policy for every operation kind.
type Syncer struct {
	store         *state.Store
	workspaces    repositories.WorkspaceRepository
	folders       repositories.FolderRepository
	files         repositories.FileRepository
	collaborators repositories.CollaboratorRepository
	txManager     repositories.TransactionManager
	notifier      Notifier
	debouncer     *Debouncer
	logger        *slog.Logger

	mu        stdsync.Mutex
	baselines map[DebounceKey]string // last persisted value per in-flight debounced edit

	inflight stdsync.WaitGroup
}

// NewSyncer wires the sync layer. debounceDelay controls how long a rename
// or content edit must stay quiet before it is persisted.
func NewSyncer(
	store *state.Store,
	workspaces repositories.WorkspaceRepository,
	folders repositories.FolderRepository,
	files repositories.FileRepository,
	collaborators repositories.CollaboratorRepository,
	txManager repositories.TransactionManager,
	notifier Notifier,
	debounceDelay time.Duration,
	logger *slog.Logger,
) *Syncer {
	if debounceDelay <= 0 {
		debounceDelay = config.DefaultDebounceDelay
	}
	return &Syncer{
		store:         store,
		workspaces:    workspaces,
		folders:       folders,
		files:         files,
		collaborators: collaborators,
		txManager:     txManager,
		notifier:      notifier,
		debouncer:     NewDebouncer(debounceDelay),
		logger:        logger,
		baselines:     make(map[DebounceKey]string),
	}
}

// Store exposes the underlying state store for read access.
func (s *Syncer) Store() *state.Store {
	return s.store
}

// Wait blocks until every immediate persistence call issued so far has
// completed. Debounced timers are not waited on; use Close for those.
func (s *Syncer) Wait() {
	s.inflight.Wait()
}

// Close flushes pending debounced persists and waits for in-flight calls.
func (s *Syncer) Close() {
	s.debouncer.Flush()
	s.inflight.Wait()
}

// persist runs fn off the caller's goroutine. On error it runs rollback,
// notifies with failMsg and logs; the caller never observes the round-trip.
func (s *Syncer) persist(op string, fn func() error, rollback func(), failMsg string) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		if err := fn(); err != nil {
			s.logger.Error("persist failed", "op", op, "error", err)
			if rollback != nil {
				rollback()
			}
			s.notifier.Error(failMsg)
		}
	}()
}

// CreateWorkspaceRequest carries a workspace creation edit.
type CreateWorkspaceRequest struct {
	OwnerID string
	Title   string
	IconID  string
	Logo    *string
}

func (r CreateWorkspaceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OwnerID, validation.Required, is.UUID),
		validation.Field(&r.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
	)
}

// CreateWorkspace generates the workspace id client-side so the optimistic
// node and the persisted row share identity, inserts it into the tree, then
// persists fire-and-forget.
func (s *Syncer) CreateWorkspace(ctx context.Context, req CreateWorkspaceRequest) (*models.Workspace, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	workspace := models.Workspace{
		ID:             uuid.NewString(),
		WorkspaceOwner: req.OwnerID,
		Title:          req.Title,
		IconID:         req.IconID,
		Logo:           req.Logo,
		CreatedAt:      time.Now().UTC(),
	}

	s.store.Dispatch(state.AddWorkspace{Workspace: state.NewWorkspace(workspace)})

	pctx := context.WithoutCancel(ctx)
	s.persist("create workspace",
		func() error { return s.workspaces.Create(pctx, &workspace) },
		func() { s.store.Dispatch(state.DeleteWorkspace{WorkspaceID: workspace.ID}) },
		"Could not create your workspace",
	)

	return &workspace, nil
}

// CreateFolderRequest carries a folder creation edit. Title may be empty;
// the editor shows a placeholder until the user names it.
type CreateFolderRequest struct {
	WorkspaceID string
	Title       string
	IconID      string
}

func (r CreateFolderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.WorkspaceID, validation.Required, is.UUID),
		validation.Field(&r.Title, validation.Length(0, config.MaxTitleLength)),
	)
}

// CreateFolder inserts a folder optimistically and persists it.
func (s *Syncer) CreateFolder(ctx context.Context, req CreateFolderRequest) (*models.Folder, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	iconID := req.IconID
	if iconID == "" {
		iconID = config.DefaultFolderIcon
	}

	folder := models.Folder{
		ID:          uuid.NewString(),
		WorkspaceID: req.WorkspaceID,
		Title:       req.Title,
		IconID:      iconID,
		CreatedAt:   time.Now().UTC(),
	}

	s.store.Dispatch(state.AddFolder{WorkspaceID: folder.WorkspaceID, Folder: state.NewFolder(folder)})

	pctx := context.WithoutCancel(ctx)
	s.persist("create folder",
		func() error { return s.folders.Create(pctx, &folder) },
		func() {
			s.store.Dispatch(state.DeleteFolder{WorkspaceID: folder.WorkspaceID, FolderID: folder.ID})
		},
		"Could not create your folder",
	)

	return &folder, nil
}

// CreateFileRequest carries a file creation edit.
type CreateFileRequest struct {
	WorkspaceID string
	FolderID    string
	Title       string
	IconID      string
}

func (r CreateFileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.WorkspaceID, validation.Required, is.UUID),
		validation.Field(&r.FolderID, validation.Required, is.UUID),
		validation.Field(&r.Title, validation.Length(0, config.MaxTitleLength)),
	)
}

// CreateFile inserts a file optimistically. The file's workspace id is taken
// from the parent folder when the folder is in the tree, keeping the
// denormalized ancestor reference consistent at creation time.
func (s *Syncer) CreateFile(ctx context.Context, req CreateFileRequest) (*models.File, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	workspaceID := req.WorkspaceID
	idx := state.NewIndex(s.store.Snapshot())
	if parent := idx.Folder(req.FolderID); parent != nil {
		if parent.WorkspaceID != req.WorkspaceID {
			return nil, fmt.Errorf("%w: folder %s belongs to a different workspace", domain.ErrValidation, req.FolderID)
		}
		workspaceID = parent.WorkspaceID
	}

	iconID := req.IconID
	if iconID == "" {
		iconID = config.DefaultFileIcon
	}

	file := models.File{
		ID:          uuid.NewString(),
		FolderID:    req.FolderID,
		WorkspaceID: workspaceID,
		Title:       req.Title,
		IconID:      iconID,
		CreatedAt:   time.Now().UTC(),
	}

	s.store.Dispatch(state.AddFile{WorkspaceID: file.WorkspaceID, FolderID: file.FolderID, File: file})

	pctx := context.WithoutCancel(ctx)
	s.persist("create file",
		func() error { return s.files.Create(pctx, &file) },
		func() {
			s.store.Dispatch(state.DeleteFile{WorkspaceID: file.WorkspaceID, FolderID: file.FolderID, FileID: file.ID})
		},
		"Could not create your file",
	)

	return &file, nil
}
