package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cypress/internal/domain"
	"cypress/internal/domain/models"
	"cypress/internal/domain/repositories"
)

const folderColumns = "id, workspace_id, title, icon_id, data, banner_url, in_trash, created_at"

// PostgresFolderRepository implements the FolderRepository gateway.
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository.
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a folder row.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if err := validateID(folder.ID); err != nil {
		return err
	}
	if err := validateID(folder.WorkspaceID); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, workspace_id, title, icon_id, data, banner_url, in_trash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Folders)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.ID,
		folder.WorkspaceID,
		folder.Title,
		folder.IconID,
		folder.Data,
		folder.BannerURL,
		folder.InTrash,
		folder.CreatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("workspace %s: %w", folder.WorkspaceID, domain.ErrNotFound)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by id.
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns, r.tables.Folders)

	folder, err := scanFolder(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// Update applies the patch; a missing row is a silent no-op.
func (r *PostgresFolderRepository) Update(ctx context.Context, id string, patch models.FolderPatch) error {
	if err := validateID(id); err != nil {
		return err
	}
	if patch.IsZero() {
		return nil
	}

	var sets []string
	var args []interface{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.IconID != nil {
		add("icon_id", *patch.IconID)
	}
	if patch.Data.Set {
		add("data", patch.Data.Value)
	}
	if patch.BannerURL.Set {
		add("banner_url", patch.BannerURL.Value)
	}
	if patch.InTrash.Set {
		add("in_trash", patch.InTrash.Value)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
		r.tables.Folders, strings.Join(sets, ", "), len(args))

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update folder: %w", err)
	}
	return nil
}

// Delete removes the folder row; a missing row is a silent no-op. File rows
// under the folder go away through the ON DELETE CASCADE constraint.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Folders)
	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return nil
}

// ListByWorkspace returns the workspace's folders ordered by created_at.
func (r *PostgresFolderRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Folder, error) {
	if err := validateID(workspaceID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE workspace_id = $1 ORDER BY created_at ASC
	`, folderColumns, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *f)
	}
	return folders, rows.Err()
}

// DeleteByWorkspace removes every folder of a workspace. Used by the
// workspace hard-delete cascade.
func (r *PostgresFolderRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) error {
	if err := validateID(workspaceID); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE workspace_id = $1`, r.tables.Folders)
	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, workspaceID); err != nil {
		return fmt.Errorf("delete folders by workspace: %w", err)
	}
	return nil
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var f models.Folder
	err := row.Scan(
		&f.ID,
		&f.WorkspaceID,
		&f.Title,
		&f.IconID,
		&f.Data,
		&f.BannerURL,
		&f.InTrash,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
