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

const fileColumns = "id, folder_id, workspace_id, title, icon_id, data, banner_url, in_trash, created_at"

// PostgresFileRepository implements the FileRepository gateway.
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository.
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a file row.
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	if err := validateID(file.ID); err != nil {
		return err
	}
	if err := validateID(file.FolderID); err != nil {
		return err
	}
	if err := validateID(file.WorkspaceID); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, folder_id, workspace_id, title, icon_id, data, banner_url, in_trash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Files)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		file.ID,
		file.FolderID,
		file.WorkspaceID,
		file.Title,
		file.IconID,
		file.Data,
		file.BannerURL,
		file.InTrash,
		file.CreatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("file %s: %w", file.ID, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder %s: %w", file.FolderID, domain.ErrNotFound)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID retrieves a file by id.
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, fileColumns, r.tables.Files)

	file, err := scanFile(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return file, nil
}

// Update applies the patch; a missing row is a silent no-op.
func (r *PostgresFileRepository) Update(ctx context.Context, id string, patch models.FilePatch) error {
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
		r.tables.Files, strings.Join(sets, ", "), len(args))

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update file: %w", err)
	}
	return nil
}

// Delete removes the file row; a missing row is a silent no-op.
func (r *PostgresFileRepository) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Files)
	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// ListByFolder returns the folder's files ordered by created_at.
func (r *PostgresFileRepository) ListByFolder(ctx context.Context, folderID string) ([]models.File, error) {
	if err := validateID(folderID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE folder_id = $1 ORDER BY created_at ASC
	`, fileColumns, r.tables.Files)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, folderID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	files := []models.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, *f)
	}
	return files, rows.Err()
}

// DeleteByWorkspace removes every file of a workspace. Used by the
// workspace hard-delete cascade.
func (r *PostgresFileRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) error {
	if err := validateID(workspaceID); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE workspace_id = $1`, r.tables.Files)
	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, workspaceID); err != nil {
		return fmt.Errorf("delete files by workspace: %w", err)
	}
	return nil
}

func scanFile(row pgx.Row) (*models.File, error) {
	var f models.File
	err := row.Scan(
		&f.ID,
		&f.FolderID,
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
