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

const workspaceColumns = "id, workspace_owner, title, icon_id, data, logo, banner_url, in_trash, created_at"

// PostgresWorkspaceRepository implements the WorkspaceRepository gateway.
type PostgresWorkspaceRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewWorkspaceRepository creates a new workspace repository.
func NewWorkspaceRepository(config *RepositoryConfig) repositories.WorkspaceRepository {
	return &PostgresWorkspaceRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a workspace row. The id was generated client-side so the
// optimistic node and the row share identity.
func (r *PostgresWorkspaceRepository) Create(ctx context.Context, workspace *models.Workspace) error {
	if err := validateID(workspace.ID); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, workspace_owner, title, icon_id, data, logo, banner_url, in_trash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Workspaces)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		workspace.ID,
		workspace.WorkspaceOwner,
		workspace.Title,
		workspace.IconID,
		workspace.Data,
		workspace.Logo,
		workspace.BannerURL,
		workspace.InTrash,
		workspace.CreatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("workspace %s: %w", workspace.ID, domain.ErrConflict)
		}
		return fmt.Errorf("create workspace: %w", err)
	}

	return nil
}

// GetByID retrieves a workspace by id.
func (r *PostgresWorkspaceRepository) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, workspaceColumns, r.tables.Workspaces)

	workspace, err := scanWorkspace(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get workspace: %w", err)
	}

	return workspace, nil
}

// Update applies the patch. A missing row is a silent no-op, matching the
// state container's treatment of unknown ids.
func (r *PostgresWorkspaceRepository) Update(ctx context.Context, id string, patch models.WorkspacePatch) error {
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
	if patch.Logo.Set {
		add("logo", patch.Logo.Value)
	}
	if patch.BannerURL.Set {
		add("banner_url", patch.BannerURL.Value)
	}
	if patch.InTrash.Set {
		add("in_trash", patch.InTrash.Value)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d`,
		r.tables.Workspaces, strings.Join(sets, ", "), len(args))

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update workspace: %w", err)
	}
	return nil
}

// Delete removes the workspace row. A missing row is a silent no-op.
func (r *PostgresWorkspaceRepository) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Workspaces)
	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	return nil
}

// ListPrivate returns workspaces owned by the user with no collaborators.
func (r *PostgresWorkspaceRepository) ListPrivate(ctx context.Context, userID string) ([]models.Workspace, error) {
	if err := validateID(userID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s w
		WHERE w.workspace_owner = $1
		  AND NOT EXISTS (SELECT 1 FROM %s c WHERE c.workspace_id = w.id)
		ORDER BY w.created_at ASC
	`, prefixColumns("w", workspaceColumns), r.tables.Workspaces, r.tables.Collaborators)

	return r.queryWorkspaces(ctx, query, userID)
}

// ListShared returns workspaces owned by the user that have collaborators.
func (r *PostgresWorkspaceRepository) ListShared(ctx context.Context, userID string) ([]models.Workspace, error) {
	if err := validateID(userID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s w
		WHERE w.workspace_owner = $1
		  AND EXISTS (SELECT 1 FROM %s c WHERE c.workspace_id = w.id)
		ORDER BY w.created_at ASC
	`, prefixColumns("w", workspaceColumns), r.tables.Workspaces, r.tables.Collaborators)

	return r.queryWorkspaces(ctx, query, userID)
}

// ListCollaborating returns workspaces the user was added to but does not own.
func (r *PostgresWorkspaceRepository) ListCollaborating(ctx context.Context, userID string) ([]models.Workspace, error) {
	if err := validateID(userID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s w
		JOIN %s c ON c.workspace_id = w.id
		WHERE c.user_id = $1 AND w.workspace_owner <> $1
		ORDER BY w.created_at ASC
	`, prefixColumns("w", workspaceColumns), r.tables.Workspaces, r.tables.Collaborators)

	return r.queryWorkspaces(ctx, query, userID)
}

func (r *PostgresWorkspaceRepository) queryWorkspaces(ctx context.Context, query string, args ...interface{}) ([]models.Workspace, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	workspaces := []models.Workspace{}
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		workspaces = append(workspaces, *w)
	}
	return workspaces, rows.Err()
}

func scanWorkspace(row pgx.Row) (*models.Workspace, error) {
	var w models.Workspace
	err := row.Scan(
		&w.ID,
		&w.WorkspaceOwner,
		&w.Title,
		&w.IconID,
		&w.Data,
		&w.Logo,
		&w.BannerURL,
		&w.InTrash,
		&w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
