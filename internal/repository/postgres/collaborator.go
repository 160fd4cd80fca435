package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"cypress/internal/domain/models"
	"cypress/internal/domain/repositories"
)

// PostgresCollaboratorRepository implements the CollaboratorRepository
// gateway. Membership writes are idempotent through an existence check, so
// callers can retry safely.
type PostgresCollaboratorRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCollaboratorRepository creates a new collaborator repository.
func NewCollaboratorRepository(config *RepositoryConfig) repositories.CollaboratorRepository {
	return &PostgresCollaboratorRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Add grants a user membership; adding a present member is a no-op.
func (r *PostgresCollaboratorRepository) Add(ctx context.Context, workspaceID, userID string) error {
	if err := validateID(workspaceID); err != nil {
		return err
	}
	if err := validateID(userID); err != nil {
		return err
	}

	exists, err := r.Exists(ctx, workspaceID, userID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, workspace_id, user_id, created_at)
		VALUES ($1, $2, $3, now())
	`, r.tables.Collaborators)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, uuid.NewString(), workspaceID, userID); err != nil {
		// A concurrent add racing the existence check is still an add
		if isPgDuplicateError(err) {
			return nil
		}
		return fmt.Errorf("add collaborator: %w", err)
	}
	return nil
}

// Remove revokes a user's membership; removing an absent member is a no-op.
func (r *PostgresCollaboratorRepository) Remove(ctx context.Context, workspaceID, userID string) error {
	if err := validateID(workspaceID); err != nil {
		return err
	}
	if err := validateID(userID); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		DELETE FROM %s WHERE workspace_id = $1 AND user_id = $2
	`, r.tables.Collaborators)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, workspaceID, userID); err != nil {
		return fmt.Errorf("remove collaborator: %w", err)
	}
	return nil
}

// Exists reports whether the user is a member of the workspace.
func (r *PostgresCollaboratorRepository) Exists(ctx context.Context, workspaceID, userID string) (bool, error) {
	if err := validateID(workspaceID); err != nil {
		return false, err
	}
	if err := validateID(userID); err != nil {
		return false, err
	}

	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE workspace_id = $1 AND user_id = $2)
	`, r.tables.Collaborators)

	var exists bool
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, workspaceID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check collaborator: %w", err)
	}
	return exists, nil
}

// ListUsers returns the member profiles of a workspace.
func (r *PostgresCollaboratorRepository) ListUsers(ctx context.Context, workspaceID string) ([]models.User, error) {
	if err := validateID(workspaceID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT u.id, u.email, u.full_name, u.avatar_url, u.billing_address, u.payment_method, u.updated_at
		FROM %s u
		JOIN %s c ON c.user_id = u.id
		WHERE c.workspace_id = $1
		ORDER BY c.created_at ASC
	`, r.tables.Users, r.tables.Collaborators)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.AvatarURL, &u.BillingAddress, &u.PaymentMethod, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan collaborator: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteByWorkspace removes every membership row of a workspace. Used by
// the workspace hard-delete cascade.
func (r *PostgresCollaboratorRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) error {
	if err := validateID(workspaceID); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE workspace_id = $1`, r.tables.Collaborators)
	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, workspaceID); err != nil {
		return fmt.Errorf("delete collaborators by workspace: %w", err)
	}
	return nil
}
