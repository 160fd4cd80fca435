package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"cypress/internal/domain"
	"cypress/internal/domain/models"
	"cypress/internal/domain/repositories"
)

// PostgresUserRepository reads profile rows written by the auth provider.
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository.
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByID retrieves a user profile by id.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, email, full_name, avatar_url, billing_address, payment_method, updated_at
		FROM %s WHERE id = $1
	`, r.tables.Users)

	var u models.User
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.FullName, &u.AvatarURL, &u.BillingAddress, &u.PaymentMethod, &u.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// SearchByEmailPrefix backs the add-collaborator picker with a
// case-insensitive prefix match.
func (r *PostgresUserRepository) SearchByEmailPrefix(ctx context.Context, prefix string) ([]models.User, error) {
	if prefix == "" {
		return []models.User{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, email, full_name, avatar_url, billing_address, payment_method, updated_at
		FROM %s WHERE email ILIKE $1 || '%%'
		ORDER BY email ASC
		LIMIT 20
	`, r.tables.Users)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FullName, &u.AvatarURL, &u.BillingAddress, &u.PaymentMethod, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
