package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"cypress/internal/domain/models"
	"cypress/internal/domain/repositories"
)

// PostgresSubscriptionRepository reads billing rows written by the payment
// provider's webhooks.
type PostgresSubscriptionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewSubscriptionRepository creates a new subscription repository.
func NewSubscriptionRepository(config *RepositoryConfig) repositories.SubscriptionRepository {
	return &PostgresSubscriptionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByUser returns the user's subscription, or nil when none exists. Most
// users have no row at all; that is the free plan, not an error.
func (r *PostgresSubscriptionRepository) GetByUser(ctx context.Context, userID string) (*models.Subscription, error) {
	if err := validateID(userID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, status, price_id, quantity, cancel_at_period_end, current_period_end, created
		FROM %s WHERE user_id = $1
		ORDER BY created DESC
		LIMIT 1
	`, r.tables.Subscriptions)

	var s models.Subscription
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &s.Status, &s.PriceID, &s.Quantity, &s.CancelAtPeriodEnd, &s.CurrentPeriodEnd, &s.Created,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &s, nil
}
