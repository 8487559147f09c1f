// internal/repository/postgres/holding_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vaultcore-ledger/internal/domain"
	"vaultcore-ledger/internal/repository"
	"vaultcore-ledger/internal/util"
)

const holdingColumns = `id, user_id, symbol, quantity, avg_price, created_at, updated_at`

// HoldingRepository implements repository.HoldingRepository for PostgreSQL.
type HoldingRepository struct{}

// NewHoldingRepository creates a new HoldingRepository.
func NewHoldingRepository() repository.HoldingRepository {
	return &HoldingRepository{}
}

// CreateHolding inserts the first lot of a symbol for a user. The
// UNIQUE(user_id, symbol) constraint rejects a concurrent first buy of the
// same symbol; that surfaces as a storage error and rolls the unit of work
// back.
func (r *HoldingRepository) CreateHolding(ctx context.Context, q repository.DBExecutor, holding *domain.Holding) error {
	query := `INSERT INTO holdings (user_id, symbol, quantity, avg_price, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		holding.UserID, holding.Symbol, holding.Quantity, holding.AvgPrice, holding.CreatedAt, holding.UpdatedAt,
	).Scan(&holding.ID)
	if err != nil {
		return fmt.Errorf("failed to create holding: %w", err)
	}
	return nil
}

// GetHolding retrieves the holding for a (user, symbol) pair.
func (r *HoldingRepository) GetHolding(ctx context.Context, q repository.DBExecutor, userID int64, symbol string) (*domain.Holding, error) {
	var holding domain.Holding
	query := `SELECT ` + holdingColumns + ` FROM holdings WHERE user_id = $1 AND symbol = $2`
	err := q.GetContext(ctx, &holding, query, userID, symbol)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get holding %s for user %d: %w", symbol, userID, err)
	}
	return &holding, nil
}

// UpdateHolding persists a recomputed quantity and average price.
func (r *HoldingRepository) UpdateHolding(ctx context.Context, q repository.DBExecutor, holding *domain.Holding) error {
	query := `UPDATE holdings SET quantity = $1, avg_price = $2, updated_at = $3 WHERE id = $4`
	result, err := q.ExecContext(ctx, query, holding.Quantity, holding.AvgPrice, holding.UpdatedAt, holding.ID)
	if err != nil {
		return fmt.Errorf("failed to update holding %d: %w", holding.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for holding %d: %w", holding.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}

// GetHoldingsByUserID lists all holdings owned by a user.
func (r *HoldingRepository) GetHoldingsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Holding, error) {
	holdings := []domain.Holding{}
	query := `SELECT ` + holdingColumns + ` FROM holdings WHERE user_id = $1 ORDER BY symbol`
	if err := q.SelectContext(ctx, &holdings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to fetch holdings for user %d: %w", userID, err)
	}
	return holdings, nil
}
