// internal/repository/holding_repo.go
package repository

import (
	"context"

	"vaultcore-ledger/internal/domain"
)

// HoldingRepository defines the interface for holding data operations.
type HoldingRepository interface {
	// CreateHolding inserts the first lot of a symbol for a user.
	CreateHolding(ctx context.Context, q DBExecutor, holding *domain.Holding) error
	// GetHolding retrieves the holding for a (user, symbol) pair, or
	// util.ErrNotFound when the user has never bought the symbol.
	GetHolding(ctx context.Context, q DBExecutor, userID int64, symbol string) (*domain.Holding, error)
	// UpdateHolding persists a recomputed quantity and average price.
	UpdateHolding(ctx context.Context, q DBExecutor, holding *domain.Holding) error
	// GetHoldingsByUserID lists all holdings owned by a user.
	GetHoldingsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Holding, error)
}
