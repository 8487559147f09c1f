// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"vaultcore-ledger/internal/domain"
)

// TransactionRepository defines the interface for ledger-record operations.
// The transactions table is append-only: there is deliberately no update or
// delete method.
type TransactionRepository interface {
	// CreateTransaction appends a new ledger record.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionsByAccountID retrieves every record where the account
	// appears as sender or receiver, most recent first.
	GetTransactionsByAccountID(ctx context.Context, q DBExecutor, accountID int64) ([]domain.Transaction, error)
}
