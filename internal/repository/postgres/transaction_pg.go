// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"vaultcore-ledger/internal/domain"
	"vaultcore-ledger/internal/repository"
)

// TransactionRepository implements repository.TransactionRepository for
// PostgreSQL.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction appends a new ledger record.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (sender_account_id, receiver_account_id, amount, status, timestamp)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		transaction.SenderAccountID,
		transaction.ReceiverAccountID,
		transaction.Amount,
		transaction.Status,
		transaction.Timestamp,
	).Scan(&transaction.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetTransactionsByAccountID retrieves every record where the account appears
// as sender or receiver, most recent first.
func (r *TransactionRepository) GetTransactionsByAccountID(ctx context.Context, q repository.DBExecutor, accountID int64) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	query := `
		SELECT id, sender_account_id, receiver_account_id, amount, status, timestamp
		FROM transactions
		WHERE sender_account_id = $1 OR receiver_account_id = $1
		ORDER BY timestamp DESC`
	if err := q.SelectContext(ctx, &transactions, query, accountID); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for account %d: %w", accountID, err)
	}
	return transactions, nil
}
