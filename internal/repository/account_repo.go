// internal/repository/account_repo.go
package repository

import (
	"context"

	"vaultcore-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data operations.
//
// The ForUpdate variants take a row-level lock for the duration of the
// surrounding unit of work; callers locking more than one account must lock
// in increasing account-ID order (see LockAccountsByID) so that two opposing
// transfers cannot deadlock.
type AccountRepository interface {
	// CreateAccount adds a new account to the database.
	CreateAccount(ctx context.Context, q DBExecutor, account *domain.Account) error
	// GetAccountByUserID retrieves the account owned by a user.
	GetAccountByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Account, error)
	// GetAccountByNumber retrieves an account by its display account number.
	GetAccountByNumber(ctx context.Context, q DBExecutor, accountNumber string) (*domain.Account, error)
	// GetAccountByIDForUpdate retrieves an account by ID with a row lock held
	// until the surrounding transaction ends.
	GetAccountByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Account, error)
	// AddToBalance applies a relative balance change (positive = credit,
	// negative = debit) to an account row.
	AddToBalance(ctx context.Context, q DBExecutor, accountID int64, delta decimal.Decimal) error
}

// LockAccountsByID re-reads two distinct accounts under row locks, acquiring
// the locks in increasing ID order. The returned accounts are keyed back to
// the request order, not the lock order.
func LockAccountsByID(ctx context.Context, repo AccountRepository, q DBExecutor, firstID, secondID int64) (*domain.Account, *domain.Account, error) {
	lo, hi := firstID, secondID
	if lo > hi {
		lo, hi = hi, lo
	}
	loAcc, err := repo.GetAccountByIDForUpdate(ctx, q, lo)
	if err != nil {
		return nil, nil, err
	}
	hiAcc, err := repo.GetAccountByIDForUpdate(ctx, q, hi)
	if err != nil {
		return nil, nil, err
	}
	if loAcc.ID == firstID {
		return loAcc, hiAcc, nil
	}
	return hiAcc, loAcc, nil
}
