// internal/domain/account.go
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Account is a user's single bank account. Exactly one exists per user. The
// account number is the display handle used for transfers; it is distinct
// from the database ID.
type Account struct {
	ID            int64           `db:"id" json:"id"`
	UserID        int64           `db:"user_id" json:"user_id"`
	AccountNumber string          `db:"account_number" json:"account_number"`
	Balance       decimal.Decimal `db:"balance" json:"balance"` // NUMERIC(19, 2), never negative
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// NewAccount creates a new Account with a fresh account number and the given
// opening balance.
func NewAccount(userID int64, openingBalance decimal.Decimal) *Account {
	now := time.Now().UTC()
	return &Account{
		UserID:        userID,
		AccountNumber: NewAccountNumber(),
		Balance:       openingBalance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewAccountNumber generates a display account number of the form
// "ACC-3F09A1".
func NewAccountNumber() string {
	return "ACC-" + strings.ToUpper(uuid.NewString()[:6])
}
