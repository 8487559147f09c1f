// internal/domain/transaction.go
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Well-known status labels. Purchases carry a structured description instead
// (see PurchaseStatus).
const (
	StatusTransferSuccess = "TRANSFER_SUCCESS"
	StatusJoiningBonus    = "JOINING_BONUS"
)

// Transaction is one immutable ledger entry. Every balance or holding
// mutation writes exactly one; records are never updated or deleted. A
// purchase is recorded as a self-referential debit: sender and receiver are
// both the buyer's account, and the status string is the only discriminator.
type Transaction struct {
	ID                int64           `db:"id" json:"id"`
	SenderAccountID   int64           `db:"sender_account_id" json:"sender_account_id"`
	ReceiverAccountID int64           `db:"receiver_account_id" json:"receiver_account_id"`
	Amount            decimal.Decimal `db:"amount" json:"amount"` // always > 0
	Status            string          `db:"status" json:"status"`
	Timestamp         time.Time       `db:"timestamp" json:"timestamp"`
}

// NewTransaction creates a new ledger entry stamped with the current time.
func NewTransaction(senderAccountID, receiverAccountID int64, amount decimal.Decimal, status string) *Transaction {
	return &Transaction{
		SenderAccountID:   senderAccountID,
		ReceiverAccountID: receiverAccountID,
		Amount:            amount,
		Status:            status,
		Timestamp:         time.Now().UTC(),
	}
}

// PurchaseStatus renders the status label for an instrument purchase.
func PurchaseStatus(symbol string, quantity int64) string {
	return fmt.Sprintf("STOCK_BUY : %s | Qty: %d", symbol, quantity)
}
