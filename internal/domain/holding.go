// internal/domain/holding.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is a user's position in one instrument: quantity held plus the
// quantity-weighted average buy price. At most one holding exists per
// (user, symbol) pair. Quantity never goes negative; there is no sell path.
type Holding struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Symbol    string          `db:"symbol" json:"symbol"`
	Quantity  int64           `db:"quantity" json:"quantity"`
	AvgPrice  decimal.Decimal `db:"avg_price" json:"avg_price"` // NUMERIC(19, 2)
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// NewHolding creates the first lot of a symbol for a user. The average price
// of a single lot is its purchase price.
func NewHolding(userID int64, symbol string, quantity int64, price decimal.Decimal) *Holding {
	now := time.Now().UTC()
	return &Holding{
		UserID:    userID,
		Symbol:    symbol,
		Quantity:  quantity,
		AvgPrice:  price,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddLot folds a new purchase into the holding, recomputing the average buy
// price as the quantity-weighted mean of all lots. The intermediate totals
// are kept at full precision; rounding (half-up, 2 decimal places) happens
// only at the final division. That rounding policy is a fixed contract.
func (h *Holding) AddLot(quantity int64, price decimal.Decimal) {
	oldTotal := h.AvgPrice.Mul(decimal.NewFromInt(h.Quantity))
	newTotal := oldTotal.Add(price.Mul(decimal.NewFromInt(quantity)))
	newQuantity := h.Quantity + quantity

	h.Quantity = newQuantity
	// DivRound rounds half away from zero; for the positive values here that
	// is exactly half-up.
	h.AvgPrice = newTotal.DivRound(decimal.NewFromInt(newQuantity), 2)
	h.UpdatedAt = time.Now().UTC()
}
