// internal/statement/statement.go
package statement

import (
	"encoding/csv"
	"fmt"
	"io"

	"vaultcore-ledger/internal/domain"
)

// Renderer turns an ordered transaction sequence into a downloadable account
// statement. The sequence arrives exactly as the history query produced it
// (most recent first); renderers must not reorder it.
type Renderer interface {
	Render(w io.Writer, transactions []domain.Transaction, username string) error
	ContentType() string
	Filename() string
}

// CSVRenderer writes the statement as CSV. It is the only renderer shipped;
// richer formats plug in behind Renderer.
type CSVRenderer struct{}

// NewCSVRenderer creates a CSVRenderer.
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

// Render writes a header row identifying the customer, then one row per
// transaction.
func (r *CSVRenderer) Render(w io.Writer, transactions []domain.Transaction, username string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"customer", username}); err != nil {
		return fmt.Errorf("failed to write statement header: %w", err)
	}
	if err := cw.Write([]string{"date", "status", "amount"}); err != nil {
		return fmt.Errorf("failed to write column header: %w", err)
	}
	for _, t := range transactions {
		row := []string{
			t.Timestamp.Format("2006-01-02"),
			t.Status,
			t.Amount.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write statement row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ContentType reports the MIME type of the rendered statement.
func (r *CSVRenderer) ContentType() string { return "text/csv" }

// Filename reports the suggested download filename.
func (r *CSVRenderer) Filename() string { return "statement.csv" }
