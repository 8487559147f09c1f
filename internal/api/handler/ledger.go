// internal/api/handler/ledger.go
package handler

import (
	"encoding/json"
	"net/http"

	"vaultcore-ledger/internal/api/types"
	"vaultcore-ledger/internal/notify"
	"vaultcore-ledger/internal/otp"
	"vaultcore-ledger/internal/service"
	"vaultcore-ledger/internal/statement"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerHandler handles the authenticated ledger endpoints: transfers,
// purchases, balance and holdings reads, history and statement export.
type LedgerHandler struct {
	ledger   service.LedgerService
	otpStore *otp.Store
	notifier notify.Notifier
	renderer statement.Renderer
	logger   *zap.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger service.LedgerService, otpStore *otp.Store, notifier notify.Notifier, renderer statement.Renderer, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledger:   ledger,
		otpStore: otpStore,
		notifier: notifier,
		renderer: renderer,
		logger:   logger,
	}
}

// RequestTransferOTP issues a step-up OTP for the authenticated user and
// sends it out of band.
// POST /transaction/request-otp
func (h *LedgerHandler) RequestTransferOTP(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	code, err := h.otpStore.Generate(user.Email)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	if err := h.notifier.Send(r.Context(), user.Email, "VaultCore Transaction OTP", "Your OTP is: "+code); err != nil {
		h.logger.Error("failed to send transfer otp", zap.Error(err))
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.MessageResponse{Message: "OTP sent successfully"})
}

// TransferRequest is the request body for POST /transaction/transfer.
type TransferRequest struct {
	OTP             string          `json:"otp"`
	ReceiverAccount string          `json:"receiverAccount"`
	Amount          decimal.Decimal `json:"amount"`
}

// Transfer moves funds to another account. The OTP step-up check runs here,
// before the ledger core is invoked; the core trusts it already passed.
// POST /transaction/transfer
func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, h.logger, http.StatusBadRequest, types.ErrorResponse{Error: "invalid request body"})
		return
	}

	if !h.otpStore.Validate(user.Email, req.OTP) {
		respondWithJSON(w, h.logger, http.StatusBadRequest, types.ErrorResponse{Error: "Invalid or expired OTP"})
		return
	}

	transaction, err := h.ledger.Transfer(r.Context(), user.ID, req.ReceiverAccount, req.Amount)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":        "Transfer Successful",
		"transaction_id": transaction.ID,
	})
}

// PurchaseRequest is the request body for POST /stocks/buy.
type PurchaseRequest struct {
	Symbol   string          `json:"symbol"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Purchase buys an instrument against the account balance.
// POST /stocks/buy
func (h *LedgerHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Symbol == "" {
		respondWithJSON(w, h.logger, http.StatusBadRequest, types.ErrorResponse{Error: "invalid request body"})
		return
	}

	h.logger.Info("buy stock",
		zap.String("email", user.Email),
		zap.String("symbol", req.Symbol),
		zap.Int64("quantity", req.Quantity),
		zap.String("price", req.Price.String()),
	)

	transaction, err := h.ledger.Purchase(r.Context(), user.ID, req.Symbol, req.Quantity, req.Price)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":        "Stock purchased successfully",
		"transaction_id": transaction.ID,
	})
}

// History returns the user's ledger records, most recent first.
// GET /transaction/history
func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	transactions, err := h.ledger.History(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, transactions)
}

// Statement renders the history as a downloadable document.
// GET /transaction/statement
func (h *LedgerHandler) Statement(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	transactions, err := h.ledger.History(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+h.renderer.Filename())
	if err := h.renderer.Render(w, transactions, user.Username); err != nil {
		h.logger.Error("failed to render statement", zap.Error(err))
	}
}

// GetAccount returns the user's account and current balance.
// GET /account
func (h *LedgerHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	account, err := h.ledger.GetAccount(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, account)
}

// GetHoldings lists the user's positions.
// GET /account/holdings
func (h *LedgerHandler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	holdings, err := h.ledger.GetHoldings(r.Context(), user.ID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, holdings)
}
