// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"vaultcore-ledger/internal/api/types"
	"vaultcore-ledger/internal/util"

	"go.uber.org/zap"
)

// DefaultTimeout bounds request handling at the router level.
const DefaultTimeout = 60 * time.Second

func respondWithJSON(w http.ResponseWriter, logger *zap.Logger, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal JSON response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps the ledger error taxonomy onto HTTP statuses. The
// taxonomy errors carry their own human-readable messages; anything else is
// an unexpected storage failure and surfaces as an opaque 500 with the
// detail kept in the log only.
func respondWithError(w http.ResponseWriter, logger *zap.Logger, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidAmount),
		util.IsError(err, util.ErrInvalidOrder),
		util.IsError(err, util.ErrSelfTransfer):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusPaymentRequired
		message = err.Error()
	case util.IsError(err, util.ErrSenderAccountNotFound),
		util.IsError(err, util.ErrReceiverAccountNotFound),
		util.IsError(err, util.ErrAccountNotFound),
		util.IsError(err, util.ErrUserNotFound),
		util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = err.Error()
	case util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusConflict
		message = "Email is already registered."
	default:
		logger.Error("unhandled service error", zap.Error(err))
	}

	respondWithJSON(w, logger, statusCode, types.ErrorResponse{Error: message})
}
