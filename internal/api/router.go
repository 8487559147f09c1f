// internal/api/router.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"vaultcore-ledger/internal/api/handler"
	"vaultcore-ledger/internal/auth"
	"vaultcore-ledger/internal/service"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	authHandler *handler.AuthHandler,
	ledgerHandler *handler.LedgerHandler,
	authSvc *auth.Service,
	ledger service.LedgerService,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup-request", authHandler.SignupRequest)
		r.Post("/signup-verify", authHandler.SignupVerify)
		r.Post("/login", authHandler.Login)
	})

	// Everything below requires a resolved identity.
	r.Group(func(r chi.Router) {
		r.Use(handler.RequireAuth(authSvc, ledger))

		r.Route("/account", func(r chi.Router) {
			r.Get("/", ledgerHandler.GetAccount)
			r.Get("/holdings", ledgerHandler.GetHoldings)
		})

		r.Route("/transaction", func(r chi.Router) {
			r.Post("/request-otp", ledgerHandler.RequestTransferOTP)
			r.Post("/transfer", ledgerHandler.Transfer)
			r.Get("/history", ledgerHandler.History)
			r.Get("/statement", ledgerHandler.Statement)
		})

		r.Post("/stocks/buy", ledgerHandler.Purchase)
	})

	return r
}
