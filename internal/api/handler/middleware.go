// internal/api/handler/middleware.go
package handler

import (
	"context"
	"net/http"
	"strings"

	"vaultcore-ledger/internal/auth"
	"vaultcore-ledger/internal/domain"
	"vaultcore-ledger/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the authenticated user placed by RequireAuth.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}

// RequireAuth verifies the Bearer token and resolves its subject to a user
// record before the handler runs, so the ledger service only ever sees
// resolved user IDs.
func RequireAuth(authSvc *auth.Service, ledger service.LedgerService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing or malformed token", http.StatusUnauthorized)
				return
			}

			email, err := authSvc.VerifyToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			user, err := ledger.ResolveUser(r.Context(), email)
			if err != nil {
				http.Error(w, "unknown principal", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
