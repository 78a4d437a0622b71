package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"luminary/internal/platform/token"
	"luminary/pkg/platform/httputil"
)

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

type contextKeyAccountID struct{}

// ContextKeyAccountID is exported for tests that need context.WithValue.
var ContextKeyAccountID = contextKeyAccountID{}

// AccountID retrieves the authenticated account ID from the context.
func AccountID(ctx context.Context) string {
	accountID, ok := ctx.Value(ContextKeyAccountID).(string)
	if !ok {
		return ""
	}
	return accountID
}

// RequireAuth enforces a valid bearer token and stores the account ID in the
// request context for ownership checks downstream.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || raw == "" {
				httputil.Unauthorized(w)
				return
			}

			claims, err := validator.Validate(raw)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token", "error", err)
				httputil.Unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAccountID, claims.AccountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
