package v1handler

import (
	"context"
	"net/http"
	"strings"

	"domainmon/pkg/logger"
	"domainmon/pkg/serrors"

	"go.uber.org/zap"
)

// accountKey is the context key under which the authenticated account is
// stored.
type accountKey struct{}

// GetAccount returns the account identifier the auth middleware attached to
// the context, or empty when the request was not authenticated.
func GetAccount(ctx context.Context) string {
	account, _ := ctx.Value(accountKey{}).(string)

	return account
}

// RequireAuth enforces bearer-token authentication and injects the verified
// account into the request context and its logger.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, r, serrors.With(serrors.ErrUnauthorized, "Missing Authorization header"))

			return
		}

		account, err := h.deps.Auth.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, r, err)

			return
		}

		ctx := context.WithValue(r.Context(), accountKey{}, account)
		ctx = logger.WithFields(ctx, zap.String("account", account))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
