package middleware

import (
	"net/http"
	"strings"

	"github.com/finware/ledgerd/internal/auth"
	"github.com/finware/ledgerd/internal/handler"
)

// Auth extracts the opaque bearer token into the request context. The
// token is resolved by the ledger engine, not here, so a fabricated
// token and a never-issued one surface identically downstream.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			handler.RespondAppError(w, handler.ErrMissingToken, nil)
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			handler.RespondAppError(w, handler.ErrInvalidToken, nil)
			return
		}

		ctx := auth.ContextWithToken(r.Context(), token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
