package middleware

import (
	"context"
	"net/http"

	"github.com/finware/ledgerd/internal/handler"
)

type admissionGate interface {
	Admit(ctx context.Context, endpoint string) error
}

// Admission runs every inbound request through the global admission
// gate before it reaches any other component.
func Admission(gate admissionGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := gate.Admit(r.Context(), r.URL.Path); err != nil {
				handler.RespondAppError(w, handler.ErrRateLimited, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
