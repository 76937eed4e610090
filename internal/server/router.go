// Package server wires the HTTP surface: routes, middleware chain, and
// the listener lifecycle.
package server

import (
	"net/http"

	"github.com/finware/ledgerd/internal/admission"
	"github.com/finware/ledgerd/internal/handler"
	"github.com/finware/ledgerd/internal/ledger"
	"github.com/finware/ledgerd/internal/middleware"
)

// RouterDependencies collects everything the route table needs.
type RouterDependencies struct {
	Engine *ledger.Engine
	Gate   *admission.Gate

	// Recorder feeds the per-request tally; may be nil.
	Recorder middleware.RequestRecorder
}

// NewRouter builds the full handler chain. Every /api/v1 route passes
// the admission gate before anything else; account-scoped routes
// additionally require a bearer token.
func NewRouter(deps RouterDependencies) http.Handler {
	authH := handler.NewAuthHandler(deps.Engine)
	ledgerH := handler.NewLedgerHandler(deps.Engine)
	accountH := handler.NewAccountHandler(deps.Engine)
	adminH := handler.NewAdminHandler(deps.Engine)
	healthH := handler.NewHealthHandler()

	admit := middleware.Admission(deps.Gate)
	authed := func(h http.HandlerFunc) http.Handler {
		return admit(middleware.Auth(h))
	}
	open := func(h http.HandlerFunc) http.Handler {
		return admit(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health/live", healthH.Liveness)

	mux.Handle("POST /api/v1/auth/register", open(authH.Register))
	mux.Handle("POST /api/v1/auth/login", open(authH.Login))

	mux.Handle("POST /api/v1/transfers", authed(ledgerH.Transfer))
	mux.Handle("POST /api/v1/loans", authed(ledgerH.Loan))
	mux.Handle("GET /api/v1/statement", authed(accountH.Statement))
	mux.Handle("GET /api/v1/balance", authed(accountH.Balance))

	mux.Handle("GET /api/v1/admin/accounts", open(adminH.ListAccounts))

	var h http.Handler = mux
	h = middleware.Recovery(h)
	h = middleware.Logging(deps.Recorder)(h)
	h = middleware.Tracing(h)
	return h
}
