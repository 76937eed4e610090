// Package testutil provides fixtures for exercising the ledger core
// without an HTTP listener.
package testutil

import (
	"context"
	"testing"

	"github.com/finware/ledgerd/internal/config"
	"github.com/finware/ledgerd/internal/ledger"
	"github.com/finware/ledgerd/internal/session"
	"github.com/finware/ledgerd/internal/store"
)

// Config returns the reference configuration used across tests: default
// balance 1000, loan cap 10000, admission disabled, no injected faults.
func Config() *config.Config {
	return &config.Config{
		InitialBalance:  1000,
		LoanCap:         10000,
		AdmissionEveryN: 0,
	}
}

// NewEngine builds a fresh engine over empty in-memory state.
func NewEngine(t *testing.T, cfg *config.Config) *ledger.Engine {
	t.Helper()
	if cfg == nil {
		cfg = Config()
	}
	accounts := store.New()
	sessions := session.NewRegistry(accounts)
	return ledger.NewEngine(accounts, sessions, cfg, nil)
}

// SeedAccount registers an account with the given balance.
func SeedAccount(t *testing.T, e *ledger.Engine, userID, name string, balance int64) {
	t.Helper()
	_, err := e.Register(context.Background(), ledger.RegisterRequest{
		UserID:         userID,
		DisplayName:    name,
		InitialBalance: &balance,
	})
	if err != nil {
		t.Fatalf("seed account %s: %v", userID, err)
	}
}

// Login issues a session token for an existing account.
func Login(t *testing.T, e *ledger.Engine, userID string) string {
	t.Helper()
	token, err := e.Login(context.Background(), userID)
	if err != nil {
		t.Fatalf("login %s: %v", userID, err)
	}
	return token
}
