package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finware/ledgerd/internal/config"
	"github.com/finware/ledgerd/internal/domain"
	"github.com/finware/ledgerd/internal/session"
	"github.com/finware/ledgerd/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{
		InitialBalance: 1000,
		LoanCap:        10000,
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	accounts := store.New()
	sessions := session.NewRegistry(accounts)
	return NewEngine(accounts, sessions, testConfig(), nil)
}

func register(t *testing.T, e *Engine, userID string, balance int64) {
	t.Helper()
	_, err := e.Register(context.Background(), RegisterRequest{
		UserID:         userID,
		DisplayName:    userID,
		InitialBalance: &balance,
	})
	require.NoError(t, err)
}

func login(t *testing.T, e *Engine, userID string) string {
	t.Helper()
	token, err := e.Login(context.Background(), userID)
	require.NoError(t, err)
	return token
}

func TestRegisterValidation(t *testing.T) {
	negative := int64(-1)

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{
			name: "valid with default balance",
			req:  RegisterRequest{UserID: "alice", DisplayName: "Alice"},
		},
		{
			name:    "missing user id",
			req:     RegisterRequest{DisplayName: "Alice"},
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name:    "missing display name",
			req:     RegisterRequest{UserID: "alice"},
			wantErr: domain.ErrInvalidRequest,
		},
		{
			name:    "negative initial balance",
			req:     RegisterRequest{UserID: "alice", DisplayName: "Alice", InitialBalance: &negative},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t)
			acct, err := e.Register(context.Background(), tc.req)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1000), acct.Balance)
			assert.Empty(t, acct.Transactions)
		})
	}
}

func TestRegisterDuplicateFailsWithoutMutation(t *testing.T) {
	e := newTestEngine(t)
	register(t, e, "alice", 1000)

	_, err := e.Register(context.Background(), RegisterRequest{UserID: "alice", DisplayName: "Imposter"})
	require.ErrorIs(t, err, domain.ErrAccountExists)

	token := login(t, e, "alice")
	balance, err := e.Balance(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)
}

func TestLoginUnknownAccount(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Login(context.Background(), "nobody")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestLoginEmptyUserID(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Login(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestSessionIsolation(t *testing.T) {
	e := newTestEngine(t)
	register(t, e, "alice", 1000)
	register(t, e, "bob", 1000)

	aliceToken := login(t, e, "alice")

	acct, err := e.Statement(context.Background(), aliceToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", acct.UserID)

	_, err = e.Statement(context.Background(), "fabricated")
	require.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestLoan(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		wantErr error
	}{
		{name: "valid loan", amount: 5000},
		{name: "at cap is allowed", amount: 10000},
		{name: "over cap", amount: 15000, wantErr: domain.ErrLoanCapExceeded},
		{name: "zero amount", amount: 0, wantErr: domain.ErrInvalidAmount},
		{name: "negative amount", amount: -5, wantErr: domain.ErrInvalidAmount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t)
			register(t, e, "alice", 1000)
			token := login(t, e, "alice")

			balance, err := e.Loan(context.Background(), LoanRequest{Token: token, Amount: tc.amount})

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				got, berr := e.Balance(context.Background(), token)
				require.NoError(t, berr)
				assert.Equal(t, int64(1000), got, "failed loan must not mutate balance")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 1000+tc.amount, balance)

			acct, err := e.Statement(context.Background(), token)
			require.NoError(t, err)
			require.Len(t, acct.Transactions, 1)
			assert.Equal(t, domain.TransactionKindLoan, acct.Transactions[0].Kind)
			assert.Equal(t, tc.amount, acct.Transactions[0].Amount)
			assert.Empty(t, acct.Transactions[0].Counterparty)
		})
	}
}

func TestLoanInvalidSession(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Loan(context.Background(), LoanRequest{Token: "nope", Amount: 100})
	require.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestStatementIdempotentRead(t *testing.T) {
	e := newTestEngine(t)
	register(t, e, "alice", 1000)
	register(t, e, "bob", 1000)
	token := login(t, e, "alice")

	_, err := e.Transfer(context.Background(), TransferRequest{Token: token, ToUserID: "bob", Amount: 100})
	require.NoError(t, err)

	first, err := e.Statement(context.Background(), token)
	require.NoError(t, err)
	second, err := e.Statement(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, first.Transactions, second.Transactions)
}

func TestBalanceFaultInjection(t *testing.T) {
	e := newTestEngine(t)
	register(t, e, "alice", 1000)
	token := login(t, e, "alice")

	e.balanceFaultRate = 0.1

	e.faultFn = func() float64 { return 0.05 }
	_, err := e.Balance(context.Background(), token)
	require.ErrorIs(t, err, domain.ErrInternal)

	e.faultFn = func() float64 { return 0.5 }
	balance, err := e.Balance(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)
}

func TestBalanceFaultDisabledByDefault(t *testing.T) {
	e := newTestEngine(t)
	register(t, e, "alice", 1000)
	token := login(t, e, "alice")

	// Even an always-firing source must be ignored at rate zero.
	e.faultFn = func() float64 { return 0 }

	for range 50 {
		_, err := e.Balance(context.Background(), token)
		require.NoError(t, err)
	}
}

func TestAccountsListsIdentitiesOnly(t *testing.T) {
	e := newTestEngine(t)
	register(t, e, "alice", 1000)
	register(t, e, "bob", 2000)

	got := e.Accounts(context.Background())
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].UserID)
	assert.Equal(t, "bob", got[1].UserID)
}
