// Package ledger orchestrates the account and session state machine. It
// is the only component that mutates balances; every operation resolves
// to one of the domain error sentinels and commits as a unit or not at
// all.
package ledger

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/finware/ledgerd/internal/config"
	"github.com/finware/ledgerd/internal/domain"
	"github.com/finware/ledgerd/internal/logging"
)

type accountStore interface {
	Create(userID, name string, initialBalance int64) (*domain.Account, error)
	Get(userID string) (*domain.Account, error)
	List() []domain.AccountSummary
	WithAccount(userID string, fn func(*domain.Account) error) error
	WithAccounts(aID, bID string, fn func(a, b *domain.Account) error) error
}

type sessionRegistry interface {
	Issue(userID string) (string, error)
	Resolve(token string) (string, error)
}

// Events receives operation outcomes. Implementations must be
// fire-and-forget: they never block or fail the originating operation.
type Events interface {
	OperationSucceeded(ctx context.Context, endpoint string)
	OperationFailed(ctx context.Context, endpoint, errType string)
}

type noopEvents struct{}

func (noopEvents) OperationSucceeded(context.Context, string)      {}
func (noopEvents) OperationFailed(context.Context, string, string) {}

type Engine struct {
	accounts accountStore
	sessions sessionRegistry
	events   Events
	tracer   trace.Tracer

	initialBalance   int64
	loanCap          int64
	transferDelay    time.Duration
	balanceFaultRate float64

	// faultFn feeds the balance fault-injection check; tests swap it for
	// a deterministic source.
	faultFn func() float64
}

func NewEngine(accounts accountStore, sessions sessionRegistry, cfg *config.Config, events Events) *Engine {
	if events == nil {
		events = noopEvents{}
	}
	return &Engine{
		accounts:         accounts,
		sessions:         sessions,
		events:           events,
		tracer:           otel.Tracer("ledgerd/ledger"),
		initialBalance:   cfg.InitialBalance,
		loanCap:          cfg.LoanCap,
		transferDelay:    time.Duration(cfg.TransferDelayMS) * time.Millisecond,
		balanceFaultRate: cfg.BalanceFaultRate,
		faultFn:          rand.Float64,
	}
}

func (e *Engine) emit(ctx context.Context, endpoint string, err error) {
	if err != nil {
		e.events.OperationFailed(ctx, endpoint, domain.ErrorType(err))
		return
	}
	e.events.OperationSucceeded(ctx, endpoint)
}

type RegisterRequest struct {
	UserID      string
	DisplayName string

	// InitialBalance overrides the configured default when set.
	InitialBalance *int64
}

// Register creates a new account with zero transactions.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (acct *domain.Account, err error) {
	defer func() { e.emit(ctx, "register", err) }()

	if req.UserID == "" || req.DisplayName == "" {
		return nil, fmt.Errorf("Register: user id and display name required: %w", domain.ErrInvalidRequest)
	}

	balance := e.initialBalance
	if req.InitialBalance != nil {
		if *req.InitialBalance < 0 {
			return nil, fmt.Errorf("Register: initial balance: %w", domain.ErrInvalidAmount)
		}
		balance = *req.InitialBalance
	}

	acct, err = e.accounts.Create(req.UserID, req.DisplayName, balance)
	if err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	logging.FromContext(ctx).Info("account registered",
		"user_id", acct.UserID,
		"initial_balance", acct.Balance,
	)
	return acct, nil
}

// Login issues a session token for the claimed identity. There is no
// credential check: the claim is trusted, which is a deliberate
// simplification of this service.
func (e *Engine) Login(ctx context.Context, userID string) (token string, err error) {
	defer func() { e.emit(ctx, "login", err) }()

	if userID == "" {
		return "", fmt.Errorf("Login: user id required: %w", domain.ErrInvalidRequest)
	}

	token, err = e.sessions.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("Login: %w", err)
	}

	logging.FromContext(ctx).Info("session issued", "user_id", userID)
	return token, nil
}

type LoanRequest struct {
	Token  string
	Amount int64
}

// Loan credits the authenticated account unconditionally within the cap
// and appends a loan transaction. No repayment tracking, no interest.
func (e *Engine) Loan(ctx context.Context, req LoanRequest) (balance int64, err error) {
	defer func() { e.emit(ctx, "loan", err) }()

	userID, rerr := e.sessions.Resolve(req.Token)
	if rerr != nil {
		return 0, fmt.Errorf("Loan: %w", rerr)
	}

	if req.Amount <= 0 {
		return 0, fmt.Errorf("Loan: %w", domain.ErrInvalidAmount)
	}
	if req.Amount > e.loanCap {
		return 0, fmt.Errorf("Loan: amount %d over cap %d: %w", req.Amount, e.loanCap, domain.ErrLoanCapExceeded)
	}

	err = e.accounts.WithAccount(userID, func(a *domain.Account) error {
		a.Balance += req.Amount
		a.Transactions = append(a.Transactions, newTransaction(domain.TransactionKindLoan, req.Amount, "", time.Now().UTC()))
		balance = a.Balance
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("Loan: %w", err)
	}

	logging.FromContext(ctx).Info("loan granted",
		"user_id", userID,
		"amount", req.Amount,
		"balance", balance,
	)
	return balance, nil
}

// Statement returns the account identity and its full transaction
// history in commit order, as a read-only snapshot.
func (e *Engine) Statement(ctx context.Context, token string) (acct *domain.Account, err error) {
	defer func() { e.emit(ctx, "statement", err) }()

	userID, rerr := e.sessions.Resolve(token)
	if rerr != nil {
		return nil, fmt.Errorf("Statement: %w", rerr)
	}

	acct, err = e.accounts.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("Statement: %w", err)
	}
	return acct, nil
}

// Balance returns the current balance of the authenticated account.
func (e *Engine) Balance(ctx context.Context, token string) (balance int64, err error) {
	defer func() { e.emit(ctx, "balance", err) }()

	userID, rerr := e.sessions.Resolve(token)
	if rerr != nil {
		return 0, fmt.Errorf("Balance: %w", rerr)
	}

	if e.balanceFaultRate > 0 && e.faultFn() < e.balanceFaultRate {
		return 0, fmt.Errorf("Balance: injected fault: %w", domain.ErrInternal)
	}

	acct, err := e.accounts.Get(userID)
	if err != nil {
		return 0, fmt.Errorf("Balance: %w", err)
	}
	return acct.Balance, nil
}

// Accounts lists every known account for the administrative surface:
// identity only, never balances.
func (e *Engine) Accounts(ctx context.Context) []domain.AccountSummary {
	e.emit(ctx, "admin_accounts", nil)
	return e.accounts.List()
}

func newTransaction(kind domain.TransactionKind, amount int64, counterparty string, ts time.Time) domain.Transaction {
	return domain.Transaction{
		ID:           uuid.New(),
		Kind:         kind,
		Amount:       amount,
		Counterparty: counterparty,
		CreatedAt:    ts,
	}
}
