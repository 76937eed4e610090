package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionKind string

const (
	TransactionKindDebit  TransactionKind = "debit"
	TransactionKindCredit TransactionKind = "credit"
	TransactionKindLoan   TransactionKind = "loan"
)

// Transaction is one committed ledger movement. Immutable once appended
// to an account's history.
type Transaction struct {
	ID           uuid.UUID
	Kind         TransactionKind
	Amount       int64
	Counterparty string
	CreatedAt    time.Time
}

// Account balances are held in minor currency units. A committed
// operation never leaves Balance negative.
type Account struct {
	UserID       string
	DisplayName  string
	Balance      int64
	Transactions []Transaction
	CreatedAt    time.Time
}

// Clone returns a deep copy safe to hand out after the store's locks are
// released.
func (a *Account) Clone() *Account {
	cp := *a
	cp.Transactions = make([]Transaction, len(a.Transactions))
	copy(cp.Transactions, a.Transactions)
	return &cp
}

// AccountSummary is the diagnostic listing shape: identity only, never
// balances.
type AccountSummary struct {
	UserID      string
	DisplayName string
}
