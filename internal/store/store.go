// Package store owns the in-memory account records. It is the only
// mutable shared state in the service; all balance mutation goes through
// the per-account locks exposed by WithAccount and WithAccounts.
package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/finware/ledgerd/internal/domain"
)

type entry struct {
	mu   sync.Mutex
	acct domain.Account
}

type Store struct {
	mu       sync.RWMutex
	accounts map[string]*entry
}

func New() *Store {
	return &Store{accounts: make(map[string]*entry)}
}

// Create inserts a new account with an empty transaction history. It
// fails with domain.ErrAccountExists without mutating anything when the
// userID is already taken.
func (s *Store) Create(userID, name string, initialBalance int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[userID]; ok {
		return nil, fmt.Errorf("store.Create: %q: %w", userID, domain.ErrAccountExists)
	}

	e := &entry{acct: domain.Account{
		UserID:      userID,
		DisplayName: name,
		Balance:     initialBalance,
		CreatedAt:   time.Now().UTC(),
	}}
	s.accounts[userID] = e
	return e.acct.Clone(), nil
}

// Get returns a snapshot of the account taken under its lock.
func (s *Store) Get(userID string) (*domain.Account, error) {
	e, err := s.lookup(userID)
	if err != nil {
		return nil, fmt.Errorf("store.Get: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acct.Clone(), nil
}

// List returns identity summaries for every account present at call
// time, sorted by userID. Balances are deliberately excluded.
func (s *Store) List() []domain.AccountSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AccountSummary, 0, len(s.accounts))
	for id, e := range s.accounts {
		out = append(out, domain.AccountSummary{UserID: id, DisplayName: e.acct.DisplayName})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// WithAccount runs fn while holding the account's lock. Mutations fn
// makes to the record are visible atomically with respect to any other
// operation touching the account.
func (s *Store) WithAccount(userID string, fn func(*domain.Account) error) error {
	e, err := s.lookup(userID)
	if err != nil {
		return fmt.Errorf("store.WithAccount: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.acct)
}

// WithAccounts runs fn while holding both account locks. Locks are
// acquired in ascending userID order so two transfers moving money in
// opposite directions between the same pair cannot deadlock. aID and
// bID must be distinct.
func (s *Store) WithAccounts(aID, bID string, fn func(a, b *domain.Account) error) error {
	ea, err := s.lookup(aID)
	if err != nil {
		return fmt.Errorf("store.WithAccounts: %w", err)
	}
	eb, err := s.lookup(bID)
	if err != nil {
		return fmt.Errorf("store.WithAccounts: %w", err)
	}

	first, second := ea, eb
	if bID < aID {
		first, second = eb, ea
	}

	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	return fn(&ea.acct, &eb.acct)
}

func (s *Store) lookup(userID string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.accounts[userID]
	if !ok {
		return nil, fmt.Errorf("%q: %w", userID, domain.ErrAccountNotFound)
	}
	return e, nil
}
