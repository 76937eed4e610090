// Package session maps opaque bearer tokens to account identities.
// Tokens carry 256 bits of entropy and are never reassigned; the
// registry has no expiry or revocation, sessions live until teardown.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/finware/ledgerd/internal/domain"
)

const tokenBytes = 32

type identityChecker interface {
	Get(userID string) (*domain.Account, error)
}

type Registry struct {
	mu       sync.RWMutex
	byToken  map[string]domain.Session
	accounts identityChecker
}

func NewRegistry(accounts identityChecker) *Registry {
	return &Registry{
		byToken:  make(map[string]domain.Session),
		accounts: accounts,
	}
}

// Issue registers a new session for userID and returns its token. The
// identity must exist in the account store at creation time.
func (r *Registry) Issue(userID string) (string, error) {
	if _, err := r.accounts.Get(userID); err != nil {
		return "", fmt.Errorf("session.Issue: %w", err)
	}

	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("session.Issue: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byToken[token] = domain.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	return token, nil
}

// Resolve returns the identity a token was issued for. Unknown tokens
// fail with domain.ErrInvalidSession; the result shape does not
// distinguish never-issued from anything else.
func (r *Registry) Resolve(token string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.byToken[token]
	if !ok {
		return "", fmt.Errorf("session.Resolve: %w", domain.ErrInvalidSession)
	}
	return sess.UserID, nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byToken)
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generateToken: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
