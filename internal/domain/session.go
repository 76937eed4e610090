package domain

import "time"

// Session maps an opaque bearer token to exactly one account identity.
// Sessions never expire and are never reassigned; they live until process
// teardown.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
}
