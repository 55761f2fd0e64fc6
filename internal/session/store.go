package session

import (
	"context"
	"time"
)

// Session binds an opaque token to an administrator for a limited time.
type Session struct {
	Token     string    `json:"token"`
	AdminID   int       `json:"admin_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store is the process-wide session state, keyed by token. Implementations
// must be safe for concurrent use; invalidating one token never touches
// unrelated sessions.
type Store interface {
	Create(ctx context.Context, s Session) error
	// Get returns domain.ErrNotFound for unknown or expired tokens.
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
