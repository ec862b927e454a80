package domain

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

var ErrSessionNotFound = &Error{Code: ENOTFOUND, Message: "Session not found"}

// Session is one browser session. Its token is the opaque identity the
// cart is keyed on; AccountID is set once the visitor signs in.
type Session struct {
	ID        int64
	Token     string
	AccountID pgtype.Int8
	CreatedAt pgtype.Timestamptz
	ExpiresAt pgtype.Timestamptz
}

// SessionStore provides persistence for browser sessions.
type SessionStore interface {
	// Create inserts a session with the given token and expiry.
	Create(ctx context.Context, token string, expiresAt pgtype.Timestamptz) (*Session, error)

	// GetByToken returns ErrSessionNotFound when absent.
	GetByToken(ctx context.Context, token string) (*Session, error)

	// SetAccount binds a signed-in account to the session.
	SetAccount(ctx context.Context, token string, accountID int64) error

	// ClearAccount detaches the account on sign-out.
	ClearAccount(ctx context.Context, token string) error

	// Delete removes the session row.
	Delete(ctx context.Context, token string) error
}
