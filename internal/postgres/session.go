package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipshop/shipshop/internal/domain"
)

// SessionStore implements domain.SessionStore using PostgreSQL.
type SessionStore struct {
	db *pgxpool.Pool
}

var _ domain.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a new PostgreSQL-backed session store.
func NewSessionStore(db *pgxpool.Pool) *SessionStore {
	return &SessionStore{db: db}
}

// Create inserts a session with the given token and expiry.
func (s *SessionStore) Create(ctx context.Context, token string, expiresAt pgtype.Timestamptz) (*domain.Session, error) {
	const query = `
		INSERT INTO sessions (token, expires_at)
		VALUES ($1, $2)
		RETURNING id, token, account_id, created_at, expires_at`

	var session domain.Session
	err := s.db.QueryRow(ctx, query, token, expiresAt).
		Scan(&session.ID, &session.Token, &session.AccountID, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		return nil, domain.Internal(err, "session.create", "failed to create session")
	}

	return &session, nil
}

// GetByToken returns the unexpired session with the given token.
func (s *SessionStore) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	const query = `
		SELECT id, token, account_id, created_at, expires_at
		FROM sessions
		WHERE token = $1 AND expires_at > now()`

	var session domain.Session
	err := s.db.QueryRow(ctx, query, token).
		Scan(&session.ID, &session.Token, &session.AccountID, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, domain.Internal(err, "session.get", "failed to get session")
	}

	return &session, nil
}

// SetAccount binds a signed-in account to the session.
func (s *SessionStore) SetAccount(ctx context.Context, token string, accountID int64) error {
	const query = `UPDATE sessions SET account_id = $2 WHERE token = $1`

	tag, err := s.db.Exec(ctx, query, token, accountID)
	if err != nil {
		return domain.Internal(err, "session.set_account", "failed to update session")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

// ClearAccount detaches the account on sign-out.
func (s *SessionStore) ClearAccount(ctx context.Context, token string) error {
	const query = `UPDATE sessions SET account_id = NULL WHERE token = $1`

	tag, err := s.db.Exec(ctx, query, token)
	if err != nil {
		return domain.Internal(err, "session.clear_account", "failed to update session")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

// Delete removes the session row.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	const query = `DELETE FROM sessions WHERE token = $1`

	if _, err := s.db.Exec(ctx, query, token); err != nil {
		return domain.Internal(err, "session.delete", "failed to delete session")
	}

	return nil
}
