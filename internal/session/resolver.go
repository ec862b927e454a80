// Package session resolves inbound requests to the opaque session token
// that keys the visitor's cart.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/shipshop/shipshop/internal/cookie"
	"github.com/shipshop/shipshop/internal/domain"
)

// DefaultTTL is how long a newly minted session lives.
const DefaultTTL = 30 * 24 * time.Hour

type ctxKey struct{}

// GenerateToken generates a cryptographically secure session token.
// Uses 32 bytes of random data encoded as a base64 URL-safe string.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// Resolver maps a request to its session token, minting a new session
// lazily when the request carries none.
type Resolver struct {
	store   domain.SessionStore
	cookies *cookie.Config
	ttl     time.Duration
}

// NewResolver creates a session resolver. ttl <= 0 uses DefaultTTL.
func NewResolver(store domain.SessionStore, cookies *cookie.Config, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Resolver{store: store, cookies: cookies, ttl: ttl}
}

// Resolve returns the request's session token, creating a session (and
// setting the cookie) if none exists yet. The returned request carries
// the token in its context, so repeated calls within the same request
// return the same identity, including right after creation.
func (rs *Resolver) Resolve(w http.ResponseWriter, r *http.Request) (string, *http.Request, error) {
	if token, ok := tokenFromContext(r.Context()); ok {
		return token, r, nil
	}

	if token := cookie.Get(r, cookie.SessionCookieName); token != "" {
		return token, r.WithContext(withToken(r.Context(), token)), nil
	}

	token, err := GenerateToken()
	if err != nil {
		return "", r, domain.Internal(err, "session.resolve", "failed to generate session token")
	}

	var expiresAt pgtype.Timestamptz
	if err := expiresAt.Scan(time.Now().Add(rs.ttl)); err != nil {
		return "", r, domain.Internal(err, "session.resolve", "failed to set session expiration")
	}

	if _, err := rs.store.Create(r.Context(), token, expiresAt); err != nil {
		return "", r, domain.Internal(err, "session.resolve", "failed to create session")
	}

	rs.cookies.SetSession(w, token)

	return token, r.WithContext(withToken(r.Context(), token)), nil
}

// Peek returns the request's session token without creating a session.
// Returns empty string when the request carries none.
func (rs *Resolver) Peek(r *http.Request) string {
	if token, ok := tokenFromContext(r.Context()); ok {
		return token
	}
	return cookie.Get(r, cookie.SessionCookieName)
}

func withToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

func tokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ctxKey{}).(string)
	return token, ok && token != ""
}
