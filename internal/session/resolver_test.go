package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/shipshop/shipshop/internal/cookie"
	"github.com/shipshop/shipshop/internal/domain"
)

// mockSessionStore implements domain.SessionStore for testing
type mockSessionStore struct {
	created  []string
	sessions map[string]*domain.Session
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]*domain.Session)}
}

func (m *mockSessionStore) Create(ctx context.Context, token string, expiresAt pgtype.Timestamptz) (*domain.Session, error) {
	m.created = append(m.created, token)
	s := &domain.Session{ID: int64(len(m.created)), Token: token, ExpiresAt: expiresAt}
	m.sessions[token] = s
	return s, nil
}

func (m *mockSessionStore) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	s, ok := m.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (m *mockSessionStore) SetAccount(ctx context.Context, token string, accountID int64) error {
	return nil
}

func (m *mockSessionStore) ClearAccount(ctx context.Context, token string) error { return nil }

func (m *mockSessionStore) Delete(ctx context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	b, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if a == "" || b == "" {
		t.Fatal("expected non-empty tokens")
	}
	if a == b {
		t.Error("expected unique tokens")
	}
}

func TestResolve_ExistingCookie(t *testing.T) {
	store := newMockSessionStore()
	rs := NewResolver(store, cookie.NewConfig(false, 3600), 0)

	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	r.AddCookie(&http.Cookie{Name: cookie.SessionCookieName, Value: "existing-token"})
	w := httptest.NewRecorder()

	token, _, err := rs.Resolve(w, r)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if token != "existing-token" {
		t.Errorf("expected existing-token, got %q", token)
	}
	if len(store.created) != 0 {
		t.Errorf("expected no session creation, got %d", len(store.created))
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("expected no Set-Cookie for an existing session")
	}
}

func TestResolve_CreatesSessionOnce(t *testing.T) {
	store := newMockSessionStore()
	rs := NewResolver(store, cookie.NewConfig(false, 3600), 0)

	r := httptest.NewRequest(http.MethodPost, "/cart/add/1", nil)
	w := httptest.NewRecorder()

	token, r2, err := rs.Resolve(w, r)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a minted token")
	}
	if len(store.created) != 1 || store.created[0] != token {
		t.Fatalf("expected one created session for %q, got %v", token, store.created)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != token {
		t.Fatal("expected session cookie to be set to the minted token")
	}

	// Repeated calls within the same request return the same identity
	// without creating another session.
	again, _, err := rs.Resolve(w, r2)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if again != token {
		t.Errorf("expected idempotent token %q, got %q", token, again)
	}
	if len(store.created) != 1 {
		t.Errorf("expected one created session, got %d", len(store.created))
	}
}

func TestPeek(t *testing.T) {
	store := newMockSessionStore()
	rs := NewResolver(store, cookie.NewConfig(false, 3600), 0)

	r := httptest.NewRequest(http.MethodGet, "/cart", nil)
	if got := rs.Peek(r); got != "" {
		t.Errorf("expected empty token, got %q", got)
	}
	if len(store.created) != 0 {
		t.Error("Peek must not create sessions")
	}

	r.AddCookie(&http.Cookie{Name: cookie.SessionCookieName, Value: "tok"})
	if got := rs.Peek(r); got != "tok" {
		t.Errorf("expected tok, got %q", got)
	}

	// After Resolve, Peek sees the context-cached token.
	w := httptest.NewRecorder()
	token, r2, err := rs.Resolve(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := rs.Peek(r2); got != token {
		t.Errorf("expected %q from context, got %q", token, got)
	}
}
