package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/shipshop/shipshop/internal/cookie"
	"github.com/shipshop/shipshop/internal/domain"
)

type stubSessionStore struct {
	sessions map[string]*domain.Session
}

func (s *stubSessionStore) Create(ctx context.Context, token string, expiresAt pgtype.Timestamptz) (*domain.Session, error) {
	return nil, domain.Internal(nil, "stub", "not implemented")
}

func (s *stubSessionStore) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *stubSessionStore) SetAccount(ctx context.Context, token string, accountID int64) error {
	return nil
}

func (s *stubSessionStore) ClearAccount(ctx context.Context, token string) error {
	return nil
}

func (s *stubSessionStore) Delete(ctx context.Context, token string) error {
	return nil
}

type stubAccountStore struct {
	accounts map[int64]*domain.Account
}

func (s *stubAccountStore) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	return nil, domain.Internal(nil, "stub", "not implemented")
}

func (s *stubAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return nil, domain.ErrAccountNotFound
}

func (s *stubAccountStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return nil, domain.ErrAccountNotFound
}

func (s *stubAccountStore) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

func (s *stubAccountStore) UpdateFlags(ctx context.Context, id int64, isAdmin, isStaff, isActive, isSuperadmin bool) error {
	return nil
}

func (s *stubAccountStore) TouchLastLogin(ctx context.Context, id int64) error {
	return nil
}

func TestWithAccount(t *testing.T) {
	sessions := &stubSessionStore{sessions: map[string]*domain.Session{
		"anon-token": {Token: "anon-token"},
		"user-token": {Token: "user-token", AccountID: pgtype.Int8{Int64: 7, Valid: true}},
	}}
	accounts := &stubAccountStore{accounts: map[int64]*domain.Account{
		7: {ID: 7, Email: "asha@example.com", IsActive: true},
	}}

	var got *domain.Account
	handler := WithAccount(sessions, accounts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetAccountFromContext(r.Context())
	}))

	tests := []struct {
		name      string
		token     string
		wantEmail string
	}{
		{name: "no cookie", token: "", wantEmail: ""},
		{name: "unknown session", token: "missing", wantEmail: ""},
		{name: "anonymous session", token: "anon-token", wantEmail: ""},
		{name: "signed-in session", token: "user-token", wantEmail: "asha@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: cookie.SessionCookieName, Value: tt.token})
			}

			handler.ServeHTTP(httptest.NewRecorder(), req)

			if tt.wantEmail == "" {
				if got != nil {
					t.Errorf("expected no account, got %v", got.Email)
				}
				return
			}
			if got == nil || got.Email != tt.wantEmail {
				t.Errorf("expected account %s, got %v", tt.wantEmail, got)
			}
		})
	}
}

func TestWithAccount_InactiveAccountIgnored(t *testing.T) {
	sessions := &stubSessionStore{sessions: map[string]*domain.Session{
		"t": {Token: "t", AccountID: pgtype.Int8{Int64: 3, Valid: true}},
	}}
	accounts := &stubAccountStore{accounts: map[int64]*domain.Account{
		3: {ID: 3, Email: "old@example.com", IsActive: false},
	}}

	var got *domain.Account
	handler := WithAccount(sessions, accounts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetAccountFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookie.SessionCookieName, Value: "t"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != nil {
		t.Errorf("inactive account should not be attached, got %v", got.Email)
	}
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("redirects anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard?tab=orders", nil)
		w := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(w, req)

		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/login?return_to=/dashboard?tab=orders" {
			t.Errorf("unexpected redirect location %q", loc)
		}
	})

	t.Run("passes signed-in", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		ctx := context.WithValue(req.Context(), AccountContextKey, &domain.Account{ID: 1, IsActive: true})
		w := httptest.NewRecorder()

		RequireAuth(next).ServeHTTP(w, req.WithContext(ctx))

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("forbids non-admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		ctx := context.WithValue(req.Context(), AccountContextKey, &domain.Account{ID: 2})
		w := httptest.NewRecorder()

		RequireAdmin(next).ServeHTTP(w, req.WithContext(ctx))

		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})

	t.Run("passes admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		ctx := context.WithValue(req.Context(), AccountContextKey, &domain.Account{ID: 1, IsAdmin: true})
		w := httptest.NewRecorder()

		RequireAdmin(next).ServeHTTP(w, req.WithContext(ctx))

		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})
}
