package middleware

import (
	"context"
	"net/http"

	"github.com/shipshop/shipshop/internal/cookie"
	"github.com/shipshop/shipshop/internal/domain"
)

type contextKey string

// AccountContextKey is the context key for storing the signed-in account
const AccountContextKey contextKey = "account"

// WithAccount loads the account bound to the session cookie, if any, and
// adds it to the request context. Requests without a session, or with a
// session that has no account, pass through untouched.
func WithAccount(sessions domain.SessionStore, accounts domain.AccountStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookie.Get(r, cookie.SessionCookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.GetByToken(r.Context(), token)
			if err != nil || !session.AccountID.Valid {
				next.ServeHTTP(w, r)
				return
			}

			account, err := accounts.GetByID(r.Context(), session.AccountID.Int64)
			if err != nil || !account.IsActive {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), AccountContextKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures an account is signed in, redirecting to login if not
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := GetAccountFromContext(r.Context())
		if account == nil {
			returnTo := r.URL.Path
			if r.URL.RawQuery != "" {
				returnTo += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, "/login?return_to="+returnTo, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin ensures the signed-in account has admin permissions
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := GetAccountFromContext(r.Context())
		if account == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if !account.IsAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetAccountFromContext retrieves the account from the request context.
// Returns nil if nobody is signed in.
func GetAccountFromContext(ctx context.Context) *domain.Account {
	account, ok := ctx.Value(AccountContextKey).(*domain.Account)
	if !ok {
		return nil
	}
	return account
}
