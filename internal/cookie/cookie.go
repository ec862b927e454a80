// Package cookie provides helpers for the storefront's session cookie.
package cookie

import (
	"net/http"
)

// SessionCookieName is the cookie carrying the opaque session token that
// keys the visitor's cart.
const SessionCookieName = "shipshop_session"

// Config holds cookie settings shared by all handlers.
type Config struct {
	// Secure determines whether cookies require HTTPS.
	// Should be true in production, false in development.
	Secure bool

	// MaxAge is the cookie lifetime in seconds.
	MaxAge int
}

// NewConfig creates a cookie configuration.
func NewConfig(secure bool, maxAge int) *Config {
	return &Config{Secure: secure, MaxAge: maxAge}
}

// SetSession sets the session cookie.
//
// The cookie is HttpOnly and SameSite=Lax; Secure follows the config.
func (c *Config) SetSession(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   c.MaxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession removes the session cookie by setting MaxAge to -1.
func (c *Config) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get retrieves a cookie value from the request.
// Returns empty string if the cookie is not found.
func Get(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
