package storefront

import (
	"net/http"
	"strings"
	"time"

	"github.com/shipshop/shipshop/internal/domain"
	"github.com/shipshop/shipshop/internal/middleware"
	"github.com/shipshop/shipshop/internal/session"
)

// BaseData builds the template data shared by every storefront page:
// the signed-in account, the current year, and the cart item counter.
type BaseData struct {
	carts    domain.CartService
	resolver *session.Resolver
}

// NewBaseData creates the shared template data builder
func NewBaseData(carts domain.CartService, resolver *session.Resolver) *BaseData {
	return &BaseData{carts: carts, resolver: resolver}
}

// For returns the common data for the request. The cart counter is left
// out entirely on admin paths; everywhere else it is present, zero when
// the visitor has no cart yet. Peek never creates a session, so browsing
// alone does not mint cookies.
func (b *BaseData) For(r *http.Request) map[string]interface{} {
	data := map[string]interface{}{
		"Year": time.Now().Year(),
	}

	if account := middleware.GetAccountFromContext(r.Context()); account != nil {
		data["Account"] = account
	}

	if strings.Contains(r.URL.Path, "admin") {
		return data
	}

	var count int32
	if token := b.resolver.Peek(r); token != "" {
		if c, err := b.carts.ItemCount(r.Context(), token); err == nil {
			count = c
		}
	}
	data["CartItemCount"] = count

	return data
}
