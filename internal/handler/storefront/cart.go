package storefront

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/shipshop/shipshop/internal/domain"
	"github.com/shipshop/shipshop/internal/handler"
	"github.com/shipshop/shipshop/internal/session"
)

// CartHandler handles all cart-related storefront routes
type CartHandler struct {
	carts    domain.CartService
	resolver *session.Resolver
	renderer *handler.Renderer
	base     *BaseData
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts domain.CartService, resolver *session.Resolver, renderer *handler.Renderer, base *BaseData) *CartHandler {
	return &CartHandler{
		carts:    carts,
		resolver: resolver,
		renderer: renderer,
		base:     base,
	}
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	token, r, err := h.resolver.Resolve(w, r)
	if err != nil {
		handler.InternalErrorResponse(w, r, err)
		return
	}

	h.render(w, r, token, "")
}

// Add handles POST /cart/add/{id}
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	token, r, err := h.resolver.Resolve(w, r)
	if err != nil {
		handler.InternalErrorResponse(w, r, err)
		return
	}

	if err := h.carts.AddItem(r.Context(), token, productID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) || domain.ErrorCode(err) == domain.ENOTFOUND {
			handler.NotFoundResponse(w, r)
			return
		}
		handler.InternalErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Decrement handles POST /cart/decrement/{id}
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.carts.DecrementItem)
}

// Remove handles POST /cart/remove/{id}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.carts.RemoveItem)
}

// mutate runs a line-level cart operation. A missing cart or line is not
// an error page; the visitor just sees their cart with a notice.
func (h *CartHandler) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, string, int64) error) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	token, r, err := h.resolver.Resolve(w, r)
	if err != nil {
		handler.InternalErrorResponse(w, r, err)
		return
	}

	if err := op(r.Context(), token, productID); err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			h.render(w, r, token, "That item is not in your cart.")
			return
		}
		handler.InternalErrorResponse(w, r, err)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *CartHandler) render(w http.ResponseWriter, r *http.Request, token, message string) {
	summary, err := h.carts.GetCartSummary(r.Context(), token)
	if err != nil {
		handler.InternalErrorResponse(w, r, err)
		return
	}

	data := h.base.For(r)
	data["Summary"] = summary
	if message != "" {
		data["Message"] = message
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderer.RenderHTTP(w, "cart", data)
}

func parseProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		handler.ErrorResponse(w, r, domain.Invalid("cart.parse_id", "invalid product id"))
		return 0, false
	}
	return id, true
}
