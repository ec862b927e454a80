package domain

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartNotFound     = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Item not in cart"}
)

// TaxRate is the flat tax applied to the cart total at checkout review.
const TaxRate = 0.05

// CartService provides business logic for shopping cart operations.
// A cart is keyed by the opaque session token of the browser session.
type CartService interface {
	// AddItem adds one unit of a product to the session's cart, creating
	// the cart and the line item as needed. Adding a product already in
	// the cart increments its quantity instead of duplicating the line.
	AddItem(ctx context.Context, sessionToken string, productID int64) error

	// DecrementItem removes one unit of a product from the cart. When the
	// quantity would drop to zero the line item is deleted outright.
	// Fails with ENOTFOUND if the cart, product or line item is missing.
	DecrementItem(ctx context.Context, sessionToken string, productID int64) error

	// RemoveItem deletes the line item regardless of quantity.
	// Fails with ENOTFOUND if the cart, product or line item is missing.
	RemoveItem(ctx context.Context, sessionToken string, productID int64) error

	// GetCartSummary returns the cart with its active lines and totals.
	// A session without a cart yields an empty summary, not an error.
	GetCartSummary(ctx context.Context, sessionToken string) (*CartSummary, error)

	// ItemCount sums the active line quantities for the cart badge.
	// A session without a cart counts as zero.
	ItemCount(ctx context.Context, sessionToken string) (int32, error)

	// InCart reports whether the product has an active line in the cart.
	InCart(ctx context.Context, sessionToken string, productID int64) (bool, error)
}

// Cart associates a set of line items with one browser session.
// At most one cart exists per session token.
type Cart struct {
	ID           int64
	SessionToken string
	CreatedAt    pgtype.Timestamptz
}

// CartItem is one product-quantity pairing within a cart.
type CartItem struct {
	ID        int64
	CartID    int64
	ProductID int64
	Quantity  int32
	IsActive  bool
}

// CartLine pairs a line item with its product for display.
type CartLine struct {
	Item      CartItem
	Product   Product
	LineTotal int64
}

// CartSummary aggregates the cart's active lines and calculated totals.
// Total is in minor currency units; Tax is kept as the unrounded
// fractional product of Total and TaxRate, so GrandTotal is fractional
// as well. Rounding to a minor unit is deliberately not done here.
type CartSummary struct {
	Lines      []CartLine
	Total      int64
	Quantity   int32
	Tax        float64
	GrandTotal float64
}

// CartStore provides persistence for carts and their line items.
type CartStore interface {
	// GetOrCreateCart returns the cart for the session token, creating it
	// atomically if absent. The (session_token) uniqueness constraint
	// guarantees no duplicate cart even under a lookup/create race.
	GetOrCreateCart(ctx context.Context, sessionToken string) (*Cart, error)

	// GetCartBySessionToken returns ErrCartNotFound when no cart exists.
	GetCartBySessionToken(ctx context.Context, sessionToken string) (*Cart, error)

	// GetCartItem returns ErrCartItemNotFound when the product has no line.
	GetCartItem(ctx context.Context, cartID, productID int64) (*CartItem, error)

	// UpsertCartItem inserts a line at the given quantity or, when the
	// (cart_id, product_id) pair exists, adds the quantity to it.
	UpsertCartItem(ctx context.Context, cartID, productID int64, quantity int32) (*CartItem, error)

	// UpdateCartItemQuantity sets the quantity of an existing line.
	UpdateCartItemQuantity(ctx context.Context, itemID int64, quantity int32) error

	// DeleteCartItem removes the line entirely.
	DeleteCartItem(ctx context.Context, itemID int64) error

	// ListActiveCartLines returns the cart's active lines joined with
	// their products.
	ListActiveCartLines(ctx context.Context, cartID int64) ([]CartLine, error)

	// SumActiveQuantity sums active line quantities for a cart.
	SumActiveQuantity(ctx context.Context, cartID int64) (int32, error)
}
