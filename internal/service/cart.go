package service

import (
	"context"

	"github.com/shipshop/shipshop/internal/domain"
)

// cartService implements domain.CartService over the cart and catalog stores.
type cartService struct {
	carts   domain.CartStore
	catalog domain.CatalogStore
}

// Compile-time check that cartService implements domain.CartService.
var _ domain.CartService = (*cartService)(nil)

// NewCartService creates a new CartService instance.
func NewCartService(carts domain.CartStore, catalog domain.CatalogStore) domain.CartService {
	return &cartService{carts: carts, catalog: catalog}
}

// AddItem adds one unit of the product to the session's cart.
// The product is verified first so a bad product ID leaves the session
// without a cart untouched. The line insert is an upsert, so adding a
// product already in the cart increments its quantity.
func (s *cartService) AddItem(ctx context.Context, sessionToken string, productID int64) error {
	if _, err := s.catalog.GetProductByID(ctx, productID); err != nil {
		return err
	}

	cart, err := s.carts.GetOrCreateCart(ctx, sessionToken)
	if err != nil {
		return err
	}

	if _, err := s.carts.UpsertCartItem(ctx, cart.ID, productID, 1); err != nil {
		return err
	}

	return nil
}

// DecrementItem removes one unit of the product from the cart. At
// quantity one the line is deleted, never left at zero.
func (s *cartService) DecrementItem(ctx context.Context, sessionToken string, productID int64) error {
	item, err := s.lookupItem(ctx, sessionToken, productID)
	if err != nil {
		return err
	}

	if item.Quantity > 1 {
		return s.carts.UpdateCartItemQuantity(ctx, item.ID, item.Quantity-1)
	}

	return s.carts.DeleteCartItem(ctx, item.ID)
}

// RemoveItem deletes the product's line item regardless of quantity.
func (s *cartService) RemoveItem(ctx context.Context, sessionToken string, productID int64) error {
	item, err := s.lookupItem(ctx, sessionToken, productID)
	if err != nil {
		return err
	}

	return s.carts.DeleteCartItem(ctx, item.ID)
}

// lookupItem resolves cart, product and line item for a mutating
// operation. Absence of any of the three is ENOTFOUND here; only read
// paths treat an absent cart as a normal state.
func (s *cartService) lookupItem(ctx context.Context, sessionToken string, productID int64) (*domain.CartItem, error) {
	cart, err := s.carts.GetCartBySessionToken(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	if _, err := s.catalog.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	return s.carts.GetCartItem(ctx, cart.ID, productID)
}

// GetCartSummary returns the cart's active lines and totals. Tax is the
// unrounded fractional 5% of the integer total; the grand total stays
// fractional too. See domain.CartSummary for the rounding note.
func (s *cartService) GetCartSummary(ctx context.Context, sessionToken string) (*domain.CartSummary, error) {
	cart, err := s.carts.GetCartBySessionToken(ctx, sessionToken)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return &domain.CartSummary{}, nil
		}
		return nil, err
	}

	lines, err := s.carts.ListActiveCartLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	summary := &domain.CartSummary{Lines: lines}
	for i := range lines {
		lineTotal := lines[i].Product.Price * int64(lines[i].Item.Quantity)
		summary.Lines[i].LineTotal = lineTotal
		summary.Total += lineTotal
		summary.Quantity += lines[i].Item.Quantity
	}

	summary.Tax = float64(summary.Total) * domain.TaxRate
	summary.GrandTotal = float64(summary.Total) + summary.Tax

	return summary, nil
}

// ItemCount sums active line quantities; a session without a cart is zero.
func (s *cartService) ItemCount(ctx context.Context, sessionToken string) (int32, error) {
	if sessionToken == "" {
		return 0, nil
	}

	cart, err := s.carts.GetCartBySessionToken(ctx, sessionToken)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return 0, nil
		}
		return 0, err
	}

	return s.carts.SumActiveQuantity(ctx, cart.ID)
}

// InCart reports whether the product has an active line in the session's cart.
func (s *cartService) InCart(ctx context.Context, sessionToken string, productID int64) (bool, error) {
	if sessionToken == "" {
		return false, nil
	}

	cart, err := s.carts.GetCartBySessionToken(ctx, sessionToken)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return false, nil
		}
		return false, err
	}

	item, err := s.carts.GetCartItem(ctx, cart.ID, productID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return false, nil
		}
		return false, err
	}

	return item.IsActive, nil
}
