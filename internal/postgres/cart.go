package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipshop/shipshop/internal/domain"
)

// CartStore implements domain.CartStore using PostgreSQL.
type CartStore struct {
	db *pgxpool.Pool
}

// Compile-time check that CartStore implements domain.CartStore.
var _ domain.CartStore = (*CartStore)(nil)

// NewCartStore creates a new PostgreSQL-backed cart store.
func NewCartStore(db *pgxpool.Pool) *CartStore {
	return &CartStore{db: db}
}

// GetOrCreateCart inserts a cart for the session token or returns the
// existing one. ON CONFLICT DO NOTHING plus the re-select keeps the
// operation race-free under the (session_token) uniqueness constraint.
func (s *CartStore) GetOrCreateCart(ctx context.Context, sessionToken string) (*domain.Cart, error) {
	const insert = `
		INSERT INTO carts (session_token)
		VALUES ($1)
		ON CONFLICT (session_token) DO NOTHING
		RETURNING id, session_token, created_at`

	var cart domain.Cart
	err := s.db.QueryRow(ctx, insert, sessionToken).Scan(&cart.ID, &cart.SessionToken, &cart.CreatedAt)
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.Internal(err, "cart.get_or_create", "failed to create cart")
	}

	// Insert hit the conflict arm; the cart already exists.
	return s.GetCartBySessionToken(ctx, sessionToken)
}

// GetCartBySessionToken returns the cart for a session token.
func (s *CartStore) GetCartBySessionToken(ctx context.Context, sessionToken string) (*domain.Cart, error) {
	const query = `
		SELECT id, session_token, created_at
		FROM carts
		WHERE session_token = $1`

	var cart domain.Cart
	err := s.db.QueryRow(ctx, query, sessionToken).Scan(&cart.ID, &cart.SessionToken, &cart.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, domain.Internal(err, "cart.get", "failed to get cart")
	}

	return &cart, nil
}

// GetCartItem returns the line item for a (cart, product) pair.
func (s *CartStore) GetCartItem(ctx context.Context, cartID, productID int64) (*domain.CartItem, error) {
	const query = `
		SELECT id, cart_id, product_id, quantity, is_active
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2`

	var item domain.CartItem
	err := s.db.QueryRow(ctx, query, cartID, productID).
		Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartItemNotFound
		}
		return nil, domain.Internal(err, "cart.get_item", "failed to get cart item")
	}

	return &item, nil
}

// UpsertCartItem inserts the line or adds quantity to the existing one
// in a single statement, relying on the (cart_id, product_id)
// uniqueness constraint.
func (s *CartStore) UpsertCartItem(ctx context.Context, cartID, productID int64, quantity int32) (*domain.CartItem, error) {
	const query = `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity,
		    is_active = TRUE
		RETURNING id, cart_id, product_id, quantity, is_active`

	var item domain.CartItem
	err := s.db.QueryRow(ctx, query, cartID, productID, quantity).
		Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.IsActive)
	if err != nil {
		return nil, domain.Internal(err, "cart.upsert_item", "failed to upsert cart item")
	}

	return &item, nil
}

// UpdateCartItemQuantity sets the quantity of an existing line.
func (s *CartStore) UpdateCartItemQuantity(ctx context.Context, itemID int64, quantity int32) error {
	const query = `UPDATE cart_items SET quantity = $2 WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, itemID, quantity)
	if err != nil {
		return domain.Internal(err, "cart.update_quantity", "failed to update cart item")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCartItemNotFound
	}

	return nil
}

// DeleteCartItem removes the line entirely.
func (s *CartStore) DeleteCartItem(ctx context.Context, itemID int64) error {
	const query = `DELETE FROM cart_items WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, itemID)
	if err != nil {
		return domain.Internal(err, "cart.delete_item", "failed to delete cart item")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCartItemNotFound
	}

	return nil
}

// ListActiveCartLines returns the cart's active lines joined with their
// products, oldest line first.
func (s *CartStore) ListActiveCartLines(ctx context.Context, cartID int64) ([]domain.CartLine, error) {
	const query = `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.is_active,
		       p.id, p.name, p.slug, p.description, p.price, p.image_url,
		       p.stock, p.is_available, p.category_id, p.created_at, p.modified_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1 AND ci.is_active = TRUE
		ORDER BY ci.id`

	rows, err := s.db.Query(ctx, query, cartID)
	if err != nil {
		return nil, domain.Internal(err, "cart.list_lines", "failed to list cart items")
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		err := rows.Scan(
			&line.Item.ID, &line.Item.CartID, &line.Item.ProductID, &line.Item.Quantity, &line.Item.IsActive,
			&line.Product.ID, &line.Product.Name, &line.Product.Slug, &line.Product.Description,
			&line.Product.Price, &line.Product.ImageURL, &line.Product.Stock, &line.Product.IsAvailable,
			&line.Product.CategoryID, &line.Product.CreatedAt, &line.Product.ModifiedAt,
		)
		if err != nil {
			return nil, domain.Internal(err, "cart.list_lines", "failed to scan cart item")
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "cart.list_lines", "failed to read cart items")
	}

	return lines, nil
}

// SumActiveQuantity sums active line quantities for a cart.
func (s *CartStore) SumActiveQuantity(ctx context.Context, cartID int64) (int32, error) {
	const query = `
		SELECT COALESCE(SUM(quantity), 0)
		FROM cart_items
		WHERE cart_id = $1 AND is_active = TRUE`

	var sum int32
	if err := s.db.QueryRow(ctx, query, cartID).Scan(&sum); err != nil {
		return 0, domain.Internal(err, "cart.sum_quantity", "failed to sum cart quantities")
	}

	return sum, nil
}
