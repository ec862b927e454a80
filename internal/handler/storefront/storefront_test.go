package storefront

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/shipshop/shipshop/internal/cookie"
	"github.com/shipshop/shipshop/internal/domain"
	"github.com/shipshop/shipshop/internal/handler"
	"github.com/shipshop/shipshop/internal/session"
)

const testLayout = `{{define "base"}}<!DOCTYPE html>
<html><body>
{{if hasKey . "CartItemCount"}}<span id="cart-count">Cart ({{.CartItemCount}})</span>{{end}}
{{template "content" .}}
</body></html>{{end}}`

// newTestRenderer writes a minimal layout plus the given page templates
// into a temp dir and parses them with the real renderer.
func newTestRenderer(t *testing.T, pages map[string]string) *handler.Renderer {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "layout.html"), []byte(testLayout), 0o644); err != nil {
		t.Fatalf("failed to write layout: %v", err)
	}
	for name, content := range pages {
		if err := os.WriteFile(filepath.Join(dir, name+".html"), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write page %s: %v", name, err)
		}
	}

	r, err := handler.NewRenderer(dir)
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	return r
}

// memSessionStore is an in-memory domain.SessionStore for handler tests
type memSessionStore struct {
	sessions map[string]*domain.Session
	nextID   int64
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *memSessionStore) Create(ctx context.Context, token string, expiresAt pgtype.Timestamptz) (*domain.Session, error) {
	s.nextID++
	session := &domain.Session{ID: s.nextID, Token: token, ExpiresAt: expiresAt}
	s.sessions[token] = session
	return session, nil
}

func (s *memSessionStore) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *memSessionStore) SetAccount(ctx context.Context, token string, accountID int64) error {
	session, ok := s.sessions[token]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.AccountID = pgtype.Int8{Int64: accountID, Valid: true}
	return nil
}

func (s *memSessionStore) ClearAccount(ctx context.Context, token string) error {
	session, ok := s.sessions[token]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.AccountID = pgtype.Int8{}
	return nil
}

func (s *memSessionStore) Delete(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func newTestResolver() *session.Resolver {
	return session.NewResolver(newMemSessionStore(), cookie.NewConfig(false, 0), 0)
}

// mockCartService implements domain.CartService for testing
type mockCartService struct {
	addItemFunc        func(ctx context.Context, sessionToken string, productID int64) error
	decrementItemFunc  func(ctx context.Context, sessionToken string, productID int64) error
	removeItemFunc     func(ctx context.Context, sessionToken string, productID int64) error
	getCartSummaryFunc func(ctx context.Context, sessionToken string) (*domain.CartSummary, error)
	itemCountFunc      func(ctx context.Context, sessionToken string) (int32, error)
	inCartFunc         func(ctx context.Context, sessionToken string, productID int64) (bool, error)
}

func (m *mockCartService) AddItem(ctx context.Context, sessionToken string, productID int64) error {
	if m.addItemFunc != nil {
		return m.addItemFunc(ctx, sessionToken, productID)
	}
	return nil
}

func (m *mockCartService) DecrementItem(ctx context.Context, sessionToken string, productID int64) error {
	if m.decrementItemFunc != nil {
		return m.decrementItemFunc(ctx, sessionToken, productID)
	}
	return nil
}

func (m *mockCartService) RemoveItem(ctx context.Context, sessionToken string, productID int64) error {
	if m.removeItemFunc != nil {
		return m.removeItemFunc(ctx, sessionToken, productID)
	}
	return nil
}

func (m *mockCartService) GetCartSummary(ctx context.Context, sessionToken string) (*domain.CartSummary, error) {
	if m.getCartSummaryFunc != nil {
		return m.getCartSummaryFunc(ctx, sessionToken)
	}
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) ItemCount(ctx context.Context, sessionToken string) (int32, error) {
	if m.itemCountFunc != nil {
		return m.itemCountFunc(ctx, sessionToken)
	}
	return 0, nil
}

func (m *mockCartService) InCart(ctx context.Context, sessionToken string, productID int64) (bool, error) {
	if m.inCartFunc != nil {
		return m.inCartFunc(ctx, sessionToken, productID)
	}
	return false, nil
}

// mockCatalogService implements domain.CatalogService for testing
type mockCatalogService struct {
	getProductByIDFunc        func(ctx context.Context, id int64) (*domain.Product, error)
	getProductBySlugFunc      func(ctx context.Context, categorySlug, productSlug string) (*domain.Product, error)
	listAvailableProductsFunc func(ctx context.Context, categorySlug string, page int) (*domain.ProductPage, error)
	searchProductsFunc        func(ctx context.Context, keyword string) ([]domain.Product, error)
	listCategoriesFunc        func(ctx context.Context) ([]domain.Category, error)
}

func (m *mockCatalogService) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	if m.getProductByIDFunc != nil {
		return m.getProductByIDFunc(ctx, id)
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockCatalogService) GetProductBySlug(ctx context.Context, categorySlug, productSlug string) (*domain.Product, error) {
	if m.getProductBySlugFunc != nil {
		return m.getProductBySlugFunc(ctx, categorySlug, productSlug)
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockCatalogService) ListAvailableProducts(ctx context.Context, categorySlug string, page int) (*domain.ProductPage, error) {
	if m.listAvailableProductsFunc != nil {
		return m.listAvailableProductsFunc(ctx, categorySlug, page)
	}
	return &domain.ProductPage{Page: 1, TotalPages: 1}, nil
}

func (m *mockCatalogService) SearchProducts(ctx context.Context, keyword string) ([]domain.Product, error) {
	if m.searchProductsFunc != nil {
		return m.searchProductsFunc(ctx, keyword)
	}
	return nil, nil
}

func (m *mockCatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if m.listCategoriesFunc != nil {
		return m.listCategoriesFunc(ctx)
	}
	return nil, nil
}
