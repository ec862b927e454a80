package service

import (
	"context"
	"strings"

	"github.com/shipshop/shipshop/internal/domain"
)

const (
	// storePageSize is the page size for the all-products listing.
	storePageSize = 3

	// categoryPageSize is the page size within a single category.
	categoryPageSize = 1
)

// catalogService implements domain.CatalogService over the catalog store.
type catalogService struct {
	store domain.CatalogStore
}

var _ domain.CatalogService = (*catalogService)(nil)

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(store domain.CatalogStore) domain.CatalogService {
	return &catalogService{store: store}
}

func (s *catalogService) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.store.GetProductByID(ctx, id)
}

func (s *catalogService) GetProductBySlug(ctx context.Context, categorySlug, productSlug string) (*domain.Product, error) {
	return s.store.GetProductBySlug(ctx, categorySlug, productSlug)
}

// ListAvailableProducts returns one page of available products. An
// out-of-range page is clamped to the nearest valid page rather than
// failing, so stale pagination links keep working.
func (s *catalogService) ListAvailableProducts(ctx context.Context, categorySlug string, page int) (*domain.ProductPage, error) {
	var categoryID int64
	pageSize := storePageSize

	if categorySlug != "" {
		category, err := s.store.GetCategoryBySlug(ctx, categorySlug)
		if err != nil {
			return nil, err
		}
		categoryID = category.ID
		pageSize = categoryPageSize
	}

	count, err := s.store.CountAvailableProducts(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	totalPages := (count + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	products, err := s.store.ListAvailableProducts(ctx, categoryID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	return &domain.ProductPage{
		Products:   products,
		Page:       page,
		TotalPages: totalPages,
		TotalCount: count,
	}, nil
}

// SearchProducts matches the keyword against product name or
// description, case-insensitively. A blank keyword returns no results.
func (s *catalogService) SearchProducts(ctx context.Context, keyword string) ([]domain.Product, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, nil
	}

	return s.store.SearchProducts(ctx, keyword)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.store.ListCategories(ctx)
}
