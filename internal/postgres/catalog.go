package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shipshop/shipshop/internal/domain"
)

const productColumns = `p.id, p.name, p.slug, p.description, p.price, p.image_url,
	p.stock, p.is_available, p.category_id, c.slug, p.created_at, p.modified_at`

const productFrom = ` FROM products p JOIN categories c ON c.id = p.category_id`

// CatalogStore implements domain.CatalogStore using PostgreSQL.
type CatalogStore struct {
	db *pgxpool.Pool
}

var _ domain.CatalogStore = (*CatalogStore)(nil)

// NewCatalogStore creates a new PostgreSQL-backed catalog store.
func NewCatalogStore(db *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{db: db}
}

func scanProduct(row pgx.Row, p *domain.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.ImageURL,
		&p.Stock, &p.IsAvailable, &p.CategoryID, &p.CategorySlug, &p.CreatedAt, &p.ModifiedAt,
	)
}

// GetProductByID returns the product with the given ID.
func (s *CatalogStore) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + productFrom + ` WHERE p.id = $1`

	var product domain.Product
	if err := scanProduct(s.db.QueryRow(ctx, query, id), &product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("product.get", "product", strconv.FormatInt(id, 10))
		}
		return nil, domain.Internal(err, "product.get", "failed to get product")
	}

	return &product, nil
}

// GetProductBySlug resolves a product by its category and product slugs.
func (s *CatalogStore) GetProductBySlug(ctx context.Context, categorySlug, productSlug string) (*domain.Product, error) {
	const query = `SELECT ` + productColumns + productFrom + `
		WHERE c.slug = $1 AND p.slug = $2`

	var product domain.Product
	if err := scanProduct(s.db.QueryRow(ctx, query, categorySlug, productSlug), &product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("product.get_by_slug", "product", categorySlug+"/"+productSlug)
		}
		return nil, domain.Internal(err, "product.get_by_slug", "failed to get product")
	}

	return &product, nil
}

// GetCategoryBySlug returns the category with the given slug.
func (s *CatalogStore) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	const query = `SELECT id, name, slug, description, image_url FROM categories WHERE slug = $1`

	var category domain.Category
	err := s.db.QueryRow(ctx, query, slug).
		Scan(&category.ID, &category.Name, &category.Slug, &category.Description, &category.ImageURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("category.get", "category", slug)
		}
		return nil, domain.Internal(err, "category.get", "failed to get category")
	}

	return &category, nil
}

// ListCategories returns all categories ordered by name.
func (s *CatalogStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const query = `SELECT id, name, slug, description, image_url FROM categories ORDER BY name`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, domain.Internal(err, "category.list", "failed to list categories")
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL); err != nil {
			return nil, domain.Internal(err, "category.list", "failed to scan category")
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "category.list", "failed to read categories")
	}

	return categories, nil
}

// ListAvailableProducts lists available products ordered by ID.
// categoryID == 0 means all categories.
func (s *CatalogStore) ListAvailableProducts(ctx context.Context, categoryID int64, limit, offset int) ([]domain.Product, error) {
	const query = `SELECT ` + productColumns + productFrom + `
		WHERE p.is_available = TRUE AND ($1 = 0 OR p.category_id = $1)
		ORDER BY p.id
		LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(ctx, query, categoryID, limit, offset)
	if err != nil {
		return nil, domain.Internal(err, "product.list", "failed to list products")
	}
	defer rows.Close()

	return collectProducts(rows, "product.list")
}

// CountAvailableProducts counts the available products, optionally
// scoped to one category.
func (s *CatalogStore) CountAvailableProducts(ctx context.Context, categoryID int64) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM products
		WHERE is_available = TRUE AND ($1 = 0 OR category_id = $1)`

	var count int
	if err := s.db.QueryRow(ctx, query, categoryID).Scan(&count); err != nil {
		return 0, domain.Internal(err, "product.count", "failed to count products")
	}

	return count, nil
}

// SearchProducts matches the keyword case-insensitively against product
// name or description, newest first.
func (s *CatalogStore) SearchProducts(ctx context.Context, keyword string) ([]domain.Product, error) {
	const query = `SELECT ` + productColumns + productFrom + `
		WHERE p.name ILIKE '%' || $1 || '%' OR p.description ILIKE '%' || $1 || '%'
		ORDER BY p.created_at DESC`

	rows, err := s.db.Query(ctx, query, keyword)
	if err != nil {
		return nil, domain.Internal(err, "product.search", "failed to search products")
	}
	defer rows.Close()

	return collectProducts(rows, "product.search")
}

func collectProducts(rows pgx.Rows, op string) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, domain.Internal(err, op, "failed to scan product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read products")
	}

	return products, nil
}
