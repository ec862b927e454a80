package domain

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

var (
	ErrProductNotFound  = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrCategoryNotFound = &Error{Code: ENOTFOUND, Message: "Category not found"}
)

// Category groups products for browsing.
type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	ImageURL    string
}

// Product is a catalog entry. Price is in minor currency units.
type Product struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Price       int64
	ImageURL    string
	Stock       int32
	IsAvailable bool
	CategoryID  int64
	// CategorySlug is denormalized from the category for building
	// /store/{category}/{product} URLs.
	CategorySlug string
	CreatedAt   pgtype.Timestamptz
	ModifiedAt  pgtype.Timestamptz
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products   []Product
	Page       int
	TotalPages int
	TotalCount int
}

// CatalogService provides read access to categories and products.
// The cart treats the catalog as read-only.
type CatalogService interface {
	// GetProductByID returns ErrProductNotFound when absent.
	GetProductByID(ctx context.Context, id int64) (*Product, error)

	// GetProductBySlug resolves a product by its category and product slugs.
	GetProductBySlug(ctx context.Context, categorySlug, productSlug string) (*Product, error)

	// ListAvailableProducts returns one page of available products,
	// optionally scoped to a category. categorySlug == "" lists the whole
	// store. Unknown category slugs fail with ErrCategoryNotFound.
	ListAvailableProducts(ctx context.Context, categorySlug string, page int) (*ProductPage, error)

	// SearchProducts matches the keyword case-insensitively against
	// product name or description, newest first.
	SearchProducts(ctx context.Context, keyword string) ([]Product, error)

	// ListCategories returns all categories for navigation.
	ListCategories(ctx context.Context) ([]Category, error)
}

// CatalogStore provides persistence queries for the catalog.
type CatalogStore interface {
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	GetProductBySlug(ctx context.Context, categorySlug, productSlug string) (*Product, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)

	// ListAvailableProducts lists available products ordered by ID.
	// categoryID == 0 means all categories.
	ListAvailableProducts(ctx context.Context, categoryID int64, limit, offset int) ([]Product, error)

	// CountAvailableProducts counts the rows ListAvailableProducts would
	// return without paging.
	CountAvailableProducts(ctx context.Context, categoryID int64) (int, error)

	// SearchProducts matches name or description, newest first.
	SearchProducts(ctx context.Context, keyword string) ([]Product, error)
}
