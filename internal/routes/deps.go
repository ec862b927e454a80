package routes

import (
	"github.com/shipshop/shipshop/internal/handler/storefront"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Catalog (home, store listing, product detail, search)
	CatalogHandler *storefront.CatalogHandler

	// Cart
	CartHandler *storefront.CartHandler

	// Auth (register, login, logout)
	AuthHandler *storefront.AuthHandler
}
