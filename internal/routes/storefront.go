package routes

import (
	"github.com/shipshop/shipshop/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing storefront routes.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Home page
	r.Get("/", deps.CatalogHandler.Home)

	// Product browsing
	r.Get("/store", deps.CatalogHandler.Store)
	r.Get("/store/{category}", deps.CatalogHandler.Store)
	r.Get("/store/{category}/{product}", deps.CatalogHandler.ProductDetail)
	r.Get("/search", deps.CatalogHandler.Search)

	// Shopping cart
	r.Get("/cart", deps.CartHandler.View)
	r.Post("/cart/add/{id}", deps.CartHandler.Add)
	r.Post("/cart/decrement/{id}", deps.CartHandler.Decrement)
	r.Post("/cart/remove/{id}", deps.CartHandler.Remove)

	// Authentication
	r.Get("/register", deps.AuthHandler.RegisterForm)
	r.Post("/register", deps.AuthHandler.Register)
	r.Get("/login", deps.AuthHandler.LoginForm)
	r.Post("/login", deps.AuthHandler.Login)
	r.Post("/logout", deps.AuthHandler.Logout)
}
