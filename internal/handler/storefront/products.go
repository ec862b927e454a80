package storefront

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shipshop/shipshop/internal/domain"
	"github.com/shipshop/shipshop/internal/handler"
	"github.com/shipshop/shipshop/internal/session"
)

// CatalogHandler handles the storefront catalog routes
type CatalogHandler struct {
	catalog  domain.CatalogService
	carts    domain.CartService
	resolver *session.Resolver
	renderer *handler.Renderer
	base     *BaseData
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog domain.CatalogService, carts domain.CartService, resolver *session.Resolver, renderer *handler.Renderer, base *BaseData) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		carts:    carts,
		resolver: resolver,
		renderer: renderer,
		base:     base,
	}
}

// Home handles GET /
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalog.ListAvailableProducts(r.Context(), "", 1)
	if err != nil {
		handler.InternalErrorResponse(w, r, err)
		return
	}

	data := h.base.For(r)
	data["Products"] = page.Products

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderer.RenderHTTP(w, "home", data)
}

// Store handles GET /store and GET /store/{category}
func (h *CatalogHandler) Store(w http.ResponseWriter, r *http.Request) {
	categorySlug := r.PathValue("category")
	pageNum := parsePage(r.URL.Query().Get("page"))

	page, err := h.catalog.ListAvailableProducts(r.Context(), categorySlug, pageNum)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			handler.NotFoundResponse(w, r)
			return
		}
		handler.InternalErrorResponse(w, r, err)
		return
	}

	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		handler.InternalErrorResponse(w, r, err)
		return
	}

	data := h.base.For(r)
	data["Page"] = page
	data["Products"] = page.Products
	data["ProductCount"] = page.TotalCount
	data["Categories"] = categories
	data["CurrentCategory"] = categorySlug

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderer.RenderHTTP(w, "store", data)
}

// ProductDetail handles GET /store/{category}/{product}
func (h *CatalogHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	categorySlug := r.PathValue("category")
	productSlug := r.PathValue("product")

	product, err := h.catalog.GetProductBySlug(r.Context(), categorySlug, productSlug)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) || domain.ErrorCode(err) == domain.ENOTFOUND {
			handler.NotFoundResponse(w, r)
			return
		}
		handler.InternalErrorResponse(w, r, err)
		return
	}

	inCart := false
	if token := h.resolver.Peek(r); token != "" {
		inCart, err = h.carts.InCart(r.Context(), token, product.ID)
		if err != nil {
			handler.InternalErrorResponse(w, r, err)
			return
		}
	}

	data := h.base.For(r)
	data["Product"] = product
	data["InCart"] = inCart

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderer.RenderHTTP(w, "product_detail", data)
}

// Search handles GET /search
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")

	products, err := h.catalog.SearchProducts(r.Context(), keyword)
	if err != nil {
		handler.InternalErrorResponse(w, r, err)
		return
	}

	data := h.base.For(r)
	data["Products"] = products
	data["ProductCount"] = len(products)
	data["Keyword"] = keyword

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.renderer.RenderHTTP(w, "search", data)
}

// parsePage reads a page query parameter, defaulting to 1. Out-of-range
// values are clamped by the catalog service.
func parsePage(raw string) int {
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
