package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shipshop/shipshop/internal/cookie"
	"github.com/shipshop/shipshop/internal/domain"
)

const cartPage = `{{define "content"}}
{{if .Message}}<p class="notice">{{.Message}}</p>{{end}}
{{if .Summary.Lines}}
<p>{{.Summary.Quantity}} items</p>
<p>Total: {{money .Summary.Total}}</p>
<p>Tax: {{moneyf .Summary.Tax}}</p>
<p>Grand Total: {{moneyf .Summary.GrandTotal}}</p>
{{else}}
<p>Your cart is empty</p>
<a href="/store">Continue Shopping</a>
{{end}}
{{end}}`

func newCartHandler(t *testing.T, carts *mockCartService) *CartHandler {
	t.Helper()
	renderer := newTestRenderer(t, map[string]string{"cart": cartPage})
	resolver := newTestResolver()
	base := NewBaseData(carts, resolver)
	return NewCartHandler(carts, resolver, renderer, base)
}

func TestCartHandler_View(t *testing.T) {
	tests := []struct {
		name           string
		sessionCookie  string
		mockSummary    *domain.CartSummary
		expectedStatus int
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:           "no session cookie shows empty cart",
			sessionCookie:  "",
			mockSummary:    &domain.CartSummary{},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				if !strings.Contains(body, "Your cart is empty") {
					t.Error("expected empty cart message")
				}
				if !strings.Contains(body, "Continue Shopping") {
					t.Error("expected continue shopping link")
				}
			},
		},
		{
			name:          "cart with items shows totals",
			sessionCookie: "sess-1",
			mockSummary: &domain.CartSummary{
				Lines: []domain.CartLine{
					{
						Item:      domain.CartItem{ProductID: 1, Quantity: 2},
						Product:   domain.Product{ID: 1, Name: "Atlas Jacket", Price: 100},
						LineTotal: 200,
					},
				},
				Total:      200,
				Quantity:   2,
				Tax:        10.0,
				GrandTotal: 210.0,
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				if !strings.Contains(body, "2 items") {
					t.Error("expected item count")
				}
				if !strings.Contains(body, "Total: $2.00") {
					t.Error("expected total")
				}
				if !strings.Contains(body, "Tax: $10.00") {
					t.Error("expected tax")
				}
				if !strings.Contains(body, "Grand Total: $210.00") {
					t.Error("expected grand total")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotToken string
			carts := &mockCartService{
				getCartSummaryFunc: func(ctx context.Context, sessionToken string) (*domain.CartSummary, error) {
					gotToken = sessionToken
					return tt.mockSummary, nil
				},
			}

			h := newCartHandler(t, carts)

			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			if tt.sessionCookie != "" {
				req.AddCookie(&http.Cookie{Name: cookie.SessionCookieName, Value: tt.sessionCookie})
			}
			w := httptest.NewRecorder()

			h.View(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if gotToken == "" {
				t.Error("expected a session token to reach the cart service")
			}
			if tt.sessionCookie != "" && gotToken != tt.sessionCookie {
				t.Errorf("expected session token %q, got %q", tt.sessionCookie, gotToken)
			}
			if tt.checkBody != nil {
				tt.checkBody(t, w.Body.String())
			}
		})
	}
}

func TestCartHandler_View_MintsSessionCookie(t *testing.T) {
	h := newCartHandler(t, &mockCartService{})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()

	h.View(w, req)

	cookies := w.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == cookie.SessionCookieName && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("expected a session cookie to be set for a first-time visitor")
	}
}

func TestCartHandler_Add(t *testing.T) {
	tests := []struct {
		name             string
		pathID           string
		addErr           error
		expectedStatus   int
		expectedLocation string
	}{
		{
			name:             "adds and redirects to cart",
			pathID:           "5",
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/cart",
		},
		{
			name:           "unknown product returns 404",
			pathID:         "99",
			addErr:         domain.ErrProductNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid id returns 400",
			pathID:         "abc",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "zero id returns 400",
			pathID:         "0",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotProductID int64
			carts := &mockCartService{
				addItemFunc: func(ctx context.Context, sessionToken string, productID int64) error {
					gotProductID = productID
					return tt.addErr
				},
			}

			h := newCartHandler(t, carts)

			req := httptest.NewRequest(http.MethodPost, "/cart/add/"+tt.pathID, nil)
			req.SetPathValue("id", tt.pathID)
			w := httptest.NewRecorder()

			h.Add(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedLocation != "" {
				if loc := w.Header().Get("Location"); loc != tt.expectedLocation {
					t.Errorf("expected redirect to %q, got %q", tt.expectedLocation, loc)
				}
				if gotProductID != 5 {
					t.Errorf("expected product ID 5, got %d", gotProductID)
				}
			}
		})
	}
}

func TestCartHandler_Decrement_MissingLineShowsNotice(t *testing.T) {
	carts := &mockCartService{
		decrementItemFunc: func(ctx context.Context, sessionToken string, productID int64) error {
			return domain.ErrCartItemNotFound
		},
	}

	h := newCartHandler(t, carts)

	req := httptest.NewRequest(http.MethodPost, "/cart/decrement/7", nil)
	req.SetPathValue("id", "7")
	req.AddCookie(&http.Cookie{Name: cookie.SessionCookieName, Value: "sess-1"})
	w := httptest.NewRecorder()

	h.Decrement(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "That item is not in your cart.") {
		t.Error("expected missing item notice")
	}
}

func TestCartHandler_Remove(t *testing.T) {
	var gotProductID int64
	carts := &mockCartService{
		removeItemFunc: func(ctx context.Context, sessionToken string, productID int64) error {
			gotProductID = productID
			return nil
		},
	}

	h := newCartHandler(t, carts)

	req := httptest.NewRequest(http.MethodPost, "/cart/remove/3", nil)
	req.SetPathValue("id", "3")
	req.AddCookie(&http.Cookie{Name: cookie.SessionCookieName, Value: "sess-1"})
	w := httptest.NewRecorder()

	h.Remove(w, req)

	if w.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", w.Code)
	}
	if gotProductID != 3 {
		t.Errorf("expected product ID 3, got %d", gotProductID)
	}
}
