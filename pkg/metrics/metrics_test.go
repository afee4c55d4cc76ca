package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/products/{slug}", func(w http.ResponseWriter, _ *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/usb-c-hub", nil))

	body := scrape(t)
	assert.Contains(t, body, `route="/products/{slug}"`)
	assert.NotContains(t, body, "usb-c-hub")
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "update", operation("  UPDATE products SET stock_quantity = stock_quantity - 2"))
	assert.Equal(t, "other", operation("PRAGMA foreign_keys = ON"))
}

func TestShopCountersExported(t *testing.T) {
	OrdersPlaced.Inc()
	assert.Contains(t, scrape(t), "electrostore_shop_orders_placed_total")
}
