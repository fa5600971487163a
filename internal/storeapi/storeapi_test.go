package storeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paodecos/storefront/config"
	"github.com/paodecos/storefront/internal/cart"
	"github.com/paodecos/storefront/internal/catalog"
	"github.com/paodecos/storefront/internal/checkout"
	"github.com/paodecos/storefront/internal/webserver"
)

type testAppCtx struct {
	cfg      *config.AppConfig
	bus      EventBus.Bus
	catalog  *catalog.Catalog
	cart     *cart.Store
	checkout *checkout.Service
	sched    *cron.Cron
}

func (a *testAppCtx) Config() *config.AppConfig   { return a.cfg }
func (a *testAppCtx) Bus() EventBus.Bus           { return a.bus }
func (a *testAppCtx) Catalog() *catalog.Catalog   { return a.catalog }
func (a *testAppCtx) Cart() *cart.Store           { return a.cart }
func (a *testAppCtx) Checkout() *checkout.Service { return a.checkout }
func (a *testAppCtx) Scheduler() *cron.Cron       { return a.sched }

const testFeed = `[
	{"Nombre producto":"Lámpara nórdica","Precio producto":"1500.50","Tipo":"iluminacion","Descripción producto":"Lámpara de pie","Caracteristicas":"Madera","img_product":"","Stock":"4"},
	{"Nombre producto":"Almohadón","Precio producto":"800","Tipo":"living","Descripción producto":"","Caracteristicas":"","img_product":"","Stock":"1"}
]`

// newTestServer wires a loaded catalog, an in-memory cart and the checkout
// service behind the full echo stack, feed served from an httptest server.
func newTestServer(t *testing.T, feedBody string, feedStatus int) *webserver.WebServer {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if feedStatus != http.StatusOK {
			w.WriteHeader(feedStatus)
			return
		}
		_, _ = w.Write([]byte(feedBody))
	}))
	t.Cleanup(srv.Close)

	cfg := config.LoadConfig("")
	cfg.Feed.URL = srv.URL
	cfg.Feed.Format = "sheetdb"
	cfg.Feed.Timeout = 5

	bus := EventBus.New()
	cat, err := catalog.New(cfg, bus)
	require.NoError(t, err)
	if feedStatus == http.StatusOK {
		_, err = cat.Load(context.Background())
		require.NoError(t, err)
	}
	store, err := cart.NewStore(nil, bus)
	require.NoError(t, err)

	ws := webserver.Init(&testAppCtx{
		cfg:      cfg,
		bus:      bus,
		catalog:  cat,
		cart:     store,
		checkout: checkout.New(cfg, nil),
		sched:    cron.New(),
	})
	RegisterRoutes()
	return ws
}

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(ws *webserver.WebServer, method, target, body string) (int, envelope) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ws.Echo().ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec.Code, env
}

func productIDs(t *testing.T, ws *webserver.WebServer) map[string]string {
	t.Helper()
	code, env := doJSON(ws, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, code)
	var views []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &views))
	ids := make(map[string]string, len(views))
	for _, v := range views {
		ids[v.Name] = v.ID
	}
	return ids
}

func TestListProducts(t *testing.T) {
	ws := newTestServer(t, testFeed, http.StatusOK)

	code, env := doJSON(ws, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, code)
	var views []struct {
		Name       string `json:"name"`
		Category   string `json:"category"`
		StockLevel string `json:"stock_level"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 2)
	assert.Equal(t, "medium", views[0].StockLevel)
	assert.Equal(t, "low", views[1].StockLevel)

	// query parameter overrides the stored category filter
	code, env = doJSON(ws, http.MethodGet, "/api/products?category=living", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Almohadón", views[0].Name)
}

func TestCategories(t *testing.T) {
	ws := newTestServer(t, testFeed, http.StatusOK)

	code, env := doJSON(ws, http.MethodGet, "/api/products/categories", "")
	require.Equal(t, http.StatusOK, code)
	var data struct {
		Categories []string `json:"categories"`
		Active     string   `json:"active"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, []string{"all", "iluminacion", "living"}, data.Categories)
	assert.Equal(t, "all", data.Active)

	code, env = doJSON(ws, http.MethodPut, "/api/catalog/category", `{"category":"living"}`)
	require.Equal(t, http.StatusOK, code)
	var active struct {
		Active string `json:"active"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &active))
	assert.Equal(t, "living", active.Active)
}

func TestGetProductNotFound(t *testing.T) {
	ws := newTestServer(t, testFeed, http.StatusOK)

	code, env := doJSON(ws, http.MethodGet, "/api/products/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestCartFlow(t *testing.T) {
	ws := newTestServer(t, testFeed, http.StatusOK)
	ids := productIDs(t, ws)

	code, env := doJSON(ws, http.MethodPost, "/api/cart/items",
		`{"product_id":"`+ids["Lámpara nórdica"]+`","quantity":2}`)
	require.Equal(t, http.StatusOK, code)
	var summary struct {
		Total     float64 `json:"total"`
		TotalText string  `json:"total_text"`
		ItemCount int     `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 3001.0, summary.Total)
	assert.Equal(t, "$ 3.001,00", summary.TotalText)
	assert.Equal(t, 2, summary.ItemCount)

	// raising the quantity past the available stock is rejected
	code, env = doJSON(ws, http.MethodPut, "/api/cart/items/"+ids["Lámpara nórdica"],
		`{"quantity":9}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Code)
	var detail struct {
		Available int `json:"available"`
	}
	require.NoError(t, json.Unmarshal(env.Detail, &detail))
	assert.Equal(t, 4, detail.Available)

	code, _ = doJSON(ws, http.MethodDelete, "/api/cart/items/"+ids["Lámpara nórdica"], "")
	require.Equal(t, http.StatusOK, code)

	code, env = doJSON(ws, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 0, summary.ItemCount)
}

func TestAddCartItemValidation(t *testing.T) {
	ws := newTestServer(t, testFeed, http.StatusOK)

	code, env := doJSON(ws, http.MethodPost, "/api/cart/items", `{"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_REQUEST", env.Code)

	code, env = doJSON(ws, http.MethodPost, "/api/cart/items", `{"product_id":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestAddBeyondStockConflict(t *testing.T) {
	ws := newTestServer(t, testFeed, http.StatusOK)
	ids := productIDs(t, ws)

	body := `{"product_id":"` + ids["Almohadón"] + `","quantity":1}`
	code, _ := doJSON(ws, http.MethodPost, "/api/cart/items", body)
	require.Equal(t, http.StatusOK, code)

	code, env := doJSON(ws, http.MethodPost, "/api/cart/items", body)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Code)
}

func TestCheckoutFlow(t *testing.T) {
	ws := newTestServer(t, testFeed, http.StatusOK)

	// empty cart is rejected before any handoff
	code, env := doJSON(ws, http.MethodPost, "/api/cart/checkout", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "EMPTY_CART", env.Code)

	ids := productIDs(t, ws)
	code, _ = doJSON(ws, http.MethodPost, "/api/cart/items",
		`{"product_id":"`+ids["Almohadón"]+`","quantity":1}`)
	require.Equal(t, http.StatusOK, code)

	code, env = doJSON(ws, http.MethodPost, "/api/cart/checkout", "")
	require.Equal(t, http.StatusOK, code)
	var order struct {
		Message   string `json:"message"`
		Link      string `json:"link"`
		ItemCount int    `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.True(t, strings.HasPrefix(order.Link, "https://wa.me/"))
	assert.Contains(t, order.Message, "• Almohadón (x1) - $ 800,00")
	assert.Equal(t, 1, order.ItemCount)

	// checkout leaves the cart untouched
	code, env = doJSON(ws, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, code)
	var summary struct {
		ItemCount int `json:"item_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 1, summary.ItemCount)
}

func TestExportProducts(t *testing.T) {
	ws := newTestServer(t, testFeed, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/api/products/export", nil)
	rec := httptest.NewRecorder()
	ws.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")
	assert.Contains(t, rec.Body.String(), "Lámpara nórdica")

	req = httptest.NewRequest(http.MethodGet, "/api/products/export?format=xlsx", nil)
	rec = httptest.NewRecorder()
	ws.Echo().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "spreadsheetml")
	assert.NotZero(t, rec.Body.Len())

	code, env := doJSON(ws, http.MethodGet, "/api/products/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_REQUEST", env.Code)
}

func TestReloadFeedUnavailable(t *testing.T) {
	ws := newTestServer(t, "", http.StatusBadGateway)

	code, env := doJSON(ws, http.MethodPost, "/api/catalog/reload", "")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "FEED_UNAVAILABLE", env.Code)

	// the catalog reports the retryable error state
	code, env = doJSON(ws, http.MethodGet, "/api/catalog/status", "")
	require.Equal(t, http.StatusOK, code)
	var status struct {
		Loading bool   `json:"loading"`
		Count   int    `json:"count"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.False(t, status.Loading)
	assert.Equal(t, 0, status.Count)
	assert.NotEmpty(t, status.Error)
}
