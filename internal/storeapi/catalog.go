package storeapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/paodecos/storefront/internal/catalog"
	"github.com/paodecos/storefront/internal/domain"
	"github.com/paodecos/storefront/internal/webserver"
)

// productView decorates a product with its derived stock level for the UI.
type productView struct {
	domain.Product
	StockLevel string `json:"stock_level"`
}

type categoryPayload struct {
	Category string `json:"category" validate:"required"`
}

// registerCatalogRoutes registers product catalog endpoints
func registerCatalogRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/categories", listCategories)
	webserver.ApiGET("/products/export", exportProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiGET("/catalog/status", catalogStatus)
	webserver.ApiPOST("/catalog/reload", reloadCatalog)
	webserver.ApiPUT("/catalog/category", setCategory)
}

func productViews(products []domain.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, productView{Product: p, StockLevel: p.StockLevel()})
	}
	return out
}

// listProducts returns the products for the active category filter. An
// explicit category query parameter overrides the stored filter for this
// request only.
func listProducts(c echo.Context) error {
	cat := webserver.AppCtx().Catalog()
	if q := strings.TrimSpace(c.QueryParam("category")); q != "" {
		if q == catalog.CategoryAll {
			return ok(c, productViews(cat.Products()))
		}
		var filtered []domain.Product
		for _, p := range cat.Products() {
			if p.Category == q {
				filtered = append(filtered, p)
			}
		}
		return ok(c, productViews(filtered))
	}
	return ok(c, productViews(cat.Filtered()))
}

func getProduct(c echo.Context) error {
	p, found := webserver.AppCtx().Catalog().Product(c.Param("id"))
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, productView{Product: p, StockLevel: p.StockLevel()})
}

func listCategories(c echo.Context) error {
	cat := webserver.AppCtx().Catalog()
	return ok(c, map[string]interface{}{
		"categories": cat.Categories(),
		"active":     cat.Category(),
	})
}

func catalogStatus(c echo.Context) error {
	return ok(c, webserver.AppCtx().Catalog().Status())
}

// reloadCatalog triggers a feed fetch. Failures come back as a retryable
// error state, never a crash; concurrent triggers share one in-flight load.
func reloadCatalog(c echo.Context) error {
	cat := webserver.AppCtx().Catalog()
	products, err := cat.Load(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusBadGateway, "FEED_UNAVAILABLE",
			"Failed to load the product catalog", err.Error())
	}
	return ok(c, map[string]interface{}{"count": len(products)})
}

func setCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Category is required", err.Error())
	}
	cat := webserver.AppCtx().Catalog()
	cat.SetCategory(strings.TrimSpace(payload.Category))
	return ok(c, map[string]interface{}{"active": cat.Category()})
}
