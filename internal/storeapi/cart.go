package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/paodecos/storefront/internal/cart"
	"github.com/paodecos/storefront/internal/checkout"
	"github.com/paodecos/storefront/internal/webserver"
)

type addItemPayload struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type quantityPayload struct {
	Quantity int `json:"quantity"`
}

// registerCartRoutes registers cart endpoints
func registerCartRoutes() {
	webserver.ApiGET("/cart", getCart)
	webserver.ApiPOST("/cart/items", addCartItem)
	webserver.ApiPUT("/cart/items/:id", updateCartItem)
	webserver.ApiDELETE("/cart/items/:id", removeCartItem)
	webserver.ApiDELETE("/cart", clearCart)
	webserver.ApiPOST("/cart/checkout", checkoutCart)
}

func cartSummary(s *cart.Store) map[string]interface{} {
	return map[string]interface{}{
		"lines":      s.Lines(),
		"total":      s.Total(),
		"total_text": checkout.FormatPrice(s.Total()),
		"item_count": s.ItemCount(),
	}
}

func getCart(c echo.Context) error {
	return ok(c, cartSummary(webserver.AppCtx().Cart()))
}

func addCartItem(c echo.Context) error {
	var payload addItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Product id is required", err.Error())
	}

	appctx := webserver.AppCtx()
	if appctx.Catalog().Status().Loading {
		return fail(c, http.StatusConflict, "CATALOG_LOADING",
			"The catalog is loading, try again shortly", nil)
	}
	product, found := appctx.Catalog().Product(payload.ProductID)
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	if err := appctx.Cart().Add(product, payload.Quantity); err != nil {
		return cartFail(c, err)
	}
	return ok(c, cartSummary(appctx.Cart()))
}

func updateCartItem(c echo.Context) error {
	var payload quantityPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quantity", err.Error())
	}
	store := webserver.AppCtx().Cart()
	if err := store.SetQuantity(c.Param("id"), payload.Quantity); err != nil {
		return cartFail(c, err)
	}
	return ok(c, cartSummary(store))
}

func removeCartItem(c echo.Context) error {
	store := webserver.AppCtx().Cart()
	store.Remove(c.Param("id"))
	return ok(c, cartSummary(store))
}

func clearCart(c echo.Context) error {
	store := webserver.AppCtx().Cart()
	store.Clear()
	return ok(c, cartSummary(store))
}

// checkoutCart builds the order summary and the WhatsApp link. The cart is
// not cleared: the purchase completes in the chat, not here.
func checkoutCart(c echo.Context) error {
	appctx := webserver.AppCtx()
	order, err := appctx.Checkout().Checkout(appctx.Cart().Lines(), appctx.Cart().Total())
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			return fail(c, http.StatusBadRequest, "EMPTY_CART",
				"Add products before checking out", nil)
		}
		return fail(c, http.StatusInternalServerError, "CHECKOUT_ERROR", "Checkout failed", err.Error())
	}
	return ok(c, order)
}

// cartFail maps cart rejections to API errors.
func cartFail(c echo.Context, err error) error {
	var insufficient *cart.InsufficientStockError
	switch {
	case errors.Is(err, cart.ErrOutOfStock):
		return fail(c, http.StatusConflict, "OUT_OF_STOCK", "This product is not available", nil)
	case errors.As(err, &insufficient):
		return fail(c, http.StatusConflict, "INSUFFICIENT_STOCK",
			"Not enough stock for the requested quantity",
			map[string]int{"available": insufficient.Available})
	default:
		return fail(c, http.StatusInternalServerError, "CART_ERROR", "Cart operation failed", err.Error())
	}
}
