package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/toughstore/internal/webserver"
)

// registerCartRoutes registers cart endpoints. Carts are public: the opaque
// uuid token is the capability to act on a cart.
func registerCartRoutes() {
	webserver.PubPOST("/carts", createCart)
	webserver.PubGET("/carts/:id", getCart)
	webserver.PubDELETE("/carts/:id", deleteCart)
	webserver.PubGET("/carts/:id/items", listCartItems)
	webserver.PubPOST("/carts/:id/items", addCartItem)
	webserver.PubPATCH("/carts/:id/items/:itemId", updateCartItem)
	webserver.PubDELETE("/carts/:id/items/:itemId", deleteCartItem)
}

func createCart(c echo.Context) error {
	cart, err := cartService(c).CreateCart(c.Request().Context())
	if err != nil {
		return failShop(c, err)
	}
	return ok(c, newCartView(cart))
}

func getCart(c echo.Context) error {
	cart, err := cartService(c).GetCart(c.Request().Context(), c.Param("id"))
	if err != nil {
		return failShop(c, err)
	}
	return ok(c, newCartView(cart))
}

func deleteCart(c echo.Context) error {
	if err := cartService(c).DeleteCart(c.Request().Context(), c.Param("id")); err != nil {
		return failShop(c, err)
	}
	return ok(c, map[string]interface{}{"id": c.Param("id")})
}

func listCartItems(c echo.Context) error {
	cart, err := cartService(c).GetCart(c.Request().Context(), c.Param("id"))
	if err != nil {
		return failShop(c, err)
	}
	return ok(c, newCartView(cart).Items)
}

type addCartItemPayload struct {
	ProductID int64 `json:"product_id,string" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

func addCartItem(c echo.Context) error {
	var payload addCartItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Product and a positive quantity are required", nil)
	}

	item, err := cartService(c).AddItem(c.Request().Context(), c.Param("id"), payload.ProductID, payload.Quantity)
	if err != nil {
		return failShop(c, err)
	}
	return ok(c, newCartItemView(*item))
}

type updateCartItemPayload struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

func updateCartItem(c echo.Context) error {
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid cart item ID", nil)
	}
	var payload updateCartItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "A positive quantity is required", nil)
	}

	item, err := cartService(c).UpdateItem(c.Request().Context(), c.Param("id"), itemID, payload.Quantity)
	if err != nil {
		return failShop(c, err)
	}
	return ok(c, newCartItemView(*item))
}

func deleteCartItem(c echo.Context) error {
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid cart item ID", nil)
	}
	if err := cartService(c).RemoveItem(c.Request().Context(), c.Param("id"), itemID); err != nil {
		return failShop(c, err)
	}
	return ok(c, map[string]interface{}{"id": itemID})
}
