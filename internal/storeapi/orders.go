package storeapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/toughstore/internal/shop"
	"github.com/talkincode/toughstore/internal/webserver"
	"gorm.io/gorm"
)

// registerOrderRoutes registers authenticated order endpoints
func registerOrderRoutes() {
	webserver.ApiPOST("/orders", placeOrder)
	webserver.ApiGET("/orders", listMyOrders)
	webserver.ApiGET("/orders/:id", getMyOrder)
}

type placeOrderPayload struct {
	CartID  string `json:"cart_id" validate:"required"`
	Address string `json:"address" validate:"required,max=255"`
}

func placeOrder(c echo.Context) error {
	var payload placeOrderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", err.Error())
	}
	payload.Address = strings.TrimSpace(payload.Address)
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Cart id and address are required", nil)
	}

	userID := webserver.GetCurrentUserID(c)
	order, err := orderService(c).PlaceOrder(c.Request().Context(), userID, payload.CartID, payload.Address)
	if err != nil {
		return failShop(c, err)
	}
	return ok(c, newOrderView(order))
}

func listMyOrders(c echo.Context) error {
	userID := webserver.GetCurrentUserID(c)
	orders, err := orderService(c).ListOrdersForUser(c.Request().Context(), userID)
	if err != nil {
		return failShop(c, err)
	}
	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, newOrderView(order))
	}
	return ok(c, views)
}

func getMyOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	userID := webserver.GetCurrentUserID(c)
	customer, err := shop.NewGormCustomerRepository(GetDB(c)).GetByUserID(c.Request().Context(), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return failShop(c, shop.ErrCustomerNotFound)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}

	order, err := orderService(c).GetOrder(c.Request().Context(), id)
	if err != nil {
		return failShop(c, err)
	}
	if order.CustomerID != customer.ID {
		// do not leak the existence of other customers' orders
		return failShop(c, shop.ErrOrderNotFound)
	}
	return ok(c, newOrderView(order))
}
