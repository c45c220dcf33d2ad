package storeapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/toughstore/internal/shop"
	"github.com/talkincode/toughstore/internal/webserver"
	"gorm.io/gorm"
)

func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetDB(c)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"data": data,
	})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":    code,
		"message": message,
		"details": details,
	})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":      0,
		"data":      rows,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func parsePagination(c echo.Context) (int, int) {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 20
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// failShop maps service errors onto HTTP failures with stable codes.
func failShop(c echo.Context, err error) error {
	switch {
	case errors.Is(err, shop.ErrCartNotFound):
		return fail(c, http.StatusNotFound, "CART_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, shop.ErrCartItemNotFound):
		return fail(c, http.StatusNotFound, "CART_ITEM_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, shop.ErrProductNotFound):
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, shop.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, shop.ErrCustomerNotFound):
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, shop.ErrCartEmpty):
		return fail(c, http.StatusBadRequest, "CART_EMPTY", err.Error(), nil)
	case errors.Is(err, shop.ErrInsufficientInventory):
		return fail(c, http.StatusBadRequest, "INSUFFICIENT_INVENTORY", err.Error(), nil)
	case errors.Is(err, shop.ErrInvalidQuantity):
		return fail(c, http.StatusBadRequest, "INVALID_QUANTITY", err.Error(), nil)
	default:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "storage failure", err.Error())
	}
}

func cartService(c echo.Context) *shop.CartService {
	db := GetDB(c)
	return shop.NewCartService(shop.NewGormCartRepository(db), shop.NewGormProductRepository(db))
}

func orderService(c echo.Context) *shop.OrderService {
	db := GetDB(c)
	appCtx := webserver.GetApp(c)
	return shop.NewOrderService(db,
		shop.NewGormCartRepository(db),
		shop.NewGormOrderRepository(db),
		shop.NewGormCustomerRepository(db),
		appCtx.EventBus())
}
