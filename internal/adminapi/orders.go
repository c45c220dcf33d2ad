package adminapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/shop"
	"github.com/talkincode/toughstore/internal/webserver"
)

func registerOrderRoutes() {
	webserver.AdminGET("/orders", listOrders)
	webserver.AdminGET("/orders/:id", getOrder)
	webserver.AdminPUT("/orders/:id/payment_status", updateOrderPaymentStatus)
	webserver.AdminGET("/orders/export", exportOrders)
}

func listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Order{})
	if status := strings.TrimSpace(c.QueryParam("payment_status")); status != "" {
		base = base.Where("payment_status = ?", status)
	}
	if cid := strings.TrimSpace(c.QueryParam("customer_id")); cid != "" {
		base = base.Where("customer_id = ?", cid)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	var rows []domain.Order
	if err := base.Preload("Items").Preload("Items.Product").
		Order("placed_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var order domain.Order
	err = GetDB(c).Preload("Items").Preload("Items.Product").
		Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}
	return ok(c, map[string]interface{}{
		"order":       order,
		"total_price": order.TotalPrice().StringFixed(2),
	})
}

type paymentStatusPayload struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

func updateOrderPaymentStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload paymentStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse payload", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "payment_status is required", nil)
	}
	switch payload.PaymentStatus {
	case domain.PaymentStatusPending, domain.PaymentStatusComplete, domain.PaymentStatusFailed:
	default:
		return fail(c, http.StatusBadRequest, "INVALID_PAYMENT_STATUS",
			"Payment status must be pending, complete or failed", nil)
	}

	var order domain.Order
	if err := GetDB(c).Where("id = ?", id).First(&order).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}

	repo := shop.NewGormOrderRepository(GetDB(c))
	if err := repo.UpdatePaymentStatus(c.Request().Context(), id, payload.PaymentStatus); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update payment status", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&order)
	return ok(c, order)
}

func exportOrders(c echo.Context) error {
	var orders []domain.Order
	if err := GetDB(c).Preload("Items").Order("placed_at DESC").Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"ID", "Customer ID", "Placed At", "Payment Status", "Address", "Items", "Total Price"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, order := range orders {
		row := i + 2
		values := []interface{}{
			fmt.Sprintf("%d", order.ID),
			fmt.Sprintf("%d", order.CustomerID),
			order.PlacedAt.Format(time.RFC3339),
			order.PaymentStatus,
			order.Address,
			len(order.Items),
			order.TotalPrice().StringFixed(2),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to build workbook", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="orders-%s.xlsx"`, time.Now().Format("20060102")))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
