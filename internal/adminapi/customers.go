package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/webserver"
)

func registerCustomerRoutes() {
	webserver.AdminGET("/customers", listCustomers)
	webserver.AdminGET("/customers/:id", getCustomer)
	webserver.AdminPUT("/customers/:id", updateCustomer)
}

func listCustomers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Customer{})
	if m := strings.TrimSpace(c.QueryParam("membership")); m != "" {
		base = base.Where("membership = ?", m)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}

	var rows []domain.Customer
	if err := base.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var customer domain.Customer
	if err := GetDB(c).Where("id = ?", id).First(&customer).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}
	var user domain.SysUser
	GetDB(c).Where("id = ?", customer.UserID).First(&user)
	var orderCount int64
	GetDB(c).Model(&domain.Order{}).Where("customer_id = ?", id).Count(&orderCount)
	return ok(c, map[string]interface{}{
		"customer":     customer,
		"user":         user,
		"orders_count": orderCount,
	})
}

type customerPayload struct {
	Phone      string `json:"phone"`
	BirthDate  string `json:"birth_date"`
	Membership string `json:"membership"`
}

func updateCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var customer domain.Customer
	if err := GetDB(c).Where("id = ?", id).First(&customer).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}

	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer", err.Error())
	}

	updates := map[string]interface{}{}
	if payload.Phone != "" {
		updates["phone"] = payload.Phone
	}
	if strings.TrimSpace(payload.BirthDate) != "" {
		birth, err := dateparse.ParseAny(payload.BirthDate)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_BIRTH_DATE", "Unable to parse birth date", err.Error())
		}
		updates["birth_date"] = birth
	}
	if payload.Membership != "" {
		switch payload.Membership {
		case domain.MembershipBronze, domain.MembershipSilver, domain.MembershipGold:
			updates["membership"] = payload.Membership
		default:
			return fail(c, http.StatusBadRequest, "INVALID_MEMBERSHIP", "Membership must be bronze, silver or gold", nil)
		}
	}
	updates["updated_at"] = time.Now()

	if err := GetDB(c).Model(&customer).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update customer", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&customer)
	return ok(c, customer)
}
