package storeapi

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/webserver"
	"gorm.io/gorm"
)

// registerCustomerRoutes registers the authenticated profile endpoints
func registerCustomerRoutes() {
	webserver.ApiGET("/customers/me", getMe)
	webserver.ApiPUT("/customers/me", updateMe)
}

var phonePattern = regexp.MustCompile(`^09\d{8}$`)

func getMe(c echo.Context) error {
	userID := webserver.GetCurrentUserID(c)
	var customer domain.Customer
	err := GetDB(c).Where("user_id = ?", userID).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "No customer profile for this account", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}
	return ok(c, customer)
}

type updateMePayload struct {
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date"`
}

func updateMe(c echo.Context) error {
	userID := webserver.GetCurrentUserID(c)
	var customer domain.Customer
	err := GetDB(c).Where("user_id = ?", userID).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "No customer profile for this account", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}

	var payload updateMePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse profile", err.Error())
	}

	updates := map[string]interface{}{}
	if payload.Phone != "" {
		if !phonePattern.MatchString(payload.Phone) {
			return fail(c, http.StatusBadRequest, "INVALID_PHONE", "Please enter a valid phone number", nil)
		}
		updates["phone"] = payload.Phone
	}
	if strings.TrimSpace(payload.BirthDate) != "" {
		birth, err := dateparse.ParseAny(payload.BirthDate)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_BIRTH_DATE", "Unable to parse birth date", err.Error())
		}
		updates["birth_date"] = birth
	}
	if len(updates) == 0 {
		return ok(c, customer)
	}

	if err := GetDB(c).Model(&customer).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update customer", err.Error())
	}
	GetDB(c).Where("id = ?", customer.ID).First(&customer)
	return ok(c, customer)
}
