package storeapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/webserver"
	"github.com/talkincode/toughstore/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// registerAuthRoutes registers token and account endpoints
func registerAuthRoutes() {
	webserver.PubPOST("/token", obtainToken)
	webserver.PubPOST("/register", registerAccount)
}

type tokenPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func obtainToken(c echo.Context) error {
	var payload tokenPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	var user domain.SysUser
	err := GetDB(c).Where("username = ?", payload.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query account", err.Error())
	}

	hashed := common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt())
	if user.Password != hashed || !strings.EqualFold(user.Status, common.ENABLED) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	secret := webserver.GetApp(c).Config().Web.Secret
	token, err := webserver.CreateToken(secret, user.ID, user.Username, "user")
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign token", err.Error())
	}

	GetDB(c).Model(&domain.SysUser{}).Where("id = ?", user.ID).
		Update("last_login", time.Now())

	return ok(c, map[string]interface{}{"access": token})
}

type registerPayload struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// registerAccount creates a SysUser plus its empty Customer profile, the same
// pairing the order workflow resolves through.
func registerAccount(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	var count int64
	GetDB(c).Model(&domain.SysUser{}).Where("username = ?", payload.Username).Count(&count)
	if count > 0 {
		return fail(c, http.StatusConflict, "DUPLICATE_USERNAME", "Username already taken", nil)
	}

	user := domain.SysUser{
		ID:        common.UUIDint64(),
		Username:  payload.Username,
		Password:  common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt()),
		Email:     payload.Email,
		Status:    common.ENABLED,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	err := GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&domain.Customer{
			ID:         common.UUIDint64(),
			UserID:     user.ID,
			Membership: domain.MembershipBronze,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create account", err.Error())
	}

	zap.L().Info("account registered", zap.String("username", user.Username))
	return ok(c, map[string]interface{}{"id": user.ID, "username": user.Username})
}
