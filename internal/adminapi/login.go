package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/webserver"
	"github.com/talkincode/toughstore/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// registerLoginRoutes registers operator session login endpoints
func registerLoginRoutes() {
	webserver.AdminPOST("/login", adminLogin)
	webserver.AdminPOST("/logout", adminLogout)
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func adminLogin(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	var opr domain.SysOpr
	err := GetDB(c).Where("username = ?", payload.Username).First(&opr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator", err.Error())
	}

	hashed := common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt())
	if opr.Password != hashed || !strings.EqualFold(opr.Status, common.ENABLED) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	sess, _ := session.Get("toughstore_session", c)
	sess.Values[webserver.SessionOprUsername] = opr.Username
	sess.Values[webserver.SessionOprLevel] = opr.Level
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to save session", err.Error())
	}

	GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", opr.ID).
		Update("last_login", time.Now())
	GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   opr.Username,
		OprIp:     c.RealIP(),
		OptAction: "login",
		OptDesc:   "operator login",
		OptTime:   time.Now(),
	})

	// also issue a token so API clients can skip cookies
	secret := webserver.GetApp(c).Config().Web.Secret
	token, err := webserver.CreateToken(secret, opr.ID, opr.Username, opr.Level)
	if err != nil {
		zap.L().Warn("failed to sign operator token", zap.Error(err))
	}
	return ok(c, map[string]interface{}{"username": opr.Username, "level": opr.Level, "access": token})
}

func adminLogout(c echo.Context) error {
	sess, _ := session.Get("toughstore_session", c)
	sess.Options.MaxAge = -1
	_ = sess.Save(c.Request(), c.Response())
	return ok(c, nil)
}
