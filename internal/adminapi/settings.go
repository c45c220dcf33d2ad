package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/webserver"
)

func registerSettingsRoutes() {
	webserver.AdminGET("/settings", listSettings)
	webserver.AdminPUT("/settings", saveSettings)
	webserver.AdminGET("/oprlogs", listOprLogs)
}

func listSettings(c echo.Context) error {
	var rows []domain.SysConfig
	if err := GetDB(c).Order("type, sort, name").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query settings", err.Error())
	}
	return ok(c, rows)
}

func saveSettings(c echo.Context) error {
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", err.Error())
	}
	if len(payload) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "No settings provided", nil)
	}
	if err := webserver.GetApp(c).SaveSettings(payload); err != nil {
		return fail(c, http.StatusInternalServerError, "SETTINGS_ERROR", "Failed to save settings", err.Error())
	}
	return ok(c, nil)
}

func listOprLogs(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.SysOprLog{})
	if name := c.QueryParam("opr_name"); name != "" {
		base = base.Where("opr_name = ?", name)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator logs", err.Error())
	}

	var rows []domain.SysOprLog
	if err := base.Order("opt_time DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator logs", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}
