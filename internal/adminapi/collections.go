package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/webserver"
	"github.com/talkincode/toughstore/pkg/common"
	"gorm.io/gorm"
)

func registerCollectionRoutes() {
	webserver.AdminGET("/collections", listCollections)
	webserver.AdminGET("/collections/:id", getCollection)
	webserver.AdminPOST("/collections", createCollection)
	webserver.AdminPUT("/collections/:id", updateCollection)
	webserver.AdminDELETE("/collections/:id", deleteCollection)
}

type collectionPayload struct {
	Title  string `json:"title" validate:"required,min=1,max=200"`
	Remark string `json:"remark"`
}

func listCollections(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Collection{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query collections", err.Error())
	}

	var rows []domain.Collection
	if err := base.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query collections", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getCollection(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid collection ID", nil)
	}
	var col domain.Collection
	if err := GetDB(c).Where("id = ?", id).First(&col).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "COLLECTION_NOT_FOUND", "Collection not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query collection", err.Error())
	}
	var count int64
	GetDB(c).Model(&domain.Product{}).Where("collection_id = ?", id).Count(&count)
	return ok(c, map[string]interface{}{"collection": col, "products_count": count})
}

func createCollection(c echo.Context) error {
	var payload collectionPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse collection", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}
	title := strings.TrimSpace(payload.Title)

	var dup domain.Collection
	if err := GetDB(c).Where("LOWER(title) = LOWER(?)", title).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_TITLE", "Collection with this title already exists", nil)
	}

	col := domain.Collection{
		ID:        common.UUIDint64(),
		Title:     title,
		Remark:    payload.Remark,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&col).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create collection", err.Error())
	}
	return ok(c, col)
}

func updateCollection(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid collection ID", nil)
	}
	var col domain.Collection
	if err := GetDB(c).Where("id = ?", id).First(&col).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "COLLECTION_NOT_FOUND", "Collection not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query collection", err.Error())
	}

	var payload collectionPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse collection", err.Error())
	}

	updates := map[string]interface{}{}
	if title := strings.TrimSpace(payload.Title); title != "" {
		var dup domain.Collection
		if err := GetDB(c).Where("LOWER(title) = LOWER(?) AND id != ?", title, id).First(&dup).Error; err == nil {
			return fail(c, http.StatusConflict, "DUPLICATE_TITLE", "Another collection with this title already exists", nil)
		}
		updates["title"] = title
	}
	if payload.Remark != "" {
		updates["remark"] = payload.Remark
	}
	updates["updated_at"] = time.Now()

	if err := GetDB(c).Model(&col).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update collection", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&col)
	return ok(c, col)
}

func deleteCollection(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid collection ID", nil)
	}
	// a collection still holding products cannot be removed
	var count int64
	if err := GetDB(c).Model(&domain.Product{}).Where("collection_id = ?", id).Count(&count).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query collection products", err.Error())
	}
	if count > 0 {
		return fail(c, http.StatusConflict, "COLLECTION_NOT_EMPTY", "Collection still contains products", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Collection{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete collection", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
