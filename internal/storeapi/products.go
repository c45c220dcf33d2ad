package storeapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/webserver"
)

// registerProductRoutes registers public catalog endpoints
func registerProductRoutes() {
	webserver.PubGET("/products", listProducts)
	webserver.PubGET("/products/:id", getProduct)
	webserver.PubGET("/collections", listCollections)
	webserver.PubGET("/collections/:id", getCollection)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	// Filters: q or collection
	q := strings.TrimSpace(c.QueryParam("q"))
	collectionStr := strings.TrimSpace(c.QueryParam("collection_id"))

	// Sorting: field and order
	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":         "id",
		"title":      "title",
		"price":      "price",
		"inventory":  "inventory",
		"created_at": "created_at",
	}
	sortCol, okCol := allowed[sortField]
	if !okCol || sortCol == "" {
		sortCol = "id"
	}

	db := GetDB(c).Model(&domain.Product{})
	if q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("title ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}
	if collectionStr != "" {
		if cid, err := strconv.ParseInt(collectionStr, 10, 64); err == nil {
			db = db.Where("collection_id = ?", cid)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Order(sortCol + " " + order).Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	}
	var images []domain.ProductImage
	GetDB(c).Where("product_id = ?", id).Find(&images)
	return ok(c, map[string]interface{}{"product": p, "images": images})
}

func listCollections(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Collection{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query collections", err.Error())
	}

	var collections []domain.Collection
	if err := base.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&collections).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query collections", err.Error())
	}

	// attach product counts
	type collectionRow struct {
		domain.Collection
		ProductsCount int64 `json:"products_count"`
	}
	rows := make([]collectionRow, 0, len(collections))
	for _, col := range collections {
		var count int64
		GetDB(c).Model(&domain.Product{}).Where("collection_id = ?", col.ID).Count(&count)
		rows = append(rows, collectionRow{Collection: col, ProductsCount: count})
	}
	return paged(c, rows, total, page, pageSize)
}

func getCollection(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid collection ID", nil)
	}
	var col domain.Collection
	if err := GetDB(c).Where("id = ?", id).First(&col).Error; err != nil {
		return fail(c, http.StatusNotFound, "COLLECTION_NOT_FOUND", "Collection not found", nil)
	}
	return ok(c, col)
}
