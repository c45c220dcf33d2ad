package adminapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/shop"
	"github.com/talkincode/toughstore/internal/webserver"
	"github.com/talkincode/toughstore/pkg/common"
	"gorm.io/gorm"
)

func registerProductRoutes() {
	webserver.AdminGET("/products", listProducts)
	webserver.AdminGET("/products/:id", getProduct)
	webserver.AdminPOST("/products", createProduct)
	webserver.AdminPUT("/products/:id", updateProduct)
	webserver.AdminDELETE("/products/:id", deleteProduct)
	webserver.AdminGET("/products/export", exportProducts)
	webserver.AdminPOST("/products/import", importProducts)
	webserver.AdminPOST("/products/:id/images", createProductImage)
	webserver.AdminDELETE("/products/:id/images/:imageId", deleteProductImage)
}

// bannedTitleWords titles containing any of these are rejected outright
var bannedTitleWords = []string{"fuck"}

type productPayload struct {
	CollectionID int64  `json:"collection_id,string"`
	Title        string `json:"title" validate:"required,min=1,max=200"`
	Description  string `json:"description"`
	Price        string `json:"price" validate:"required"`
	Inventory    *int   `json:"inventory"`
}

func validateProductTitle(c echo.Context, title string, excludeID int64) error {
	lower := strings.ToLower(title)
	for _, word := range bannedTitleWords {
		if strings.Contains(lower, word) {
			return fail(c, http.StatusBadRequest, "INVALID_TITLE", "Title contains a banned word", nil)
		}
	}
	exists, err := shop.NewGormProductRepository(GetDB(c)).
		TitleExists(c.Request().Context(), title, excludeID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to check title", err.Error())
	}
	if exists {
		return fail(c, http.StatusConflict, "DUPLICATE_TITLE", "Another product already uses this title", nil)
	}
	return nil
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Product{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(GetDB(c).Name(), "postgres") {
			base = base.Where("title ILIKE ?", "%"+q+"%")
		} else {
			base = base.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}
	if cid := strings.TrimSpace(c.QueryParam("collection_id")); cid != "" {
		base = base.Where("collection_id = ?", cid)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := base.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
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
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	var images []domain.ProductImage
	GetDB(c).Where("product_id = ?", id).Find(&images)
	return ok(c, map[string]interface{}{"product": p, "images": images})
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}
	payload.Title = strings.TrimSpace(payload.Title)
	if resp := validateProductTitle(c, payload.Title, 0); resp != nil {
		return resp
	}
	price, err := decimal.NewFromString(payload.Price)
	if err != nil || price.IsNegative() {
		return fail(c, http.StatusBadRequest, "INVALID_PRICE", "Price must be a non-negative decimal", nil)
	}
	inventory := 0
	if payload.Inventory != nil {
		if *payload.Inventory < 0 {
			return fail(c, http.StatusBadRequest, "INVALID_INVENTORY", "Inventory must be >= 0", nil)
		}
		inventory = *payload.Inventory
	}

	now := time.Now()
	p := domain.Product{
		ID:           common.UUIDint64(),
		CollectionID: payload.CollectionID,
		Title:        payload.Title,
		Description:  payload.Description,
		Price:        price,
		Inventory:    inventory,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}

	updates := map[string]interface{}{}
	if title := strings.TrimSpace(payload.Title); title != "" {
		if resp := validateProductTitle(c, title, id); resp != nil {
			return resp
		}
		updates["title"] = title
	}
	if payload.Description != "" {
		updates["description"] = payload.Description
	}
	if payload.CollectionID != 0 {
		updates["collection_id"] = payload.CollectionID
	}
	if payload.Price != "" {
		price, err := decimal.NewFromString(payload.Price)
		if err != nil || price.IsNegative() {
			return fail(c, http.StatusBadRequest, "INVALID_PRICE", "Price must be a non-negative decimal", nil)
		}
		updates["price"] = price
	}
	if payload.Inventory != nil {
		if *payload.Inventory < 0 {
			return fail(c, http.StatusBadRequest, "INVALID_INVENTORY", "Inventory must be >= 0", nil)
		}
		updates["inventory"] = *payload.Inventory
	}
	updates["updated_at"] = time.Now()

	if err := GetDB(c).Model(&p).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&p)
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	// a product referenced by cart lines or order history cannot be removed
	var refs int64
	GetDB(c).Model(&domain.CartItem{}).Where("product_id = ?", id).Count(&refs)
	if refs > 0 {
		return fail(c, http.StatusConflict, "PRODUCT_IN_USE", "Product is referenced by cart items", nil)
	}
	GetDB(c).Model(&domain.OrderItem{}).Where("product_id = ?", id).Count(&refs)
	if refs > 0 {
		return fail(c, http.StatusConflict, "PRODUCT_IN_USE", "Product is referenced by order items", nil)
	}

	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&domain.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Product{}).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

type productImagePayload struct {
	Path string `json:"path" validate:"required,max=1024"`
	Size int64  `json:"size" validate:"required"`
}

func createProductImage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productImagePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse image", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}
	if payload.Size <= 0 || payload.Size > domain.MaxProductImageSize {
		return fail(c, http.StatusBadRequest, "IMAGE_TOO_LARGE",
			"Image size must be positive and at most 10 MB", nil)
	}

	img := domain.ProductImage{
		ID:        common.UUIDint64(),
		ProductID: id,
		Path:      strings.TrimSpace(payload.Path),
		Size:      payload.Size,
		CreatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&img).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create image", err.Error())
	}
	return ok(c, img)
}

func deleteProductImage(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	imageID, err := parseIDParam(c, "imageId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid image ID", nil)
	}
	var img domain.ProductImage
	if err := GetDB(c).Where("id = ? AND product_id = ?", imageID, id).First(&img).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "IMAGE_NOT_FOUND", "Image not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query image", err.Error())
	}
	if err := GetDB(c).Delete(&img).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete image", err.Error())
	}
	return ok(c, map[string]interface{}{"id": imageID})
}

// productCsvRow flat row used by the CSV export and import endpoints
type productCsvRow struct {
	ID           int64  `csv:"id"`
	CollectionID int64  `csv:"collection_id"`
	Title        string `csv:"title"`
	Description  string `csv:"description"`
	Price        string `csv:"price"`
	Inventory    int    `csv:"inventory"`
}

func exportProducts(c echo.Context) error {
	var products []domain.Product
	if err := GetDB(c).Order("id").Find(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	rows := make([]productCsvRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productCsvRow{
			ID:           p.ID,
			CollectionID: p.CollectionID,
			Title:        p.Title,
			Description:  p.Description,
			Price:        p.Price.StringFixed(2),
			Inventory:    p.Inventory,
		})
	}
	csvData, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to encode CSV", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="products-%s.csv"`, time.Now().Format("20060102")))
	return c.Blob(http.StatusOK, "text/csv", []byte(csvData))
}

func importProducts(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing upload file", nil)
	}
	src, err := file.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to open upload", err.Error())
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read upload", err.Error())
	}
	var rows []productCsvRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_CSV", "Unable to parse CSV", err.Error())
	}

	imported := 0
	skipped := 0
	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		repo := shop.NewGormProductRepository(tx)
		for _, row := range rows {
			title := strings.TrimSpace(row.Title)
			if title == "" {
				skipped++
				continue
			}
			price, perr := decimal.NewFromString(row.Price)
			if perr != nil || price.IsNegative() || row.Inventory < 0 {
				skipped++
				continue
			}
			exists, cerr := repo.TitleExists(c.Request().Context(), title, row.ID)
			if cerr != nil {
				return cerr
			}
			if exists {
				skipped++
				continue
			}
			now := time.Now()
			p := domain.Product{
				ID:           row.ID,
				CollectionID: row.CollectionID,
				Title:        title,
				Description:  row.Description,
				Price:        price,
				Inventory:    row.Inventory,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if p.ID == 0 {
				p.ID = common.UUIDint64()
			}
			if cerr := tx.Save(&p).Error; cerr != nil {
				return cerr
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to import products", err.Error())
	}
	return ok(c, map[string]interface{}{"imported": imported, "skipped": skipped})
}
