package adminapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/toughstore/config"
	"github.com/talkincode/toughstore/internal/app"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/webserver"
	"github.com/talkincode/toughstore/pkg/common"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	adminOnce sync.Once
	adminEcho *echo.Echo
	adminDB   *gorm.DB
)

func setupAdminAPI(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	adminOnce.Do(func() {
		db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			t.Fatal(err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			t.Fatal(err)
		}
		sqlDB.SetMaxOpenConns(1)
		if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
			t.Fatal(err)
		}

		// seed an enabled operator to log in with
		require.NoError(t, db.Create(&domain.SysOpr{
			ID:       common.UUIDint64(),
			Username: "admin",
			Password: common.Sha256HashWithSalt("toughstore", common.GetSecretSalt()),
			Level:    "super",
			Status:   common.ENABLED,
		}).Error)

		cfg := *config.DefaultAppConfig
		cfg.Web.Secret = "adminapi-test-secret"
		application := app.NewApplication(&cfg)
		application.OverrideDB(db)

		ws := webserver.Init(application)
		InitRouter()

		adminEcho = ws.Echo()
		adminDB = db
	})
	return adminEcho, adminDB
}

func doAdminJSON(e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = jsoniter.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func adminToken(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := doAdminJSON(e, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": "admin",
		"password": "toughstore",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Data struct {
			Access string `json:"access"`
		} `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Access)
	return resp.Data.Access
}

func TestAdminLogin(t *testing.T) {
	e, _ := setupAdminAPI(t)

	rec := doAdminJSON(e, http.MethodPost, "/api/admin/login", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// routes other than login require operator auth
	rec = doAdminJSON(e, http.MethodGet, "/api/admin/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_ = adminToken(t, e)
}

func TestAdminProductRules(t *testing.T) {
	e, db := setupAdminAPI(t)
	token := adminToken(t, e)

	rec := doAdminJSON(e, http.MethodPost, "/api/admin/products", token, map[string]interface{}{
		"title": "Admin Mug",
		"price": "12.50",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// case-insensitive duplicate title
	rec = doAdminJSON(e, http.MethodPost, "/api/admin/products", token, map[string]interface{}{
		"title": "ADMIN MUG",
		"price": "9.00",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_TITLE")

	// banned word in title
	rec = doAdminJSON(e, http.MethodPost, "/api/admin/products", token, map[string]interface{}{
		"title": "fuck this product",
		"price": "1.00",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TITLE")

	// negative price rejected
	rec = doAdminJSON(e, http.MethodPost, "/api/admin/products", token, map[string]interface{}{
		"title": "Negative Mug",
		"price": "-5.00",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	db.Model(&domain.Product{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAdminProductDeleteRestricted(t *testing.T) {
	e, db := setupAdminAPI(t)
	token := adminToken(t, e)

	rec := doAdminJSON(e, http.MethodPost, "/api/admin/products", token, map[string]interface{}{
		"title":     "Referenced Mug",
		"price":     "5.00",
		"inventory": 10,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Data domain.Product `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	productID := resp.Data.ID

	cart := domain.Cart{ID: common.UUID(), CreatedAt: time.Now()}
	require.NoError(t, db.Create(&cart).Error)
	require.NoError(t, db.Create(&domain.CartItem{
		ID:        common.UUIDint64(),
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  1,
	}).Error)

	rec = doAdminJSON(e, http.MethodDelete, "/api/admin/products/"+itoa(productID), token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "PRODUCT_IN_USE")

	require.NoError(t, db.Where("cart_id = ?", cart.ID).Delete(&domain.CartItem{}).Error)
	rec = doAdminJSON(e, http.MethodDelete, "/api/admin/products/"+itoa(productID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminProductImages(t *testing.T) {
	e, db := setupAdminAPI(t)
	token := adminToken(t, e)

	rec := doAdminJSON(e, http.MethodPost, "/api/admin/products", token, map[string]interface{}{
		"title": "Pictured Mug",
		"price": "7.50",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created struct {
		Data domain.Product `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &created))
	productID := created.Data.ID

	// oversized image metadata is rejected
	rec = doAdminJSON(e, http.MethodPost, "/api/admin/products/"+itoa(productID)+"/images", token,
		map[string]interface{}{
			"path": "images/mug-huge.png",
			"size": domain.MaxProductImageSize + 1,
		})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "IMAGE_TOO_LARGE")

	// unknown product gets a 404 before any write
	rec = doAdminJSON(e, http.MethodPost, "/api/admin/products/999999/images", token,
		map[string]interface{}{"path": "images/mug.png", "size": 1024})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doAdminJSON(e, http.MethodPost, "/api/admin/products/"+itoa(productID)+"/images", token,
		map[string]interface{}{"path": "images/mug.png", "size": 1024})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var imgResp struct {
		Data domain.ProductImage `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &imgResp))

	var count int64
	db.Model(&domain.ProductImage{}).Where("product_id = ?", productID).Count(&count)
	assert.Equal(t, int64(1), count)

	rec = doAdminJSON(e, http.MethodDelete,
		"/api/admin/products/"+itoa(productID)+"/images/"+itoa(imgResp.Data.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doAdminJSON(e, http.MethodDelete,
		"/api/admin/products/"+itoa(productID)+"/images/"+itoa(imgResp.Data.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminCollectionDeleteRestricted(t *testing.T) {
	e, db := setupAdminAPI(t)
	token := adminToken(t, e)

	rec := doAdminJSON(e, http.MethodPost, "/api/admin/collections", token, map[string]interface{}{
		"title": "Seasonal",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created struct {
		Data domain.Collection `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &created))
	collectionID := created.Data.ID

	rec = doAdminJSON(e, http.MethodPost, "/api/admin/products", token, map[string]interface{}{
		"collection_id": itoa(collectionID),
		"title":         "Seasonal Mug",
		"price":         "3.00",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var product struct {
		Data domain.Product `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &product))

	// a collection still holding products cannot be removed
	rec = doAdminJSON(e, http.MethodDelete, "/api/admin/collections/"+itoa(collectionID), token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "COLLECTION_NOT_EMPTY")

	var count int64
	db.Model(&domain.Collection{}).Where("id = ?", collectionID).Count(&count)
	assert.Equal(t, int64(1), count)

	rec = doAdminJSON(e, http.MethodDelete, "/api/admin/products/"+itoa(product.Data.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doAdminJSON(e, http.MethodDelete, "/api/admin/collections/"+itoa(collectionID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
