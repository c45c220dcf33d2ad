package app

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "toughstore"

	hashedPassword := common.Sha256HashWithSalt(defaultPassword, common.GetSecretSalt())

	var operator domain.SysOpr
	err := a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Mobile:    "0000",
			Email:     "N/A",
			Username:  superUsername,
			Password:  hashedPassword,
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetLevel := !strings.EqualFold(operator.Level, "super")
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)

	if !resetPassword && !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = hashedPassword
	}
	if resetLevel {
		updates["level"] = "super"
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

// configSchema describes one runtime setting and its default
type configSchema struct {
	Key         string
	Default     string
	Description string
}

var configSchemas = []configSchema{
	{Key: "system.title", Default: "toughstore", Description: "Storefront display title"},
	{Key: "store.cart_ttl_hours", Default: "72", Description: "Hours before an abandoned cart is purged"},
	{Key: "store.page_size", Default: "20", Description: "Default API page size"},
	{Key: "notify.webhook_url", Default: "", Description: "Order created webhook URL"},
	{Key: "notify.mail_enabled", Default: "false", Description: "Send order confirmation mail"},
}

func (a *Application) checkSettings() {
	// Iterate over all configuration definitions, checking and initializing missing entries
	for sortid, schema := range configSchemas {
		// Parse key: "category.name" -> category, name
		parts := strings.SplitN(schema.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		category := parts[0]
		name := parts[1]

		// Check whether the configuration already exists
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		// e.g., if the configuration does not exist, create the default configuration
		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}

// checkCollections initializes default catalog collections
func (a *Application) checkCollections() {
	defaultCollections := []domain.Collection{
		{Title: "Featured", Remark: "Front page picks"},
		{Title: "Accessories", Remark: ""},
		{Title: "Clearance", Remark: "Discounted items"},
	}

	for _, col := range defaultCollections {
		var count int64
		a.gormDB.Model(&domain.Collection{}).Where("title = ?", col.Title).Count(&count)
		if count == 0 {
			col.ID = common.UUIDint64()
			col.CreatedAt = time.Now()
			col.UpdatedAt = time.Now()
			if err := a.gormDB.Create(&col).Error; err != nil {
				zap.L().Error("failed to create default collection", zap.String("title", col.Title), zap.Error(err))
			} else {
				zap.L().Info("initialized default collection", zap.String("title", col.Title))
			}
		}
	}
}

// checkProducts initializes demo catalog products
func (a *Application) checkProducts() {
	var featured domain.Collection
	if err := a.gormDB.Where("title = ?", "Featured").First(&featured).Error; err != nil {
		return
	}

	defaultProducts := []domain.Product{
		{Title: "demo-widget-basic", Price: decimal.RequireFromString("9.99"), Inventory: 100},
		{Title: "demo-widget-pro", Price: decimal.RequireFromString("24.50"), Inventory: 50},
		{Title: "demo-addon-support", Price: decimal.RequireFromString("49.95"), Inventory: 200},
	}

	for _, p := range defaultProducts {
		var count int64
		a.gormDB.Model(&domain.Product{}).Where("title = ?", p.Title).Count(&count)
		if count == 0 {
			p.ID = common.UUIDint64()
			p.CollectionID = featured.ID
			p.CreatedAt = time.Now()
			p.UpdatedAt = time.Now()
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create default product", zap.String("title", p.Title), zap.Error(err))
			} else {
				zap.L().Info("initialized default product", zap.String("title", p.Title))
			}
		}
	}
}
