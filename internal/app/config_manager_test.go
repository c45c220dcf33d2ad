package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/pkg/common"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testDBProvider struct {
	db *gorm.DB
}

func (p *testDBProvider) DB() *gorm.DB { return p.db }

func newConfigTestManager(t *testing.T) (*ConfigManager, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrator().AutoMigrate(&domain.SysConfig{}))

	seed := []domain.SysConfig{
		{ID: common.UUIDint64(), Type: "notify", Name: "webhook_url", Value: "https://hooks.example.com/orders"},
		{ID: common.UUIDint64(), Type: "notify", Name: "mail_enabled", Value: "true"},
		{ID: common.UUIDint64(), Type: "store", Name: "cart_ttl_hours", Value: "48"},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}
	return NewConfigManager(&testDBProvider{db: db}), db
}

func TestConfigManagerTypedReads(t *testing.T) {
	mgr, _ := newConfigTestManager(t)

	assert.Equal(t, "https://hooks.example.com/orders", mgr.GetString("notify", "webhook_url"))
	assert.Equal(t, int64(48), mgr.GetInt64("store", "cart_ttl_hours"))
	assert.True(t, mgr.GetBool("notify", "mail_enabled"))
	assert.Equal(t, "", mgr.GetString("notify", "missing"))
}

func TestConfigManagerNotifySettings(t *testing.T) {
	mgr, _ := newConfigTestManager(t)

	ns := mgr.NotifySettings()
	assert.Equal(t, "https://hooks.example.com/orders", ns.WebhookURL)
	assert.True(t, ns.MailEnabled)

	// runtime changes flow through the section decode after invalidation
	require.NoError(t, mgr.SetValue("notify.mail_enabled", false))
	require.NoError(t, mgr.SetValue("notify.webhook_url", ""))

	ns = mgr.NotifySettings()
	assert.False(t, ns.MailEnabled)
	assert.Empty(t, ns.WebhookURL)
}

func TestConfigManagerSetValue(t *testing.T) {
	mgr, db := newConfigTestManager(t)

	require.NoError(t, mgr.SetValue("store.cart_ttl_hours", 24))
	assert.Equal(t, int64(24), mgr.GetInt64("store", "cart_ttl_hours"))

	var row domain.SysConfig
	require.NoError(t, db.Where("type = ? AND name = ?", "store", "cart_ttl_hours").First(&row).Error)
	assert.Equal(t, "24", row.Value)

	assert.Error(t, mgr.SetValue("no-dot-key", "x"))
}
