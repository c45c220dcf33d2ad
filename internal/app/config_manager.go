package app

import (
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/talkincode/toughstore/internal/domain"
	"go.uber.org/zap"
)

// ConfigManager reads runtime settings from the sys_config table with a
// short-lived cache. Keys are "category.name" pairs.
type ConfigManager struct {
	app   DBProvider
	mu    sync.RWMutex
	cache map[string]string
	ts    time.Time
}

const configCacheTTL = 30 * time.Second

func NewConfigManager(app DBProvider) *ConfigManager {
	return &ConfigManager{app: app, cache: make(map[string]string)}
}

func (m *ConfigManager) load() map[string]string {
	m.mu.RLock()
	if time.Since(m.ts) < configCacheTTL && len(m.cache) > 0 {
		defer m.mu.RUnlock()
		return m.cache
	}
	m.mu.RUnlock()

	var rows []domain.SysConfig
	if err := m.app.DB().Find(&rows).Error; err != nil {
		zap.L().Warn("failed to load sys_config", zap.Error(err))
		return m.cache
	}

	fresh := make(map[string]string, len(rows))
	for _, row := range rows {
		fresh[row.Type+"."+row.Name] = row.Value
	}

	m.mu.Lock()
	m.cache = fresh
	m.ts = time.Now()
	m.mu.Unlock()
	return fresh
}

func (m *ConfigManager) GetString(category, name string) string {
	return m.load()[category+"."+name]
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.GetString(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.GetString(category, name))
}

// SetValue updates one setting; key is "category.name".
func (m *ConfigManager) SetValue(key string, value interface{}) error {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 {
		return errors.Errorf("invalid config key %q", key)
	}
	err := m.app.DB().Model(&domain.SysConfig{}).
		Where("type = ? AND name = ?", parts[0], parts[1]).
		Updates(map[string]interface{}{
			"value":      cast.ToString(value),
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return err
	}
	m.Invalidate()
	return nil
}

// Invalidate drops the cache so the next read hits the database.
func (m *ConfigManager) Invalidate() {
	m.mu.Lock()
	m.ts = time.Time{}
	m.mu.Unlock()
}

// NotifySettings is the typed view of the "notify" settings category.
type NotifySettings struct {
	WebhookURL  string `mapstructure:"webhook_url"`
	MailEnabled bool   `mapstructure:"mail_enabled"`
}

// NotifySettings decodes the current notify section.
func (m *ConfigManager) NotifySettings() NotifySettings {
	var ns NotifySettings
	if err := m.DecodeSection("notify", &ns); err != nil {
		zap.L().Warn("failed to decode notify settings", zap.Error(err))
	}
	return ns
}

// DecodeSection decodes every setting under category into out.
func (m *ConfigManager) DecodeSection(category string, out interface{}) error {
	section := make(map[string]string)
	prefix := category + "."
	for key, value := range m.load() {
		if strings.HasPrefix(key, prefix) {
			section[strings.TrimPrefix(key, prefix)] = value
		}
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(section)
}
