package events

import (
	"fmt"
	"time"

	"github.com/guonaihong/gout"
	"github.com/talkincode/toughstore/config"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/pkg/common"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// NewAuditListener records every placed order in the operation log.
func NewAuditListener(db *gorm.DB) func(evt *OrderCreated) {
	return func(evt *OrderCreated) {
		log := domain.SysOprLog{
			ID:        common.UUIDint64(),
			OprName:   "system",
			OptAction: "order_created",
			OptDesc: fmt.Sprintf("order %d placed, %d items, total %s",
				evt.Order.ID, len(evt.Order.Items), evt.Order.TotalPrice().StringFixed(2)),
			OptTime: time.Now(),
		}
		if err := db.Create(&log).Error; err != nil {
			zap.L().Warn("failed to write order audit log", zap.Error(err))
		}
	}
}

// NewMailListener sends an order confirmation when mail is enabled, smtp is
// configured and the customer account carries an email address. enabledFn is
// read per event so the setting can change at runtime.
func NewMailListener(smtp config.SmtpConfig, enabledFn func() bool) func(evt *OrderCreated) {
	return func(evt *OrderCreated) {
		if !enabledFn() || smtp.Host == "" || evt.Email == "" {
			return
		}
		m := gomail.NewMessage()
		m.SetHeader("From", common.IfEmptyStr(smtp.From, smtp.Username))
		m.SetHeader("To", evt.Email)
		m.SetHeader("Subject", fmt.Sprintf("Order %d confirmed", evt.Order.ID))
		m.SetBody("text/plain", fmt.Sprintf(
			"Your order %d was placed on %s.\nItems: %d\nTotal: %s\nShipping to: %s\n",
			evt.Order.ID,
			evt.Order.PlacedAt.Format(time.RFC1123),
			len(evt.Order.Items),
			evt.Order.TotalPrice().StringFixed(2),
			evt.Order.Address,
		))
		d := gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password)
		if err := d.DialAndSend(m); err != nil {
			zap.L().Warn("order confirmation mail failed",
				zap.Int64("order_id", evt.Order.ID), zap.Error(err))
		}
	}
}

// NewWebhookListener posts the order JSON to the configured webhook url.
// urlFn is read per event so the setting can change at runtime.
func NewWebhookListener(urlFn func() string) func(evt *OrderCreated) {
	return func(evt *OrderCreated) {
		url := urlFn()
		if url == "" {
			return
		}
		var statusCode int
		err := gout.POST(url).
			SetJSON(evt).
			SetTimeout(10 * time.Second).
			Code(&statusCode).
			Do()
		if err != nil {
			zap.L().Warn("order webhook failed",
				zap.Int64("order_id", evt.Order.ID),
				zap.String("url", url), zap.Error(err))
			return
		}
		if statusCode >= 300 {
			zap.L().Warn("order webhook rejected",
				zap.Int64("order_id", evt.Order.ID),
				zap.Int("status", statusCode))
		}
	}
}
