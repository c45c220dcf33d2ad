package shop

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/pkg/common"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps the shared in-memory database alive and
	// serializes concurrent transactions
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrator().AutoMigrate(domain.Tables...))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, title, price string, inventory int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:        common.UUIDint64(),
		Title:     title,
		Price:     decimal.RequireFromString(price),
		Inventory: inventory,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedCustomer(t *testing.T, db *gorm.DB, username string) (*domain.SysUser, *domain.Customer) {
	t.Helper()
	user := &domain.SysUser{
		ID:       common.UUIDint64(),
		Username: username,
		Email:    username + "@example.com",
		Status:   common.ENABLED,
	}
	require.NoError(t, db.Create(user).Error)
	customer := &domain.Customer{
		ID:         common.UUIDint64(),
		UserID:     user.ID,
		Membership: domain.MembershipBronze,
	}
	require.NoError(t, db.Create(customer).Error)
	return user, customer
}

func newCartWith(t *testing.T, db *gorm.DB, lines map[int64]int) *domain.Cart {
	t.Helper()
	svc := NewCartService(NewGormCartRepository(db), NewGormProductRepository(db))
	cart, err := svc.CreateCart(context.Background())
	require.NoError(t, err)
	for productID, qty := range lines {
		_, err := svc.AddItem(context.Background(), cart.ID, productID, qty)
		require.NoError(t, err)
	}
	return cart
}
