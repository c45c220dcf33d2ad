package shop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/toughstore/internal/domain"
	"gorm.io/gorm"
)

func newCartTestService(db *gorm.DB) *CartService {
	return NewCartService(NewGormCartRepository(db), NewGormProductRepository(db))
}

func TestCreateAndGetCart(t *testing.T) {
	db := newTestDB(t)
	svc := newCartTestService(db)
	ctx := context.Background()

	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	require.Len(t, cart.ID, 36)

	fetched, err := svc.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, fetched.ID)
	assert.Empty(t, fetched.Items)

	_, err = svc.GetCart(ctx, "missing-cart")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestAddItemMergesDuplicateLines(t *testing.T) {
	db := newTestDB(t)
	svc := newCartTestService(db)
	ctx := context.Background()

	mug := seedProduct(t, db, "Coffee Mug", "19.99", 10)
	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	first, err := svc.AddItem(ctx, cart.ID, mug.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	// adding the same product again grows the existing line
	second, err := svc.AddItem(ctx, cart.ID, mug.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	var lines int64
	db.Model(&domain.CartItem{}).Where("cart_id = ?", cart.ID).Count(&lines)
	assert.Equal(t, int64(1), lines)
}

func TestAddItemInventoryCeiling(t *testing.T) {
	db := newTestDB(t)
	svc := newCartTestService(db)
	ctx := context.Background()

	mug := seedProduct(t, db, "Coffee Mug", "19.99", 5)
	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, cart.ID, mug.ID, 6)
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	// a rejected add leaves the cart unchanged
	var lines int64
	db.Model(&domain.CartItem{}).Where("cart_id = ?", cart.ID).Count(&lines)
	assert.Zero(t, lines)

	// a merge that would exceed inventory is rejected and keeps the old quantity
	_, err = svc.AddItem(ctx, cart.ID, mug.ID, 3)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, cart.ID, mug.ID, 3)
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	item, err := svc.carts.GetItemByProduct(ctx, cart.ID, mug.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
}

func TestAddItemValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newCartTestService(db)
	ctx := context.Background()

	mug := seedProduct(t, db, "Coffee Mug", "19.99", 5)
	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, cart.ID, mug.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, cart.ID, mug.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, cart.ID, 999999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.AddItem(ctx, "missing-cart", mug.ID, 1)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestUpdateItem(t *testing.T) {
	db := newTestDB(t)
	svc := newCartTestService(db)
	ctx := context.Background()

	mug := seedProduct(t, db, "Coffee Mug", "19.99", 5)
	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, cart.ID, mug.ID, 2)
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, cart.ID, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	_, err = svc.UpdateItem(ctx, cart.ID, item.ID, 9)
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	_, err = svc.UpdateItem(ctx, cart.ID, item.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.UpdateItem(ctx, cart.ID, 999999, 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	// rejected updates keep the last valid quantity
	fresh, err := svc.carts.GetItem(ctx, cart.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, fresh.Quantity)
}

func TestRemoveItemAndDeleteCart(t *testing.T) {
	db := newTestDB(t)
	svc := newCartTestService(db)
	ctx := context.Background()

	mug := seedProduct(t, db, "Coffee Mug", "19.99", 5)
	tee := seedProduct(t, db, "Logo Tee", "35.00", 5)
	cart, err := svc.CreateCart(ctx)
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, cart.ID, mug.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, cart.ID, tee.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(ctx, cart.ID, item.ID))
	assert.ErrorIs(t, svc.RemoveItem(ctx, cart.ID, item.ID), ErrCartItemNotFound)

	require.NoError(t, svc.DeleteCart(ctx, cart.ID))

	// items do not outlive the cart
	var lines int64
	db.Model(&domain.CartItem{}).Where("cart_id = ?", cart.ID).Count(&lines)
	assert.Zero(t, lines)

	assert.ErrorIs(t, svc.DeleteCart(ctx, cart.ID), ErrCartNotFound)
}
