package shop

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/toughstore/internal/domain"
	"gorm.io/gorm"
)

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(db,
		NewGormCartRepository(db),
		NewGormOrderRepository(db),
		NewGormCustomerRepository(db),
		nil)
}

func TestPlaceOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	mug := seedProduct(t, db, "Coffee Mug", "19.99", 10)
	tee := seedProduct(t, db, "Logo Tee", "35.00", 5)
	_, customer := seedCustomer(t, db, "alice")

	cart := newCartWith(t, db, map[int64]int{mug.ID: 2, tee.ID: 1})

	order, err := svc.PlaceOrder(ctx, customer.UserID, cart.ID, "1 Main St")
	require.NoError(t, err)
	require.Len(t, order.Items, 2)

	assert.Equal(t, customer.ID, order.CustomerID)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "1 Main St", order.Address)
	assert.False(t, order.PlacedAt.IsZero())
	assert.Equal(t, "74.98", order.TotalPrice().StringFixed(2))

	// inventory decremented by exactly the ordered quantities
	var fresh domain.Product
	require.NoError(t, db.First(&fresh, mug.ID).Error)
	assert.Equal(t, 8, fresh.Inventory)
	require.NoError(t, db.First(&fresh, tee.ID).Error)
	assert.Equal(t, 4, fresh.Inventory)

	// the cart and its items are gone
	var cartCount, itemCount int64
	db.Model(&domain.Cart{}).Where("id = ?", cart.ID).Count(&cartCount)
	db.Model(&domain.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount)
	assert.Zero(t, cartCount)
	assert.Zero(t, itemCount)
}

func TestPlaceOrderFreezesPrices(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	mug := seedProduct(t, db, "Coffee Mug", "19.99", 10)
	_, customer := seedCustomer(t, db, "alice")
	cart := newCartWith(t, db, map[int64]int{mug.ID: 2})

	order, err := svc.PlaceOrder(ctx, customer.UserID, cart.ID, "1 Main St")
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "19.99", order.Items[0].UnitPrice.StringFixed(2))

	// a later catalog price change must not touch the placed order
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", mug.ID).
		Update("price", decimal.RequireFromString("25.00")).Error)

	reloaded, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "19.99", reloaded.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "39.98", reloaded.TotalPrice().StringFixed(2))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	_, customer := seedCustomer(t, db, "alice")
	cart := newCartWith(t, db, nil)

	_, err := svc.PlaceOrder(ctx, customer.UserID, cart.ID, "1 Main St")
	assert.ErrorIs(t, err, ErrCartEmpty)

	// nothing was written
	var orderCount int64
	db.Model(&domain.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)
}

func TestPlaceOrderUnknownCart(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	_, customer := seedCustomer(t, db, "alice")
	_, err := svc.PlaceOrder(context.Background(), customer.UserID, "no-such-cart", "1 Main St")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestPlaceOrderUnknownCustomer(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)

	mug := seedProduct(t, db, "Coffee Mug", "19.99", 10)
	cart := newCartWith(t, db, map[int64]int{mug.ID: 1})

	_, err := svc.PlaceOrder(context.Background(), 999999, cart.ID, "1 Main St")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestPlaceOrderInsufficientInventoryRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	mug := seedProduct(t, db, "Coffee Mug", "19.99", 10)
	_, customer := seedCustomer(t, db, "alice")
	cart := newCartWith(t, db, map[int64]int{mug.ID: 6})

	// stock drains between add-to-cart and placement
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", mug.ID).
		Update("inventory", 3).Error)

	_, err := svc.PlaceOrder(ctx, customer.UserID, cart.ID, "1 Main St")
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	// the transaction rolled back: no order, cart intact, inventory untouched
	var orderCount, itemCount, cartItemCount int64
	db.Model(&domain.Order{}).Count(&orderCount)
	db.Model(&domain.OrderItem{}).Count(&itemCount)
	db.Model(&domain.CartItem{}).Where("cart_id = ?", cart.ID).Count(&cartItemCount)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
	assert.Equal(t, int64(1), cartItemCount)

	var fresh domain.Product
	require.NoError(t, db.First(&fresh, mug.ID).Error)
	assert.Equal(t, 3, fresh.Inventory)
}

func TestPlaceOrderConcurrentNoOversell(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	mug := seedProduct(t, db, "Coffee Mug", "19.99", 10)
	_, customer := seedCustomer(t, db, "alice")

	// two carts together want more than the stock on hand
	cartA := newCartWith(t, db, map[int64]int{mug.ID: 6})
	cartB := newCartWith(t, db, map[int64]int{mug.ID: 6})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, cartID := range []string{cartA.ID, cartB.ID} {
		wg.Add(1)
		go func(i int, cartID string) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(ctx, customer.UserID, cartID, "1 Main St")
		}(i, cartID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientInventory)
		}
	}
	assert.Equal(t, 1, succeeded)

	var fresh domain.Product
	require.NoError(t, db.First(&fresh, mug.ID).Error)
	assert.Equal(t, 4, fresh.Inventory)
}

func TestListOrdersForUser(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	mug := seedProduct(t, db, "Coffee Mug", "19.99", 10)
	_, customer := seedCustomer(t, db, "alice")

	for i := 0; i < 2; i++ {
		cart := newCartWith(t, db, map[int64]int{mug.ID: 1})
		_, err := svc.PlaceOrder(ctx, customer.UserID, cart.ID, "1 Main St")
		require.NoError(t, err)
	}

	orders, err := svc.ListOrdersForUser(ctx, customer.UserID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = svc.ListOrdersForUser(ctx, 999999)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestUpdatePaymentStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	mug := seedProduct(t, db, "Coffee Mug", "19.99", 10)
	_, customer := seedCustomer(t, db, "alice")
	cart := newCartWith(t, db, map[int64]int{mug.ID: 1})
	order, err := svc.PlaceOrder(ctx, customer.UserID, cart.ID, "1 Main St")
	require.NoError(t, err)

	updated, err := svc.UpdatePaymentStatus(ctx, order.ID, domain.PaymentStatusComplete)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusComplete, updated.PaymentStatus)

	_, err = svc.UpdatePaymentStatus(ctx, order.ID, "refunded")
	assert.Error(t, err)

	_, err = svc.UpdatePaymentStatus(ctx, 999999, domain.PaymentStatusFailed)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
