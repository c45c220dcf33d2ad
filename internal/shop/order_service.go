package shop

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/internal/events"
	"github.com/talkincode/toughstore/pkg/common"
	"github.com/talkincode/toughstore/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService converts carts into orders inside a single transaction and
// publishes the order.created event after commit.
type OrderService struct {
	db        *gorm.DB
	carts     CartRepository
	orders    OrderRepository
	customers CustomerRepository
	bus       *events.Bus
}

// NewOrderService creates a new order service
func NewOrderService(db *gorm.DB, carts CartRepository, orders OrderRepository, customers CustomerRepository, bus *events.Bus) *OrderService {
	return &OrderService{
		db:        db,
		carts:     carts,
		orders:    orders,
		customers: customers,
		bus:       bus,
	}
}

// PlaceOrder validates the cart, then atomically creates the order with
// price-frozen line items, decrements inventory, and deletes the cart.
// Inventory is re-checked with a conditional decrement inside the
// transaction, so concurrent placements can never drive it negative.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64, cartID, address string) (*domain.Order, error) {
	// Preconditions, checked before any mutation
	cart, err := s.carts.GetByID(ctx, cartID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "query cart")
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	customer, err := s.customers.GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "query customer")
	}

	orderID := common.UUIDint64()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		order := domain.Order{
			ID:            orderID,
			CustomerID:    customer.ID,
			PlacedAt:      now,
			Address:       address,
			PaymentStatus: domain.PaymentStatusPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Re-read the cart lines inside the transaction; prices frozen here
		var items []domain.CartItem
		if err := tx.Preload("Product").Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		orderItems := make([]domain.OrderItem, 0, len(items))
		for _, item := range items {
			orderItems = append(orderItems, domain.OrderItem{
				ID:        common.UUIDint64(),
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.Product.Price,
				CreatedAt: now,
			})
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return err
		}

		// Conditional decrement; zero rows affected means another placement
		// consumed the stock first
		for _, item := range items {
			res := tx.Model(&domain.Product{}).
				Where("id = ? AND inventory >= ?", item.ProductID, item.Quantity).
				Update("inventory", gorm.Expr("inventory - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientInventory
			}
		}

		if err := tx.Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", cartID).Delete(&domain.Cart{}).Error
	})
	if err != nil {
		if IsValidationError(err) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(err, "place order")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "reload order")
	}

	metrics.Inc(metrics.MetricOrderPlaced)
	zap.L().Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("customer_id", customer.ID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.TotalPrice().StringFixed(2)))

	if s.bus != nil {
		var user domain.SysUser
		email := ""
		if err := s.db.WithContext(ctx).First(&user, customer.UserID).Error; err == nil {
			email = user.Email
		}
		s.bus.PublishOrderCreated(&events.OrderCreated{Order: order, Email: email})
	}
	return order, nil
}

// GetOrder returns the order with its items.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "query order")
	}
	return order, nil
}

// ListOrdersForUser returns the orders of the customer owned by userID.
func (s *OrderService) ListOrdersForUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	customer, err := s.customers.GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "query customer")
	}
	return s.orders.ListByCustomer(ctx, customer.ID)
}

// UpdatePaymentStatus moves an order's payment status; the rest of the order
// is immutable after placement.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	switch status {
	case domain.PaymentStatusPending, domain.PaymentStatusComplete, domain.PaymentStatusFailed:
	default:
		return nil, pkgerrors.Errorf("unknown payment status %q", status)
	}
	if _, err := s.GetOrder(ctx, id); err != nil {
		return nil, err
	}
	if err := s.orders.UpdatePaymentStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(err, "update payment status")
	}
	return s.GetOrder(ctx, id)
}
