package shop

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/pkg/common"
	"github.com/talkincode/toughstore/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CartService handles cart lifecycle and item mutations. Every mutation that
// grows a line re-checks the product's current inventory ceiling.
type CartService struct {
	carts    CartRepository
	products ProductRepository
}

// NewCartService creates a new cart service
func NewCartService(carts CartRepository, products ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// CreateCart creates an empty cart with a fresh opaque token.
func (s *CartService) CreateCart(ctx context.Context) (*domain.Cart, error) {
	cart := &domain.Cart{
		ID:        common.UUID(),
		CreatedAt: time.Now(),
	}
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(err, "create cart")
	}
	metrics.Inc(metrics.MetricCartCreated)
	return cart, nil
}

// GetCart returns the cart with items and products preloaded.
func (s *CartService) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.carts.GetByID(ctx, cartID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "query cart")
	}
	return cart, nil
}

// DeleteCart removes the cart and all of its items.
func (s *CartService) DeleteCart(ctx context.Context, cartID string) error {
	if _, err := s.GetCart(ctx, cartID); err != nil {
		return err
	}
	return s.carts.Delete(ctx, cartID)
}

// AddItem adds quantity of a product to the cart. An existing (cart, product)
// line is increased instead of duplicated; either path rejects a resulting
// quantity above the product's current inventory.
func (s *CartService) AddItem(ctx context.Context, cartID string, productID int64, quantity int) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.GetCart(ctx, cartID); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "query product")
	}

	item, err := s.carts.GetItemByProduct(ctx, cartID, productID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if quantity > product.Inventory {
			return nil, ErrInsufficientInventory
		}
		item = &domain.CartItem{
			ID:        common.UUIDint64(),
			CartID:    cartID,
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.carts.CreateItem(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(err, "create cart item")
		}
	case err != nil:
		return nil, pkgerrors.Wrap(err, "query cart item")
	default:
		combined := item.Quantity + quantity
		if combined > product.Inventory {
			return nil, ErrInsufficientInventory
		}
		if err := s.carts.UpdateItemQuantity(ctx, item.ID, combined); err != nil {
			return nil, pkgerrors.Wrap(err, "update cart item")
		}
		item.Quantity = combined
	}

	zap.L().Debug("cart item added",
		zap.String("cart_id", cartID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", item.Quantity))

	return s.carts.GetItem(ctx, cartID, item.ID)
}

// UpdateItem sets the quantity of an existing line, subject to the same
// inventory ceiling as AddItem.
func (s *CartService) UpdateItem(ctx context.Context, cartID string, itemID int64, quantity int) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.carts.GetItem(ctx, cartID, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "query cart item")
	}

	product, err := s.products.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "query product")
	}
	if quantity > product.Inventory {
		return nil, ErrInsufficientInventory
	}

	if err := s.carts.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		return nil, pkgerrors.Wrap(err, "update cart item")
	}
	return s.carts.GetItem(ctx, cartID, itemID)
}

// RemoveItem deletes a single line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, cartID string, itemID int64) error {
	if _, err := s.carts.GetItem(ctx, cartID, itemID); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCartItemNotFound
	} else if err != nil {
		return pkgerrors.Wrap(err, "query cart item")
	}
	return s.carts.DeleteItem(ctx, cartID, itemID)
}
