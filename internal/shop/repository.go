package shop

import (
	"context"
	"time"

	"github.com/talkincode/toughstore/internal/domain"
	"gorm.io/gorm"
)

// ProductRepository handles database operations for catalog products
type ProductRepository interface {
	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Create inserts a new product
	Create(ctx context.Context, product *domain.Product) error

	// Update updates an existing product
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product
	Delete(ctx context.Context, id int64) error

	// TitleExists reports whether another product already uses title
	// (case-insensitive), excluding excludeID
	TitleExists(ctx context.Context, title string, excludeID int64) (bool, error)

	// List retrieves products with pagination
	List(ctx context.Context, filter map[string]interface{}, page, pageSize int) ([]*domain.Product, int64, error)
}

// CartRepository handles database operations for carts and cart items
type CartRepository interface {
	// Create inserts a new cart
	Create(ctx context.Context, cart *domain.Cart) error

	// GetByID retrieves a cart with its items and their products
	GetByID(ctx context.Context, id string) (*domain.Cart, error)

	// Delete removes a cart and all of its items
	Delete(ctx context.Context, id string) error

	// GetItem retrieves a single cart item scoped to a cart
	GetItem(ctx context.Context, cartID string, itemID int64) (*domain.CartItem, error)

	// GetItemByProduct retrieves the (cart, product) line if it exists
	GetItemByProduct(ctx context.Context, cartID string, productID int64) (*domain.CartItem, error)

	// CreateItem inserts a new cart item
	CreateItem(ctx context.Context, item *domain.CartItem) error

	// UpdateItemQuantity sets the quantity of an existing line
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error

	// DeleteItem removes a single cart item
	DeleteItem(ctx context.Context, cartID string, itemID int64) error

	// CountItems returns the number of lines in a cart
	CountItems(ctx context.Context, cartID string) (int64, error)

	// DeleteStale removes carts (and their items) created before the cutoff
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// OrderRepository handles database operations for orders
type OrderRepository interface {
	// GetByID retrieves an order with items and products
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// ListByCustomer retrieves a customer's orders, newest first
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error)

	// List retrieves orders with pagination
	List(ctx context.Context, filter map[string]interface{}, page, pageSize int) ([]*domain.Order, int64, error)

	// UpdatePaymentStatus updates the payment status of an order
	UpdatePaymentStatus(ctx context.Context, id int64, status string) error
}

// CustomerRepository handles database operations for customer profiles
type CustomerRepository interface {
	// GetByID retrieves a customer by ID
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)

	// GetByUserID retrieves the customer profile owned by a user account
	GetByUserID(ctx context.Context, userID int64) (*domain.Customer, error)

	// Create inserts a new customer profile
	Create(ctx context.Context, customer *domain.Customer) error

	// Update updates an existing customer profile
	Update(ctx context.Context, customer *domain.Customer) error

	// List retrieves customers with pagination
	List(ctx context.Context, filter map[string]interface{}, page, pageSize int) ([]*domain.Customer, int64, error)
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Product{}, id).Error
}

func (r *GormProductRepository) TitleExists(ctx context.Context, title string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("LOWER(title) = LOWER(?)", title).
		Where("id != ?", excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormProductRepository) List(ctx context.Context, filter map[string]interface{}, page, pageSize int) ([]*domain.Product, int64, error) {
	var products []*domain.Product
	var total int64

	query := r.db.WithContext(ctx)
	for key, value := range filter {
		if value != nil && value != "" {
			query = query.Where(key+" = ?", value)
		}
	}

	if err := query.Model(&domain.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&products).Error

	return products, total, err
}

// GormCartRepository is the GORM implementation of CartRepository
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GORM-based cart repository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *GormCartRepository) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("id = ?", id).
		First(&cart).Error
	return &cart, err
}

func (r *GormCartRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Cart{}).Error
	})
}

func (r *GormCartRepository) GetItem(ctx context.Context, cartID string, itemID int64) (*domain.CartItem, error) {
	var item domain.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ? AND id = ?", cartID, itemID).
		First(&item).Error
	return &item, err
}

func (r *GormCartRepository) GetItemByProduct(ctx context.Context, cartID string, productID int64) (*domain.CartItem, error) {
	var item domain.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	return &item, err
}

func (r *GormCartRepository) CreateItem(ctx context.Context, item *domain.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormCartRepository) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		}).Error
}

func (r *GormCartRepository) DeleteItem(ctx context.Context, cartID string, itemID int64) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND id = ?", cartID, itemID).
		Delete(&domain.CartItem{}).Error
}

func (r *GormCartRepository) CountItems(ctx context.Context, cartID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("cart_id = ?", cartID).
		Count(&count).Error
	return count, err
}

func (r *GormCartRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&domain.Cart{}).
		Where("created_at < ?", cutoff).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id IN ?", ids).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&domain.Cart{}).Error
	})
	return int64(len(ids)), err
}

// GormOrderRepository is the GORM implementation of OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM-based order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, id).Error
	return &order, err
}

func (r *GormOrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("customer_id = ?", customerID).
		Order("placed_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) List(ctx context.Context, filter map[string]interface{}, page, pageSize int) ([]*domain.Order, int64, error) {
	var orders []*domain.Order
	var total int64

	query := r.db.WithContext(ctx)
	for key, value := range filter {
		if value != nil && value != "" {
			query = query.Where(key+" = ?", value)
		}
	}

	if err := query.Model(&domain.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Items").
		Order("placed_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&orders).Error

	return orders, total, err
}

func (r *GormOrderRepository) UpdatePaymentStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status": status,
			"updated_at":     time.Now(),
		}).Error
}

// GormCustomerRepository is the GORM implementation of CustomerRepository
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GORM-based customer repository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *GormCustomerRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error
	return &c, err
}

func (r *GormCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *GormCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *GormCustomerRepository) List(ctx context.Context, filter map[string]interface{}, page, pageSize int) ([]*domain.Customer, int64, error) {
	var customers []*domain.Customer
	var total int64

	query := r.db.WithContext(ctx)
	for key, value := range filter {
		if value != nil && value != "" {
			query = query.Where(key+" = ?", value)
		}
	}

	if err := query.Model(&domain.Customer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&customers).Error

	return customers, total, err
}
