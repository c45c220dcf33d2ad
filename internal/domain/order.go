package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status values for Order
const (
	PaymentStatusPending  = "pending"
	PaymentStatusComplete = "complete"
	PaymentStatusFailed   = "failed"
)

// Order immutable purchase record, only payment_status may change after creation
type Order struct {
	ID            int64       `json:"id,string" form:"id"`
	CustomerID    int64       `gorm:"index" json:"customer_id,string" form:"customer_id"`
	PlacedAt      time.Time   `json:"placed_at"`
	Address       string      `json:"address" form:"address"`
	PaymentStatus string      `gorm:"size:32;index" json:"payment_status" form:"payment_status"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "store_order"
}

// TotalPrice sums quantity * unit_price across the order's items.
func (o Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// OrderItem price-frozen line item, unit_price is copied from the product at
// placement time and never follows later catalog price changes
type OrderItem struct {
	ID        int64           `json:"id,string" form:"id"`
	OrderID   int64           `gorm:"index" json:"order_id,string" form:"order_id"`
	ProductID int64           `gorm:"index" json:"product_id,string" form:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int             `json:"quantity" form:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2)" json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "store_order_item"
}
