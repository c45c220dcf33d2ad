package domain

import "time"

// Cart is an ephemeral pre-purchase container keyed by an opaque uuid token.
// It is deleted when converted into an order.
type Cart struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id" form:"id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName Specify table name
func (Cart) TableName() string {
	return "cart"
}

// CartItem one product/quantity line in a cart, unique per (cart, product)
type CartItem struct {
	ID        int64     `json:"id,string" form:"id"`
	CartID    string    `gorm:"size:36;index;uniqueIndex:uk_cart_product" json:"cart_id" form:"cart_id"`
	ProductID int64     `gorm:"uniqueIndex:uk_cart_product" json:"product_id,string" form:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int       `json:"quantity" form:"quantity"` // Positive, bounded by product inventory
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (CartItem) TableName() string {
	return "cart_item"
}
