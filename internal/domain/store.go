package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Catalog module related models

// Collection groups products for browsing
type Collection struct {
	ID        int64     `json:"id,string" form:"id"`
	Title     string    `gorm:"index" json:"title" form:"title"`
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Collection) TableName() string {
	return "collection"
}

// Product catalog item, price is a fixed-point value with 2 decimals
type Product struct {
	ID           int64           `json:"id,string" form:"id"`
	CollectionID int64           `gorm:"index" json:"collection_id,string" form:"collection_id"` // Owning collection
	Title        string          `gorm:"index" json:"title" form:"title"`                        // Product title, unique case-insensitively
	Description  string          `json:"description" form:"description"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"` // Unit price
	Inventory    int             `json:"inventory" form:"inventory"`      // On-hand quantity, never negative
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "product"
}

// ProductImage image metadata attached to a product
type ProductImage struct {
	ID        int64     `json:"id,string" form:"id"`
	ProductID int64     `gorm:"index" json:"product_id,string" form:"product_id"`
	Path      string    `gorm:"size:1024" json:"path" form:"path"` // Storage path or URL
	Size      int64     `json:"size" form:"size"`                  // File size in bytes
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (ProductImage) TableName() string {
	return "product_image"
}

// MaxProductImageSize upload ceiling for product images (10 MB)
const MaxProductImageSize int64 = 10 * 1024 * 1024
