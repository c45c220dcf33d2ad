package domain

import "time"

// Membership tiers, storage only
const (
	MembershipBronze = "bronze"
	MembershipSilver = "silver"
	MembershipGold   = "gold"
)

// Customer storefront profile, one-to-one with a SysUser account
type Customer struct {
	ID         int64      `json:"id,string" form:"id"`
	UserID     int64      `gorm:"uniqueIndex" json:"user_id,string" form:"user_id"`
	Phone      string     `gorm:"size:32" json:"phone" form:"phone"`
	BirthDate  *time.Time `json:"birth_date" form:"birth_date"`
	Membership string     `gorm:"size:16" json:"membership" form:"membership"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName Specify table name
func (Customer) TableName() string {
	return "customer"
}
