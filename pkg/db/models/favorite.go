package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Favorite marks a product as liked by a user. Membership only, no quantity.
type Favorite struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:favorites_user_product_key"`
	ProductID   string          `gorm:"column:product_id;not null;uniqueIndex:favorites_user_product_key"`
	ProductName string          `gorm:"column:product_name;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Image       string          `gorm:"column:image"`
	Category    string          `gorm:"column:category"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (f *Favorite) BeforeCreate(*gorm.DB) error {
	ensureID(&f.ID)
	return nil
}
