package models

import (
	"time"

	"github.com/akvaproffi/storefront/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentMethod is a saved way to pay. Only the last four card digits are kept.
type PaymentMethod struct {
	ID         uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	Type       enums.PaymentMethodType `gorm:"column:type;type:payment_method_type;not null"`
	CardLast4  *string                 `gorm:"column:card_last4"`
	CardHolder *string                 `gorm:"column:card_holder"`
	ExpiryDate *string                 `gorm:"column:expiry_date"`
	IsDefault  bool                    `gorm:"column:is_default;not null;default:false"`
	CreatedAt  time.Time               `gorm:"column:created_at;autoCreateTime"`
}

func (p *PaymentMethod) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
