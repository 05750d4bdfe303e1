package paymentmethods

import (
	"fmt"
	"time"

	"github.com/akvaproffi/storefront/pkg/db/models"
	"github.com/akvaproffi/storefront/pkg/enums"
	"github.com/google/uuid"
)

// PaymentMethodDTO is the public view. Card numbers are always masked.
type PaymentMethodDTO struct {
	ID         uuid.UUID               `json:"id"`
	Type       enums.PaymentMethodType `json:"type"`
	CardNumber *string                 `json:"card_number,omitempty"`
	CardHolder *string                 `json:"card_holder,omitempty"`
	CardExpiry *string                 `json:"card_expiry,omitempty"`
	IsDefault  bool                    `json:"is_default"`
	CreatedAt  time.Time               `json:"created_at"`
}

// CreateInput is the add-payment-method payload.
type CreateInput struct {
	Type       string
	CardNumber string
	CardHolder string
	CardExpiry string
	IsDefault  bool
}

// MaskCardNumber renders the last four digits as "**** **** **** 1234".
func MaskCardNumber(last4 string) string {
	if len(last4) < 4 {
		return last4
	}
	return fmt.Sprintf("**** **** **** %s", last4[len(last4)-4:])
}

func toDTO(m models.PaymentMethod) PaymentMethodDTO {
	dto := PaymentMethodDTO{
		ID:         m.ID,
		Type:       m.Type,
		CardHolder: m.CardHolder,
		CardExpiry: m.ExpiryDate,
		IsDefault:  m.IsDefault,
		CreatedAt:  m.CreatedAt,
	}
	if m.CardLast4 != nil {
		masked := MaskCardNumber(*m.CardLast4)
		dto.CardNumber = &masked
	}
	return dto
}
