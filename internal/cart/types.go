package cart

import (
	"time"

	"github.com/akvaproffi/storefront/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemDTO is the wire shape of a cart line.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CartDTO is the listCart response.
type CartDTO struct {
	Items      []ItemDTO       `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// AddInput carries an upsertCartItem request. Quantity is the delta to add.
type AddInput struct {
	ProductID   string
	ProductName string
	Price       decimal.Decimal
	Image       string
	Quantity    int
}

// SetQuantityResult is either the updated item or Removed=true.
type SetQuantityResult struct {
	Item    *ItemDTO `json:"item,omitempty"`
	Removed bool     `json:"removed"`
}

func toDTO(row models.CartItem) ItemDTO {
	return ItemDTO{
		ID:          row.ID,
		ProductID:   row.ProductID,
		ProductName: row.ProductName,
		Price:       row.Price,
		Image:       row.Image,
		Quantity:    row.Quantity,
		TotalPrice:  row.TotalPrice(),
		CreatedAt:   row.CreatedAt,
	}
}

func toCartDTO(rows []models.CartItem) CartDTO {
	out := CartDTO{Items: make([]ItemDTO, 0, len(rows)), TotalPrice: decimal.Zero}
	for _, row := range rows {
		item := toDTO(row)
		out.Items = append(out.Items, item)
		out.TotalItems += item.Quantity
		out.TotalPrice = out.TotalPrice.Add(item.TotalPrice)
	}
	return out
}

// AddRequest is the POST /cart body.
type AddRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	ProductName string          `json:"product_name" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
}

// Input converts the wire body into service input.
func (r AddRequest) Input() AddInput {
	return AddInput{
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Price:       r.Price,
		Image:       r.Image,
		Quantity:    r.Quantity,
	}
}

// SetQuantityRequest is the PUT /cart body.
type SetQuantityRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}
