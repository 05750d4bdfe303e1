package favorites

import (
	"time"

	"github.com/akvaproffi/storefront/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FavoriteDTO is the wire shape of a favorite.
type FavoriteDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AddInput carries an upsertFavorite request.
type AddInput struct {
	ProductID   string
	ProductName string
	Price       decimal.Decimal
	Image       string
	Category    string
}

// AddResult reports the stored favorite and whether this call created it.
type AddResult struct {
	Favorite FavoriteDTO `json:"favorite"`
	Created  bool        `json:"created"`
}

func toDTO(row models.Favorite) FavoriteDTO {
	return FavoriteDTO{
		ID:          row.ID,
		ProductID:   row.ProductID,
		ProductName: row.ProductName,
		Price:       row.Price,
		Image:       row.Image,
		Category:    row.Category,
		CreatedAt:   row.CreatedAt,
	}
}

// AddRequest is the POST /favorites body.
type AddRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	ProductName string          `json:"product_name" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
}

// Input converts the wire body into service input.
func (r AddRequest) Input() AddInput {
	return AddInput{
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Price:       r.Price,
		Image:       r.Image,
		Category:    r.Category,
	}
}
