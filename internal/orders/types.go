package orders

import (
	"time"

	"github.com/akvaproffi/storefront/pkg/db/models"
	"github.com/akvaproffi/storefront/pkg/enums"
	"github.com/akvaproffi/storefront/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemInput is one line of an order being placed.
type ItemInput struct {
	ProductID   string
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// CreateInput carries everything createOrderAtomic needs.
type CreateInput struct {
	UserID      uuid.UUID
	Items       []ItemInput
	TotalAmount decimal.Decimal
}

// ItemDTO is the wire shape of an order line.
type ItemDTO struct {
	ProductID   string          `json:"product_id,omitempty"`
	ProductName string          `json:"name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// OrderDTO is the wire shape of an order. Date is YYYY-MM-DD.
type OrderDTO struct {
	ID          uuid.UUID         `json:"id"`
	OrderNumber string            `json:"order_number"`
	Date        string            `json:"date"`
	Status      enums.OrderStatus `json:"status"`
	Total       decimal.Decimal   `json:"total"`
	Items       []ItemDTO         `json:"items"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ListParams selects one page of order history.
type ListParams struct {
	Limit  int
	Cursor *pagination.Cursor
}

// ListResult is one page of order history. NextCursor is empty on the last page.
type ListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// Stats summarises a user's order history.
type Stats struct {
	OrderCount int64           `json:"order_count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

func toDTO(order models.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return OrderDTO{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Date:        order.CreatedAt.UTC().Format("2006-01-02"),
		Status:      order.Status,
		Total:       order.TotalAmount,
		Items:       items,
		CreatedAt:   order.CreatedAt,
	}
}
