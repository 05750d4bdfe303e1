package collection

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog data a mutation carries.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category,omitempty"`
}

// LineItem is one cart entry.
type LineItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"product_price"`
	Image       string          `json:"product_image"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

func (l LineItem) Key() string { return l.ProductID }

func (l LineItem) AsProduct() Product {
	return Product{ID: l.ProductID, Name: l.ProductName, Price: l.Price, Image: l.Image}
}

// FlushQuantity is the delta pushed for this entry during a login merge.
func (l LineItem) FlushQuantity() int { return l.Quantity }

// FavoriteRef is one favorites entry.
type FavoriteRef struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"product_price"`
	Image       string          `json:"product_image"`
	Category    string          `json:"product_category,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (f FavoriteRef) Key() string { return f.ProductID }

func (f FavoriteRef) AsProduct() Product {
	return Product{ID: f.ProductID, Name: f.ProductName, Price: f.Price, Image: f.Image, Category: f.Category}
}

func (f FavoriteRef) FlushQuantity() int { return 1 }

// LocalID is the id given to entries created while browsing as a guest.
func LocalID(now time.Time, productID string) string {
	return fmt.Sprintf("local-%d-%s", now.UnixNano(), productID)
}

// Totals sums quantities and line totals over a cart.
func Totals(c Collection[LineItem]) (int, decimal.Decimal) {
	items := 0
	price := decimal.Zero
	c.each(func(item LineItem) {
		items += item.Quantity
		price = price.Add(item.TotalPrice)
	})
	return items, price
}

func lineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
