package collection

import (
	"strings"
	"time"

	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

// Reducer is the per-kind half of the transition set. Remove and ClearAll
// behave the same for every kind and are plain functions.
type Reducer[E Entry] interface {
	AddOrIncrement(c Collection[E], p Product, delta int) (Collection[E], error)
	SetQuantity(c Collection[E], productID string, qty int) (Collection[E], error)
	// FromProduct builds a fresh entry, used when the remote side echoes a
	// mutation back.
	FromProduct(p Product, qty int) E
}

// Remove drops productID. Absent keys are a no-op.
func Remove[E Entry](c Collection[E], productID string) Collection[E] {
	return c.Without(productID)
}

// ClearAll returns an empty collection.
func ClearAll[E Entry](Collection[E]) Collection[E] {
	return New[E]()
}

// ValidateProduct rejects payloads no reducer can store.
func ValidateProduct(p Product) error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	case strings.TrimSpace(p.Name) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	case p.Price.LessThan(decimal.Zero):
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	return nil
}

// CartReducer sums quantities. Now stamps local ids; nil means time.Now.
type CartReducer struct {
	Now func() time.Time
}

func (r CartReducer) AddOrIncrement(c Collection[LineItem], p Product, delta int) (Collection[LineItem], error) {
	if err := ValidateProduct(p); err != nil {
		return c, err
	}
	if delta <= 0 {
		return c, pkgerrors.New(pkgerrors.CodeValidation, "quantity delta must be positive")
	}
	if existing, ok := c.Get(p.ID); ok {
		existing.Quantity += delta
		existing.TotalPrice = lineTotal(existing.Price, existing.Quantity)
		return c.Put(existing), nil
	}
	return c.Put(r.FromProduct(p, delta)), nil
}

// SetQuantity removes the entry for qty <= 0 and overwrites it otherwise.
// Unknown products are left alone.
func (r CartReducer) SetQuantity(c Collection[LineItem], productID string, qty int) (Collection[LineItem], error) {
	if strings.TrimSpace(productID) == "" {
		return c, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if qty <= 0 {
		return c.Without(productID), nil
	}
	existing, ok := c.Get(productID)
	if !ok {
		return c, nil
	}
	existing.Quantity = qty
	existing.TotalPrice = lineTotal(existing.Price, qty)
	return c.Put(existing), nil
}

func (r CartReducer) FromProduct(p Product, qty int) LineItem {
	return LineItem{
		ID:          LocalID(r.now(), p.ID),
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Quantity:    qty,
		TotalPrice:  lineTotal(p.Price, qty),
	}
}

func (r CartReducer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// FavoritesReducer inserts if absent and ignores quantities.
type FavoritesReducer struct {
	Now func() time.Time
}

func (r FavoritesReducer) AddOrIncrement(c Collection[FavoriteRef], p Product, _ int) (Collection[FavoriteRef], error) {
	if err := ValidateProduct(p); err != nil {
		return c, err
	}
	if c.Has(p.ID) {
		return c, nil
	}
	return c.Put(r.FromProduct(p, 0)), nil
}

func (r FavoritesReducer) SetQuantity(c Collection[FavoriteRef], _ string, _ int) (Collection[FavoriteRef], error) {
	return c, pkgerrors.New(pkgerrors.CodeValidation, "favorites have no quantity")
}

func (r FavoritesReducer) FromProduct(p Product, _ int) FavoriteRef {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	at := now()
	return FavoriteRef{
		ID:          LocalID(at, p.ID),
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		CreatedAt:   at,
	}
}
