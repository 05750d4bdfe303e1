package catalog

import (
	"strings"

	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// AllCategories is the pseudo category that matches every product.
const AllCategories = "Все"

// Product is a catalog entry.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
	Rating   float64         `json:"rating"`
	Slug     string          `json:"slug"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type seedProduct struct {
	ID       string
	Name     string
	Price    int64
	Image    string
	Category string
	Rating   float64
	Slug     string
}

// Catalog is an immutable, in-process product list. Safe for concurrent use.
type Catalog struct {
	products   []Product
	byID       map[string]int
	bySlug     map[string]int
	categories []Category
}

// Default returns the storefront catalog.
func Default() *Catalog {
	return build(seedProducts, seedCategories)
}

// New builds a catalog from the given products. Missing slugs are derived
// from the product name.
func New(products []Product, categories []Category) *Catalog {
	c := &Catalog{
		products:   make([]Product, 0, len(products)),
		byID:       make(map[string]int, len(products)),
		bySlug:     make(map[string]int, len(products)),
		categories: append([]Category(nil), categories...),
	}
	for _, p := range products {
		if p.Slug == "" {
			p.Slug = slug.Make(p.Name)
		}
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.byID[p.ID] = len(c.products)
		c.bySlug[slug.Make(p.Slug)] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

func build(seed []seedProduct, categories []Category) *Catalog {
	products := make([]Product, 0, len(seed))
	for _, s := range seed {
		products = append(products, Product{
			ID:       s.ID,
			Name:     s.Name,
			Price:    decimal.NewFromInt(s.Price),
			Image:    s.Image,
			Category: s.Category,
			Rating:   s.Rating,
			Slug:     s.Slug,
		})
	}
	return New(products, categories)
}

// List returns a copy of every product in catalog order.
func (c *Catalog) List() []Product {
	return append([]Product(nil), c.products...)
}

func (c *Catalog) Get(id string) (Product, error) {
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return c.products[idx], nil
}

func (c *Catalog) BySlug(value string) (Product, error) {
	idx, ok := c.bySlug[slug.Make(value)]
	if !ok {
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return c.products[idx], nil
}

// ByCategory filters by category name; AllCategories or "" returns everything.
func (c *Catalog) ByCategory(category string) []Product {
	category = strings.TrimSpace(category)
	if category == "" || category == AllCategories {
		return c.List()
	}
	out := make([]Product, 0)
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Search matches the query against product names and categories, case-insensitively.
func (c *Catalog) Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.List()
	}
	out := make([]Product, 0)
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.categories...)
}

// CategoryBySlug maps a category slug to its display name, AllCategories when unknown.
func (c *Catalog) CategoryBySlug(value string) string {
	for _, cat := range c.categories {
		if cat.Slug == value {
			return cat.Name
		}
	}
	return AllCategories
}
