package controllers

import (
	"net/http"
	"strings"

	"github.com/akvaproffi/storefront/api/responses"
	"github.com/akvaproffi/storefront/api/validators"
	"github.com/akvaproffi/storefront/internal/catalog"
	"github.com/akvaproffi/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type productListResponse struct {
	Items      []catalog.Product  `json:"items"`
	Total      int                `json:"total"`
	Categories []catalog.Category `json:"categories"`
}

// ProductsList filters the catalog by ?category= (name or slug) or ?q= and
// caps the page with ?limit=.
func ProductsList(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("catalog"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		var items []catalog.Product
		switch {
		case strings.TrimSpace(query.Get("q")) != "":
			items = cat.Search(validators.SanitizeString(query.Get("q"), 120))
		case strings.TrimSpace(query.Get("category")) != "":
			items = cat.ByCategory(resolveCategory(cat, query.Get("category")))
		default:
			items = cat.List()
		}

		total := len(items)
		if len(items) > limit {
			items = items[:limit]
		}
		responses.WriteSuccess(w, productListResponse{Items: items, Total: total, Categories: cat.Categories()})
	}
}

// ProductsGet resolves {id} as a product id first and then as a slug.
func ProductsGet(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("catalog"))
			return
		}
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		product, err := cat.Get(id)
		if err != nil {
			bySlug, slugErr := cat.BySlug(id)
			if slugErr != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			product = bySlug
		}
		responses.WriteSuccess(w, product)
	}
}

func resolveCategory(cat *catalog.Catalog, value string) string {
	value = strings.TrimSpace(value)
	for _, c := range cat.Categories() {
		if c.Name == value {
			return value
		}
	}
	return cat.CategoryBySlug(value)
}
