package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akvaproffi/storefront/internal/favorites"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type stubFavoritesService struct {
	items   map[string]favorites.FavoriteDTO
	removed []string
}

func newStubFavorites() *stubFavoritesService {
	return &stubFavoritesService{items: map[string]favorites.FavoriteDTO{}}
}

func (s *stubFavoritesService) List(ctx context.Context, userID uuid.UUID) ([]favorites.FavoriteDTO, error) {
	out := make([]favorites.FavoriteDTO, 0, len(s.items))
	for _, fav := range s.items {
		out = append(out, fav)
	}
	return out, nil
}

func (s *stubFavoritesService) Add(ctx context.Context, userID uuid.UUID, input favorites.AddInput) (favorites.AddResult, error) {
	if existing, ok := s.items[input.ProductID]; ok {
		return favorites.AddResult{Favorite: existing}, nil
	}
	fav := favorites.FavoriteDTO{ID: uuid.New(), ProductID: input.ProductID, ProductName: input.ProductName}
	s.items[input.ProductID] = fav
	return favorites.AddResult{Favorite: fav, Created: true}, nil
}

func (s *stubFavoritesService) Remove(ctx context.Context, userID uuid.UUID, productID string) (bool, error) {
	s.removed = append(s.removed, productID)
	_, ok := s.items[productID]
	delete(s.items, productID)
	return ok, nil
}

func (s *stubFavoritesService) IsFavorite(ctx context.Context, userID uuid.UUID, productID string) (bool, error) {
	_, ok := s.items[productID]
	return ok, nil
}

func favoritesRouter(svc favorites.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/favorites", FavoritesList(svc, nil))
	r.Post("/api/v1/favorites", FavoritesAdd(svc, nil))
	r.Get("/api/v1/favorites/{productId}", FavoritesCheck(svc, nil))
	r.Delete("/api/v1/favorites/{productId}", FavoritesRemove(svc, nil))
	return r
}

func TestFavoritesAddIsInsertIfAbsent(t *testing.T) {
	svc := newStubFavorites()
	router := favoritesRouter(svc)
	user := uuid.New()
	body := `{"product_id":"5","product_name":"Lure"}`

	first := httptest.NewRecorder()
	router.ServeHTTP(first, authedRequest(http.MethodPost, "/api/v1/favorites", body, user))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, authedRequest(http.MethodPost, "/api/v1/favorites", body, user))
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat got %d", second.Code)
	}
	if got := decodeData[favorites.AddResult](t, second); got.Created || got.Favorite.ProductID != "5" {
		t.Fatalf("unexpected repeat result %+v", got)
	}
}

func TestFavoritesCheckAndRemove(t *testing.T) {
	svc := newStubFavorites()
	svc.items["5"] = favorites.FavoriteDTO{ProductID: "5"}
	router := favoritesRouter(svc)
	user := uuid.New()

	check := httptest.NewRecorder()
	router.ServeHTTP(check, authedRequest(http.MethodGet, "/api/v1/favorites/5", "", user))
	if got := decodeData[map[string]bool](t, check); !got["is_favorite"] {
		t.Fatalf("expected favorite, got %v", got)
	}

	remove := httptest.NewRecorder()
	router.ServeHTTP(remove, authedRequest(http.MethodDelete, "/api/v1/favorites/5", "", user))
	if got := decodeData[map[string]bool](t, remove); !got["removed"] {
		t.Fatalf("expected removal, got %v", got)
	}

	list := httptest.NewRecorder()
	router.ServeHTTP(list, authedRequest(http.MethodGet, "/api/v1/favorites", "", user))
	if got := decodeData[[]favorites.FavoriteDTO](t, list); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}
