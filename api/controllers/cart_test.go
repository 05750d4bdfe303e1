package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akvaproffi/storefront/internal/cart"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stubCartService struct {
	list      cart.CartDTO
	added     cart.AddInput
	setQty    int
	setResult cart.SetQuantityResult
	removed   string
	cleared   bool
	err       error
}

func (s *stubCartService) List(ctx context.Context, userID uuid.UUID) (cart.CartDTO, error) {
	return s.list, s.err
}

func (s *stubCartService) Add(ctx context.Context, userID uuid.UUID, input cart.AddInput) (cart.ItemDTO, error) {
	s.added = input
	if s.err != nil {
		return cart.ItemDTO{}, s.err
	}
	return cart.ItemDTO{ProductID: input.ProductID, Quantity: input.Quantity, Price: input.Price}, nil
}

func (s *stubCartService) SetQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) (cart.SetQuantityResult, error) {
	s.setQty = quantity
	return s.setResult, s.err
}

func (s *stubCartService) Remove(ctx context.Context, userID uuid.UUID, productID string) (bool, error) {
	s.removed = productID
	return true, s.err
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	s.cleared = true
	return s.err
}

func cartRouter(svc cart.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/cart", CartList(svc, nil))
	r.Post("/api/v1/cart", CartAdd(svc, nil))
	r.Put("/api/v1/cart", CartSetQuantity(svc, nil))
	r.Delete("/api/v1/cart", CartClear(svc, nil))
	r.Delete("/api/v1/cart/{productId}", CartRemove(svc, nil))
	return r
}

func TestCartListReturnsTotals(t *testing.T) {
	svc := &stubCartService{list: cart.CartDTO{
		Items:      []cart.ItemDTO{{ProductID: "1", Quantity: 2, Price: decimal.NewFromInt(300), TotalPrice: decimal.NewFromInt(600)}},
		TotalItems: 2,
		TotalPrice: decimal.NewFromInt(600),
	}}
	resp := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", "", uuid.New()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	got := decodeData[cart.CartDTO](t, resp)
	if got.TotalItems != 2 || !got.TotalPrice.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("unexpected totals %+v", got)
	}
}

func TestCartAddDecodesBody(t *testing.T) {
	svc := &stubCartService{}
	body := `{"product_id":"7","product_name":"Reel","price":"1500.50","quantity":3}`
	resp := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart", body, uuid.New()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.added.ProductID != "7" || svc.added.Quantity != 3 || !svc.added.Price.Equal(decimal.RequireFromString("1500.50")) {
		t.Fatalf("unexpected input %+v", svc.added)
	}
}

func TestCartAddRejectsMissingFields(t *testing.T) {
	resp := httptest.NewRecorder()
	cartRouter(&stubCartService{}).ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart", `{"quantity":1}`, uuid.New()))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartSetQuantityReportsRemoval(t *testing.T) {
	svc := &stubCartService{setResult: cart.SetQuantityResult{Removed: true}}
	resp := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/cart", `{"product_id":"7","quantity":0}`, uuid.New()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	got := decodeData[cart.SetQuantityResult](t, resp)
	if !got.Removed || svc.setQty != 0 {
		t.Fatalf("expected removal, got %+v qty=%d", got, svc.setQty)
	}
}

func TestCartRemoveUsesPathParam(t *testing.T) {
	svc := &stubCartService{}
	resp := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(resp, authedRequest(http.MethodDelete, "/api/v1/cart/42", "", uuid.New()))

	if resp.Code != http.StatusOK || svc.removed != "42" {
		t.Fatalf("expected removal of 42, code=%d removed=%q", resp.Code, svc.removed)
	}
	if got := decodeData[map[string]bool](t, resp); !got["removed"] {
		t.Fatalf("expected removed flag, got %v", got)
	}
}

func TestCartClear(t *testing.T) {
	svc := &stubCartService{}
	resp := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(resp, authedRequest(http.MethodDelete, "/api/v1/cart", "", uuid.New()))
	if resp.Code != http.StatusOK || !svc.cleared {
		t.Fatalf("expected clear, code=%d", resp.Code)
	}
}

func TestCartRequiresUserContext(t *testing.T) {
	resp := httptest.NewRecorder()
	cartRouter(&stubCartService{}).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartSurfacesServiceErrors(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")}
	resp := httptest.NewRecorder()
	cartRouter(svc).ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/cart", `{"product_id":"7","quantity":-1}`, uuid.New()))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code got %s", code)
	}
}
