package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/akvaproffi/storefront/internal/cart"
	"github.com/akvaproffi/storefront/internal/catalog"
	"github.com/akvaproffi/storefront/internal/checkout"
	"github.com/akvaproffi/storefront/internal/collection"
	"github.com/akvaproffi/storefront/internal/favorites"
	"github.com/akvaproffi/storefront/internal/imagecache"
	"github.com/akvaproffi/storefront/internal/localstore"
	"github.com/akvaproffi/storefront/internal/remote"
	"github.com/akvaproffi/storefront/internal/synchronizer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeBackend serves the cart, favorites and login endpoints from memory.
type fakeBackend struct {
	mu     sync.Mutex
	userID uuid.UUID
	cart   map[string]cart.ItemDTO
	adds   []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{userID: uuid.New(), cart: map[string]cart.ItemDTO{}}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]any{
			"access_token": "token-1",
			"expires_in":   3600,
			"user":         map[string]any{"id": b.userID, "name": "Test", "email": "shopper@example.com"},
		})
	})
	mux.HandleFunc("GET /api/v1/cart", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		items := make([]cart.ItemDTO, 0, len(b.cart))
		for _, item := range b.cart {
			items = append(items, item)
		}
		writeData(w, cart.CartDTO{Items: items})
	})
	mux.HandleFunc("POST /api/v1/cart", func(w http.ResponseWriter, r *http.Request) {
		var req cart.AddRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.adds = append(b.adds, req.ProductID)
		item, ok := b.cart[req.ProductID]
		if !ok {
			item = cart.ItemDTO{ID: uuid.New(), ProductID: req.ProductID, ProductName: req.ProductName, Price: req.Price}
		}
		item.Quantity += req.Quantity
		item.TotalPrice = item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		b.cart[req.ProductID] = item
		writeData(w, item)
	})
	mux.HandleFunc("GET /api/v1/favorites", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, []favorites.FavoriteDTO{})
	})
	return mux
}

func (b *fakeBackend) quantity(productID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cart[productID].Quantity
}

func writeData(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": v})
}

func testShell(t *testing.T, baseURL string) (*shell, *bytes.Buffer) {
	t.Helper()
	mem := localstore.NewMemoryStore()
	session := &remote.Session{}
	client, err := remote.New(remote.Options{BaseURL: baseURL, Timeout: 2 * time.Second, Tokens: session})
	require.NoError(t, err)

	cartSync, err := synchronizer.New(synchronizer.Options[collection.LineItem]{
		Name:    "cart",
		Local:   localstore.New[collection.LineItem](mem, localstore.CartKey, nil),
		Remote:  synchronizer.NewCartRemote(client),
		Reducer: collection.CartReducer{},
	})
	require.NoError(t, err)
	favSync, err := synchronizer.New(synchronizer.Options[collection.FavoriteRef]{
		Name:    "favorites",
		Local:   localstore.New[collection.FavoriteRef](mem, localstore.FavoritesKey, nil),
		Remote:  synchronizer.NewFavoritesRemote(client),
		Reducer: collection.FavoritesReducer{},
	})
	require.NoError(t, err)
	checkoutClient, err := checkout.NewClient(cartSync, client, nil)
	require.NoError(t, err)
	t.Cleanup(cartSync.WaitIdle)
	t.Cleanup(favSync.WaitIdle)

	out := &bytes.Buffer{}
	return &shell{
		catalog: catalog.New([]catalog.Product{
			{ID: "p1", Name: "Spinning rod", Price: decimal.NewFromInt(100), Category: "rods"},
			{ID: "p2", Name: "Reel", Price: decimal.NewFromInt(40), Category: "reels"},
		}, nil),
		client:    client,
		session:   session,
		cart:      cartSync,
		favorites: favSync,
		checkout:  checkoutClient,
		avatars:   imagecache.New(imagecache.Options{}),
		out:       out,
	}, out
}

func TestGuestCommandsStayLocal(t *testing.T) {
	sh, out := testShell(t, "http://127.0.0.1:1")
	script := strings.Join([]string{"add p1 2", "add p1", "set p2 3", "add p2 3", "remove p2", "cart", "quit"}, "\n")

	require.NoError(t, sh.run(context.Background(), strings.NewReader(script)))

	require.Equal(t, 3, mustGet(t, sh.cart.Collection(), "p1").Quantity)
	require.False(t, sh.cart.Collection().Has("p2"))
	require.Contains(t, out.String(), "cart (guest, guest_active)")
	require.Contains(t, out.String(), "3 items, total 300.00")
}

func TestLoginFlushesGuestCart(t *testing.T) {
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	sh, out := testShell(t, srv.URL)
	script := "add p1 2\nlogin shopper@example.com secret123\n"
	require.NoError(t, sh.run(context.Background(), strings.NewReader(script)))

	require.Equal(t, synchronizer.AccountActive, sh.cart.State())
	require.Equal(t, backend.userID.String(), sh.cart.Scope().UserID)
	require.Equal(t, 2, backend.quantity("p1"))
	require.Equal(t, "token-1", sh.session.Token())
	require.Contains(t, out.String(), "signed in as shopper@example.com")
}

func TestCheckoutRequiresLogin(t *testing.T) {
	sh, out := testShell(t, "http://127.0.0.1:1")
	require.NoError(t, sh.run(context.Background(), strings.NewReader("add p1\ncheckout\n")))
	require.Contains(t, out.String(), "error: NOT_AUTHENTICATED")
}

func TestUnknownProductAndCommand(t *testing.T) {
	sh, out := testShell(t, "http://127.0.0.1:1")
	require.NoError(t, sh.run(context.Background(), strings.NewReader("add nope\nfrobnicate\n")))
	require.True(t, sh.cart.Collection().IsEmpty())
	require.Contains(t, out.String(), `unknown command "frobnicate"`)
}

func mustGet(t *testing.T, c collection.Collection[collection.LineItem], productID string) collection.LineItem {
	t.Helper()
	item, ok := c.Get(productID)
	require.True(t, ok, "expected %s in collection", productID)
	return item
}
