package synchronizer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/akvaproffi/storefront/internal/collection"
	"github.com/akvaproffi/storefront/internal/localstore"
	"github.com/akvaproffi/storefront/internal/remote"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/akvaproffi/storefront/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func product(id string, price int64) collection.Product {
	return collection.Product{ID: id, Name: "product " + id, Price: decimal.NewFromInt(price), Image: "/img/" + id + ".jpg", Category: "rods"}
}

func unavailable[T any]() remote.Result[T] {
	return remote.Result[T]{Kind: remote.KindTransport, Err: pkgerrors.New(pkgerrors.CodeDependency, "persistence service unreachable")}
}

func serverLine(id string, price int64, qty int) collection.LineItem {
	return collection.LineItem{
		ID:          "srv-" + id,
		ProductID:   id,
		ProductName: "product " + id,
		Price:       decimal.NewFromInt(price),
		Quantity:    qty,
		TotalPrice:  decimal.NewFromInt(price * int64(qty)),
	}
}

// fakeCart is an in-memory account cart with increment semantics.
type fakeCart struct {
	mu      sync.Mutex
	items   collection.Collection[collection.LineItem]
	listErr bool
	failing map[string]bool
	upserts []string

	onList   func()
	onUpsert func(ctx context.Context, productID string) bool
}

func newFakeCart(items ...collection.LineItem) *fakeCart {
	return &fakeCart{items: collection.FromSlice(items), failing: map[string]bool{}}
}

func (f *fakeCart) List(context.Context) remote.Result[[]collection.LineItem] {
	f.mu.Lock()
	hook := f.onList
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr {
		return unavailable[[]collection.LineItem]()
	}
	return remote.Result[[]collection.LineItem]{Value: f.items.Items()}
}

func (f *fakeCart) Upsert(ctx context.Context, p collection.Product, qty int) remote.Result[collection.LineItem] {
	f.mu.Lock()
	hook := f.onUpsert
	f.mu.Unlock()
	if hook != nil && !hook(ctx, p.ID) {
		return unavailable[collection.LineItem]()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, p.ID)
	if f.failing[p.ID] {
		return unavailable[collection.LineItem]()
	}
	item, ok := f.items.Get(p.ID)
	if !ok {
		item = collection.LineItem{ID: "srv-" + p.ID, ProductID: p.ID, ProductName: p.Name, Price: p.Price, Image: p.Image}
	}
	item.Quantity += qty
	item.TotalPrice = item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	f.items = f.items.Put(item)
	return remote.Result[collection.LineItem]{Value: item}
}

func (f *fakeCart) SetQuantity(_ context.Context, productID string, qty int) remote.Result[QuantityChange[collection.LineItem]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[productID] {
		return unavailable[QuantityChange[collection.LineItem]]()
	}
	if qty < 0 {
		return remote.Result[QuantityChange[collection.LineItem]]{
			Kind: remote.KindValidation,
			Err:  pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative"),
		}
	}
	if qty == 0 {
		f.items = f.items.Without(productID)
		return remote.Result[QuantityChange[collection.LineItem]]{Value: QuantityChange[collection.LineItem]{Removed: true}}
	}
	item, ok := f.items.Get(productID)
	if !ok {
		return remote.Result[QuantityChange[collection.LineItem]]{
			Kind: remote.KindNotFound,
			Err:  pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found"),
		}
	}
	item.Quantity = qty
	item.TotalPrice = item.Price.Mul(decimal.NewFromInt(int64(qty)))
	f.items = f.items.Put(item)
	return remote.Result[QuantityChange[collection.LineItem]]{Value: QuantityChange[collection.LineItem]{Entry: item}}
}

func (f *fakeCart) Remove(_ context.Context, productID string) remote.Result[bool] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[productID] {
		return unavailable[bool]()
	}
	existed := f.items.Has(productID)
	f.items = f.items.Without(productID)
	return remote.Result[bool]{Value: existed}
}

func (f *fakeCart) Clear(context.Context) remote.Result[struct{}] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = collection.New[collection.LineItem]()
	return remote.Result[struct{}]{}
}

func (f *fakeCart) quantity(productID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, _ := f.items.Get(productID)
	return item.Quantity
}

func (f *fakeCart) upsertCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.upserts...)
}

func (f *fakeCart) set(fn func(f *fakeCart)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// fakeFavorites inserts if absent.
type fakeFavorites struct {
	mu    sync.Mutex
	items collection.Collection[collection.FavoriteRef]
	calls int
}

func (f *fakeFavorites) List(context.Context) remote.Result[[]collection.FavoriteRef] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return remote.Result[[]collection.FavoriteRef]{Value: f.items.Items()}
}

func (f *fakeFavorites) Upsert(_ context.Context, p collection.Product, _ int) remote.Result[collection.FavoriteRef] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if existing, ok := f.items.Get(p.ID); ok {
		return remote.Result[collection.FavoriteRef]{Value: existing}
	}
	fav := collection.FavoriteRef{ID: "fav-" + p.ID, ProductID: p.ID, ProductName: p.Name, Price: p.Price, Image: p.Image, Category: p.Category}
	f.items = f.items.Put(fav)
	return remote.Result[collection.FavoriteRef]{Value: fav}
}

func (f *fakeFavorites) SetQuantity(context.Context, string, int) remote.Result[QuantityChange[collection.FavoriteRef]] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return remote.Result[QuantityChange[collection.FavoriteRef]]{
		Kind: remote.KindValidation,
		Err:  pkgerrors.New(pkgerrors.CodeValidation, "favorites have no quantity"),
	}
}

func (f *fakeFavorites) Remove(_ context.Context, productID string) remote.Result[bool] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	existed := f.items.Has(productID)
	f.items = f.items.Without(productID)
	return remote.Result[bool]{Value: existed}
}

func (f *fakeFavorites) Clear(context.Context) remote.Result[struct{}] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.items = collection.New[collection.FavoriteRef]()
	return remote.Result[struct{}]{}
}

func cartStore() (*localstore.MemoryStore, *localstore.Adapter[collection.LineItem]) {
	mem := localstore.NewMemoryStore()
	return mem, localstore.New[collection.LineItem](mem, localstore.CartKey, nil)
}

func newCartSync(t *testing.T, local localstore.Store[collection.LineItem], rem Remote[collection.LineItem], timeout time.Duration) *Synchronizer[collection.LineItem] {
	t.Helper()
	s, err := New(Options[collection.LineItem]{
		Name:            "cart",
		Local:           local,
		Remote:          rem,
		Reducer:         collection.CartReducer{},
		InFlightTimeout: timeout,
		Metrics:         metrics.NewSyncMetrics(prometheus.NewRegistry()),
	})
	require.NoError(t, err)
	t.Cleanup(s.WaitIdle)
	return s
}

func quantities(c collection.Collection[collection.LineItem]) map[string]int {
	out := map[string]int{}
	for _, item := range c.Items() {
		out[item.ProductID] = item.Quantity
	}
	return out
}
