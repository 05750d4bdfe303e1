package synchronizer

import (
	"context"

	"github.com/akvaproffi/storefront/internal/collection"
	"github.com/akvaproffi/storefront/internal/remote"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
)

// Remote is the account-side backend for one collection kind.
type Remote[E collection.Entry] interface {
	List(ctx context.Context) remote.Result[[]E]
	// Upsert creates the entry or increments it by qty.
	Upsert(ctx context.Context, p collection.Product, qty int) remote.Result[E]
	// SetQuantity reports removed=true when qty <= 0 dropped the entry.
	SetQuantity(ctx context.Context, productID string, qty int) remote.Result[QuantityChange[E]]
	Remove(ctx context.Context, productID string) remote.Result[bool]
	Clear(ctx context.Context) remote.Result[struct{}]
}

// QuantityChange is the server's answer to a quantity edit.
type QuantityChange[E collection.Entry] struct {
	Entry   E
	Removed bool
}

type cartRemote struct {
	client *remote.Client
}

// NewCartRemote adapts the HTTP client to the cart collection.
func NewCartRemote(client *remote.Client) Remote[collection.LineItem] {
	return cartRemote{client: client}
}

func (c cartRemote) List(ctx context.Context) remote.Result[[]collection.LineItem] {
	return c.client.ListCart(ctx)
}

func (c cartRemote) Upsert(ctx context.Context, p collection.Product, qty int) remote.Result[collection.LineItem] {
	return c.client.AddToCart(ctx, p, qty)
}

func (c cartRemote) SetQuantity(ctx context.Context, productID string, qty int) remote.Result[QuantityChange[collection.LineItem]] {
	res := c.client.SetCartQuantity(ctx, productID, qty)
	out := remote.Result[QuantityChange[collection.LineItem]]{Kind: res.Kind, Err: res.Err}
	out.Value.Removed = res.Value.Removed
	if res.Value.Item != nil {
		out.Value.Entry = *res.Value.Item
	}
	return out
}

func (c cartRemote) Remove(ctx context.Context, productID string) remote.Result[bool] {
	return c.client.RemoveFromCart(ctx, productID)
}

func (c cartRemote) Clear(ctx context.Context) remote.Result[struct{}] {
	return c.client.ClearCart(ctx)
}

type favoritesRemote struct {
	client *remote.Client
}

// NewFavoritesRemote adapts the HTTP client to the favorites collection.
// Quantity edits fail with VALIDATION_ERROR. Clear removes every listed
// favorite one call at a time.
func NewFavoritesRemote(client *remote.Client) Remote[collection.FavoriteRef] {
	return favoritesRemote{client: client}
}

func (f favoritesRemote) List(ctx context.Context) remote.Result[[]collection.FavoriteRef] {
	return f.client.ListFavorites(ctx)
}

func (f favoritesRemote) Upsert(ctx context.Context, p collection.Product, _ int) remote.Result[collection.FavoriteRef] {
	return f.client.AddFavorite(ctx, p)
}

func (f favoritesRemote) SetQuantity(context.Context, string, int) remote.Result[QuantityChange[collection.FavoriteRef]] {
	return remote.Result[QuantityChange[collection.FavoriteRef]]{
		Kind: remote.KindValidation,
		Err:  pkgerrors.New(pkgerrors.CodeValidation, "favorites have no quantity"),
	}
}

func (f favoritesRemote) Remove(ctx context.Context, productID string) remote.Result[bool] {
	return f.client.RemoveFavorite(ctx, productID)
}

func (f favoritesRemote) Clear(ctx context.Context) remote.Result[struct{}] {
	listed := f.client.ListFavorites(ctx)
	if !listed.OK() {
		return remote.Result[struct{}]{Kind: listed.Kind, Err: listed.Err}
	}
	for _, fav := range listed.Value {
		if res := f.client.RemoveFavorite(ctx, fav.ProductID); !res.OK() {
			return remote.Result[struct{}]{Kind: res.Kind, Err: res.Err}
		}
	}
	return remote.Result[struct{}]{}
}
