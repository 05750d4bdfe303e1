// Package localstore persists the guest collections outside the account
// backend. Loads never fail: absent or corrupt data reads as an empty
// collection. Saves and clears are best-effort and only logged.
package localstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/akvaproffi/storefront/internal/collection"
	"github.com/akvaproffi/storefront/pkg/logger"
)

// Keys under which the guest collections are stored.
const (
	CartKey      = "akvaproffi_cart"
	FavoritesKey = "akvaproffi_favorites"
)

// ErrNotFound is returned by a Backend when nothing is stored under a key.
var ErrNotFound = errors.New("localstore: key not found")

var errInvalidQuantity = errors.New("localstore: stored quantity must be positive")

// Backend stores opaque blobs by key.
type Backend interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Store is the guest-side persistence contract the synchronizer uses.
type Store[E collection.Entry] interface {
	Load(ctx context.Context) collection.Collection[E]
	Save(ctx context.Context, c collection.Collection[E])
	Clear(ctx context.Context)
}

// Adapter encodes a collection as a JSON array under one key of a Backend.
// Entries that could not be replayed against the account backend are dropped
// on load.
type Adapter[E collection.Flushable] struct {
	backend Backend
	key     string
	logg    *logger.Logger
}

// New binds a collection kind to a backend key.
func New[E collection.Flushable](backend Backend, key string, logg *logger.Logger) *Adapter[E] {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Adapter[E]{backend: backend, key: key, logg: logg}
}

func (a *Adapter[E]) Load(ctx context.Context) collection.Collection[E] {
	data, err := a.backend.Read(ctx, a.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logg.WarnErr(a.fields(ctx), "localstore.load_failed", err)
		}
		return collection.New[E]()
	}
	if len(data) == 0 {
		return collection.New[E]()
	}
	var out collection.Collection[E]
	if err := json.Unmarshal(data, &out); err != nil {
		a.logg.WarnErr(a.fields(ctx), "localstore.corrupt_data", err)
		return collection.New[E]()
	}
	return a.valid(ctx, out)
}

func (a *Adapter[E]) valid(ctx context.Context, c collection.Collection[E]) collection.Collection[E] {
	for _, entry := range c.Items() {
		err := collection.ValidateProduct(entry.AsProduct())
		if err == nil && entry.FlushQuantity() < 1 {
			err = errInvalidQuantity
		}
		if err != nil {
			c = c.Without(entry.Key())
			a.logg.WarnErr(a.logg.WithProductID(a.fields(ctx), entry.Key()), "localstore.invalid_entry", err)
		}
	}
	return c
}

func (a *Adapter[E]) Save(ctx context.Context, c collection.Collection[E]) {
	data, err := json.Marshal(c)
	if err != nil {
		a.logg.WarnErr(a.fields(ctx), "localstore.encode_failed", err)
		return
	}
	if err := a.backend.Write(ctx, a.key, data); err != nil {
		a.logg.WarnErr(a.fields(ctx), "localstore.save_failed", err)
	}
}

func (a *Adapter[E]) Clear(ctx context.Context) {
	if err := a.backend.Delete(ctx, a.key); err != nil && !errors.Is(err, ErrNotFound) {
		a.logg.WarnErr(a.fields(ctx), "localstore.clear_failed", err)
	}
}

func (a *Adapter[E]) fields(ctx context.Context) context.Context {
	return a.logg.WithField(ctx, "store_key", a.key)
}
