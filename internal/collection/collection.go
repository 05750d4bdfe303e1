// Package collection holds the cart and favorites collections shared by the
// guest and account scopes, plus the pure reducers that transform them.
//
// A Collection is immutable once built. Every reducer returns a new value and
// leaves its input untouched, so snapshots can be handed to callers freely.
package collection

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Entry is anything a collection can hold, keyed by product id.
type Entry interface {
	Key() string
}

// Flushable entries can be replayed against the account backend.
type Flushable interface {
	Entry
	AsProduct() Product
	FlushQuantity() int
}

// Collection maps product id to entry, preserving insertion order.
type Collection[E Entry] struct {
	entries *orderedmap.OrderedMap[string, E]
}

// New returns an empty collection.
func New[E Entry]() Collection[E] {
	return Collection[E]{entries: orderedmap.New[string, E]()}
}

// FromSlice builds a collection in slice order. A repeated key keeps its
// first position and the last value.
func FromSlice[E Entry](items []E) Collection[E] {
	out := New[E]()
	for _, item := range items {
		out.entries.Set(item.Key(), item)
	}
	return out
}

func (c Collection[E]) Len() int {
	if c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

func (c Collection[E]) IsEmpty() bool {
	return c.Len() == 0
}

func (c Collection[E]) Get(productID string) (E, bool) {
	if c.entries == nil {
		var zero E
		return zero, false
	}
	return c.entries.Get(productID)
}

func (c Collection[E]) Has(productID string) bool {
	_, ok := c.Get(productID)
	return ok
}

// Items returns the entries in insertion order.
func (c Collection[E]) Items() []E {
	out := make([]E, 0, c.Len())
	c.each(func(item E) { out = append(out, item) })
	return out
}

// Keys returns the product ids in insertion order.
func (c Collection[E]) Keys() []string {
	out := make([]string, 0, c.Len())
	c.each(func(item E) { out = append(out, item.Key()) })
	return out
}

// Equal reports whether both collections hold the same keys in the same order
// and eq holds for every pair of entries.
func (c Collection[E]) Equal(other Collection[E], eq func(a, b E) bool) bool {
	if c.Len() != other.Len() {
		return false
	}
	left, right := c.Items(), other.Items()
	for i := range left {
		if left[i].Key() != right[i].Key() || !eq(left[i], right[i]) {
			return false
		}
	}
	return true
}

// Put returns a copy with item stored under its key. An existing key keeps
// its position.
func (c Collection[E]) Put(item E) Collection[E] {
	out := c.clone()
	out.entries.Set(item.Key(), item)
	return out
}

// Without returns a copy without productID.
func (c Collection[E]) Without(productID string) Collection[E] {
	if !c.Has(productID) {
		return c
	}
	out := c.clone()
	out.entries.Delete(productID)
	return out
}

func (c Collection[E]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Items())
}

func (c *Collection[E]) UnmarshalJSON(data []byte) error {
	var items []E
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*c = FromSlice(items)
	return nil
}

func (c Collection[E]) clone() Collection[E] {
	out := New[E]()
	c.each(func(item E) { out.entries.Set(item.Key(), item) })
	return out
}

func (c Collection[E]) each(fn func(E)) {
	if c.entries == nil {
		return
	}
	for pair := c.entries.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Value)
	}
}
