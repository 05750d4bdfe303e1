package synchronizer

import (
	"context"

	"github.com/akvaproffi/storefront/internal/collection"
	"github.com/akvaproffi/storefront/internal/remote"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/akvaproffi/storefront/pkg/metrics"
)

// mutation describes one scope-polymorphic edit. next is the reducer step,
// send is the remote call and confirm folds its answer into the snapshot.
type mutation[E collection.Flushable, T any] struct {
	op      string
	key     string
	next    func(collection.Collection[E]) (collection.Collection[E], error)
	send    func(context.Context) remote.Result[T]
	confirm func(collection.Collection[E], T) collection.Collection[E]
}

// AddOrIncrement adds delta of p, or inserts p for favorites.
func (s *Synchronizer[E]) AddOrIncrement(ctx context.Context, p collection.Product, delta int) error {
	return apply(ctx, s, mutation[E, E]{
		op:  "add",
		key: p.ID,
		next: func(c collection.Collection[E]) (collection.Collection[E], error) {
			return s.reducer.AddOrIncrement(c, p, delta)
		},
		send: func(ctx context.Context) remote.Result[E] {
			return s.remote.Upsert(ctx, p, delta)
		},
		confirm: func(c collection.Collection[E], entry E) collection.Collection[E] {
			return c.Put(entry)
		},
	})
}

// SetQuantity overwrites the quantity of productID; qty <= 0 removes it.
// The backend only accepts zero as the removal quantity.
func (s *Synchronizer[E]) SetQuantity(ctx context.Context, productID string, qty int) error {
	qty = max(qty, 0)
	return apply(ctx, s, mutation[E, QuantityChange[E]]{
		op:  "set_quantity",
		key: productID,
		next: func(c collection.Collection[E]) (collection.Collection[E], error) {
			return s.reducer.SetQuantity(c, productID, qty)
		},
		send: func(ctx context.Context) remote.Result[QuantityChange[E]] {
			return s.remote.SetQuantity(ctx, productID, qty)
		},
		confirm: func(c collection.Collection[E], change QuantityChange[E]) collection.Collection[E] {
			if change.Removed {
				return c.Without(productID)
			}
			return c.Put(change.Entry)
		},
	})
}

// Remove drops productID. Absent products are not an error.
func (s *Synchronizer[E]) Remove(ctx context.Context, productID string) error {
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return apply(ctx, s, mutation[E, bool]{
		op:  "remove",
		key: productID,
		next: func(c collection.Collection[E]) (collection.Collection[E], error) {
			return collection.Remove(c, productID), nil
		},
		send: func(ctx context.Context) remote.Result[bool] {
			return s.remote.Remove(ctx, productID)
		},
		confirm: func(c collection.Collection[E], _ bool) collection.Collection[E] {
			return c.Without(productID)
		},
	})
}

// ClearAll empties the collection.
func (s *Synchronizer[E]) ClearAll(ctx context.Context) error {
	return apply(ctx, s, mutation[E, struct{}]{
		op:  "clear",
		key: clearAllKey,
		next: func(c collection.Collection[E]) (collection.Collection[E], error) {
			return collection.ClearAll(c), nil
		},
		send: s.remote.Clear,
		confirm: func(collection.Collection[E], struct{}) collection.Collection[E] {
			return collection.New[E]()
		},
	})
}

func apply[E collection.Flushable, T any](ctx context.Context, s *Synchronizer[E], m mutation[E, T]) error {
	s.mu.Lock()
	scope := s.scope
	ctx = s.logg.WithField(s.logCtx(ctx, scope), "op", m.op)
	if m.key != clearAllKey {
		ctx = s.logg.WithProductID(ctx, m.key)
	}

	switch s.state {
	case Uninitialized:
		s.mu.Unlock()
		s.metrics.IncMutation(s.name, string(scope.Kind), metrics.OutcomeRejected)
		return pkgerrors.New(pkgerrors.CodeStateConflict, "synchronizer not started")
	case Syncing:
		s.mu.Unlock()
		s.metrics.IncMutation(s.name, string(scope.Kind), metrics.OutcomeRejected)
		return pkgerrors.New(pkgerrors.CodeStateConflict, "collection is syncing; retry after login completes")
	}

	next, err := m.next(s.snapshot)
	if err != nil {
		s.mu.Unlock()
		s.metrics.IncMutation(s.name, string(scope.Kind), metrics.OutcomeRejected)
		return err
	}

	if s.state == GuestActive {
		defer s.mu.Unlock()
		s.snapshot = next
		if next.IsEmpty() {
			s.local.Clear(ctx)
		} else {
			s.local.Save(ctx, next)
		}
		s.metrics.IncMutation(s.name, string(scope.Kind), metrics.OutcomeOK)
		return nil
	}

	if err := s.claimLocked(m.key); err != nil {
		s.mu.Unlock()
		s.metrics.IncMutation(s.name, string(scope.Kind), metrics.OutcomeRejected)
		s.logg.Debug(ctx, "sync.mutation_in_flight")
		return err
	}
	epoch := s.epoch
	s.snapshot = next
	s.markLocked(m.key)
	s.mu.Unlock()

	res := call(ctx, s.timeout, m.send)

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.logg.Debug(ctx, "sync.mutation_discarded")
		return res.Err
	}
	delete(s.inflight, m.key)
	s.metrics.IncMutation(s.name, string(scope.Kind), outcomeFor(res.Kind))
	if res.OK() {
		s.snapshot = m.confirm(s.snapshot, res.Value)
		s.confirmLocked(m.key)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logg.WarnErr(ctx, "sync.mutation_failed", res.Err)
	s.reconcileInBackground(ctx)
	return res.Err
}

// claimLocked takes the in-flight guard for key. A clear needs the whole
// collection idle; any other key is blocked by a clear or by itself.
func (s *Synchronizer[E]) claimLocked(key string) error {
	_, clearing := s.inflight[clearAllKey]
	_, busy := s.inflight[key]
	if clearing || busy || (key == clearAllKey && len(s.inflight) > 0) {
		return pkgerrors.New(pkgerrors.CodeInFlight, "a change to this item is already in progress").
			WithDetails(map[string]any{"product_id": key})
	}
	s.inflight[key] = struct{}{}
	return nil
}

func (s *Synchronizer[E]) markLocked(key string) {
	if key == clearAllKey {
		s.unconfirmed = map[string]struct{}{clearAllKey: {}}
		return
	}
	s.unconfirmed[key] = struct{}{}
}

func (s *Synchronizer[E]) confirmLocked(key string) {
	if key == clearAllKey {
		s.unconfirmed = map[string]struct{}{}
		return
	}
	delete(s.unconfirmed, key)
}
