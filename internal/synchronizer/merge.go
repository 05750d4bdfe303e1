package synchronizer

import (
	"context"

	"github.com/akvaproffi/storefront/internal/collection"
	"github.com/akvaproffi/storefront/internal/remote"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"go.uber.org/multierr"
)

type mergeResult[E collection.Flushable] struct {
	snapshot    collection.Collection[E]
	unconfirmed map[string]struct{}
}

type flushResult[E collection.Flushable] struct {
	// confirmed holds the server's answer for every flushed entry.
	confirmed []E
	failed    collection.Collection[E]
	err       error
}

// merge runs the login flush. It never touches synchronizer state; Login
// installs the result.
func (s *Synchronizer[E]) merge(ctx context.Context) (mergeResult[E], error) {
	server := call(ctx, s.timeout, s.remote.List)
	guest := s.local.Load(ctx)

	if !server.OK() {
		s.metrics.IncFlush(s.name, outcomeFor(server.Kind))
		return mergeResult[E]{snapshot: guest, unconfirmed: keySet(guest)},
			pkgerrors.Wrap(pkgerrors.CodeDependency, server.Err, "account collection unavailable; guest entries kept locally")
	}

	flushed := s.flush(ctx, guest)
	snapshot, err := s.relist(ctx, collection.FromSlice(server.Value), flushed)
	snapshot = s.overlay(ctx, snapshot, flushed.failed)

	merged := mergeResult[E]{snapshot: snapshot, unconfirmed: keySet(flushed.failed)}
	errs := multierr.Append(flushed.err, err)
	if errs != nil {
		return merged, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "guest entries not fully synced")
	}
	return merged, nil
}

// flush replays guest entries one at a time in collection order. Only
// entries the server rejected stay in the local store.
func (s *Synchronizer[E]) flush(ctx context.Context, guest collection.Collection[E]) flushResult[E] {
	out := flushResult[E]{failed: collection.New[E]()}
	if guest.IsEmpty() {
		return out
	}
	for _, entry := range guest.Items() {
		product := entry.AsProduct()
		qty := entry.FlushQuantity()
		res := call(ctx, s.timeout, func(ctx context.Context) remote.Result[E] {
			return s.remote.Upsert(ctx, product, qty)
		})
		s.metrics.IncFlush(s.name, outcomeFor(res.Kind))
		if !res.OK() {
			s.logg.WarnErr(s.logg.WithProductID(ctx, entry.Key()), "sync.flush_failed", res.Err)
			out.failed = out.failed.Put(entry)
			out.err = multierr.Append(out.err, res.Err)
			continue
		}
		out.confirmed = append(out.confirmed, res.Value)
	}
	if out.failed.IsEmpty() {
		s.local.Clear(ctx)
	} else {
		s.local.Save(ctx, out.failed)
	}
	return out
}

// relist fetches the authoritative collection after a flush. If that fails
// the flushed answers are laid over base instead.
func (s *Synchronizer[E]) relist(ctx context.Context, base collection.Collection[E], flushed flushResult[E]) (collection.Collection[E], error) {
	if len(flushed.confirmed) == 0 && flushed.failed.IsEmpty() {
		return base, nil
	}
	after := call(ctx, s.timeout, s.remote.List)
	if after.OK() {
		return collection.FromSlice(after.Value), nil
	}
	for _, entry := range flushed.confirmed {
		base = base.Put(entry)
	}
	return base, after.Err
}

// overlay folds unflushed guest entries onto snapshot so the owner still
// sees them while they wait for the next reconcile.
func (s *Synchronizer[E]) overlay(ctx context.Context, snapshot, pending collection.Collection[E]) collection.Collection[E] {
	for _, entry := range pending.Items() {
		next, err := s.reducer.AddOrIncrement(snapshot, entry.AsProduct(), entry.FlushQuantity())
		if err != nil {
			s.logg.WarnErr(s.logg.WithProductID(ctx, entry.Key()), "sync.overlay_skipped", err)
			continue
		}
		snapshot = next
	}
	return snapshot
}

func keySet[E collection.Entry](c collection.Collection[E]) map[string]struct{} {
	out := make(map[string]struct{}, c.Len())
	for _, key := range c.Keys() {
		out[key] = struct{}{}
	}
	return out
}
