package synchronizer

import (
	"context"

	"github.com/akvaproffi/storefront/internal/collection"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/akvaproffi/storefront/pkg/metrics"
)

// Reconcile retries the flush of any guest entries still in the local store
// and replaces the snapshot with the account collection. Entries with a
// mutation in flight keep their optimistic value. Concurrent callers share
// one run. Outside AccountActive it does nothing.
func (s *Synchronizer[E]) Reconcile(ctx context.Context) error {
	_, err, _ := s.group.Do("reconcile", func() (any, error) {
		return nil, s.reconcile(ctx)
	})
	return err
}

func (s *Synchronizer[E]) reconcile(ctx context.Context) error {
	s.mu.Lock()
	if s.state != AccountActive {
		s.mu.Unlock()
		return nil
	}
	epoch := s.epoch
	ctx = s.logCtx(ctx, s.scope)
	s.mu.Unlock()

	flushed := s.flush(ctx, s.local.Load(ctx))
	listed := call(ctx, s.timeout, s.remote.List)
	if !listed.OK() {
		s.metrics.IncReconcile(s.name, outcomeFor(listed.Kind))
		s.logg.WarnErr(ctx, "sync.reconcile_failed", listed.Err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, listed.Err, "reconcile failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.state != AccountActive {
		return nil
	}
	if _, clearing := s.inflight[clearAllKey]; clearing {
		s.metrics.IncReconcile(s.name, metrics.OutcomeRejected)
		return pkgerrors.New(pkgerrors.CodeInFlight, "clear in progress; reconcile skipped")
	}

	next := collection.FromSlice(listed.Value)
	unconfirmed := keySet(flushed.failed)
	for key := range s.inflight {
		if current, ok := s.snapshot.Get(key); ok {
			next = next.Put(current)
		} else {
			next = next.Without(key)
		}
		unconfirmed[key] = struct{}{}
	}
	s.snapshot = s.overlay(ctx, next, flushed.failed)
	s.unconfirmed = unconfirmed

	if flushed.err != nil {
		s.metrics.IncReconcile(s.name, metrics.OutcomeFailed)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, flushed.err, "guest entries not fully synced")
	}
	s.metrics.IncReconcile(s.name, metrics.OutcomeOK)
	s.logg.Debug(ctx, "sync.reconciled")
	return nil
}

// reconcileInBackground schedules a reconcile detached from the caller's
// cancellation.
func (s *Synchronizer[E]) reconcileInBackground(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		if err := s.Reconcile(ctx); err != nil {
			s.logg.WarnErr(ctx, "sync.background_reconcile_failed", err)
		}
	}()
}
