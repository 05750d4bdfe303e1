// Package synchronizer keeps one cart or favorites collection in step with
// whoever owns it. Guests are served from the local store. Accounts are
// served from the Persistence Service with optimistic updates, and the
// transition between the two runs the guest-to-account merge.
package synchronizer

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/akvaproffi/storefront/internal/collection"
	"github.com/akvaproffi/storefront/internal/localstore"
	"github.com/akvaproffi/storefront/internal/remote"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/akvaproffi/storefront/pkg/logger"
	"github.com/akvaproffi/storefront/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// DefaultInFlightTimeout bounds every remote call the synchronizer makes.
const DefaultInFlightTimeout = 10 * time.Second

// clearAllKey guards a collection-wide clear in the in-flight set.
const clearAllKey = "*"

// Options wires a synchronizer for one collection kind.
type Options[E collection.Flushable] struct {
	Name    string
	Local   localstore.Store[E]
	Remote  Remote[E]
	Reducer collection.Reducer[E]

	// InFlightTimeout defaults to DefaultInFlightTimeout; negative disables it.
	InFlightTimeout time.Duration
	Metrics         *metrics.SyncMetrics
	Logger          *logger.Logger
}

// Synchronizer is safe for concurrent use.
type Synchronizer[E collection.Flushable] struct {
	name    string
	local   localstore.Store[E]
	remote  Remote[E]
	reducer collection.Reducer[E]
	timeout time.Duration
	metrics *metrics.SyncMetrics
	logg    *logger.Logger

	mu          sync.Mutex
	state       State
	scope       OwnerScope
	snapshot    collection.Collection[E]
	unconfirmed map[string]struct{}
	inflight    map[string]struct{}

	// epoch changes on every owner switch so late remote answers can be
	// recognised and dropped.
	epoch uint64

	group      singleflight.Group
	background sync.WaitGroup
}

// New validates opts and returns an Uninitialized synchronizer.
func New[E collection.Flushable](opts Options[E]) (*Synchronizer[E], error) {
	if opts.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "synchronizer name required")
	}
	if opts.Local == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "local store required")
	}
	if opts.Remote == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "remote store required")
	}
	if opts.Reducer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reducer required")
	}
	timeout := opts.InFlightTimeout
	if timeout == 0 {
		timeout = DefaultInFlightTimeout
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Synchronizer[E]{
		name:        opts.Name,
		local:       opts.Local,
		remote:      opts.Remote,
		reducer:     opts.Reducer,
		timeout:     timeout,
		metrics:     opts.Metrics,
		logg:        logg,
		state:       Uninitialized,
		scope:       GuestScope(),
		snapshot:    collection.New[E](),
		unconfirmed: map[string]struct{}{},
		inflight:    map[string]struct{}{},
	}, nil
}

// Start loads the guest collection. Calling it again is a no-op.
func (s *Synchronizer[E]) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked(ctx)
}

func (s *Synchronizer[E]) startLocked(ctx context.Context) {
	if s.state != Uninitialized {
		return
	}
	s.snapshot = s.local.Load(ctx)
	s.scope = GuestScope()
	s.state = GuestActive
	s.logg.Debug(s.logCtx(ctx, s.scope), "sync.started")
}

func (s *Synchronizer[E]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Synchronizer[E]) Scope() OwnerScope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope
}

// Collection returns the current snapshot.
func (s *Synchronizer[E]) Collection() collection.Collection[E] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Snapshot returns the collection together with per-entry confirmation.
func (s *Synchronizer[E]) Snapshot() View[E] {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := View[E]{State: s.state, Scope: s.scope, Collection: s.snapshot}
	for _, item := range s.snapshot.Items() {
		_, pending := s.unconfirmed[item.Key()]
		view.Entries = append(view.Entries, EntryView[E]{Entry: item, Confirmed: !pending})
	}
	return view
}

// Pending lists the keys whose optimistic value has not been confirmed by
// the backend, sorted.
func (s *Synchronizer[E]) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.unconfirmed))
	for key := range s.unconfirmed {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Login switches the owner to userID and merges the guest collection into
// the account. The synchronizer always ends AccountActive unless a logout
// raced the merge. A non-nil error with AccountActive means some guest
// entries are still waiting in the local store for the next Reconcile.
func (s *Synchronizer[E]) Login(ctx context.Context, userID string) error {
	if userID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	s.mu.Lock()
	s.startLocked(ctx)
	switch s.state {
	case Syncing:
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "a sync is already in progress")
	case AccountActive:
		active := s.scope.UserID
		s.mu.Unlock()
		if active == userID {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeStateConflict, "another account is active; log out first")
	}
	scope := AccountScope(userID)
	s.state = Syncing
	s.scope = scope
	s.epoch++
	epoch := s.epoch
	s.unconfirmed = map[string]struct{}{}
	s.inflight = map[string]struct{}{}
	s.mu.Unlock()

	ctx = s.logCtx(ctx, scope)
	merged, err := s.merge(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.logg.Info(ctx, "sync.login_superseded")
		return pkgerrors.New(pkgerrors.CodeStateConflict, "owner changed during sync")
	}
	s.state = AccountActive
	s.snapshot = merged.snapshot
	s.unconfirmed = merged.unconfirmed
	if err != nil {
		s.logg.WarnErr(ctx, "sync.login_partial", err)
		return err
	}
	s.logg.Info(ctx, "sync.login_merged")
	return nil
}

// Logout drops the account snapshot and any guest leftovers. Nothing is
// copied back to the local store. Logging out a guest is a no-op.
func (s *Synchronizer[E]) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Uninitialized || (s.state == GuestActive && !s.scope.IsAccount()) {
		s.startLocked(ctx)
		return
	}
	s.state = GuestActive
	s.scope = GuestScope()
	s.snapshot = collection.New[E]()
	s.unconfirmed = map[string]struct{}{}
	s.inflight = map[string]struct{}{}
	s.epoch++
	s.local.Clear(ctx)
	s.logg.Info(s.logCtx(ctx, s.scope), "sync.logged_out")
}

// WaitIdle blocks until background reconciles finish.
func (s *Synchronizer[E]) WaitIdle() {
	s.background.Wait()
}

func (s *Synchronizer[E]) logCtx(ctx context.Context, scope OwnerScope) context.Context {
	fields := map[string]any{"collection": s.name, "owner_scope": string(scope.Kind)}
	if scope.UserID != "" {
		fields["user_id"] = scope.UserID
	}
	return s.logg.WithFields(ctx, fields)
}

// call bounds fn by the in-flight timeout. A call that outlives it is
// abandoned and reported as a retryable timeout.
func call[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) remote.Result[T]) remote.Result[T] {
	if timeout < 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan remote.Result[T], 1)
	go func() { done <- fn(ctx) }()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return remote.Result[T]{
				Kind: remote.KindTimeout,
				Err:  pkgerrors.Wrap(pkgerrors.CodeTimeout, ctx.Err(), "remote call timed out"),
			}
		}
		return remote.Result[T]{
			Kind: remote.KindTransport,
			Err:  pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "remote call canceled"),
		}
	}
}

func outcomeFor(kind remote.ErrorKind) string {
	switch kind {
	case remote.KindNone:
		return metrics.OutcomeOK
	case remote.KindTimeout:
		return metrics.OutcomeTimeout
	}
	return metrics.OutcomeFailed
}
