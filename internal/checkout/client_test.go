package checkout

import (
	"context"
	"testing"

	"github.com/akvaproffi/storefront/internal/collection"
	"github.com/akvaproffi/storefront/internal/orders"
	"github.com/akvaproffi/storefront/internal/remote"
	"github.com/akvaproffi/storefront/internal/synchronizer"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubSession struct {
	scope      synchronizer.OwnerScope
	items      collection.Collection[collection.LineItem]
	pending    []string
	reconciled int
	reconErr   error
	clears     int
	clearErr   error
	server     *collection.Collection[collection.LineItem]
}

func (s *stubSession) Scope() synchronizer.OwnerScope { return s.scope }

func (s *stubSession) Collection() collection.Collection[collection.LineItem] { return s.items }

func (s *stubSession) Pending() []string { return s.pending }

func (s *stubSession) Reconcile(context.Context) error {
	s.reconciled++
	if s.reconErr == nil {
		s.pending = nil
		if s.server != nil {
			s.items = *s.server
		}
	}
	return s.reconErr
}

func (s *stubSession) ClearAll(context.Context) error {
	s.clears++
	if s.clearErr == nil {
		s.items = collection.New[collection.LineItem]()
	}
	return s.clearErr
}

type stubPlacer struct {
	calls  int
	result remote.Result[orders.OrderDTO]
}

func (s *stubPlacer) PlaceOrder(context.Context) remote.Result[orders.OrderDTO] {
	s.calls++
	return s.result
}

func accountCart() *stubSession {
	items := collection.FromSlice([]collection.LineItem{{
		ID: "srv-1", ProductID: "rod-1", ProductName: "rod", Price: decimal.NewFromInt(75000), Quantity: 2,
	}})
	return &stubSession{scope: synchronizer.AccountScope("user-1"), items: items}
}

func newTestClient(t *testing.T, s *stubSession, p *stubPlacer) *Client {
	t.Helper()
	c, err := NewClient(s, p, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestClientPlaceOrderRequiresAccount(t *testing.T) {
	s := accountCart()
	s.scope = synchronizer.GuestScope()
	p := &stubPlacer{}

	res := newTestClient(t, s, p).PlaceOrder(context.Background())
	if res.Kind != remote.KindPrecondition || !pkgerrors.IsCode(res.Err, pkgerrors.CodeNotAuthenticated) {
		t.Fatalf("expected not authenticated precondition, got %v %v", res.Kind, res.Err)
	}
	if p.calls != 0 || s.clears != 0 {
		t.Fatalf("expected no calls, placer=%d clears=%d", p.calls, s.clears)
	}
}

func TestClientPlaceOrderRejectsEmptyCart(t *testing.T) {
	s := accountCart()
	s.items = collection.New[collection.LineItem]()
	p := &stubPlacer{}

	res := newTestClient(t, s, p).PlaceOrder(context.Background())
	if !pkgerrors.IsCode(res.Err, pkgerrors.CodeEmptyCart) {
		t.Fatalf("expected empty cart, got %v", res.Err)
	}
	if p.calls != 0 {
		t.Fatalf("expected no order call, got %d", p.calls)
	}
}

func TestClientPlaceOrderClearsCartAfterCommit(t *testing.T) {
	s := accountCart()
	p := &stubPlacer{result: remote.Result[orders.OrderDTO]{Value: orders.OrderDTO{
		OrderNumber: "ORD-20260309-AB12CD",
		Total:       decimal.NewFromInt(150000),
	}}}

	res := newTestClient(t, s, p).PlaceOrder(context.Background())
	if !res.OK() {
		t.Fatalf("place order: %v", res.Err)
	}
	if !res.Value.Total.Equal(decimal.NewFromInt(150000)) {
		t.Fatalf("expected total 150000, got %s", res.Value.Total)
	}
	if s.clears != 1 || !s.items.IsEmpty() {
		t.Fatalf("expected cart cleared once, clears=%d len=%d", s.clears, s.items.Len())
	}
}

func TestClientPlaceOrderFailureLeavesCart(t *testing.T) {
	s := accountCart()
	p := &stubPlacer{result: remote.Result[orders.OrderDTO]{
		Kind: remote.KindPrecondition,
		Err:  pkgerrors.New(pkgerrors.CodeNoPaymentMethod, "add a payment method"),
	}}

	res := newTestClient(t, s, p).PlaceOrder(context.Background())
	if !pkgerrors.IsCode(res.Err, pkgerrors.CodeNoPaymentMethod) {
		t.Fatalf("expected no payment method, got %v", res.Err)
	}
	if s.clears != 0 || s.items.Len() != 1 {
		t.Fatalf("expected cart untouched, clears=%d len=%d", s.clears, s.items.Len())
	}
}

func TestClientPlaceOrderReconcilesPendingFirst(t *testing.T) {
	s := accountCart()
	s.pending = []string{"rod-1"}
	s.reconErr = pkgerrors.New(pkgerrors.CodeDependency, "down")
	p := &stubPlacer{}

	res := newTestClient(t, s, p).PlaceOrder(context.Background())
	if !res.Retryable() || !pkgerrors.IsCode(res.Err, pkgerrors.CodeDependency) {
		t.Fatalf("expected retryable dependency failure, got %v %v", res.Kind, res.Err)
	}
	if p.calls != 0 {
		t.Fatalf("expected no order call while cart unsynced")
	}

	s.reconErr = nil
	p.result = remote.Result[orders.OrderDTO]{Value: orders.OrderDTO{OrderNumber: "ORD-1"}}
	if res := newTestClient(t, s, p).PlaceOrder(context.Background()); !res.OK() {
		t.Fatalf("place order after reconcile: %v", res.Err)
	}
	if s.reconciled != 2 || p.calls != 1 {
		t.Fatalf("expected 2 reconciles and 1 order, got %d %d", s.reconciled, p.calls)
	}
}

func TestClientPlaceOrderSucceedsWhenLocalClearFails(t *testing.T) {
	s := accountCart()
	s.clearErr = pkgerrors.New(pkgerrors.CodeTimeout, "slow")
	p := &stubPlacer{result: remote.Result[orders.OrderDTO]{Value: orders.OrderDTO{OrderNumber: "ORD-2"}}}

	server := collection.New[collection.LineItem]()
	s.server = &server

	if res := newTestClient(t, s, p).PlaceOrder(context.Background()); !res.OK() {
		t.Fatalf("expected order despite clear failure: %v", res.Err)
	}
	if s.reconciled != 1 || !s.items.IsEmpty() {
		t.Fatalf("expected cart resynced from server, reconciles=%d len=%d", s.reconciled, s.items.Len())
	}
}
