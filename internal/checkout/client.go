package checkout

import (
	"context"

	"github.com/akvaproffi/storefront/internal/collection"
	"github.com/akvaproffi/storefront/internal/orders"
	"github.com/akvaproffi/storefront/internal/remote"
	"github.com/akvaproffi/storefront/internal/synchronizer"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/akvaproffi/storefront/pkg/logger"
)

type cartSession interface {
	Scope() synchronizer.OwnerScope
	Collection() collection.Collection[collection.LineItem]
	Pending() []string
	Reconcile(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

type orderPlacer interface {
	PlaceOrder(ctx context.Context) remote.Result[orders.OrderDTO]
}

// Client places orders from the shopper side. The Persistence Service
// recomputes the total and checks payment methods; the local checks only
// avoid a round trip that is bound to fail.
type Client struct {
	cart   cartSession
	orders orderPlacer
	logg   *logger.Logger
}

func NewClient(cart cartSession, placer orderPlacer, logg *logger.Logger) (*Client, error) {
	if cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart synchronizer required")
	}
	if placer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order placer required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Client{cart: cart, orders: placer, logg: logg}, nil
}

// PlaceOrder checks out the account cart and clears it once the order is
// committed. A failed order leaves the cart untouched.
func (c *Client) PlaceOrder(ctx context.Context) remote.Result[orders.OrderDTO] {
	scope := c.cart.Scope()
	if !scope.IsAccount() {
		return precondition[orders.OrderDTO](pkgerrors.CodeNotAuthenticated, "log in to place an order")
	}
	ctx = c.logg.WithUserID(ctx, scope.UserID)

	if len(c.cart.Pending()) > 0 {
		if err := c.cart.Reconcile(ctx); err != nil {
			return remote.Result[orders.OrderDTO]{
				Kind: remote.KindTransport,
				Err:  pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart is not in sync; try again"),
			}
		}
	}
	if c.cart.Collection().IsEmpty() {
		return precondition[orders.OrderDTO](pkgerrors.CodeEmptyCart, "cart is empty")
	}

	res := c.orders.PlaceOrder(ctx)
	if !res.OK() {
		c.logg.WarnErr(ctx, "checkout.place_order_failed", res.Err)
		return res
	}
	if err := c.cart.ClearAll(ctx); err != nil {
		c.logg.WarnErr(ctx, "checkout.clear_cart_failed", err)
		// The server empties the cart on commit; pull that state instead.
		if err := c.cart.Reconcile(ctx); err != nil {
			c.logg.WarnErr(ctx, "checkout.cart_resync_failed", err)
		}
	}
	c.logg.Info(c.logg.WithField(ctx, "order_number", res.Value.OrderNumber), "checkout.order_placed")
	return res
}

func precondition[T any](code pkgerrors.Code, msg string) remote.Result[T] {
	return remote.Result[T]{Kind: remote.KindPrecondition, Err: pkgerrors.New(code, msg)}
}
