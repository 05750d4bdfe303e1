package checkout

import (
	"context"

	"github.com/akvaproffi/storefront/internal/cart"
	"github.com/akvaproffi/storefront/internal/orders"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/akvaproffi/storefront/pkg/logger"
	"github.com/akvaproffi/storefront/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type cartStore interface {
	List(ctx context.Context, userID uuid.UUID) (cart.CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type paymentMethodCounter interface {
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
}

type orderCreator interface {
	CreateAtomic(ctx context.Context, input orders.CreateInput) (orders.OrderDTO, error)
}

// Service turns an account cart into an order.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID) (orders.OrderDTO, error)
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Cart           cartStore
	PaymentMethods paymentMethodCounter
	Orders         orderCreator
	Metrics        *metrics.CheckoutMetrics
	Logger         *logger.Logger
}

type service struct {
	cart     cartStore
	payments paymentMethodCounter
	orders   orderCreator
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
}

// NewService wires the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart service required")
	}
	if params.PaymentMethods == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment method service required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		cart:     params.Cart,
		payments: params.PaymentMethods,
		orders:   params.Orders,
		metrics:  params.Metrics,
		logg:     logg,
	}, nil
}

// PlaceOrder checks the preconditions in order (identity, payment method,
// non-empty cart), then creates the order from the stored cart rows. The cart
// is cleared only after the order transaction has committed.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID) (orders.OrderDTO, error) {
	order, err := s.placeOrder(ctx, userID)
	if err != nil {
		s.metrics.IncAttempt(string(pkgerrors.CodeOf(err)))
		return orders.OrderDTO{}, err
	}
	s.metrics.IncAttempt(metrics.OutcomeOK)
	s.metrics.ObserveAmount(order.Total.InexactFloat64())
	return order, nil
}

func (s *service) placeOrder(ctx context.Context, userID uuid.UUID) (orders.OrderDTO, error) {
	if userID == uuid.Nil {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "sign in to place an order")
	}
	ctx = s.logg.WithUserID(ctx, userID.String())

	count, err := s.payments.Count(ctx, userID)
	if err != nil {
		return orders.OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count payment methods")
	}
	if count == 0 {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeNoPaymentMethod, "add a payment method to your profile before placing an order")
	}

	current, err := s.cart.List(ctx, userID)
	if err != nil {
		return orders.OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(current.Items) == 0 {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	input := orders.CreateInput{
		UserID:      userID,
		Items:       make([]orders.ItemInput, 0, len(current.Items)),
		TotalAmount: decimal.Zero,
	}
	for _, item := range current.Items {
		input.Items = append(input.Items, orders.ItemInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
		input.TotalAmount = input.TotalAmount.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order, err := s.orders.CreateAtomic(ctx, input)
	if err != nil {
		return orders.OrderDTO{}, err
	}

	if err := s.cart.Clear(ctx, userID); err != nil {
		s.logg.WarnErr(ctx, "checkout.clear_cart_failed", err)
	}
	s.logg.Info(s.logg.WithField(ctx, "order_number", order.OrderNumber), "checkout.order_placed")
	return order, nil
}
