package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akvaproffi/storefront/pkg/db"
	"github.com/akvaproffi/storefront/pkg/db/models"
	"github.com/akvaproffi/storefront/pkg/enums"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/akvaproffi/storefront/pkg/pagination"
	"github.com/akvaproffi/storefront/pkg/security"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultOrderNumberPrefix = "ORD"
	orderNumberSuffixLen     = 6
	maxOrderNumberAttempts   = 3
)

// Service creates and lists orders.
type Service interface {
	CreateAtomic(ctx context.Context, input CreateInput) (OrderDTO, error)
	List(ctx context.Context, userID uuid.UUID, page pagination.Params) (ListResult, error)
	Stats(ctx context.Context, userID uuid.UUID) (Stats, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Repo              Repository
	TransactionRunner txRunner
	OrderNumberPrefix string

	// Now and Code are overridable for tests.
	Now  func() time.Time
	Code func(length int) (string, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	prefix string
	now    func() time.Time
	code   func(length int) (string, error)
}

// NewService constructs an orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	prefix := strings.TrimSpace(params.OrderNumberPrefix)
	if prefix == "" {
		prefix = defaultOrderNumberPrefix
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	code := params.Code
	if code == nil {
		code = security.RandomCode
	}
	return &service{
		repo:   params.Repo,
		tx:     params.TransactionRunner,
		prefix: prefix,
		now:    now,
		code:   code,
	}, nil
}

// CreateAtomic writes the order header and all lines in one transaction.
// A colliding order number is regenerated; the whole transaction is retried.
func (s *service) CreateAtomic(ctx context.Context, input CreateInput) (OrderDTO, error) {
	if input.UserID == uuid.Nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "user id is required")
	}
	if len(input.Items) == 0 {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeEmptyCart, "order has no items")
	}
	if input.TotalAmount.LessThan(decimal.Zero) {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "total amount must not be negative")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		number, err := s.orderNumber()
		if err != nil {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}
		order := buildOrder(input, number)

		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.repo.WithTx(tx).Create(ctx, order)
		})
		if err == nil {
			return toDTO(*order), nil
		}
		if !isOrderNumberCollision(err) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		lastErr = err
	}
	return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, lastErr, "order number collision")
}

func (s *service) List(ctx context.Context, userID uuid.UUID, page pagination.Params) (ListResult, error) {
	if userID == uuid.Nil {
		return ListResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	params := ListParams{Limit: page.Limit}
	if page.Cursor != "" {
		cursor, err := pagination.ParseCursor(page.Cursor)
		if err != nil {
			return ListResult{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = cursor
	}

	rows, next, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return ListResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := ListResult{Orders: make([]OrderDTO, 0, len(rows))}
	for _, row := range rows {
		out.Orders = append(out.Orders, toDTO(row))
	}
	if next != nil {
		out.NextCursor = pagination.EncodeCursor(*next)
	}
	return out, nil
}

func (s *service) Stats(ctx context.Context, userID uuid.UUID) (Stats, error) {
	if userID == uuid.Nil {
		return Stats{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	total, err := s.repo.TotalSpent(ctx, userID)
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum orders")
	}
	return Stats{OrderCount: count, TotalSpent: total}, nil
}

func (s *service) orderNumber() (string, error) {
	suffix, err := s.code(orderNumberSuffixLen)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", s.prefix, s.now().UTC().Format("20060102"), suffix), nil
}

func buildOrder(input CreateInput, number string) *models.Order {
	order := &models.Order{
		UserID:      input.UserID,
		OrderNumber: number,
		TotalAmount: input.TotalAmount,
		Status:      enums.OrderStatusProcessing,
		Items:       make([]models.OrderItem, 0, len(input.Items)),
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return order
}

// postgres reports the constraint name, sqlite the table.column pair.
func isOrderNumberCollision(err error) bool {
	return db.IsUniqueViolation(err, "orders_order_number_key") ||
		db.IsUniqueViolation(err, "orders.order_number")
}
