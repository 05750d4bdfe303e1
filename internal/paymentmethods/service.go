package paymentmethods

import (
	"context"
	"regexp"
	"strings"

	"github.com/akvaproffi/storefront/pkg/db/models"
	"github.com/akvaproffi/storefront/pkg/enums"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	cardExpiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{4}$`)
)

// Service manages saved payment methods.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]PaymentMethodDTO, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (PaymentMethodDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ServiceParams groups dependencies for the payment method service.
type ServiceParams struct {
	Repo              Repository
	TransactionRunner txRunner
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     Repository
	txRunner txRunner
}

// NewService constructs a payment method service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment method repo required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{repo: params.Repo, txRunner: params.TransactionRunner}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]PaymentMethodDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	methods, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment methods")
	}
	out := make([]PaymentMethodDTO, 0, len(methods))
	for _, m := range methods {
		out = append(out, toDTO(m))
	}
	return out, nil
}

// Create validates and stores a method. The first method a user saves becomes
// the default; asking for default clears the flag on every other method in the
// same transaction.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (PaymentMethodDTO, error) {
	if userID == uuid.Nil {
		return PaymentMethodDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	method, err := buildPaymentMethod(userID, input)
	if err != nil {
		return PaymentMethodDTO{}, err
	}

	existing, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return PaymentMethodDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count payment methods")
	}
	method.IsDefault = input.IsDefault || existing == 0

	if err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if method.IsDefault && existing > 0 {
			if err := txRepo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return txRepo.Create(ctx, method)
	}); err != nil {
		return PaymentMethodDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist payment method")
	}
	return toDTO(*method), nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment method id is required")
	}
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete payment method")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
	}
	return nil
}

// Count backs the checkout payment-method precondition.
func (s *service) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count payment methods")
	}
	return count, nil
}

func buildPaymentMethod(userID uuid.UUID, input CreateInput) (*models.PaymentMethod, error) {
	kind, err := enums.ParsePaymentMethodType(input.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type must be one of card, cash, online")
	}
	method := &models.PaymentMethod{UserID: userID, Type: kind}
	if kind != enums.PaymentMethodTypeCard {
		return method, nil
	}

	number := strings.Join(strings.Fields(input.CardNumber), "")
	holder := strings.TrimSpace(input.CardHolder)
	expiry := strings.TrimSpace(input.CardExpiry)
	if number == "" || holder == "" || expiry == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card number, holder and expiry are required")
	}
	if !cardNumberRe.MatchString(number) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card number must contain 16 digits")
	}
	if !cardExpiryRe.MatchString(expiry) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card expiry must be MM/YYYY")
	}

	last4 := number[len(number)-4:]
	method.CardLast4 = &last4
	method.CardHolder = &holder
	method.ExpiryDate = &expiry
	return method, nil
}
