package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/akvaproffi/storefront/pkg/db/models"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Upsert(ctx context.Context, item models.CartItem) (models.CartItem, error)
	SetQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) (models.CartItem, error)
	Remove(ctx context.Context, userID uuid.UUID, productID string) (bool, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Repo repository
}

// Service exposes the account cart.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) (CartDTO, error)
	Add(ctx context.Context, userID uuid.UUID, input AddInput) (ItemDTO, error)
	SetQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) (SetQuantityResult, error)
	Remove(ctx context.Context, userID uuid.UUID, productID string) (bool, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo repository
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	if err := requireUser(userID); err != nil {
		return CartDTO{}, err
	}
	rows, err := s.repo.List(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}
	return toCartDTO(rows), nil
}

// Add applies increment semantics: an existing line gains input.Quantity.
func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddInput) (ItemDTO, error) {
	if err := requireUser(userID); err != nil {
		return ItemDTO{}, err
	}
	input.ProductID = strings.TrimSpace(input.ProductID)
	input.ProductName = strings.TrimSpace(input.ProductName)
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	switch {
	case input.ProductID == "":
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	case input.ProductName == "":
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	case input.Price.LessThan(decimal.Zero):
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	case input.Quantity < 0:
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	row, err := s.repo.Upsert(ctx, models.CartItem{
		UserID:      userID,
		ProductID:   input.ProductID,
		ProductName: input.ProductName,
		Price:       input.Price,
		Image:       input.Image,
		Quantity:    input.Quantity,
	})
	if err != nil {
		return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert cart item")
	}
	return toDTO(row), nil
}

// SetQuantity overwrites the quantity; zero removes the line, negative is rejected.
func (s *service) SetQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) (SetQuantityResult, error) {
	if err := requireUser(userID); err != nil {
		return SetQuantityResult{}, err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return SetQuantityResult{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 0 {
		return SetQuantityResult{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	if quantity == 0 {
		if _, err := s.repo.Remove(ctx, userID, productID); err != nil {
			return SetQuantityResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
		}
		return SetQuantityResult{Removed: true}, nil
	}

	row, err := s.repo.SetQuantity(ctx, userID, productID, quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SetQuantityResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
		}
		return SetQuantityResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	item := toDTO(row)
	return SetQuantityResult{Item: &item}, nil
}

// Remove reports whether a line existed. An absent line is not an error.
func (s *service) Remove(ctx context.Context, userID uuid.UUID, productID string) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, err
	}
	if strings.TrimSpace(productID) == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	removed, err := s.repo.Remove(ctx, userID, strings.TrimSpace(productID))
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return removed, nil
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func requireUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	return nil
}
