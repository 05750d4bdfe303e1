package favorites

import (
	"context"
	"strings"

	"github.com/akvaproffi/storefront/pkg/db/models"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type repository interface {
	AddItem(ctx context.Context, fav models.Favorite) (models.Favorite, bool, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (bool, error)
	ListItems(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error)
	Exists(ctx context.Context, userID uuid.UUID, productID string) (bool, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Repo repository
}

// Service exposes business rules for favorites.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]FavoriteDTO, error)
	Add(ctx context.Context, userID uuid.UUID, input AddInput) (AddResult, error)
	Remove(ctx context.Context, userID uuid.UUID, productID string) (bool, error)
	IsFavorite(ctx context.Context, userID uuid.UUID, productID string) (bool, error)
}

type service struct {
	repo repository
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites repo is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]FavoriteDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	rows, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	out := make([]FavoriteDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

// Add is insert-if-absent; adding an existing favorite returns it with Created=false.
func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddInput) (AddResult, error) {
	if userID == uuid.Nil {
		return AddResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	input.ProductID = strings.TrimSpace(input.ProductID)
	input.ProductName = strings.TrimSpace(input.ProductName)
	if input.ProductID == "" || input.ProductName == "" {
		return AddResult{}, pkgerrors.New(pkgerrors.CodeValidation, "product id and name are required")
	}
	if input.Price.LessThan(decimal.Zero) {
		return AddResult{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	row, created, err := s.repo.AddItem(ctx, models.Favorite{
		UserID:      userID,
		ProductID:   input.ProductID,
		ProductName: input.ProductName,
		Price:       input.Price,
		Image:       input.Image,
		Category:    input.Category,
	})
	if err != nil {
		return AddResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return AddResult{Favorite: toDTO(row), Created: created}, nil
}

// Remove drops the favorite regardless of prior state and reports whether it existed.
func (s *service) Remove(ctx context.Context, userID uuid.UUID, productID string) (bool, error) {
	if userID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	removed, err := s.repo.RemoveItem(ctx, userID, productID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	return removed, nil
}

func (s *service) IsFavorite(ctx context.Context, userID uuid.UUID, productID string) (bool, error) {
	if userID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	ok, err := s.repo.Exists(ctx, userID, strings.TrimSpace(productID))
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check favorite")
	}
	return ok, nil
}
