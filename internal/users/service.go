package users

import (
	"context"
	"errors"
	"strings"

	"github.com/akvaproffi/storefront/internal/orders"
	"github.com/akvaproffi/storefront/pkg/db/models"
	pkgerrors "github.com/akvaproffi/storefront/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateColumns(ctx context.Context, id uuid.UUID, columns map[string]any) (*models.User, error)
}

type orderStats interface {
	Stats(ctx context.Context, userID uuid.UUID) (orders.Stats, error)
}

type favoriteCounter interface {
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Service manages the signed-in user's profile.
type Service interface {
	Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*UserDTO, error)
	Address(ctx context.Context, userID uuid.UUID) (AddressDTO, error)
	UpdateAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (AddressDTO, error)
	SetAvatar(ctx context.Context, userID uuid.UUID, data []byte) (string, error)
	DeleteAvatar(ctx context.Context, userID uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID) (StatsDTO, error)
}

// ServiceParams groups dependencies for the profile service.
type ServiceParams struct {
	Repo      userStore
	Orders    orderStats
	Favorites favoriteCounter
	Avatar    AvatarPolicy
}

type service struct {
	repo      userStore
	orders    orderStats
	favorites favoriteCounter
	avatar    AvatarPolicy
}

// NewService constructs the profile service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repository required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders stats required")
	}
	if params.Favorites == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "favorites counter required")
	}
	return &service{
		repo:      params.Repo,
		orders:    params.Orders,
		favorites: params.Favorites,
		avatar:    params.Avatar,
	}, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*UserDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	var phone *string
	if input.Phone != nil {
		phone = optional(*input.Phone)
	}
	user, err := s.update(ctx, userID, map[string]any{"name": name, "phone": phone})
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Address(ctx context.Context, userID uuid.UUID) (AddressDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return AddressDTO{}, err
	}
	return addressFromModel(user), nil
}

func (s *service) UpdateAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (AddressDTO, error) {
	if userID == uuid.Nil {
		return AddressDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	address := strings.TrimSpace(input.Address)
	city := strings.TrimSpace(input.City)
	if address == "" || city == "" {
		return AddressDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "address and city are required")
	}
	user, err := s.update(ctx, userID, map[string]any{
		"address":     address,
		"city":        city,
		"postal_code": optional(input.PostalCode),
	})
	if err != nil {
		return AddressDTO{}, err
	}
	return addressFromModel(user), nil
}

// SetAvatar stores the image inline and returns the data URL.
func (s *service) SetAvatar(ctx context.Context, userID uuid.UUID, data []byte) (string, error) {
	if userID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	encoded, err := s.avatar.EncodeAvatar(data)
	if err != nil {
		return "", err
	}
	if _, err := s.update(ctx, userID, map[string]any{"avatar_url": encoded}); err != nil {
		return "", err
	}
	return encoded, nil
}

func (s *service) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	_, err := s.update(ctx, userID, map[string]any{"avatar_url": nil})
	return err
}

func (s *service) Stats(ctx context.Context, userID uuid.UUID) (StatsDTO, error) {
	if userID == uuid.Nil {
		return StatsDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	orderStats, err := s.orders.Stats(ctx, userID)
	if err != nil {
		return StatsDTO{}, err
	}
	favorites, err := s.favorites.Count(ctx, userID)
	if err != nil {
		return StatsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count favorites")
	}
	return StatsDTO{
		OrderCount:     orderStats.OrderCount,
		FavoritesCount: favorites,
		TotalSpent:     orderStats.TotalSpent,
	}, nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return user, nil
}

func (s *service) update(ctx context.Context, userID uuid.UUID, columns map[string]any) (*models.User, error) {
	user, err := s.repo.UpdateColumns(ctx, userID, columns)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return user, nil
}

func mapLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
}
