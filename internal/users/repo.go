package users

import (
	"context"

	"github.com/akvaproffi/storefront/internal/repo"
	"github.com/akvaproffi/storefront/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads and writes the users table. Lookups by email use the
// normalized form stored at registration.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail returns gorm.ErrRecordNotFound for unknown addresses.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", NormalizeEmail(email))
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) first(ctx context.Context, where string, arg any) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where(where, arg).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateColumns writes the given columns and returns the reloaded row.
// A missing user yields gorm.ErrRecordNotFound.
func (r *Repository) UpdateColumns(ctx context.Context, id uuid.UUID, columns map[string]any) (*models.User, error) {
	res := r.DB(ctx).Model(&models.User{}).Where("id = ?", id).Updates(columns)
	switch {
	case res.Error != nil:
		return nil, res.Error
	case res.RowsAffected == 0:
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}
