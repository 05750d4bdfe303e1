package favorites

import (
	"context"

	"github.com/akvaproffi/storefront/internal/repo"
	"github.com/akvaproffi/storefront/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsulates favorites persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// AddItem inserts the favorite and ignores duplicates. created is false when
// the product was already a favorite.
func (r *Repository) AddItem(ctx context.Context, fav models.Favorite) (models.Favorite, bool, error) {
	if fav.UserID == uuid.Nil || fav.ProductID == "" {
		return models.Favorite{}, false, gorm.ErrInvalidValue
	}
	fav.ID = uuid.Nil
	res := r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&fav)
	if res.Error != nil {
		return models.Favorite{}, false, res.Error
	}
	stored, err := r.Find(ctx, fav.UserID, fav.ProductID)
	return stored, res.RowsAffected > 0, err
}

// Find loads a single favorite.
func (r *Repository) Find(ctx context.Context, userID uuid.UUID, productID string) (models.Favorite, error) {
	var row models.Favorite
	err := r.DB(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Take(&row).
		Error
	return row, err
}

// RemoveItem deletes the user-product favorite and reports whether it existed.
func (r *Repository) RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (bool, error) {
	res := r.DB(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{})
	return res.RowsAffected > 0, res.Error
}

// ListItems returns the user's favorites, newest first.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	var rows []models.Favorite
	err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).
		Error
	return rows, err
}

// Exists reports whether the product is a favorite.
func (r *Repository) Exists(ctx context.Context, userID uuid.UUID, productID string) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).
		Error
	return count > 0, err
}

// Count returns the number of favorites a user has.
func (r *Repository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Count(&count).
		Error
	return count, err
}
