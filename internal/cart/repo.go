package cart

import (
	"context"
	"time"

	"github.com/akvaproffi/storefront/internal/repo"
	"github.com/akvaproffi/storefront/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists cart_items rows.
type Repository struct {
	repo.Base
}

// NewRepository binds a cart repository to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository that issues statements on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Bind(tx)}
}

// List returns the user's cart, newest first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).
		Error
	return rows, err
}

// Upsert inserts the line or adds item.Quantity to the existing one for the
// same (user_id, product_id). It returns the row as stored afterwards.
func (r *Repository) Upsert(ctx context.Context, item models.CartItem) (models.CartItem, error) {
	if item.UserID == uuid.Nil || item.ProductID == "" {
		return models.CartItem{}, gorm.ErrInvalidValue
	}
	now := time.Now().UTC()
	item.ID = uuid.Nil
	item.CreatedAt = now
	item.UpdatedAt = now

	err := r.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
			"updated_at": now,
		}),
	}).Create(&item).Error
	if err != nil {
		return models.CartItem{}, err
	}
	return r.Find(ctx, item.UserID, item.ProductID)
}

// Find loads one line by product.
func (r *Repository) Find(ctx context.Context, userID uuid.UUID, productID string) (models.CartItem, error) {
	var row models.CartItem
	err := r.DB(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Take(&row).
		Error
	return row, err
}

// SetQuantity overwrites the quantity. gorm.ErrRecordNotFound when the line is absent.
func (r *Repository) SetQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) (models.CartItem, error) {
	res := r.DB(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(map[string]any{"quantity": quantity, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return models.CartItem{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.CartItem{}, gorm.ErrRecordNotFound
	}
	return r.Find(ctx, userID, productID)
}

// Remove deletes one line and reports whether it existed.
func (r *Repository) Remove(ctx context.Context, userID uuid.UUID, productID string) (bool, error) {
	res := r.DB(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	return res.RowsAffected > 0, res.Error
}

// Clear deletes every line for the user.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.DB(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).
		Error
}
