package repository

import (
	"context"
	"time"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	Upsert(ctx context.Context, item *model.CartItem) error
	ListByUser(ctx context.Context, userID string) ([]*model.CartItem, error)
	Remove(ctx context.Context, userID, productID string) error
	ClearByUser(ctx context.Context, tx *gorm.DB, userID string) (int64, error)
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

// Upsert adds quantity to an existing (user, product) line and replaces its
// delivery parameters.
func (r *cartRepoImpl) Upsert(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":        gorm.Expr("cart_items.quantity + ?", item.Quantity),
			"delivery_params": item.DeliveryParams,
			"updated_at":      time.Now().UTC(),
		}),
	}).Create(item).Error
}

func (r *cartRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.CartItem, error) {
	var items []*model.CartItem

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, product_id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *cartRepoImpl) Remove(ctx context.Context, userID, productID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepoImpl) ClearByUser(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}

	result := conn.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{})

	return result.RowsAffected, result.Error
}
