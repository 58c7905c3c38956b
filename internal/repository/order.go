package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"

	"gorm.io/gorm"
)

// ErrConcurrentUpdate is returned when the order changed since it was read.
var ErrConcurrentUpdate = errors.New("order was modified concurrently")

type OrderFilter struct {
	UserID string
	State  model.OrderState
	Limit  int
	Offset int
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, tx *gorm.DB, orderID string) (*model.Order, error)
	FindByMerchantOID(ctx context.Context, tx *gorm.DB, merchantOID string) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*model.Order, error)
	FindExpired(ctx context.Context, now time.Time, limit int) ([]*model.Order, error)
	SaveState(ctx context.Context, tx *gorm.DB, order *model.Order) error
	UpdateItemProgress(ctx context.Context, tx *gorm.DB, orderID, itemID string, progress int) error
	Delete(ctx context.Context, tx *gorm.DB, orderID string) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return r.conn(tx).WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.conn(tx).WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByMerchantOID(ctx context.Context, tx *gorm.DB, merchantOID string) (*model.Order, error) {
	var order model.Order
	err := r.conn(tx).WithContext(ctx).
		Preload("Items").
		Where("merchant_oid = ?", merchantOID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) List(ctx context.Context, filter OrderFilter) ([]*model.Order, error) {
	q := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.State != "" {
		q = q.Where("state = ?", filter.State)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var orders []*model.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) FindExpired(ctx context.Context, now time.Time, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("state = ?", model.StatePending).
		Where("expires_at <= ?", now).
		Order("expires_at").
		Limit(limit).
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

// SaveState writes the lifecycle columns only when the stored version still
// matches order.Version, then bumps the version on the struct.
func (r *orderRepoImpl) SaveState(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	now := time.Now().UTC()
	result := r.conn(tx).WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]interface{}{
			"state":           order.State,
			"payment_gateway": order.PaymentGateway,
			"paid_at":         order.PaidAt,
			"paid_amount":     order.PaidAmount,
			"failure_reason":  order.FailureReason,
			"gateway_payload": order.GatewayPayload,
			"expires_at":      order.ExpiresAt,
			"version":         order.Version + 1,
			"updated_at":      now,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}

	order.Version++
	order.UpdatedAt = now
	return nil
}

func (r *orderRepoImpl) UpdateItemProgress(ctx context.Context, tx *gorm.DB, orderID, itemID string, progress int) error {
	result := r.conn(tx).WithContext(ctx).Model(&model.OrderItem{}).
		Where("id = ? AND order_id = ?", itemID, orderID).
		Update("progress_count", progress)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *orderRepoImpl) Delete(ctx context.Context, tx *gorm.DB, orderID string) error {
	return r.conn(tx).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", orderID).Delete(&model.Order{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
