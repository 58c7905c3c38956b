package repository

import (
	"context"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"

	"gorm.io/gorm"
)

type CallbackRepository interface {
	Record(ctx context.Context, callback *model.PaymentCallback) error
	ListByMerchantOID(ctx context.Context, merchantOID string) ([]*model.PaymentCallback, error)
}

type callbackRepositoryImpl struct {
	db *gorm.DB
}

func NewCallbackRepository(db *gorm.DB) CallbackRepository {
	return &callbackRepositoryImpl{db: db}
}

func (r *callbackRepositoryImpl) Record(ctx context.Context, callback *model.PaymentCallback) error {
	return r.db.WithContext(ctx).Create(callback).Error
}

func (r *callbackRepositoryImpl) ListByMerchantOID(ctx context.Context, merchantOID string) ([]*model.PaymentCallback, error) {
	var callbacks []*model.PaymentCallback
	err := r.db.WithContext(ctx).
		Where("merchant_oid = ?", merchantOID).
		Order("received_at").
		Find(&callbacks).Error

	return callbacks, err
}
