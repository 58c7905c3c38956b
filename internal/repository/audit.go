package repository

import (
	"context"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Record(ctx context.Context, tx *gorm.DB, entry *model.OrderAudit) error
	ListByOrder(ctx context.Context, orderID string) ([]*model.OrderAudit, error)
}

type auditRepoImpl struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepoImpl{db: db}
}

func (r *auditRepoImpl) Record(ctx context.Context, tx *gorm.DB, entry *model.OrderAudit) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).Create(entry).Error
}

func (r *auditRepoImpl) ListByOrder(ctx context.Context, orderID string) ([]*model.OrderAudit, error) {
	var entries []*model.OrderAudit
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at").
		Find(&entries).Error

	return entries, err
}
