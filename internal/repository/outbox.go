package repository

import (
	"context"
	"time"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository interface {
	Add(ctx context.Context, tx *gorm.DB, event *model.OutboxEvent) error
	FetchUnpublished(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkPublished(ctx context.Context, eventID string) error
	MarkFailed(ctx context.Context, eventID string, cause error) error
	ListByAggregate(ctx context.Context, aggregateID string) ([]*model.OutboxEvent, error)
}

type outboxRepoImpl struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepoImpl{
		db: db,
	}
}

func (r *outboxRepoImpl) Add(ctx context.Context, tx *gorm.DB, event *model.OutboxEvent) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).Create(event).Error
}

func (r *outboxRepoImpl) FetchUnpublished(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	var events []*model.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at").
		Limit(limit).
		Find(&events).Error

	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *outboxRepoImpl) MarkPublished(ctx context.Context, eventID string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"published_at": &now,
			"attempts":     gorm.Expr("attempts + 1"),
			"last_error":   "",
		}).Error
}

func (r *outboxRepoImpl) MarkFailed(ctx context.Context, eventID string, cause error) error {
	msg := cause.Error()
	if len(msg) > 250 {
		msg = msg[:250]
	}

	return r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": msg,
		}).Error
}

func (r *outboxRepoImpl) ListByAggregate(ctx context.Context, aggregateID string) ([]*model.OutboxEvent, error) {
	var events []*model.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("aggregate_id = ?", aggregateID).
		Order("created_at").
		Find(&events).Error

	return events, err
}
