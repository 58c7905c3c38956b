package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/metrics"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/publisher"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/repository"
)

// OutboxRelay moves committed outbox rows to the publisher.
type OutboxRelay interface {
	RelayBatch(ctx context.Context) (int, error)
}

type outboxRelayImpl struct {
	outboxRepo repository.OutboxRepository
	publisher  publisher.Publisher
	metrics    *metrics.OrderMetrics
	batchSize  int
	logger     *slog.Logger
}

func NewOutboxRelay(
	outboxRepo repository.OutboxRepository,
	pub publisher.Publisher,
	orderMetrics *metrics.OrderMetrics,
	batchSize int,
	logger *slog.Logger,
) OutboxRelay {
	if batchSize <= 0 {
		batchSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &outboxRelayImpl{
		outboxRepo: outboxRepo,
		publisher:  pub,
		metrics:    orderMetrics,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// RelayBatch publishes one batch and returns how many events were delivered.
// A failed event stays unpublished and is retried on the next batch; later
// events of the same order wait behind it.
func (r *outboxRelayImpl) RelayBatch(ctx context.Context) (int, error) {
	events, err := r.outboxRepo.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch unpublished events: %w", err)
	}

	published := 0
	blocked := make(map[string]bool) // aggregates with an earlier failure in this batch
	for _, event := range events {
		if blocked[event.AggregateID] {
			continue
		}

		if err := r.publisher.Publish(ctx, event); err != nil {
			r.metrics.OutboxPublishedTotal.WithLabelValues(event.EventType, "error").Inc()
			r.logger.WarnContext(ctx, "publish outbox event failed",
				"event_id", event.ID,
				"event_type", event.EventType,
				"attempts", event.Attempts+1,
				"error", err,
			)
			if err := r.outboxRepo.MarkFailed(ctx, event.ID, err); err != nil {
				return published, fmt.Errorf("mark event failed: %w", err)
			}
			blocked[event.AggregateID] = true
			continue
		}

		if err := r.outboxRepo.MarkPublished(ctx, event.ID); err != nil {
			return published, fmt.Errorf("mark event published: %w", err)
		}
		r.metrics.OutboxPublishedTotal.WithLabelValues(event.EventType, "ok").Inc()
		published++
	}

	return published, nil
}
