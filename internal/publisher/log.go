package publisher

import (
	"context"
	"log/slog"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"
)

// LogPublisher is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event *model.OutboxEvent) error {
	p.logger.InfoContext(ctx, "order event",
		"event_id", event.ID,
		"event_type", event.EventType,
		"order_id", event.AggregateID,
		"payload", string(event.Payload),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
