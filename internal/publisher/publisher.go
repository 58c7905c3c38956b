package publisher

import (
	"context"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"
)

// Publisher delivers outbox events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event *model.OutboxEvent) error
	Close() error
}
