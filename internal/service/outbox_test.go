package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/metrics"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/repository"
	"github.com/Muhammedersln/EraslanMedya-sub001/internal/testutil"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type recordingPublisher struct {
	failFor   map[string]bool // event types that fail
	published []string
}

func (p *recordingPublisher) Publish(ctx context.Context, event *model.OutboxEvent) error {
	if p.failFor[event.EventType] {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event.EventType)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestOutboxRelay(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	outbox := repository.NewOutboxRepository(db)

	base := time.Now().UTC()
	add := func(aggregate, eventType string, offset time.Duration) {
		require.NoError(t, outbox.Add(ctx, nil, &model.OutboxEvent{
			ID:          uuid.NewString(),
			EventType:   eventType,
			AggregateID: aggregate,
			Payload:     datatypes.JSON(`{}`),
			CreatedAt:   base.Add(offset),
		}))
	}
	add("o1", "order.created", 0)
	add("o2", "order.created", time.Millisecond)
	add("o2", "order.paid", 2*time.Millisecond)
	add("o2", "order.expired", 3*time.Millisecond)

	pub := &recordingPublisher{failFor: map[string]bool{"order.paid": true}}
	relay := NewOutboxRelay(outbox, pub, metrics.NewOrderMetrics(prometheus.NewRegistry()), 10,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	n, err := relay.RelayBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"order.created", "order.created"}, pub.published)

	// o2's later event waits behind the failed one
	pending, err := outbox.FetchUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "order.paid", pending[0].EventType)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Equal(t, "broker unavailable", pending[0].LastError)
	assert.Equal(t, 0, pending[1].Attempts)

	pub.failFor = nil
	n, err = relay.RelayBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"order.created", "order.created", "order.paid", "order.expired"}, pub.published)

	n, err = relay.RelayBatch(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
