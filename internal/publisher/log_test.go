package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/Muhammedersln/EraslanMedya-sub001/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	var _ Publisher = p
	var _ Publisher = (*KafkaPublisher)(nil)

	err := p.Publish(context.Background(), &model.OutboxEvent{
		ID:          "evt1",
		EventType:   "order.paid",
		AggregateID: "o1",
		Payload:     datatypes.JSON(`{"order_id":"o1"}`),
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "order.paid", line["event_type"])
	assert.Equal(t, "o1", line["order_id"])
}
