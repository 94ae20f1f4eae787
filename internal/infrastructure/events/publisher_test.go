package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mayoreo-api/internal/application/order"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func sampleEvent() order.PlacedEvent {
	return order.PlacedEvent{
		EventID:    "3f1c0d9e-0000-4000-8000-000000000001",
		InvoiceNo:  1760000000000123,
		CustomerID: 7,
		BranchID:   2,
		TotalQty:   3,
		Total:      decimal.RequireFromString("60.50"),
		Lines:      []order.PlacedLine{{ProductID: 1, Code: "A1", Qty: 3, Price: decimal.RequireFromString("20.1666")}},
		OccurredAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_PublishOrderPlaced(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, topic: "orders"}

	require.NoError(t, p.PublishOrderPlaced(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "1760000000000123", string(msg.Key))
	assert.Equal(t, "order.placed", string(msg.Headers[0].Value))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "60.5", body["total"])
	assert.Equal(t, float64(2), body["num_suc"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_ErrorDelBroker(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("leader not available")}, topic: "orders"}
	err := p.PublishOrderPlaced(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders")
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{Log: zerolog.Nop()}.PublishOrderPlaced(context.Background(), sampleEvent()))
}
