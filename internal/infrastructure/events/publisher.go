// Package events publica eventos de pedido hacia Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/mayoreo-api/internal/application/order"
)

const writeTimeout = 5 * time.Second

var (
	_ order.EventPublisher = (*KafkaPublisher)(nil)
	_ order.EventPublisher = NopPublisher{}
)

// messageWriter es lo que se usa de *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica eventos JSON con kafka-go. La clave del mensaje es el folio,
// así los eventos de un mismo pedido caen en la misma partición.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher construye el publicador sobre los brokers dados.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
	}
	return &KafkaPublisher{writer: w, topic: topic}
}

// PublishOrderPlaced serializa y envía el evento; espera confirmación hasta writeTimeout.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, evt order.PlacedEvent) error {
	msg, err := orderPlacedMessage(evt)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publicar en %s: %w", p.topic, err)
	}
	return nil
}

// Close vacía y cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func orderPlacedMessage(evt order.PlacedEvent) (kafka.Message, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(evt.InvoiceNo, 10)),
		Value: data,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.placed")},
			{Key: "event_id", Value: []byte(evt.EventID)},
		},
	}, nil
}

// NopPublisher descarta los eventos (Kafka no configurado); solo deja traza en debug.
type NopPublisher struct {
	Log zerolog.Logger
}

func (n NopPublisher) PublishOrderPlaced(_ context.Context, evt order.PlacedEvent) error {
	n.Log.Debug().Int64("invoice_no", evt.InvoiceNo).Msg("evento de pedido descartado (kafka deshabilitado)")
	return nil
}
