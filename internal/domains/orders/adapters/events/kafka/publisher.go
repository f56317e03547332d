package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/order-engine/internal/domains/orders/domain"
	"github.com/Apurer/order-engine/internal/domains/orders/ports"
)

const (
	// EventNameHeader carries the event name so consumers can route without decoding.
	EventNameHeader = "event-name"
	// DefaultTopic receives every order event.
	DefaultTopic = "order-events"
	clientID     = "order-engine"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// MessageProducer is the slice of a Kafka writer the publisher needs.
type MessageProducer interface {
	WriteMessage(ctx context.Context, msg kafka.Message) error
	Close() error
}

// Envelope is the JSON value written for each event.
type Envelope struct {
	EventName   string          `json:"eventName"`
	AggregateID string          `json:"aggregateId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Payload     json.RawMessage `json:"payload"`
}

// Publisher writes order events to Kafka keyed by order id, so all events of
// one order land on the same partition in commit order.
type Publisher struct {
	producer MessageProducer
}

// NewPublisher wraps an existing producer.
func NewPublisher(producer MessageProducer) *Publisher {
	return &Publisher{producer: producer}
}

// Config selects the broker and topic for NewWriter.
type Config struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	BatchSize    int
}

// NewWriter builds a traced Kafka writer. Trace context is injected into
// message headers so consumers continue the checkout trace.
func NewWriter(cfg Config, tp trace.TracerProvider) (MessageProducer, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, broker := range cfg.Brokers {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers not configured")
	}
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		topic = DefaultTopic
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}
	baseWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: batchTimeout,
		BatchSize:    batchSize,
	}
	writer, err := otelkafka.NewWriter(baseWriter,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes(
			[]attribute.KeyValue{
				semconv.MessagingDestinationNameKey.String(topic),
				attribute.String("messaging.kafka.client_id", clientID),
			},
		),
	)
	if err != nil {
		return nil, err
	}
	return writer, nil
}

// Publish writes events one at a time and stops at the first failure.
func (p *Publisher) Publish(ctx context.Context, events ...domain.Event) error {
	if p == nil || p.producer == nil {
		return errors.New("kafka producer not configured")
	}
	for _, event := range events {
		msg, err := Encode(event)
		if err != nil {
			return err
		}
		if err := p.producer.WriteMessage(ctx, msg); err != nil {
			return fmt.Errorf("publish %s for order %s: %w", event.EventName(), event.AggregateID(), err)
		}
	}
	return nil
}

// Close releases the underlying producer.
func (p *Publisher) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

// Encode converts an event into a Kafka message.
func Encode(event domain.Event) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s: %w", event.EventName(), err)
	}
	value, err := json.Marshal(Envelope{
		EventName:   event.EventName(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt(),
		Payload:     payload,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s envelope: %w", event.EventName(), err)
	}
	return kafka.Message{
		Key:   []byte(event.AggregateID()),
		Value: value,
		Headers: []kafka.Header{
			{Key: EventNameHeader, Value: []byte(event.EventName())},
		},
		Time: event.OccurredAt(),
	}, nil
}
