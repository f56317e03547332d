package logging

import (
	"context"
	"log/slog"

	"github.com/Apurer/order-engine/internal/domains/orders/domain"
	"github.com/Apurer/order-engine/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Publisher writes events to the structured log. Used when no broker is configured.
type Publisher struct {
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, events ...domain.Event) error {
	for _, event := range events {
		p.logger.LogAttrs(ctx, slog.LevelInfo, "order event",
			slog.String("event", event.EventName()),
			slog.String("order.id", event.AggregateID()),
			slog.Time("occurred_at", event.OccurredAt()),
			slog.Any("payload", event))
	}
	return nil
}
