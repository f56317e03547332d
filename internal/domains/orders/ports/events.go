package ports

import (
	"context"

	"github.com/Apurer/order-engine/internal/domains/orders/domain"
)

// EventPublisher hands committed domain events to the message bus. Delivery is
// best effort: callers log failures and never roll back on them.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}
