package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	inventoryports "github.com/Apurer/order-engine/internal/domains/inventory/ports"
	"github.com/Apurer/order-engine/internal/domains/orders/domain"
	"github.com/Apurer/order-engine/internal/domains/orders/ports"
	"github.com/Apurer/order-engine/internal/shared/auth"
)

// Service coordinates checkout, fulfillment, and order queries.
type Service struct {
	uow     ports.UnitOfWork
	reads   ports.ReadModel
	catalog inventoryports.Catalog
	sellers auth.SellerAuthorizer
	events  ports.EventPublisher
	logger  *slog.Logger
	newID   func() string
	now     func() time.Time

	publishTimeout time.Duration
}

// DefaultPublishTimeout bounds how long a request waits on the event bus
// after its state change has committed.
const DefaultPublishTimeout = 2 * time.Second

type Option func(*Service)

// WithEventPublisher sets where committed changes are announced.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		s.events = publisher
	}
}

// WithLogger sets the logger used for post-commit failures that are not returned.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPublishTimeout bounds each post-commit publish.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// WithIDGenerator overrides storage id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(uow ports.UnitOfWork, reads ports.ReadModel, catalog inventoryports.Catalog, sellers auth.SellerAuthorizer, opts ...Option) *Service {
	s := &Service{
		uow:     uow,
		reads:   reads,
		catalog: catalog,
		sellers: sellers,
		logger:  slog.Default(),
		newID:   uuid.NewString,
		now:     func() time.Time { return time.Now().UTC() },

		publishTimeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// dispatch publishes after commit. Failures are logged and swallowed: the
// state change already happened and delivery is best effort. The publish is
// detached from the caller's cancellation but never outlives publishTimeout.
func (s *Service) dispatch(ctx context.Context, events ...domain.Event) {
	if s.events == nil || len(events) == 0 {
		return
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.events.Publish(publishCtx, events...); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order events",
			slog.String("event", events[0].EventName()),
			slog.String("order.id", events[0].AggregateID()),
			slog.Int("count", len(events)),
			slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Service)(nil)
