package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	inventorydomain "github.com/Apurer/order-engine/internal/domains/inventory/domain"
	inventoryports "github.com/Apurer/order-engine/internal/domains/inventory/ports"
	"github.com/Apurer/order-engine/internal/domains/orders/application"
	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
	"github.com/Apurer/order-engine/internal/domains/orders/ports"
	"github.com/Apurer/order-engine/internal/shared/auth"
)

const tracerName = "github.com/Apurer/order-engine/internal/domains/orders/adapters/observability/service"

// Service decorates the orders application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Checkout(ctx context.Context, input ordertypes.CheckoutInput) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.Checkout",
		attribute.String("order.channel", string(input.Channel)),
		attribute.String("actor.id", input.ActorID),
		attribute.Int("order.lines", len(input.Items)),
		attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
	)
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("channel", string(input.Channel)), slog.Int("lines", len(input.Items)))
	result, err := s.inner.Checkout(ctx, input)
	if err != nil {
		s.metrics.recordCheckoutFailure(ctx, string(input.Channel), failureReason(err))
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("channel", string(input.Channel)))
	}
	if result != nil && result.Order != nil {
		span.SetAttributes(attribute.String("order.id", result.Order.ID), attribute.String("order.number", result.Order.OrderNumber))
		s.metrics.recordPlaced(ctx, string(result.Order.Channel))
		s.logInfo(ctx, "order placed",
			slog.String("order.id", result.Order.ID),
			slog.String("order.number", result.Order.OrderNumber),
			slog.String("amount", result.Order.Amount.StringFixed(2)))
	}
	return result, nil
}

func (s *Service) UpdateItemStatuses(ctx context.Context, input ordertypes.UpdateItemStatusInput) (*ordertypes.ItemStatusUpdateResult, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateItemStatuses",
		attribute.String("order.id", input.OrderID),
		attribute.Int("order.items.requested", len(input.ItemIDs)),
		attribute.String("order.item.status", input.Status),
	)
	defer span.End()

	s.logInfo(ctx, "updating item statuses", slog.String("order.id", input.OrderID), slog.String("status", input.Status))
	result, err := s.inner.UpdateItemStatuses(ctx, input)
	if errors.Is(err, application.ErrNoChange) {
		span.SetAttributes(attribute.Bool("order.noop", true))
		s.logInfo(ctx, "item statuses already current", slog.String("order.id", input.OrderID))
		return nil, err
	}
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update item statuses", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordItemsUpdated(ctx, len(result.UpdatedItems), input.Status)
	span.SetAttributes(attribute.Int("order.items.updated", len(result.UpdatedItems)))
	s.logInfo(ctx, "item statuses updated",
		slog.String("order.id", input.OrderID),
		slog.Int("count", len(result.UpdatedItems)),
		slog.String("order.status", string(result.Transition.Status)))
	return result, nil
}

func (s *Service) ConfirmPayment(ctx context.Context, input ordertypes.ConfirmPaymentInput) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.ConfirmPayment",
		attribute.String("order.id", input.OrderID),
		attribute.String("payment.action", input.Action),
	)
	defer span.End()

	s.logInfo(ctx, "deciding payment", slog.String("order.id", input.OrderID), slog.String("action", input.Action))
	result, err := s.inner.ConfirmPayment(ctx, input)
	if errors.Is(err, application.ErrNoChange) {
		span.SetAttributes(attribute.Bool("order.noop", true))
		return nil, err
	}
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to decide payment", slog.String("order.id", input.OrderID))
	}
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, input ordertypes.OrderLookup) (*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrder", attribute.String("order.id", input.OrderID))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", input.OrderID))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, actorID string) ([]*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx, actorID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	s.logInfo(ctx, "listed orders", slog.Int("count", len(result)))
	return result, nil
}

func (s *Service) ListSellerOrders(ctx context.Context, actorID string) ([]*ordertypes.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.ListSellerOrders")
	defer span.End()

	result, err := s.inner.ListSellerOrders(ctx, actorID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list seller orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	s.logInfo(ctx, "listed seller orders", slog.Int("count", len(result)))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersPlaced     metric.Int64Counter
	itemsUpdated     metric.Int64Counter
	checkoutFailures metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders committed"))
	itemsUpdated, _ := m.Int64Counter("orders.service.items_status_updated", metric.WithDescription("Number of line items whose status changed"))
	checkoutFailures, _ := m.Int64Counter("orders.service.checkout_failures", metric.WithDescription("Number of rejected or failed checkouts"))
	return serviceMetrics{
		ordersPlaced:     ordersPlaced,
		itemsUpdated:     itemsUpdated,
		checkoutFailures: checkoutFailures,
	}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, channel string) {
	addCounter(ctx, m.ordersPlaced, 1, attribute.String("order.channel", channel))
}

func (m serviceMetrics) recordItemsUpdated(ctx context.Context, count int, status string) {
	addCounter(ctx, m.itemsUpdated, int64(count), attribute.String("order.item.status", status))
}

func (m serviceMetrics) recordCheckoutFailure(ctx context.Context, channel, reason string) {
	addCounter(ctx, m.checkoutFailures, 1, attribute.String("order.channel", channel), attribute.String("reason", reason))
}

// failureReason keeps the failure metric label low cardinality.
func failureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, application.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, inventorydomain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, inventoryports.ErrProductNotFound), errors.Is(err, ports.ErrAddressNotFound):
		return "not_found"
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return "idempotency_conflict"
	default:
		return "internal"
	}
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
