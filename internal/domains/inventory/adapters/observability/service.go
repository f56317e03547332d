package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	inventorytypes "github.com/Apurer/order-engine/internal/domains/inventory/application/types"
	inventorydomain "github.com/Apurer/order-engine/internal/domains/inventory/domain"
	inventoryports "github.com/Apurer/order-engine/internal/domains/inventory/ports"
)

const tracerName = "github.com/Apurer/order-engine/internal/domains/inventory/adapters/observability/service"

// Service decorates the inventory service with tracing, logging, and metrics.
type Service struct {
	inner   inventoryports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core inventory service.
func New(inner inventoryports.Service, opts ...Option) inventoryports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
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
	return s
}

func (s *Service) Restock(ctx context.Context, input inventorytypes.RestockInput) (*inventorydomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Restock",
		trace.WithAttributes(attribute.String("product.id", input.ProductID), attribute.Int("restock.quantity", input.Quantity)))
	defer span.End()

	s.logInfo(ctx, "restocking product", slog.String("product.id", input.ProductID), slog.Int("quantity", input.Quantity))
	product, err := s.inner.Restock(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to restock product", slog.String("product.id", input.ProductID))
	}
	s.metrics.recordRestocked(ctx, input.Quantity)
	s.logInfo(ctx, "product restocked", slog.String("product.id", product.ID), slog.Int("stock", product.Stock))
	return product, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	unitsRestocked metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	unitsRestocked, _ := m.Int64Counter("inventory.service.units_restocked", metric.WithDescription("Number of stock units added by restocking"))
	return serviceMetrics{unitsRestocked: unitsRestocked}
}

func (m serviceMetrics) recordRestocked(ctx context.Context, quantity int) {
	if m.unitsRestocked != nil {
		m.unitsRestocked.Add(ctx, int64(quantity))
	}
}

var _ inventoryports.Service = (*Service)(nil)
