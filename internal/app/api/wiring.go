package api

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	inventorymemory "github.com/Apurer/order-engine/internal/domains/inventory/adapters/memory"
	inventoryobs "github.com/Apurer/order-engine/internal/domains/inventory/adapters/observability"
	inventorypostgres "github.com/Apurer/order-engine/internal/domains/inventory/adapters/persistence/postgres"
	inventoryapp "github.com/Apurer/order-engine/internal/domains/inventory/application"
	inventoryports "github.com/Apurer/order-engine/internal/domains/inventory/ports"
	orderkafka "github.com/Apurer/order-engine/internal/domains/orders/adapters/events/kafka"
	orderlogging "github.com/Apurer/order-engine/internal/domains/orders/adapters/events/logging"
	ordermemory "github.com/Apurer/order-engine/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/order-engine/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/order-engine/internal/domains/orders/adapters/persistence/postgres"
	orderworkflows "github.com/Apurer/order-engine/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/order-engine/internal/domains/orders/application"
	ordersports "github.com/Apurer/order-engine/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/order-engine/internal/platform/observability"
	platformpostgres "github.com/Apurer/order-engine/internal/platform/postgres"
	"github.com/Apurer/order-engine/internal/shared/auth"
)

type orderStore interface {
	ordersports.UnitOfWork
	ordersports.ReadModel
}

type inventoryStore interface {
	inventoryports.Catalog
	inventoryports.LedgerSession
}

// Components holds the decorated services shared by the API and the worker.
type Components struct {
	Orders    ordersports.Service
	Inventory inventoryports.Service
	// SharedStorage is false when the stores are process-local memory, which a
	// separate worker process cannot see.
	SharedStorage bool
}

// BuildComponents wires storage, events, and services. Postgres and Kafka are
// used when configured; otherwise it falls back to memory stores and a log
// publisher. The returned cleanup releases every connection it opened.
func BuildComponents(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Components, func(), error) {
	logger := effectiveLogger(instruments)
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	orders, inventory, shared, closeStores := buildStores(ctx, cfg, logger)
	cleanups = append(cleanups, closeStores)

	publisher, closePublisher, err := buildPublisher(cfg, instruments, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, closePublisher)

	sellers := auth.ParseAllowlist(cfg.SellerIDs)
	coreOrders := ordersapp.NewService(orders, orders, inventory, sellers,
		ordersapp.WithEventPublisher(publisher),
		ordersapp.WithLogger(logger),
	)
	coreInventory := inventoryapp.NewService(inventory, sellers)

	return &Components{
		Orders: orderobs.New(
			coreOrders,
			orderobs.WithLogger(logger),
			orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
			orderobs.WithMeter(instruments.Meter("internal.orders.application")),
		),
		Inventory: inventoryobs.New(
			coreInventory,
			inventoryobs.WithLogger(logger),
			inventoryobs.WithTracer(instruments.Tracer("internal.inventory.application")),
			inventoryobs.WithMeter(instruments.Meter("internal.inventory.application")),
		),
		SharedStorage: shared,
	}, cleanup, nil
}

func buildStores(ctx context.Context, cfg Config, logger *slog.Logger) (orderStore, inventoryStore, bool, func()) {
	db, closeDB, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if errors.Is(err, platformpostgres.ErrEmptyDSN) {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory stores")
		return memoryStores()
	}
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return memoryStores()
	}
	txOpts := platformpostgres.DefaultTxOptions()
	txOpts.MaxRetries = cfg.TxMaxRetries
	logger.Info("order and inventory stores configured with postgres", slog.Int("txMaxRetries", txOpts.MaxRetries))
	return orderpostgres.NewStore(db, txOpts), inventorypostgres.NewStore(db, txOpts), true, closeDB
}

func memoryStores() (orderStore, inventoryStore, bool, func()) {
	inventory := inventorymemory.NewStore()
	return ordermemory.NewStore(inventory), inventory, false, func() {}
}

// ErrLocalStorage rejects durable checkout over process-local stores.
var ErrLocalStorage = errors.New("checkout workflows need shared storage; stores are in-memory")

// CheckoutOrchestrator picks how checkouts run. Temporal is used only when the
// stores are shared with the worker and a client connects; otherwise checkout
// runs inline in this process. The returned func closes the client, if any.
func CheckoutOrchestrator(components *Components, logger *slog.Logger, connect func() (client.Client, error)) (ordersports.WorkflowOrchestrator, func()) {
	inline := orderworkflows.NewInlineOrderWorkflows(components.Orders)
	if !components.SharedStorage {
		logger.Warn("running checkout inline", slog.String("reason", ErrLocalStorage.Error()))
		return inline, func() {}
	}
	temporalClient, err := connect()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running checkout inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return orderworkflows.NewTemporalOrderWorkflows(temporalClient), temporalClient.Close
}

func buildPublisher(cfg Config, instruments *platformobservability.Instruments, logger *slog.Logger) (ordersports.EventPublisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, order events will only be logged")
		return orderlogging.NewPublisher(logger), func() {}, nil
	}
	writer, err := orderkafka.NewWriter(orderkafka.Config{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	}, instruments.TracerProviderOrGlobal())
	if err != nil {
		return nil, nil, err
	}
	logger.Info("order events publishing to kafka", slog.String("topic", cfg.KafkaTopic), slog.Any("brokers", cfg.KafkaBrokers))
	publisher := orderkafka.NewPublisher(writer)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close kafka writer", slog.String("error", err.Error()))
		}
	}, nil
}

// ConnectTemporalClient dials Temporal with tracing and structured logging.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

// ShutdownObservability flushes telemetry with a bounded timeout.
func ShutdownObservability(logger *slog.Logger, shutdown func(context.Context) error) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
	}
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
