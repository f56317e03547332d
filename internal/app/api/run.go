package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"

	orderserver "github.com/Apurer/order-engine/go"

	platformobservability "github.com/Apurer/order-engine/internal/platform/observability"
)

const serviceName = "order-engine-api"

// Run boots the order engine HTTP API with observability, stores, events, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName,
		platformobservability.WithEnvironment(cfg.Environment),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	logger := instruments.Logger
	defer ShutdownObservability(logger, shutdown)

	components, cleanup, err := BuildComponents(ctx, cfg, instruments)
	if err != nil {
		return fmt.Errorf("failed to wire services: %w", err)
	}
	defer cleanup()

	checkoutWorkflows, closeWorkflows := CheckoutOrchestrator(components, logger, func() (client.Client, error) {
		return ConnectTemporalClient(cfg, instruments)
	})
	defer closeWorkflows()

	problems := orderserver.NewErrorResponder(logger, cfg.IsDevelopment())
	handlers := orderserver.ApiHandleFunctions{
		OrderAPI:     orderserver.NewOrderAPI(components.Orders, checkoutWorkflows, problems),
		InventoryAPI: orderserver.NewInventoryAPI(components.Inventory, problems),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName), orderserver.ActorMiddleware())
	router := orderserver.NewRouterWithGinEngine(engine, handlers)

	addr := ":" + cfg.Port
	logger.Info("Order engine API listening", slog.String("addr", addr), slog.String("environment", cfg.Environment))
	if err := router.Run(addr); err != nil {
		logger.Error("Order engine API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
