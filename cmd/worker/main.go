package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/order-engine/internal/app/api"
	platformobservability "github.com/Apurer/order-engine/internal/platform/observability"
	orderactivities "github.com/Apurer/order-engine/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/order-engine/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "order-engine-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName,
		platformobservability.WithEnvironment(cfg.Environment),
	)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	logger := instruments.Logger
	defer api.ShutdownObservability(logger, shutdown)

	components, cleanup, err := api.BuildComponents(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to wire services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()
	if !components.SharedStorage {
		logger.Error("refusing to start worker", slog.String("error", api.ErrLocalStorage.Error()))
		os.Exit(1)
	}
	checkoutActivities := orderactivities.NewActivities(components.Orders)

	cfg.TemporalDisabled = false
	temporalClient, err := api.ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.CheckoutTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.CheckoutWorkflow, workflow.RegisterOptions{Name: orderworkflows.CheckoutWorkflowName})
	w.RegisterActivityWithOptions(checkoutActivities.PlaceSale, activity.RegisterOptions{Name: orderactivities.PlaceSaleActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.CheckoutTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
