package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
	orderactivities "github.com/Apurer/order-engine/internal/platform/temporal/activities/orders"
)

// RunCheckoutSequence executes the checkout transaction activity. Storage
// failures are retried; business rejections come back non-retryable.
func RunCheckoutSequence(ctx workflow.Context, input ordertypes.CheckoutInput) (*ordertypes.OrderProjection, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("checkout sequence started", "channel", input.Channel, "lines", len(input.Items))
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    500 * time.Millisecond,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    4,
		},
	}

	var projection ordertypes.OrderProjection
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.PlaceSaleActivityName, input).Get(ctx, &projection)
	if err != nil {
		logger.Error("checkout sequence failed", "channel", input.Channel, "error", err)
		return nil, err
	}
	if projection.Order != nil {
		logger.Info("checkout sequence committed", "orderId", projection.Order.ID)
	}
	return &projection, nil
}
