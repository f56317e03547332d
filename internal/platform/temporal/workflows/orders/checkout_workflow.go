package orders

import (
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
	"github.com/Apurer/order-engine/internal/platform/temporal/sequences"
)

const (
	// CheckoutWorkflowName is the public identifier for registering the workflow.
	CheckoutWorkflowName = "orders.workflows.Checkout"
	// CheckoutTaskQueue is the queue consumed by the worker processing checkouts.
	CheckoutTaskQueue = "ORDER_CHECKOUT"
)

// CheckoutWorkflowInput captures the checkout command plus the caller's trace id.
type CheckoutWorkflowInput struct {
	Command ordertypes.CheckoutInput
	TraceID string
}

// CheckoutWorkflow runs a checkout durably. A repeated workflow id with an
// idempotency key returns the first run's result.
func CheckoutWorkflow(ctx workflow.Context, input CheckoutWorkflowInput) (*ordertypes.OrderProjection, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("CheckoutWorkflow started", withTraceID(input.TraceID, "channel", input.Command.Channel)...)
	projection, err := sequences.RunCheckoutSequence(ctx, input.Command)
	if err != nil {
		logger.Error("CheckoutWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	if projection != nil && projection.Order != nil {
		logger.Info("CheckoutWorkflow completed", withTraceID(input.TraceID, "orderId", projection.Order.ID, "orderNumber", projection.Order.OrderNumber)...)
	} else {
		logger.Info("CheckoutWorkflow completed", withTraceID(input.TraceID)...)
	}
	return projection, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
