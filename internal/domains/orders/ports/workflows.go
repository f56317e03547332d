package ports

import (
	"context"

	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
)

// WorkflowOrchestrator exposes durable workflow operations required by the orders bounded context.
type WorkflowOrchestrator interface {
	Checkout(ctx context.Context, input ordertypes.CheckoutInput) (*ordertypes.OrderProjection, error)
}
