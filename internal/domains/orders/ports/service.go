package ports

import (
	"context"

	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
)

// Service exposes order use cases to adapters.
type Service interface {
	Checkout(ctx context.Context, input ordertypes.CheckoutInput) (*ordertypes.OrderProjection, error)
	UpdateItemStatuses(ctx context.Context, input ordertypes.UpdateItemStatusInput) (*ordertypes.ItemStatusUpdateResult, error)
	ConfirmPayment(ctx context.Context, input ordertypes.ConfirmPaymentInput) (*ordertypes.OrderProjection, error)
	GetOrder(ctx context.Context, input ordertypes.OrderLookup) (*ordertypes.OrderProjection, error)
	ListOrders(ctx context.Context, actorID string) ([]*ordertypes.OrderProjection, error)
	ListSellerOrders(ctx context.Context, actorID string) ([]*ordertypes.OrderProjection, error)
}
