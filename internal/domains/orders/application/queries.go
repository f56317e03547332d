package application

import (
	"context"
	"fmt"
	"strings"

	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
	"github.com/Apurer/order-engine/internal/domains/orders/ports"
	"github.com/Apurer/order-engine/internal/shared/auth"
)

// GetOrder returns a single order to its buyer or to any seller. Other actors
// get ErrOrderNotFound so order ids cannot be enumerated.
func (s *Service) GetOrder(ctx context.Context, input ordertypes.OrderLookup) (*ordertypes.OrderProjection, error) {
	if err := auth.RequireActor(input.ActorID); err != nil {
		return nil, err
	}
	orderID := strings.TrimSpace(input.OrderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}
	order, err := s.reads.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	actorID := strings.TrimSpace(input.ActorID)
	if order.UserID != actorID {
		if err := auth.RequireSeller(ctx, s.sellers, actorID); err != nil {
			return nil, ports.ErrOrderNotFound
		}
	}
	return s.project(ctx, order), nil
}

// ListOrders returns the actor's own orders, newest first.
func (s *Service) ListOrders(ctx context.Context, actorID string) ([]*ordertypes.OrderProjection, error) {
	if err := auth.RequireActor(actorID); err != nil {
		return nil, err
	}
	orders, err := s.reads.ListOrdersByUser(ctx, strings.TrimSpace(actorID))
	if err != nil {
		return nil, err
	}
	return s.projectAll(ctx, orders), nil
}

// ListSellerOrders returns every order for the seller dashboard, newest first.
func (s *Service) ListSellerOrders(ctx context.Context, actorID string) ([]*ordertypes.OrderProjection, error) {
	if err := auth.RequireSeller(ctx, s.sellers, actorID); err != nil {
		return nil, err
	}
	orders, err := s.reads.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return s.projectAll(ctx, orders), nil
}
