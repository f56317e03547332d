package application

import (
	"context"
	"fmt"
	"strings"

	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
	"github.com/Apurer/order-engine/internal/domains/orders/domain"
	"github.com/Apurer/order-engine/internal/domains/orders/ports"
	"github.com/Apurer/order-engine/internal/shared/auth"
)

// UpdateItemStatuses moves the requested items to a new status, re-derives the
// order status from all items, and settles payment when everything is
// delivered. It returns ErrNoChange, writing and emitting nothing, when every
// requested item already has the status.
func (s *Service) UpdateItemStatuses(ctx context.Context, input ordertypes.UpdateItemStatusInput) (*ordertypes.ItemStatusUpdateResult, error) {
	if err := auth.RequireSeller(ctx, s.sellers, input.ActorID); err != nil {
		return nil, err
	}
	status, err := domain.ParseItemStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	orderID := strings.TrimSpace(input.OrderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}
	itemIDs := normalizeIDs(input.ItemIDs)
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one item id is required", ErrInvalidInput)
	}

	var (
		order      *domain.Order
		changes    []domain.ItemChange
		transition domain.StatusTransition
	)
	err = s.uow.Do(ctx, func(ctx context.Context, tx ports.Tx) error {
		loaded, err := tx.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		changes = loaded.ApplyItemStatus(itemIDs, status, s.now())
		if len(changes) == 0 {
			return ErrNoChange
		}
		transition = loaded.Reaggregate()
		if err := tx.Orders().Update(ctx, loaded); err != nil {
			return err
		}
		order = loaded
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}

	view := s.project(ctx, order)
	actorID := strings.TrimSpace(input.ActorID)
	at := s.now()
	result := &ordertypes.ItemStatusUpdateResult{
		UpdatedItems: make([]ordertypes.UpdatedItem, 0, len(changes)),
		Transition:   transition,
		Order:        view,
	}
	events := make([]domain.Event, 0, len(changes)+1)
	for _, change := range changes {
		name := view.ProductName(change.ProductID)
		result.UpdatedItems = append(result.UpdatedItems, ordertypes.UpdatedItem{
			ItemID:         change.ItemID,
			ProductID:      change.ProductID,
			ProductName:    name,
			PreviousStatus: change.PreviousStatus,
			NewStatus:      change.NewStatus,
		})
		events = append(events, domain.ItemStatusUpdated{
			BaseEvent:      domain.BaseEvent{Timestamp: at},
			OrderID:        order.ID,
			OrderNumber:    order.OrderNumber,
			ItemID:         change.ItemID,
			ProductID:      change.ProductID,
			ProductName:    name,
			PreviousStatus: change.PreviousStatus,
			NewStatus:      change.NewStatus,
			UpdatedBy:      actorID,
		})
	}
	if transition.StatusChanged() || transition.PaymentChanged() {
		events = append(events, domain.OrderStatusUpdated{
			BaseEvent:             domain.BaseEvent{Timestamp: at},
			OrderID:               order.ID,
			OrderNumber:           order.OrderNumber,
			PreviousStatus:        transition.PreviousStatus,
			NewStatus:             transition.Status,
			PreviousPaymentStatus: transition.PreviousPaymentStatus,
			PaymentStatus:         transition.PaymentStatus,
			UpdatedBy:             actorID,
		})
	}
	s.dispatch(ctx, events...)
	return result, nil
}

func normalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
