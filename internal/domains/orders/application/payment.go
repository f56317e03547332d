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

// ConfirmPayment records a seller's confirm or reject decision on an ABA
// transfer.
func (s *Service) ConfirmPayment(ctx context.Context, input ordertypes.ConfirmPaymentInput) (*ordertypes.OrderProjection, error) {
	if err := auth.RequireSeller(ctx, s.sellers, input.ActorID); err != nil {
		return nil, err
	}
	action, err := domain.ParsePaymentAction(input.Action)
	if err != nil {
		return nil, mapError(err)
	}
	orderID := strings.TrimSpace(input.OrderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}

	var (
		order    *domain.Order
		decision domain.PaymentDecision
	)
	err = s.uow.Do(ctx, func(ctx context.Context, tx ports.Tx) error {
		loaded, err := tx.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		decision, err = loaded.DecidePayment(action, s.now())
		if err != nil {
			return err
		}
		if !decision.Changed() {
			return ErrNoChange
		}
		if err := tx.Orders().Update(ctx, loaded); err != nil {
			return err
		}
		order = loaded
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}

	s.dispatch(ctx, domain.PaymentConfirmationUpdated{
		BaseEvent:                  domain.BaseEvent{Timestamp: s.now()},
		OrderID:                    order.ID,
		OrderNumber:                order.OrderNumber,
		Action:                     decision.Action,
		PreviousConfirmationStatus: decision.PreviousConfirmationStatus,
		ConfirmationStatus:         decision.ConfirmationStatus,
		PaymentStatus:              decision.PaymentStatus,
		Status:                     decision.Status,
		UpdatedBy:                  strings.TrimSpace(input.ActorID),
	})
	return s.project(ctx, order), nil
}
