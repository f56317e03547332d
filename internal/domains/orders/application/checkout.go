package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
	"github.com/Apurer/order-engine/internal/domains/orders/domain"
	"github.com/Apurer/order-engine/internal/domains/orders/ports"
	"github.com/Apurer/order-engine/internal/shared/auth"
)

// Checkout turns requested lines into a persisted order and removes the sold
// units from stock. Reservation, address resolution, insert, and decrements
// share one unit of work; any failure leaves stock and orders untouched.
func (s *Service) Checkout(ctx context.Context, input ordertypes.CheckoutInput) (*ordertypes.OrderProjection, error) {
	lines, policy, err := s.prepareCheckout(ctx, input)
	if err != nil {
		return nil, err
	}
	actorID := strings.TrimSpace(input.ActorID)
	key := strings.TrimSpace(input.IdempotencyKey)
	fingerprint := ""
	if key != "" {
		if fingerprint, err = FingerprintCheckout(input); err != nil {
			return nil, err
		}
	}

	var (
		order    *domain.Order
		replayed bool
	)
	err = s.uow.Do(ctx, func(ctx context.Context, tx ports.Tx) error {
		if key != "" {
			existing, err := tx.Orders().FindByIdempotencyKey(ctx, actorID, key)
			if err != nil {
				return err
			}
			if existing != nil {
				if existing.RequestHash != fingerprint {
					return ports.ErrIdempotencyConflict
				}
				order, replayed = existing, true
				return nil
			}
		}

		priced := make([]domain.PricedLine, 0, len(lines))
		for _, line := range lines {
			product, err := tx.Inventory().CheckAndReserve(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			priced = append(priced, domain.PricedLine{Product: product, Quantity: line.Quantity})
		}

		built, err := domain.BuildOrder(domain.OrderDraft{
			ID:        s.newID(),
			UserID:    actorID,
			AddressID: strings.TrimSpace(input.AddressID),
			Date:      s.now(),
			NewItemID: s.newID,
		}, priced, policy)
		if err != nil {
			return err
		}
		if err := s.resolveAddress(ctx, tx, built); err != nil {
			return err
		}
		built.IdempotencyKey = key
		built.RequestHash = fingerprint

		if err := tx.Orders().Insert(ctx, built); err != nil {
			return err
		}
		for _, item := range built.Items {
			if err := tx.Inventory().Decrement(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		order = built
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}

	if !replayed {
		s.dispatch(ctx, domain.OrderCreated{
			BaseEvent:     domain.BaseEvent{Timestamp: s.now()},
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			UserID:        order.UserID,
			Channel:       order.Channel,
			Amount:        order.Amount.StringFixed(2),
			ItemCount:     len(order.Items),
			PaymentMethod: order.PaymentMethod,
		})
	}
	return s.project(ctx, order), nil
}

// prepareCheckout authorizes the actor and validates the request shape before
// any transaction is opened.
func (s *Service) prepareCheckout(ctx context.Context, input ordertypes.CheckoutInput) ([]ordertypes.LineInput, domain.PricingPolicy, error) {
	switch input.Channel {
	case domain.ChannelPOS:
		if err := auth.RequireSeller(ctx, s.sellers, input.ActorID); err != nil {
			return nil, nil, err
		}
	case domain.ChannelOnline:
		if err := auth.RequireActor(input.ActorID); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("%w: unknown channel %q", ErrInvalidInput, input.Channel)
	}

	if len(input.Items) == 0 {
		return nil, nil, mapError(domain.ErrEmptyItems)
	}
	lines := make([]ordertypes.LineInput, 0, len(input.Items))
	for _, item := range input.Items {
		productID := strings.TrimSpace(item.ProductID)
		if productID == "" {
			return nil, nil, mapError(domain.ErrInvalidProductID)
		}
		if item.Quantity <= 0 {
			return nil, nil, mapError(fmt.Errorf("%w: product %s", domain.ErrInvalidQuantity, productID))
		}
		lines = append(lines, ordertypes.LineInput{ProductID: productID, Quantity: item.Quantity})
	}

	if input.Channel == domain.ChannelPOS {
		return lines, domain.POSPricing{}, nil
	}
	if strings.TrimSpace(input.AddressID) == "" {
		return nil, nil, mapError(domain.ErrMissingAddress)
	}
	method, err := domain.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, nil, mapError(err)
	}
	policy := domain.OnlinePricing{
		Method:           method,
		Discount:         decimal.Zero,
		DeliveryFee:      input.DeliveryFee,
		TransactionImage: input.PaymentTransactionImage,
		BakongMD5:        input.BakongMD5,
		PromoCode:        input.PromoCode,
	}
	if input.Discount != nil {
		policy.Discount = *input.Discount
	}
	if err := policy.Validate(); err != nil {
		return nil, nil, mapError(err)
	}
	return lines, policy, nil
}

// resolveAddress attaches the walk-in placeholder to counter sales, creating it
// on first use, and checks that an online order ships to the buyer's own address.
func (s *Service) resolveAddress(ctx context.Context, tx ports.Tx, order *domain.Order) error {
	if order.Channel == domain.ChannelPOS {
		walkIn, err := tx.Addresses().FindWalkIn(ctx, order.UserID)
		if err != nil {
			return err
		}
		if walkIn == nil {
			walkIn, err = tx.Addresses().CreateWalkIn(ctx, domain.NewWalkInAddress(s.newID(), order.UserID))
			if err != nil {
				return err
			}
		}
		order.AddressID = walkIn.ID
		return nil
	}
	address, err := tx.Addresses().Get(ctx, order.AddressID)
	if err != nil {
		return err
	}
	if address.UserID != order.UserID {
		return ports.ErrAddressNotFound
	}
	return nil
}
