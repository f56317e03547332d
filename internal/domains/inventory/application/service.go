package application

import (
	"context"
	"strings"

	"github.com/Apurer/order-engine/internal/domains/inventory/application/types"
	"github.com/Apurer/order-engine/internal/domains/inventory/domain"
	"github.com/Apurer/order-engine/internal/domains/inventory/ports"
	"github.com/Apurer/order-engine/internal/shared/auth"
)

// Service orchestrates stock maintenance outside of checkout.
type Service struct {
	session ports.LedgerSession
	sellers auth.SellerAuthorizer
}

func NewService(session ports.LedgerSession, sellers auth.SellerAuthorizer) *Service {
	return &Service{session: session, sellers: sellers}
}

// Restock adds units to a product. Only sellers may restock.
func (s *Service) Restock(ctx context.Context, input types.RestockInput) (*domain.Product, error) {
	if err := auth.RequireSeller(ctx, s.sellers, input.ActorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, mapError(domain.ErrInvalidProductID)
	}
	if input.Quantity <= 0 {
		return nil, mapError(domain.ErrInvalidQuantity)
	}
	var restocked *domain.Product
	err := s.session.InLedger(ctx, func(ctx context.Context, ledger ports.Ledger) error {
		product, err := ledger.Restock(ctx, strings.TrimSpace(input.ProductID), input.Quantity)
		if err != nil {
			return err
		}
		restocked = product
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return restocked, nil
}

var _ ports.Service = (*Service)(nil)
