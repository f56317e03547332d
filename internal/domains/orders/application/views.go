package application

import (
	"context"
	"log/slog"

	inventorydomain "github.com/Apurer/order-engine/internal/domains/inventory/domain"
	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
	"github.com/Apurer/order-engine/internal/domains/orders/domain"
	"github.com/Apurer/order-engine/internal/shared/projection"
)

func (s *Service) project(ctx context.Context, order *domain.Order) *ordertypes.OrderProjection {
	views := s.projectAll(ctx, []*domain.Order{order})
	if len(views) == 0 {
		return nil
	}
	return views[0]
}

// projectAll joins products and addresses onto orders. Join failures degrade
// to missing product or address data; the orders themselves are always returned.
func (s *Service) projectAll(ctx context.Context, orders []*domain.Order) []*ordertypes.OrderProjection {
	productIDs := make([]string, 0)
	addressIDs := make([]string, 0, len(orders))
	seenProducts := make(map[string]struct{})
	seenAddresses := make(map[string]struct{})
	for _, order := range orders {
		if order == nil {
			continue
		}
		for _, id := range order.ProductIDs() {
			if _, ok := seenProducts[id]; !ok {
				seenProducts[id] = struct{}{}
				productIDs = append(productIDs, id)
			}
		}
		if order.AddressID != "" {
			if _, ok := seenAddresses[order.AddressID]; !ok {
				seenAddresses[order.AddressID] = struct{}{}
				addressIDs = append(addressIDs, order.AddressID)
			}
		}
	}

	products := map[string]*inventorydomain.Product{}
	if s.catalog != nil && len(productIDs) > 0 {
		loaded, err := s.catalog.ProductsByID(ctx, productIDs)
		if err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to join products onto orders",
				slog.Int("count", len(productIDs)), slog.String("error", err.Error()))
		} else {
			products = loaded
		}
	}
	addresses := map[string]*domain.Address{}
	if s.reads != nil && len(addressIDs) > 0 {
		loaded, err := s.reads.AddressesByID(ctx, addressIDs)
		if err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to join addresses onto orders",
				slog.Int("count", len(addressIDs)), slog.String("error", err.Error()))
		} else {
			addresses = loaded
		}
	}

	result := make([]*ordertypes.OrderProjection, 0, len(orders))
	for _, order := range orders {
		if order == nil {
			continue
		}
		view := &ordertypes.OrderProjection{
			Order:    order,
			Items:    make([]ordertypes.ItemView, 0, len(order.Items)),
			Address:  addresses[order.AddressID],
			Metadata: projection.NewMetadata(order.Date, order.UpdatedAt),
		}
		for _, item := range order.Items {
			view.Items = append(view.Items, ordertypes.ItemView{
				Item:    item,
				Product: summarize(products[item.ProductID]),
			})
		}
		result = append(result, view)
	}
	return result
}

func summarize(product *inventorydomain.Product) *ordertypes.ProductSummary {
	if product == nil {
		return nil
	}
	images := make([]string, len(product.Images))
	copy(images, product.Images)
	return &ordertypes.ProductSummary{
		ID:         product.ID,
		Name:       product.Name,
		Images:     images,
		Price:      product.Price,
		OfferPrice: product.OfferPrice,
		Category:   product.Category,
	}
}
