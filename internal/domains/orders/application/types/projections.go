package types

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/order-engine/internal/domains/orders/domain"
	"github.com/Apurer/order-engine/internal/shared/projection"
)

// ProductSummary is the display slice of a product joined into order views.
type ProductSummary struct {
	ID         string
	Name       string
	Images     []string
	Price      decimal.Decimal
	OfferPrice decimal.Decimal
	Category   string
}

// ItemView pairs a stored line item with its product, when it still resolves.
type ItemView struct {
	Item    domain.OrderItem
	Product *ProductSummary
}

// OrderProjection is an order with its read-time joins and persistence metadata.
type OrderProjection struct {
	Order    *domain.Order
	Items    []ItemView
	Address  *domain.Address
	Metadata projection.Metadata
}

// ProductName returns the joined product name for productID, or "".
func (p *OrderProjection) ProductName(productID string) string {
	if p == nil {
		return ""
	}
	for _, view := range p.Items {
		if view.Product != nil && view.Product.ID == productID {
			return view.Product.Name
		}
	}
	return ""
}
