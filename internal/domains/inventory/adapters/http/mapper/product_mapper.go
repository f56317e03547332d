package mapper

import (
	"time"

	"github.com/Apurer/order-engine/internal/domains/inventory/application/types"
	"github.com/Apurer/order-engine/internal/domains/inventory/domain"
)

// UpdateStockRequest adds units to a product.
type UpdateStockRequest struct {
	ProductID     string `json:"productId" binding:"required"`
	QuantityToAdd int    `json:"quantityToAdd" binding:"required,gt=0"`
}

// Product is the HTTP representation of a catalog product.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	OfferPrice  float64   `json:"offerPrice"`
	Stock       int       `json:"stock"`
	IsAvailable bool      `json:"isAvailable"`
	Barcode     *string   `json:"barcode,omitempty"`
	Image       []string  `json:"image"`
	Category    string    `json:"category,omitempty"`
	SellerID    string    `json:"userId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToRestockInput maps the update-stock payload.
func ToRestockInput(actorID string, req UpdateStockRequest) types.RestockInput {
	return types.RestockInput{ActorID: actorID, ProductID: req.ProductID, Quantity: req.QuantityToAdd}
}

// FromDomainProduct maps a product for responses.
func FromDomainProduct(p *domain.Product) Product {
	if p == nil {
		return Product{}
	}
	return Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.Round(2).InexactFloat64(),
		OfferPrice:  p.OfferPrice.Round(2).InexactFloat64(),
		Stock:       p.Stock,
		IsAvailable: p.IsAvailable,
		Barcode:     p.Barcode,
		Image:       append([]string{}, p.Images...),
		Category:    p.Category,
		SellerID:    p.SellerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
