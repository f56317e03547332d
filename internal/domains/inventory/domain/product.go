package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductID  = errors.New("product id is required")
	ErrInvalidName       = errors.New("product name is required")
	ErrInvalidPrice      = errors.New("product price must not be negative")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrNegativeStock     = errors.New("stock must not be negative")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product is the catalog entry whose stock counter the ledger owns.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	// OfferPrice of zero means the product has no active offer.
	OfferPrice  decimal.Decimal
	Stock       int
	IsAvailable bool
	Barcode     *string
	Images      []string
	Category    string
	SellerID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct validates and constructs a catalog product.
func NewProduct(id, name string, price, offerPrice decimal.Decimal, stock int) (*Product, error) {
	p := &Product{
		ID:          strings.TrimSpace(id),
		Name:        strings.TrimSpace(name),
		Price:       price,
		OfferPrice:  offerPrice,
		Stock:       stock,
		IsAvailable: stock > 0,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces product invariants.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrInvalidProductID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if p.Price.IsNegative() || p.OfferPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// UnitPrice returns the offer price when one is active, otherwise the list price.
func (p *Product) UnitPrice() decimal.Decimal {
	if p.OfferPrice.IsPositive() {
		return p.OfferPrice
	}
	return p.Price
}

// CanReserve reports whether quantity units are currently on hand.
func (p *Product) CanReserve(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if p.Stock < quantity {
		return fmt.Errorf("%w: %s has %d left, %d requested", ErrInsufficientStock, p.Name, p.Stock, quantity)
	}
	return nil
}

// Take removes quantity units, refusing to go below zero. IsAvailable is left untouched.
func (p *Product) Take(quantity int, at time.Time) error {
	if err := p.CanReserve(quantity); err != nil {
		return err
	}
	p.Stock -= quantity
	p.UpdatedAt = at
	return nil
}

// Restock adds quantity units and marks the product available.
func (p *Product) Restock(quantity int, at time.Time) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	p.Stock += quantity
	p.IsAvailable = true
	p.UpdatedAt = at
	return nil
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Barcode != nil {
		barcode := *p.Barcode
		clone.Barcode = &barcode
	}
	if p.Images != nil {
		clone.Images = append([]string(nil), p.Images...)
	}
	return &clone
}
