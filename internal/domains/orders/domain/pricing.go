package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	inventorydomain "github.com/Apurer/order-engine/internal/domains/inventory/domain"
)

const (
	posOrderPrefix    = "POS-"
	onlineOrderPrefix = "WEB-"
	orderSuffixLength = 8
)

var (
	// singleItemDeliveryFee applies when an online order carries one unit in total.
	singleItemDeliveryFee = decimal.RequireFromString("1.50")
)

// PricedLine pairs a product snapshot read inside the checkout transaction
// with the requested quantity.
type PricedLine struct {
	Product  *inventorydomain.Product
	Quantity int
}

// OrderDraft carries the identity fields fixed before pricing.
type OrderDraft struct {
	ID        string
	UserID    string
	AddressID string
	Date      time.Time
	// NewItemID generates line item ids. Defaults to random UUIDs.
	NewItemID func() string
}

// PricingPolicy fills in channel specific totals, statuses, and the human
// readable order id once the subtotal is known.
type PricingPolicy interface {
	Channel() Channel
	Validate() error
	Apply(order *Order) error
}

// BuildOrder prices lines into a new order. Unit price is the offer price when
// positive, otherwise the list price.
func BuildOrder(draft OrderDraft, lines []PricedLine, policy PricingPolicy) (*Order, error) {
	if policy == nil {
		return nil, errors.New("pricing policy is required")
	}
	if strings.TrimSpace(draft.ID) == "" {
		return nil, errors.New("order id is required")
	}
	if len(lines) == 0 {
		return nil, ErrEmptyItems
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	newItemID := draft.NewItemID
	if newItemID == nil {
		newItemID = uuid.NewString
	}
	order := &Order{
		ID:        draft.ID,
		UserID:    draft.UserID,
		AddressID: draft.AddressID,
		Channel:   policy.Channel(),
		Date:      draft.Date,
		UpdatedAt: draft.Date,
		Items:     make([]OrderItem, 0, len(lines)),
	}
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Product == nil || strings.TrimSpace(line.Product.ID) == "" {
			return nil, ErrInvalidProductID
		}
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		item := OrderItem{
			ID:        newItemID(),
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.UnitPrice(),
			Status:    ItemPending,
		}
		subtotal = subtotal.Add(item.LineTotal())
		order.Items = append(order.Items, item)
	}
	order.Subtotal = subtotal.Round(2)
	if err := policy.Apply(order); err != nil {
		return nil, err
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// DeriveOrderNumber appends the upper-cased last eight characters of the
// storage id to prefix.
func DeriveOrderNumber(prefix, storageID string) string {
	suffix := strings.TrimSpace(storageID)
	if len(suffix) > orderSuffixLength {
		suffix = suffix[len(suffix)-orderSuffixLength:]
	}
	return prefix + strings.ToUpper(suffix)
}

// POSPricing prices a counter sale: paid on the spot, no fees or discounts.
type POSPricing struct{}

func (POSPricing) Channel() Channel { return ChannelPOS }

func (POSPricing) Validate() error { return nil }

func (POSPricing) Apply(order *Order) error {
	order.DeliveryFee = decimal.Zero
	order.Discount = decimal.Zero
	order.Amount = order.Subtotal
	order.Status = OrderCompleted
	order.PaymentMethod = PaymentCOD
	order.PaymentStatus = PaymentPaid
	order.PaymentConfirmationStatus = ConfirmationConfirmed
	order.OrderNumber = DeriveOrderNumber(posOrderPrefix, order.ID)
	return nil
}

// OnlinePricing prices a buyer checkout.
type OnlinePricing struct {
	Method           PaymentMethod
	Discount         decimal.Decimal
	DeliveryFee      *decimal.Decimal
	TransactionImage string
	BakongMD5        string
	PromoCode        *PromoCode
}

func (OnlinePricing) Channel() Channel { return ChannelOnline }

func (p OnlinePricing) Validate() error {
	switch p.Method {
	case PaymentCOD:
	case PaymentABA:
		if strings.TrimSpace(p.TransactionImage) == "" {
			return ErrMissingTransferProof
		}
	case PaymentBakong:
		if strings.TrimSpace(p.BakongMD5) == "" {
			return ErrMissingBakongHash
		}
	default:
		return ErrInvalidPaymentMethod
	}
	if p.Discount.IsNegative() || (p.DeliveryFee != nil && p.DeliveryFee.IsNegative()) {
		return ErrNegativeAmount
	}
	return nil
}

func (p OnlinePricing) Apply(order *Order) error {
	order.DeliveryFee = p.deliveryFee(order.Items).Round(2)
	order.Discount = p.Discount.Round(2)
	order.Amount = order.Subtotal.Sub(order.Discount).Add(order.DeliveryFee)
	if order.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	order.Status = OrderPending
	order.PaymentMethod = p.Method
	order.PaymentStatus = PaymentPending
	order.PaymentConfirmationStatus = ConfirmationNotApplicable
	switch p.Method {
	case PaymentABA:
		order.PaymentStatus = PaymentPendingConfirmation
		order.PaymentConfirmationStatus = ConfirmationPendingReview
		order.PaymentTransactionImage = strings.TrimSpace(p.TransactionImage)
	case PaymentBakong:
		order.BakongMD5 = strings.TrimSpace(p.BakongMD5)
	}
	if p.PromoCode != nil {
		promo := *p.PromoCode
		order.PromoCode = &promo
	}
	order.OrderNumber = DeriveOrderNumber(onlineOrderPrefix, order.ID)
	return nil
}

// deliveryFee is free for more than one unit in total unless the client set it.
func (p OnlinePricing) deliveryFee(items []OrderItem) decimal.Decimal {
	if p.DeliveryFee != nil {
		return *p.DeliveryFee
	}
	units := 0
	for _, item := range items {
		units += item.Quantity
	}
	if units > 1 {
		return decimal.Zero
	}
	return singleItemDeliveryFee
}
