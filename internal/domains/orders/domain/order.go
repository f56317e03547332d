package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyItems            = errors.New("order must contain at least one item")
	ErrInvalidProductID      = errors.New("item product id is required")
	ErrInvalidQuantity       = errors.New("item quantity must be greater than zero")
	ErrInvalidStatus         = errors.New("status is not recognized")
	ErrInvalidPaymentMethod  = errors.New("payment method is not recognized")
	ErrInvalidPaymentAction  = errors.New("payment confirmation action is not recognized")
	ErrMissingAddress        = errors.New("address is required")
	ErrMissingTransferProof  = errors.New("transaction proof is required for ABA payment")
	ErrMissingBakongHash     = errors.New("bakong payment details (md5) are required")
	ErrNegativeAmount        = errors.New("amounts must not be negative")
	ErrPaymentNotConfirmable = errors.New("payment confirmation only applies to ABA orders")
)

// PromoCode is the promotion snapshot supplied at checkout.
type PromoCode struct {
	ID             string          `json:"id,omitempty"`
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	DiscountType   string          `json:"discountType,omitempty"`
	DiscountValue  decimal.Decimal `json:"discountValue"`
}

// OrderItem is one product line of an order. UnitPrice is the price snapshot
// taken at checkout.
type OrderItem struct {
	ID        string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Status    ItemStatus
}

// LineTotal is the unit price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order models the sale aggregate.
type Order struct {
	ID string
	// OrderNumber is the human readable order id, for example POS-1A2B3C4D.
	OrderNumber               string
	UserID                    string
	AddressID                 string
	Channel                   Channel
	Items                     []OrderItem
	Subtotal                  decimal.Decimal
	DeliveryFee               decimal.Decimal
	Discount                  decimal.Decimal
	Amount                    decimal.Decimal
	Date                      time.Time
	Status                    OrderStatus
	PaymentMethod             PaymentMethod
	PaymentStatus             PaymentStatus
	PaymentConfirmationStatus ConfirmationStatus
	PaymentTransactionImage   string
	BakongMD5                 string
	PromoCode                 *PromoCode
	IdempotencyKey            string
	RequestHash               string
	UpdatedAt                 time.Time
}

// ItemChange records a single item's status transition.
type ItemChange struct {
	ItemID         string
	ProductID      string
	PreviousStatus ItemStatus
	NewStatus      ItemStatus
}

// StatusTransition describes the order-level effects of re-aggregation.
type StatusTransition struct {
	PreviousStatus        OrderStatus
	Status                OrderStatus
	PreviousPaymentStatus PaymentStatus
	PaymentStatus         PaymentStatus
}

// StatusChanged reports whether the order-level status moved.
func (t StatusTransition) StatusChanged() bool {
	return t.PreviousStatus != t.Status
}

// PaymentChanged reports whether the payment status moved.
func (t StatusTransition) PaymentChanged() bool {
	return t.PreviousPaymentStatus != t.PaymentStatus
}

// Validate enforces the aggregate invariants.
func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrEmptyItems
	}
	for _, item := range o.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return ErrInvalidProductID
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	if o.Subtotal.IsNegative() || o.DeliveryFee.IsNegative() || o.Discount.IsNegative() || o.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// ProductIDs returns the distinct product ids in item order.
func (o *Order) ProductIDs() []string {
	seen := make(map[string]struct{}, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// ApplyItemStatus moves the listed items to status. Items already in that
// status and unknown ids are skipped. The returned changes follow stored item
// order.
func (o *Order) ApplyItemStatus(itemIDs []string, status ItemStatus, at time.Time) []ItemChange {
	requested := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		requested[strings.TrimSpace(id)] = struct{}{}
	}
	var changes []ItemChange
	for i := range o.Items {
		item := &o.Items[i]
		if _, ok := requested[item.ID]; !ok || item.Status == status {
			continue
		}
		changes = append(changes, ItemChange{
			ItemID:         item.ID,
			ProductID:      item.ProductID,
			PreviousStatus: item.Status,
			NewStatus:      status,
		})
		item.Status = status
	}
	if len(changes) > 0 {
		o.UpdatedAt = at
	}
	return changes
}

// Reaggregate derives the order status from all items and settles payment
// once every item is delivered. Settlement is never reverted.
func (o *Order) Reaggregate() StatusTransition {
	transition := StatusTransition{
		PreviousStatus:        o.Status,
		PreviousPaymentStatus: o.PaymentStatus,
	}
	if aggregate, ok := AggregateStatus(o.Items); ok {
		o.Status = OrderStatus(aggregate)
	}
	if o.AllDelivered() && o.PaymentStatus != PaymentPaid {
		o.PaymentStatus = PaymentPaid
		if o.PaymentMethod == PaymentCOD && o.PaymentConfirmationStatus == ConfirmationNotApplicable {
			o.PaymentConfirmationStatus = ConfirmationConfirmed
		}
	}
	transition.Status = o.Status
	transition.PaymentStatus = o.PaymentStatus
	return transition
}

// AllDelivered reports whether every item reached delivered.
func (o *Order) AllDelivered() bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, item := range o.Items {
		if item.Status != ItemDelivered {
			return false
		}
	}
	return true
}

// PaymentDecision captures the outcome of a seller payment confirmation.
type PaymentDecision struct {
	Action                     PaymentAction
	PreviousConfirmationStatus ConfirmationStatus
	ConfirmationStatus         ConfirmationStatus
	PreviousPaymentStatus      PaymentStatus
	PaymentStatus              PaymentStatus
	PreviousStatus             OrderStatus
	Status                     OrderStatus
}

// Changed reports whether the decision altered the order.
func (d PaymentDecision) Changed() bool {
	return d.PreviousConfirmationStatus != d.ConfirmationStatus ||
		d.PreviousPaymentStatus != d.PaymentStatus ||
		d.PreviousStatus != d.Status
}

// DecidePayment applies a seller's confirm or reject decision to an ABA order.
func (o *Order) DecidePayment(action PaymentAction, at time.Time) (PaymentDecision, error) {
	if o.PaymentMethod != PaymentABA {
		return PaymentDecision{}, ErrPaymentNotConfirmable
	}
	decision := PaymentDecision{
		Action:                     action,
		PreviousConfirmationStatus: o.PaymentConfirmationStatus,
		PreviousPaymentStatus:      o.PaymentStatus,
		PreviousStatus:             o.Status,
	}
	switch action {
	case PaymentActionConfirm:
		o.PaymentConfirmationStatus = ConfirmationConfirmed
		o.PaymentStatus = PaymentPaid
		if o.Status == OrderPending {
			o.Status = OrderProcessing
		}
	case PaymentActionReject:
		o.PaymentConfirmationStatus = ConfirmationRejected
		o.PaymentStatus = PaymentFailed
		o.Status = OrderPaymentRejected
	default:
		return PaymentDecision{}, ErrInvalidPaymentAction
	}
	decision.ConfirmationStatus = o.PaymentConfirmationStatus
	decision.PaymentStatus = o.PaymentStatus
	decision.Status = o.Status
	if decision.Changed() {
		o.UpdatedAt = at
	}
	return decision, nil
}

// Clone returns a deep copy of the aggregate.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]OrderItem(nil), o.Items...)
	if o.PromoCode != nil {
		promo := *o.PromoCode
		clone.PromoCode = &promo
	}
	return &clone
}
