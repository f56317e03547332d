package domain

import (
	"fmt"
	"strings"
)

// ItemStatus is the fulfillment state of a single line item.
type ItemStatus string

const (
	ItemPending        ItemStatus = "pending"
	ItemProcessing     ItemStatus = "processing"
	ItemOutForDelivery ItemStatus = "out for delivery"
	ItemDelivered      ItemStatus = "delivered"
	ItemCancelled      ItemStatus = "cancelled"
)

// itemLifecycle lists item statuses from least to most advanced. Aggregation
// uses this order to break ties.
var itemLifecycle = []ItemStatus{
	ItemPending,
	ItemProcessing,
	ItemOutForDelivery,
	ItemDelivered,
	ItemCancelled,
}

// ParseItemStatus accepts any casing and either spaces or underscores.
func ParseItemStatus(raw string) (ItemStatus, error) {
	normalized := strings.Join(strings.Fields(strings.ReplaceAll(strings.ToLower(raw), "_", " ")), " ")
	for _, status := range itemLifecycle {
		if string(status) == normalized {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// OrderStatus is the order-level status shown to buyers and sellers.
type OrderStatus string

const (
	OrderPending         OrderStatus = "pending"
	OrderProcessing      OrderStatus = "processing"
	OrderOutForDelivery  OrderStatus = "out for delivery"
	OrderDelivered       OrderStatus = "delivered"
	OrderCancelled       OrderStatus = "cancelled"
	OrderCompleted       OrderStatus = "Completed"
	OrderPaymentRejected OrderStatus = "payment rejected"
)

type PaymentStatus string

const (
	PaymentPending             PaymentStatus = "pending"
	PaymentPaid                PaymentStatus = "paid"
	PaymentFailed              PaymentStatus = "failed"
	PaymentRefunded            PaymentStatus = "refunded"
	PaymentPendingConfirmation PaymentStatus = "pending_confirmation"
)

type ConfirmationStatus string

const (
	ConfirmationNotApplicable ConfirmationStatus = "na"
	ConfirmationPendingReview ConfirmationStatus = "pending_review"
	ConfirmationConfirmed     ConfirmationStatus = "confirmed"
	ConfirmationRejected      ConfirmationStatus = "rejected"
)

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentABA    PaymentMethod = "ABA"
	PaymentBakong PaymentMethod = "Bakong"
)

// ParsePaymentMethod matches the method names case-insensitively.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	trimmed := strings.TrimSpace(raw)
	for _, method := range []PaymentMethod{PaymentCOD, PaymentABA, PaymentBakong} {
		if strings.EqualFold(string(method), trimmed) {
			return method, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, raw)
}

// PaymentAction is a seller decision on a manually confirmed payment.
type PaymentAction string

const (
	PaymentActionConfirm PaymentAction = "confirm"
	PaymentActionReject  PaymentAction = "reject"
)

func ParsePaymentAction(raw string) (PaymentAction, error) {
	switch PaymentAction(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentActionConfirm:
		return PaymentActionConfirm, nil
	case PaymentActionReject:
		return PaymentActionReject, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentAction, raw)
	}
}

// Channel distinguishes point-of-sale checkouts from online ones.
type Channel string

const (
	ChannelPOS    Channel = "pos"
	ChannelOnline Channel = "online"
)
