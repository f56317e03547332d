package types

import "github.com/Apurer/order-engine/internal/domains/orders/domain"

// UpdateItemStatusInput moves a set of line items to a new status.
type UpdateItemStatusInput struct {
	ActorID string
	OrderID string
	ItemIDs []string
	Status  string
}

// UpdatedItem reports a single item transition with the product name resolved.
type UpdatedItem struct {
	ItemID         string
	ProductID      string
	ProductName    string
	PreviousStatus domain.ItemStatus
	NewStatus      domain.ItemStatus
}

// ItemStatusUpdateResult is returned after a committed status update.
type ItemStatusUpdateResult struct {
	UpdatedItems []UpdatedItem
	Transition   domain.StatusTransition
	Order        *OrderProjection
}

// ConfirmPaymentInput records a seller's decision on a bank transfer.
type ConfirmPaymentInput struct {
	ActorID string
	OrderID string
	Action  string
}

// OrderLookup identifies an order on behalf of an actor.
type OrderLookup struct {
	ActorID string
	OrderID string
}
