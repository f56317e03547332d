package domain

import "time"

// Event is the base interface for all domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() string
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderCreated is raised after a checkout commits.
type OrderCreated struct {
	BaseEvent
	OrderID       string        `json:"orderId"`
	OrderNumber   string        `json:"orderNumber"`
	UserID        string        `json:"userId"`
	Channel       Channel       `json:"channel"`
	Amount        string        `json:"amount"`
	ItemCount     int           `json:"itemCount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

func (e OrderCreated) EventName() string   { return "order/created" }
func (e OrderCreated) AggregateID() string { return e.OrderID }

// ItemStatusUpdated is raised once per line item whose status changed.
type ItemStatusUpdated struct {
	BaseEvent
	OrderID        string     `json:"orderId"`
	OrderNumber    string     `json:"orderNumber"`
	ItemID         string     `json:"itemId"`
	ProductID      string     `json:"productId"`
	ProductName    string     `json:"productName"`
	PreviousStatus ItemStatus `json:"previousStatus"`
	NewStatus      ItemStatus `json:"newStatus"`
	UpdatedBy      string     `json:"updatedBy"`
}

func (e ItemStatusUpdated) EventName() string   { return "order/item-status-updated" }
func (e ItemStatusUpdated) AggregateID() string { return e.OrderID }

// OrderStatusUpdated is raised when re-aggregation moved the order status.
type OrderStatusUpdated struct {
	BaseEvent
	OrderID               string        `json:"orderId"`
	OrderNumber           string        `json:"orderNumber"`
	PreviousStatus        OrderStatus   `json:"previousStatus"`
	NewStatus             OrderStatus   `json:"newStatus"`
	PreviousPaymentStatus PaymentStatus `json:"previousPaymentStatus"`
	PaymentStatus         PaymentStatus `json:"paymentStatus"`
	UpdatedBy             string        `json:"updatedBy"`
}

func (e OrderStatusUpdated) EventName() string   { return "order/status-updated" }
func (e OrderStatusUpdated) AggregateID() string { return e.OrderID }

// PaymentConfirmationUpdated is raised when a seller confirms or rejects a transfer.
type PaymentConfirmationUpdated struct {
	BaseEvent
	OrderID                    string             `json:"orderId"`
	OrderNumber                string             `json:"orderNumber"`
	Action                     PaymentAction      `json:"action"`
	PreviousConfirmationStatus ConfirmationStatus `json:"previousConfirmationStatus"`
	ConfirmationStatus         ConfirmationStatus `json:"confirmationStatus"`
	PaymentStatus              PaymentStatus      `json:"paymentStatus"`
	Status                     OrderStatus        `json:"status"`
	UpdatedBy                  string             `json:"updatedBy"`
}

func (e PaymentConfirmationUpdated) EventName() string   { return "order/payment-confirmation-updated" }
func (e PaymentConfirmationUpdated) AggregateID() string { return e.OrderID }
