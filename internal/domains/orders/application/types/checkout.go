package types

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/order-engine/internal/domains/orders/domain"
)

// LineInput is one requested product and quantity.
type LineInput struct {
	ProductID string
	Quantity  int
}

// CheckoutInput is the command accepted by the checkout coordinator for both
// point-of-sale and online sales. Online-only fields are ignored for POS.
type CheckoutInput struct {
	Channel                 domain.Channel
	ActorID                 string
	Items                   []LineInput
	AddressID               string
	PaymentMethod           string
	Discount                *decimal.Decimal
	DeliveryFee             *decimal.Decimal
	PaymentTransactionImage string
	BakongMD5               string
	PromoCode               *domain.PromoCode
	IdempotencyKey          string
}
