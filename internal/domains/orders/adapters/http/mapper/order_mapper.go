package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
	"github.com/Apurer/order-engine/internal/domains/orders/domain"
)

// LineItem is one requested product reference.
type LineItem struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// CreatePOSOrderRequest is the counter-sale payload. Any client supplied
// amount is ignored; the server prices the sale.
type CreatePOSOrderRequest struct {
	Items  []LineItem `json:"items" binding:"required,min=1,dive"`
	Amount *float64   `json:"amount,omitempty"`
}

// PromoCode mirrors the promotion snapshot carried on online orders.
type PromoCode struct {
	ID             string   `json:"id,omitempty"`
	Code           string   `json:"code"`
	DiscountAmount *float64 `json:"discountAmount,omitempty"`
	DiscountType   string   `json:"discountType,omitempty"`
	DiscountValue  *float64 `json:"discountValue,omitempty"`
}

// BakongPaymentDetails carries the KHQR transaction hash.
type BakongPaymentDetails struct {
	MD5 string `json:"md5"`
}

// CreateOrderRequest is the online checkout payload.
type CreateOrderRequest struct {
	Address                 string                `json:"address" binding:"required"`
	Items                   []LineItem            `json:"items" binding:"required,min=1,dive"`
	PaymentMethod           string                `json:"paymentMethod" binding:"required"`
	PaymentTransactionImage string                `json:"paymentTransactionImage,omitempty"`
	BakongPaymentDetails    *BakongPaymentDetails `json:"bakongPaymentDetails,omitempty"`
	Discount                *float64              `json:"discount,omitempty"`
	DeliveryFee             *float64              `json:"deliveryFee,omitempty"`
	PromoCode               *PromoCode            `json:"promoCode,omitempty"`
}

// UpdateStatusRequest covers both item status updates and ABA payment decisions.
type UpdateStatusRequest struct {
	OrderID                   string   `json:"orderId"`
	Status                    string   `json:"status,omitempty"`
	ItemIDs                   []string `json:"itemIds,omitempty"`
	PaymentConfirmationAction string   `json:"paymentConfirmationAction,omitempty"`
}

// ProductSummary is the product slice joined into order responses.
type ProductSummary struct {
	ID         string   `json:"_id"`
	Name       string   `json:"name"`
	Image      []string `json:"image"`
	Price      float64  `json:"price"`
	OfferPrice float64  `json:"offerPrice"`
	Category   string   `json:"category,omitempty"`
}

// OrderItem is a line item in an order response. Product is nil when the
// product no longer resolves.
type OrderItem struct {
	ID        string          `json:"_id"`
	ProductID string          `json:"productId"`
	Product   *ProductSummary `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice float64         `json:"unitPrice"`
	Status    string          `json:"status"`
}

// Address is the delivery address joined into order responses.
type Address struct {
	ID          string `json:"_id"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Area        string `json:"area"`
	State       string `json:"state"`
	Note        string `json:"note,omitempty"`
}

// Order is the HTTP representation of an order.
type Order struct {
	ID                        string      `json:"_id"`
	OrderID                   string      `json:"orderId"`
	UserID                    string      `json:"userId"`
	Items                     []OrderItem `json:"items"`
	Subtotal                  float64     `json:"subtotal"`
	DeliveryFee               float64     `json:"deliveryFee"`
	Discount                  float64     `json:"discount"`
	Amount                    float64     `json:"amount"`
	PromoCode                 *PromoCode  `json:"promoCode,omitempty"`
	AddressID                 string      `json:"addressId"`
	Address                   *Address    `json:"address"`
	Status                    string      `json:"status"`
	Date                      int64       `json:"date"`
	PaymentMethod             string      `json:"paymentMethod"`
	PaymentStatus             string      `json:"paymentStatus"`
	PaymentConfirmationStatus string      `json:"paymentConfirmationStatus"`
	PaymentTransactionImage   string      `json:"paymentTransactionImage,omitempty"`
	CreatedAt                 time.Time   `json:"createdAt"`
	UpdatedAt                 time.Time   `json:"updatedAt"`
}

// UpdatedItem reports one item transition.
type UpdatedItem struct {
	ItemID         string `json:"itemId"`
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	PreviousStatus string `json:"previousStatus"`
	NewStatus      string `json:"newStatus"`
}

// ToPOSCheckoutInput maps the counter-sale payload into the checkout command.
func ToPOSCheckoutInput(actorID, idempotencyKey string, req CreatePOSOrderRequest) ordertypes.CheckoutInput {
	return ordertypes.CheckoutInput{
		Channel:        domain.ChannelPOS,
		ActorID:        actorID,
		Items:          toLines(req.Items),
		IdempotencyKey: idempotencyKey,
	}
}

// ToOnlineCheckoutInput maps the online payload into the checkout command.
func ToOnlineCheckoutInput(actorID, idempotencyKey string, req CreateOrderRequest) ordertypes.CheckoutInput {
	input := ordertypes.CheckoutInput{
		Channel:                 domain.ChannelOnline,
		ActorID:                 actorID,
		Items:                   toLines(req.Items),
		AddressID:               req.Address,
		PaymentMethod:           req.PaymentMethod,
		PaymentTransactionImage: req.PaymentTransactionImage,
		Discount:                toDecimal(req.Discount),
		DeliveryFee:             toDecimal(req.DeliveryFee),
		IdempotencyKey:          idempotencyKey,
	}
	if req.BakongPaymentDetails != nil {
		input.BakongMD5 = req.BakongPaymentDetails.MD5
	}
	if req.PromoCode != nil {
		promo := &domain.PromoCode{
			ID:           req.PromoCode.ID,
			Code:         req.PromoCode.Code,
			DiscountType: req.PromoCode.DiscountType,
		}
		if v := toDecimal(req.PromoCode.DiscountAmount); v != nil {
			promo.DiscountAmount = *v
		} else if input.Discount != nil {
			promo.DiscountAmount = *input.Discount
		}
		if v := toDecimal(req.PromoCode.DiscountValue); v != nil {
			promo.DiscountValue = *v
		}
		input.PromoCode = promo
	}
	return input
}

// ToUpdateItemStatusInput maps the item branch of an update-status request.
func ToUpdateItemStatusInput(actorID string, req UpdateStatusRequest) ordertypes.UpdateItemStatusInput {
	return ordertypes.UpdateItemStatusInput{
		ActorID: actorID,
		OrderID: req.OrderID,
		ItemIDs: append([]string(nil), req.ItemIDs...),
		Status:  req.Status,
	}
}

// ToConfirmPaymentInput maps the payment branch of an update-status request.
func ToConfirmPaymentInput(actorID string, req UpdateStatusRequest) ordertypes.ConfirmPaymentInput {
	return ordertypes.ConfirmPaymentInput{
		ActorID: actorID,
		OrderID: req.OrderID,
		Action:  req.PaymentConfirmationAction,
	}
}

// FromProjection maps an order projection to its HTTP representation. Missing
// header values are filled with the defaults clients expect.
func FromProjection(p *ordertypes.OrderProjection) Order {
	if p == nil || p.Order == nil {
		return Order{}
	}
	o := p.Order
	out := Order{
		ID:                        o.ID,
		OrderID:                   o.OrderNumber,
		UserID:                    o.UserID,
		Items:                     make([]OrderItem, 0, len(p.Items)),
		Subtotal:                  money(o.Subtotal),
		DeliveryFee:               money(o.DeliveryFee),
		Discount:                  money(o.Discount),
		Amount:                    money(o.Amount),
		AddressID:                 o.AddressID,
		Status:                    string(o.Status),
		Date:                      o.Date.UnixMilli(),
		PaymentMethod:             string(o.PaymentMethod),
		PaymentStatus:             string(o.PaymentStatus),
		PaymentConfirmationStatus: string(o.PaymentConfirmationStatus),
		PaymentTransactionImage:   o.PaymentTransactionImage,
		CreatedAt:                 p.Metadata.CreatedAt,
		UpdatedAt:                 p.Metadata.UpdatedAt,
	}
	if out.Status == "" {
		out.Status = string(domain.OrderPending)
	}
	if o.Subtotal.IsZero() {
		out.Subtotal = out.Amount
	}
	if out.PaymentStatus == "" {
		out.PaymentStatus = string(domain.PaymentPending)
	}
	if out.PaymentConfirmationStatus == "" {
		out.PaymentConfirmationStatus = string(domain.ConfirmationNotApplicable)
	}
	for _, view := range p.Items {
		item := OrderItem{
			ID:        view.Item.ID,
			ProductID: view.Item.ProductID,
			Quantity:  view.Item.Quantity,
			UnitPrice: money(view.Item.UnitPrice),
			Status:    string(view.Item.Status),
		}
		if item.Status == "" {
			item.Status = string(domain.ItemPending)
		}
		if view.Product != nil {
			item.Product = &ProductSummary{
				ID:         view.Product.ID,
				Name:       view.Product.Name,
				Image:      append([]string{}, view.Product.Images...),
				Price:      money(view.Product.Price),
				OfferPrice: money(view.Product.OfferPrice),
				Category:   view.Product.Category,
			}
		}
		out.Items = append(out.Items, item)
	}
	if p.Address != nil {
		out.Address = &Address{
			ID:          p.Address.ID,
			FullName:    p.Address.FullName,
			PhoneNumber: p.Address.PhoneNumber,
			Area:        p.Address.Area,
			State:       p.Address.State,
			Note:        p.Address.Note,
		}
	}
	if o.PromoCode != nil {
		amount := money(o.PromoCode.DiscountAmount)
		value := money(o.PromoCode.DiscountValue)
		out.PromoCode = &PromoCode{
			ID:             o.PromoCode.ID,
			Code:           o.PromoCode.Code,
			DiscountAmount: &amount,
			DiscountType:   o.PromoCode.DiscountType,
			DiscountValue:  &value,
		}
	}
	return out
}

// FromProjectionList maps a slice of projections.
func FromProjectionList(list []*ordertypes.OrderProjection) []Order {
	out := make([]Order, 0, len(list))
	for _, p := range list {
		if p == nil {
			continue
		}
		out = append(out, FromProjection(p))
	}
	return out
}

// FromUpdatedItems maps committed item transitions.
func FromUpdatedItems(items []ordertypes.UpdatedItem) []UpdatedItem {
	out := make([]UpdatedItem, 0, len(items))
	for _, item := range items {
		name := item.ProductName
		if name == "" {
			name = "N/A"
		}
		out = append(out, UpdatedItem{
			ItemID:         item.ItemID,
			ProductID:      item.ProductID,
			ProductName:    name,
			PreviousStatus: string(item.PreviousStatus),
			NewStatus:      string(item.NewStatus),
		})
	}
	return out
}

func toLines(items []LineItem) []ordertypes.LineInput {
	lines := make([]ordertypes.LineInput, 0, len(items))
	for _, item := range items {
		lines = append(lines, ordertypes.LineInput{ProductID: item.Product, Quantity: item.Quantity})
	}
	return lines
}

func toDecimal(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v).Round(2)
	return &d
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
