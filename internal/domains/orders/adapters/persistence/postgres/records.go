package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/order-engine/internal/domains/orders/domain"
)

const idempotencyIndex = "idx_orders_user_idempotency"

// orderRecord maps the order header to the orders table.
type orderRecord struct {
	ID                        string            `gorm:"primaryKey;column:id;size:64"`
	OrderNumber               string            `gorm:"column:order_number;size:32;uniqueIndex"`
	UserID                    string            `gorm:"column:user_id;size:64;index;uniqueIndex:idx_orders_user_idempotency,priority:1"`
	AddressID                 string            `gorm:"column:address_id;size:64"`
	Channel                   string            `gorm:"column:channel;type:varchar(16)"`
	Subtotal                  decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2)"`
	DeliveryFee               decimal.Decimal   `gorm:"column:delivery_fee;type:numeric(12,2)"`
	Discount                  decimal.Decimal   `gorm:"column:discount;type:numeric(12,2)"`
	Amount                    decimal.Decimal   `gorm:"column:amount;type:numeric(12,2)"`
	Date                      time.Time         `gorm:"column:date;index"`
	Status                    string            `gorm:"column:status;type:varchar(32);index"`
	PaymentMethod             string            `gorm:"column:payment_method;type:varchar(16)"`
	PaymentStatus             string            `gorm:"column:payment_status;type:varchar(32)"`
	PaymentConfirmationStatus string            `gorm:"column:payment_confirmation_status;type:varchar(32)"`
	PaymentTransactionImage   string            `gorm:"column:payment_transaction_image"`
	BakongMD5                 string            `gorm:"column:bakong_md5;size:64"`
	PromoCode                 *domain.PromoCode `gorm:"column:promo_code;type:jsonb;serializer:json"`
	IdempotencyKey            *string           `gorm:"column:idempotency_key;size:255;uniqueIndex:idx_orders_user_idempotency,priority:2"`
	RequestHash               string            `gorm:"column:request_hash;size:64"`
	CreatedAt                 time.Time         `gorm:"column:created_at"`
	UpdatedAt                 time.Time         `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// orderItemRecord maps one line item. Position preserves request order.
type orderItemRecord struct {
	ID        string          `gorm:"primaryKey;column:id;size:64"`
	OrderID   string          `gorm:"column:order_id;size:64;index"`
	Position  int             `gorm:"column:position"`
	ProductID string          `gorm:"column:product_id;size:64;index"`
	Quantity  int             `gorm:"column:quantity;check:chk_order_items_quantity_positive,quantity > 0"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
	Status    string          `gorm:"column:status;type:varchar(32)"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// addressRecord maps delivery addresses, including walk-in placeholders.
type addressRecord struct {
	ID          string    `gorm:"primaryKey;column:id;size:64"`
	UserID      string    `gorm:"column:user_id;size:64;index"`
	FullName    string    `gorm:"column:full_name"`
	PhoneNumber string    `gorm:"column:phone_number"`
	Area        string    `gorm:"column:area"`
	State       string    `gorm:"column:state"`
	Note        string    `gorm:"column:note"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (addressRecord) TableName() string { return "addresses" }

func toRecords(order *domain.Order) (orderRecord, []orderItemRecord) {
	rec := orderRecord{
		ID:                        order.ID,
		OrderNumber:               order.OrderNumber,
		UserID:                    order.UserID,
		AddressID:                 order.AddressID,
		Channel:                   string(order.Channel),
		Subtotal:                  order.Subtotal,
		DeliveryFee:               order.DeliveryFee,
		Discount:                  order.Discount,
		Amount:                    order.Amount,
		Date:                      order.Date,
		Status:                    string(order.Status),
		PaymentMethod:             string(order.PaymentMethod),
		PaymentStatus:             string(order.PaymentStatus),
		PaymentConfirmationStatus: string(order.PaymentConfirmationStatus),
		PaymentTransactionImage:   order.PaymentTransactionImage,
		BakongMD5:                 order.BakongMD5,
		RequestHash:               order.RequestHash,
		CreatedAt:                 order.Date,
		UpdatedAt:                 order.UpdatedAt,
	}
	if order.PromoCode != nil {
		promo := *order.PromoCode
		rec.PromoCode = &promo
	}
	if order.IdempotencyKey != "" {
		key := order.IdempotencyKey
		rec.IdempotencyKey = &key
	}
	items := make([]orderItemRecord, 0, len(order.Items))
	for i, item := range order.Items {
		items = append(items, orderItemRecord{
			ID:        item.ID,
			OrderID:   order.ID,
			Position:  i,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Status:    string(item.Status),
		})
	}
	return rec, items
}

func (r orderRecord) toDomain(items []orderItemRecord) *domain.Order {
	order := &domain.Order{
		ID:                        r.ID,
		OrderNumber:               r.OrderNumber,
		UserID:                    r.UserID,
		AddressID:                 r.AddressID,
		Channel:                   domain.Channel(r.Channel),
		Subtotal:                  r.Subtotal,
		DeliveryFee:               r.DeliveryFee,
		Discount:                  r.Discount,
		Amount:                    r.Amount,
		Date:                      r.Date,
		Status:                    domain.OrderStatus(r.Status),
		PaymentMethod:             domain.PaymentMethod(r.PaymentMethod),
		PaymentStatus:             domain.PaymentStatus(r.PaymentStatus),
		PaymentConfirmationStatus: domain.ConfirmationStatus(r.PaymentConfirmationStatus),
		PaymentTransactionImage:   r.PaymentTransactionImage,
		BakongMD5:                 r.BakongMD5,
		RequestHash:               r.RequestHash,
		UpdatedAt:                 r.UpdatedAt,
		Items:                     make([]domain.OrderItem, 0, len(items)),
	}
	if r.PromoCode != nil {
		promo := *r.PromoCode
		order.PromoCode = &promo
	}
	if r.IdempotencyKey != nil {
		order.IdempotencyKey = *r.IdempotencyKey
	}
	for _, item := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Status:    domain.ItemStatus(item.Status),
		})
	}
	return order
}

func toAddressRecord(address *domain.Address) addressRecord {
	return addressRecord{
		ID:          address.ID,
		UserID:      address.UserID,
		FullName:    address.FullName,
		PhoneNumber: address.PhoneNumber,
		Area:        address.Area,
		State:       address.State,
		Note:        address.Note,
	}
}

func (r addressRecord) toDomain() *domain.Address {
	return &domain.Address{
		ID:          r.ID,
		UserID:      r.UserID,
		FullName:    r.FullName,
		PhoneNumber: r.PhoneNumber,
		Area:        r.Area,
		State:       r.State,
		Note:        r.Note,
	}
}
