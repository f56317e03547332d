package mapper

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
	"github.com/Apurer/order-engine/internal/domains/orders/domain"
	"github.com/Apurer/order-engine/internal/shared/projection"
)

func TestToOnlineCheckoutInput(t *testing.T) {
	discount := 1.0
	fee := 2.5
	req := CreateOrderRequest{
		Address:              "addr-1",
		Items:                []LineItem{{Product: "p-1", Quantity: 2}},
		PaymentMethod:        "bakong",
		BakongPaymentDetails: &BakongPaymentDetails{MD5: "abc"},
		Discount:             &discount,
		DeliveryFee:          &fee,
		PromoCode:            &PromoCode{Code: "WELCOME"},
	}

	input := ToOnlineCheckoutInput("buyer", "key-1", req)

	assert.Equal(t, domain.ChannelOnline, input.Channel)
	assert.Equal(t, "buyer", input.ActorID)
	assert.Equal(t, "key-1", input.IdempotencyKey)
	assert.Equal(t, []ordertypes.LineInput{{ProductID: "p-1", Quantity: 2}}, input.Items)
	assert.Equal(t, "abc", input.BakongMD5)
	require.NotNil(t, input.Discount)
	assert.Equal(t, "1.00", input.Discount.StringFixed(2))
	require.NotNil(t, input.DeliveryFee)
	assert.Equal(t, "2.50", input.DeliveryFee.StringFixed(2))
	require.NotNil(t, input.PromoCode)
	assert.Equal(t, "1.00", input.PromoCode.DiscountAmount.StringFixed(2), "promo amount falls back to the discount")
}

func TestToPOSCheckoutInput_IgnoresClientAmount(t *testing.T) {
	amount := 999.0
	input := ToPOSCheckoutInput("seller", "", CreatePOSOrderRequest{
		Items:  []LineItem{{Product: "p-1", Quantity: 1}},
		Amount: &amount,
	})
	assert.Equal(t, domain.ChannelPOS, input.Channel)
	assert.Nil(t, input.Discount)
	assert.Nil(t, input.DeliveryFee)
}

func TestFromProjection_AppliesDefaults(t *testing.T) {
	date := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	p := &ordertypes.OrderProjection{
		Order: &domain.Order{
			ID:          "o-1",
			OrderNumber: "WEB-00000001",
			Amount:      decimal.RequireFromString("12.5"),
			Date:        date,
			Items:       []domain.OrderItem{{ID: "i-1", ProductID: "gone", Quantity: 1}},
		},
		Items:    []ordertypes.ItemView{{Item: domain.OrderItem{ID: "i-1", ProductID: "gone", Quantity: 1}}},
		Metadata: projection.NewMetadata(date, time.Time{}),
	}

	out := FromProjection(p)

	assert.Equal(t, "pending", out.Status)
	assert.Equal(t, 12.5, out.Subtotal)
	assert.Equal(t, 0.0, out.Discount)
	assert.Equal(t, 0.0, out.DeliveryFee)
	assert.Equal(t, "pending", out.PaymentStatus)
	assert.Equal(t, "na", out.PaymentConfirmationStatus)
	assert.Equal(t, date.UnixMilli(), out.Date)
	assert.Equal(t, date, out.UpdatedAt)
	require.Len(t, out.Items, 1)
	assert.Nil(t, out.Items[0].Product)
	assert.Equal(t, "pending", out.Items[0].Status)
	assert.Nil(t, out.Address)
}

func TestFromUpdatedItems_UnknownProductName(t *testing.T) {
	out := FromUpdatedItems([]ordertypes.UpdatedItem{{
		ItemID:         "i-1",
		ProductID:      "p-1",
		PreviousStatus: domain.ItemPending,
		NewStatus:      domain.ItemDelivered,
	}})
	require.Len(t, out, 1)
	assert.Equal(t, "N/A", out[0].ProductName)
	assert.Equal(t, "delivered", out[0].NewStatus)
}
