package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
	"github.com/Apurer/order-engine/internal/domains/orders/domain"
)

type normalizedCheckoutInput struct {
	Channel                 string               `json:"channel"`
	Items                   []normalizedLine     `json:"items"`
	AddressID               string               `json:"addressId,omitempty"`
	PaymentMethod           string               `json:"paymentMethod,omitempty"`
	Discount                *string              `json:"discount,omitempty"`
	DeliveryFee             *string              `json:"deliveryFee,omitempty"`
	PaymentTransactionImage string               `json:"paymentTransactionImage,omitempty"`
	BakongMD5               string               `json:"bakongMd5,omitempty"`
	PromoCode               *normalizedPromoCode `json:"promoCode,omitempty"`
}

type normalizedLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type normalizedPromoCode struct {
	Code           string `json:"code"`
	DiscountAmount string `json:"discountAmount"`
}

// FingerprintCheckout builds a deterministic hash of the checkout payload
// (excluding the actor and the idempotency key). Line order does not matter.
func FingerprintCheckout(input ordertypes.CheckoutInput) (string, error) {
	payload, err := json.Marshal(normalizeCheckoutInput(input))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

func normalizeCheckoutInput(input ordertypes.CheckoutInput) normalizedCheckoutInput {
	lines := make([]normalizedLine, 0, len(input.Items))
	for _, item := range input.Items {
		lines = append(lines, normalizedLine{ProductID: strings.TrimSpace(item.ProductID), Quantity: item.Quantity})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].ProductID == lines[j].ProductID {
			return lines[i].Quantity < lines[j].Quantity
		}
		return lines[i].ProductID < lines[j].ProductID
	})
	normalized := normalizedCheckoutInput{
		Channel: string(input.Channel),
		Items:   lines,
	}
	if input.Channel != domain.ChannelPOS {
		normalized.AddressID = strings.TrimSpace(input.AddressID)
		normalized.PaymentMethod = strings.ToUpper(strings.TrimSpace(input.PaymentMethod))
		normalized.PaymentTransactionImage = input.PaymentTransactionImage
		normalized.BakongMD5 = input.BakongMD5
		if input.Discount != nil {
			v := input.Discount.StringFixed(2)
			normalized.Discount = &v
		}
		if input.DeliveryFee != nil {
			v := input.DeliveryFee.StringFixed(2)
			normalized.DeliveryFee = &v
		}
		if input.PromoCode != nil {
			normalized.PromoCode = &normalizedPromoCode{
				Code:           input.PromoCode.Code,
				DiscountAmount: input.PromoCode.DiscountAmount.StringFixed(2),
			}
		}
	}
	return normalized
}
