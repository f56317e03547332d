package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	inventorymemory "github.com/Apurer/order-engine/internal/domains/inventory/adapters/memory"
	inventorydomain "github.com/Apurer/order-engine/internal/domains/inventory/domain"
	inventoryports "github.com/Apurer/order-engine/internal/domains/inventory/ports"
	ordermemory "github.com/Apurer/order-engine/internal/domains/orders/adapters/memory"
	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
	"github.com/Apurer/order-engine/internal/domains/orders/domain"
	"github.com/Apurer/order-engine/internal/domains/orders/ports"
	"github.com/Apurer/order-engine/internal/shared/auth"
)

const (
	sellerID = "seller-1"
	buyerID  = "buyer-1"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.EventName())
	}
	return names
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

type fixture struct {
	svc       *Service
	inventory *inventorymemory.Store
	orders    *ordermemory.Store
	events    *recordingPublisher
}

func newFixture(t *testing.T, products ...*inventorydomain.Product) *fixture {
	t.Helper()
	inventory := inventorymemory.NewStore()
	for _, p := range products {
		_, err := inventory.SaveProduct(context.Background(), p)
		require.NoError(t, err)
	}
	orders := ordermemory.NewStore(inventory)
	events := &recordingPublisher{}
	var (
		mu  sync.Mutex
		seq int
	)
	svc := NewService(orders, orders, inventory, auth.NewAllowlist(sellerID),
		WithEventPublisher(events),
		WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("00000000-0000-4000-8000-%012x", seq)
		}),
		WithClock(func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }),
	)
	return &fixture{svc: svc, inventory: inventory, orders: orders, events: events}
}

func product(t *testing.T, id string, price, offer string, stock int) *inventorydomain.Product {
	t.Helper()
	p, err := inventorydomain.NewProduct(id, "Product "+id, decimal.RequireFromString(price), decimal.RequireFromString(offer), stock)
	require.NoError(t, err)
	return p
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	products, err := f.inventory.ProductsByID(context.Background(), []string{id})
	require.NoError(t, err)
	require.Contains(t, products, id)
	return products[id].Stock
}

func posInput(lines ...ordertypes.LineInput) ordertypes.CheckoutInput {
	return ordertypes.CheckoutInput{Channel: domain.ChannelPOS, ActorID: sellerID, Items: lines}
}

func TestCheckout_POSPricesAndDecrementsStock(t *testing.T) {
	f := newFixture(t, product(t, "A", "10.00", "8.00", 5), product(t, "B", "4.50", "0", 3))

	view, err := f.svc.Checkout(context.Background(), posInput(
		ordertypes.LineInput{ProductID: "A", Quantity: 2},
		ordertypes.LineInput{ProductID: "B", Quantity: 1},
	))
	require.NoError(t, err)

	order := view.Order
	require.Equal(t, "20.50", order.Subtotal.StringFixed(2))
	require.Equal(t, "20.50", order.Amount.StringFixed(2))
	require.True(t, order.DeliveryFee.IsZero())
	require.True(t, order.Discount.IsZero())
	require.Equal(t, domain.OrderCompleted, order.Status)
	require.Equal(t, domain.PaymentPaid, order.PaymentStatus)
	require.Equal(t, domain.ConfirmationConfirmed, order.PaymentConfirmationStatus)
	require.Equal(t, domain.PaymentCOD, order.PaymentMethod)
	require.Equal(t, "POS-00000001", order.OrderNumber)
	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		require.Equal(t, domain.ItemPending, item.Status)
	}
	require.Equal(t, 3, f.stock(t, "A"))
	require.Equal(t, 2, f.stock(t, "B"))
	require.Equal(t, "Product A", view.ProductName("A"))
	require.NotNil(t, view.Address)
	require.True(t, view.Address.IsWalkIn())
	require.Equal(t, []string{"order/created"}, f.events.names())
}

func TestCheckout_POSReusesWalkInAddress(t *testing.T) {
	f := newFixture(t, product(t, "A", "1.00", "0", 10))

	first, err := f.svc.Checkout(context.Background(), posInput(ordertypes.LineInput{ProductID: "A", Quantity: 1}))
	require.NoError(t, err)
	second, err := f.svc.Checkout(context.Background(), posInput(ordertypes.LineInput{ProductID: "A", Quantity: 1}))
	require.NoError(t, err)

	require.Equal(t, first.Order.AddressID, second.Order.AddressID)
	require.Equal(t, domain.WalkInFullName, second.Address.FullName)
}

func TestCheckout_InsufficientStockLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, product(t, "A", "1.00", "0", 5), product(t, "B", "1.00", "0", 1))

	_, err := f.svc.Checkout(context.Background(), posInput(
		ordertypes.LineInput{ProductID: "A", Quantity: 2},
		ordertypes.LineInput{ProductID: "B", Quantity: 2},
	))
	require.ErrorIs(t, err, inventorydomain.ErrInsufficientStock)
	require.Equal(t, 5, f.stock(t, "A"))
	require.Equal(t, 1, f.stock(t, "B"))

	orders, err := f.orders.ListOrders(context.Background())
	require.NoError(t, err)
	require.Empty(t, orders)
	require.Empty(t, f.events.names())
}

func TestCheckout_DuplicateLinesCannotOversell(t *testing.T) {
	f := newFixture(t, product(t, "A", "1.00", "0", 3))

	_, err := f.svc.Checkout(context.Background(), posInput(
		ordertypes.LineInput{ProductID: "A", Quantity: 2},
		ordertypes.LineInput{ProductID: "A", Quantity: 2},
	))
	require.ErrorIs(t, err, inventorydomain.ErrInsufficientStock)
	require.Equal(t, 3, f.stock(t, "A"))
}

func TestCheckout_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	f := newFixture(t, product(t, "A", "1.00", "0", 1))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		shortages int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Checkout(context.Background(), posInput(ordertypes.LineInput{ProductID: "A", Quantity: 1}))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, inventorydomain.ErrInsufficientStock):
				shortages++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.Equal(t, 1, shortages)
	require.Equal(t, 0, f.stock(t, "A"))
}

func TestCheckout_RejectsBadRequests(t *testing.T) {
	f := newFixture(t, product(t, "A", "1.00", "0", 5))

	cases := []struct {
		name  string
		input ordertypes.CheckoutInput
		want  error
	}{
		{name: "no actor", input: ordertypes.CheckoutInput{Channel: domain.ChannelPOS, Items: []ordertypes.LineInput{{ProductID: "A", Quantity: 1}}}, want: auth.ErrUnauthorized},
		{name: "buyer at pos", input: ordertypes.CheckoutInput{Channel: domain.ChannelPOS, ActorID: buyerID, Items: []ordertypes.LineInput{{ProductID: "A", Quantity: 1}}}, want: auth.ErrUnauthorized},
		{name: "empty items", input: posInput(), want: ErrInvalidInput},
		{name: "zero quantity", input: posInput(ordertypes.LineInput{ProductID: "A", Quantity: 0}), want: ErrInvalidInput},
		{name: "blank product", input: posInput(ordertypes.LineInput{ProductID: " ", Quantity: 1}), want: ErrInvalidInput},
		{name: "unknown product", input: posInput(ordertypes.LineInput{ProductID: "missing", Quantity: 1}), want: inventoryports.ErrProductNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Checkout(context.Background(), tc.input)
			require.ErrorIs(t, err, tc.want)
		})
	}
	require.Equal(t, 5, f.stock(t, "A"))
}

func TestCheckout_OnlineFeesAndPaymentMethods(t *testing.T) {
	f := newFixture(t, product(t, "A", "10.00", "0", 10))
	require.NoError(t, f.orders.SaveAddress(context.Background(), &domain.Address{ID: "addr-1", UserID: buyerID, FullName: "Buyer"}))

	online := func(qty int, method string) ordertypes.CheckoutInput {
		return ordertypes.CheckoutInput{
			Channel:       domain.ChannelOnline,
			ActorID:       buyerID,
			AddressID:     "addr-1",
			PaymentMethod: method,
			Items:         []ordertypes.LineInput{{ProductID: "A", Quantity: qty}},
		}
	}

	single, err := f.svc.Checkout(context.Background(), online(1, "COD"))
	require.NoError(t, err)
	require.Equal(t, "1.50", single.Order.DeliveryFee.StringFixed(2))
	require.Equal(t, "11.50", single.Order.Amount.StringFixed(2))
	require.Equal(t, domain.OrderPending, single.Order.Status)
	require.Equal(t, domain.PaymentPending, single.Order.PaymentStatus)
	require.Equal(t, domain.ConfirmationNotApplicable, single.Order.PaymentConfirmationStatus)
	require.Equal(t, "WEB-", single.Order.OrderNumber[:4])

	multi, err := f.svc.Checkout(context.Background(), online(2, "cod"))
	require.NoError(t, err)
	require.True(t, multi.Order.DeliveryFee.IsZero())

	aba := online(1, "ABA")
	aba.PaymentTransactionImage = "https://img.example/receipt.png"
	discount := decimal.RequireFromString("2.00")
	aba.Discount = &discount
	abaView, err := f.svc.Checkout(context.Background(), aba)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentPendingConfirmation, abaView.Order.PaymentStatus)
	require.Equal(t, domain.ConfirmationPendingReview, abaView.Order.PaymentConfirmationStatus)
	require.Equal(t, "9.50", abaView.Order.Amount.StringFixed(2))

	_, err = f.svc.Checkout(context.Background(), online(1, "ABA"))
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.Checkout(context.Background(), online(1, "Bakong"))
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.Checkout(context.Background(), online(1, "cash"))
	require.ErrorIs(t, err, ErrInvalidInput)

	foreign := online(1, "COD")
	foreign.ActorID = "someone-else"
	_, err = f.svc.Checkout(context.Background(), foreign)
	require.ErrorIs(t, err, ports.ErrAddressNotFound)

	require.Equal(t, 6, f.stock(t, "A"))
}

func TestCheckout_IdempotencyKey(t *testing.T) {
	f := newFixture(t, product(t, "A", "1.00", "0", 5))

	input := posInput(ordertypes.LineInput{ProductID: "A", Quantity: 2})
	input.IdempotencyKey = "key-1"
	first, err := f.svc.Checkout(context.Background(), input)
	require.NoError(t, err)

	replay, err := f.svc.Checkout(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, first.Order.ID, replay.Order.ID)
	require.Equal(t, 3, f.stock(t, "A"))
	require.Equal(t, []string{"order/created"}, f.events.names())

	changed := posInput(ordertypes.LineInput{ProductID: "A", Quantity: 1})
	changed.IdempotencyKey = "key-1"
	_, err = f.svc.Checkout(context.Background(), changed)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.Equal(t, 3, f.stock(t, "A"))
}

func TestCheckout_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t, product(t, "A", "1.00", "0", 5))
	f.events.err = errors.New("broker down")

	view, err := f.svc.Checkout(context.Background(), posInput(ordertypes.LineInput{ProductID: "A", Quantity: 1}))
	require.NoError(t, err)
	require.NotNil(t, view)
	require.Equal(t, 4, f.stock(t, "A"))
}

func checkoutThree(t *testing.T, f *fixture) *domain.Order {
	t.Helper()
	view, err := f.svc.Checkout(context.Background(), posInput(
		ordertypes.LineInput{ProductID: "A", Quantity: 1},
		ordertypes.LineInput{ProductID: "B", Quantity: 1},
		ordertypes.LineInput{ProductID: "C", Quantity: 1},
	))
	require.NoError(t, err)
	f.events.reset()
	return view.Order
}

func itemIDs(order *domain.Order) []string {
	ids := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestUpdateItemStatuses_AggregatesMostFrequentStatus(t *testing.T) {
	f := newFixture(t, product(t, "A", "1.00", "0", 5), product(t, "B", "1.00", "0", 5), product(t, "C", "1.00", "0", 5))
	order := checkoutThree(t, f)
	ids := itemIDs(order)

	result, err := f.svc.UpdateItemStatuses(context.Background(), ordertypes.UpdateItemStatusInput{
		ActorID: sellerID,
		OrderID: order.ID,
		ItemIDs: ids[:2],
		Status:  "Out For Delivery",
	})
	require.NoError(t, err)
	require.Len(t, result.UpdatedItems, 2)
	require.Equal(t, "Product A", result.UpdatedItems[0].ProductName)
	require.Equal(t, domain.OrderOutForDelivery, result.Order.Order.Status)
	require.True(t, result.Transition.StatusChanged())
	require.Equal(t, domain.OrderCompleted, result.Transition.PreviousStatus)
	require.Equal(t, []string{
		"order/item-status-updated",
		"order/item-status-updated",
		"order/status-updated",
	}, f.events.names())
}

func TestUpdateItemStatuses_AllDeliveredMarksPaid(t *testing.T) {
	f := newFixture(t, product(t, "A", "10.00", "0", 5))
	require.NoError(t, f.orders.SaveAddress(context.Background(), &domain.Address{ID: "addr-1", UserID: buyerID}))
	view, err := f.svc.Checkout(context.Background(), ordertypes.CheckoutInput{
		Channel:       domain.ChannelOnline,
		ActorID:       buyerID,
		AddressID:     "addr-1",
		PaymentMethod: "COD",
		Items:         []ordertypes.LineInput{{ProductID: "A", Quantity: 2}},
	})
	require.NoError(t, err)
	f.events.reset()

	result, err := f.svc.UpdateItemStatuses(context.Background(), ordertypes.UpdateItemStatusInput{
		ActorID: sellerID,
		OrderID: view.Order.ID,
		ItemIDs: itemIDs(view.Order),
		Status:  "delivered",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OrderDelivered, result.Order.Order.Status)
	require.Equal(t, domain.PaymentPaid, result.Order.Order.PaymentStatus)
	require.Equal(t, domain.ConfirmationConfirmed, result.Order.Order.PaymentConfirmationStatus)
	require.True(t, result.Transition.PaymentChanged())

	// Payment stays settled when an item moves backwards.
	back, err := f.svc.UpdateItemStatuses(context.Background(), ordertypes.UpdateItemStatusInput{
		ActorID: sellerID,
		OrderID: view.Order.ID,
		ItemIDs: itemIDs(view.Order),
		Status:  "processing",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OrderProcessing, back.Order.Order.Status)
	require.Equal(t, domain.PaymentPaid, back.Order.Order.PaymentStatus)
}

func TestUpdateItemStatuses_RepeatIsNoOp(t *testing.T) {
	f := newFixture(t, product(t, "A", "1.00", "0", 5), product(t, "B", "1.00", "0", 5), product(t, "C", "1.00", "0", 5))
	order := checkoutThree(t, f)
	input := ordertypes.UpdateItemStatusInput{ActorID: sellerID, OrderID: order.ID, ItemIDs: itemIDs(order)[:1], Status: "processing"}

	_, err := f.svc.UpdateItemStatuses(context.Background(), input)
	require.NoError(t, err)
	published := len(f.events.names())

	_, err = f.svc.UpdateItemStatuses(context.Background(), input)
	require.ErrorIs(t, err, ErrNoChange)
	require.Len(t, f.events.names(), published)
}

func TestUpdateItemStatuses_Rejections(t *testing.T) {
	f := newFixture(t, product(t, "A", "1.00", "0", 5), product(t, "B", "1.00", "0", 5), product(t, "C", "1.00", "0", 5))
	order := checkoutThree(t, f)

	_, err := f.svc.UpdateItemStatuses(context.Background(), ordertypes.UpdateItemStatusInput{ActorID: sellerID, OrderID: order.ID, ItemIDs: itemIDs(order), Status: "shipped"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.UpdateItemStatuses(context.Background(), ordertypes.UpdateItemStatusInput{ActorID: buyerID, OrderID: order.ID, ItemIDs: itemIDs(order), Status: "delivered"})
	require.ErrorIs(t, err, auth.ErrUnauthorized)

	_, err = f.svc.UpdateItemStatuses(context.Background(), ordertypes.UpdateItemStatusInput{ActorID: sellerID, OrderID: "missing", ItemIDs: []string{"x"}, Status: "delivered"})
	require.ErrorIs(t, err, ports.ErrOrderNotFound)

	_, err = f.svc.UpdateItemStatuses(context.Background(), ordertypes.UpdateItemStatusInput{ActorID: sellerID, OrderID: order.ID, Status: "delivered"})
	require.ErrorIs(t, err, ErrInvalidInput)

	require.Empty(t, f.events.names())
}

func TestConfirmPayment(t *testing.T) {
	f := newFixture(t, product(t, "A", "10.00", "0", 5))
	require.NoError(t, f.orders.SaveAddress(context.Background(), &domain.Address{ID: "addr-1", UserID: buyerID}))
	view, err := f.svc.Checkout(context.Background(), ordertypes.CheckoutInput{
		Channel:                 domain.ChannelOnline,
		ActorID:                 buyerID,
		AddressID:               "addr-1",
		PaymentMethod:           "ABA",
		PaymentTransactionImage: "receipt.png",
		Items:                   []ordertypes.LineInput{{ProductID: "A", Quantity: 1}},
	})
	require.NoError(t, err)
	f.events.reset()

	confirmed, err := f.svc.ConfirmPayment(context.Background(), ordertypes.ConfirmPaymentInput{ActorID: sellerID, OrderID: view.Order.ID, Action: "confirm"})
	require.NoError(t, err)
	require.Equal(t, domain.PaymentPaid, confirmed.Order.PaymentStatus)
	require.Equal(t, domain.ConfirmationConfirmed, confirmed.Order.PaymentConfirmationStatus)
	require.Equal(t, domain.OrderProcessing, confirmed.Order.Status)
	require.Equal(t, []string{"order/payment-confirmation-updated"}, f.events.names())

	_, err = f.svc.ConfirmPayment(context.Background(), ordertypes.ConfirmPaymentInput{ActorID: sellerID, OrderID: view.Order.ID, Action: "confirm"})
	require.ErrorIs(t, err, ErrNoChange)

	_, err = f.svc.ConfirmPayment(context.Background(), ordertypes.ConfirmPaymentInput{ActorID: buyerID, OrderID: view.Order.ID, Action: "reject"})
	require.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestOrderQueries(t *testing.T) {
	f := newFixture(t, product(t, "A", "1.00", "0", 5))
	require.NoError(t, f.orders.SaveAddress(context.Background(), &domain.Address{ID: "addr-1", UserID: buyerID}))
	view, err := f.svc.Checkout(context.Background(), ordertypes.CheckoutInput{
		Channel:       domain.ChannelOnline,
		ActorID:       buyerID,
		AddressID:     "addr-1",
		PaymentMethod: "COD",
		Items:         []ordertypes.LineInput{{ProductID: "A", Quantity: 1}},
	})
	require.NoError(t, err)

	mine, err := f.svc.ListOrders(context.Background(), buyerID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, view.Order.ID, mine[0].Order.ID)
	require.Equal(t, "Product A", mine[0].ProductName("A"))

	others, err := f.svc.ListOrders(context.Background(), "someone-else")
	require.NoError(t, err)
	require.Empty(t, others)

	all, err := f.svc.ListSellerOrders(context.Background(), sellerID)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = f.svc.ListSellerOrders(context.Background(), buyerID)
	require.ErrorIs(t, err, auth.ErrUnauthorized)

	got, err := f.svc.GetOrder(context.Background(), ordertypes.OrderLookup{ActorID: sellerID, OrderID: view.Order.ID})
	require.NoError(t, err)
	require.Equal(t, view.Order.OrderNumber, got.Order.OrderNumber)

	_, err = f.svc.GetOrder(context.Background(), ordertypes.OrderLookup{ActorID: "someone-else", OrderID: view.Order.ID})
	require.ErrorIs(t, err, ports.ErrOrderNotFound)
}

// stalledPublisher stands in for a broker that never answers.
type stalledPublisher struct{}

func (stalledPublisher) Publish(ctx context.Context, _ ...domain.Event) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(3 * time.Second):
		return nil
	}
}

func TestCheckout_StalledPublisherDoesNotHoldCaller(t *testing.T) {
	f := newFixture(t, product(t, "A", "1.00", "0", 5))
	require.Equal(t, DefaultPublishTimeout, f.svc.publishTimeout)
	WithEventPublisher(stalledPublisher{})(f.svc)
	WithPublishTimeout(50 * time.Millisecond)(f.svc)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	started := time.Now()
	view, err := f.svc.Checkout(ctx, posInput(ordertypes.LineInput{ProductID: "A", Quantity: 1}))
	elapsed := time.Since(started)

	require.NoError(t, err)
	require.NotNil(t, view.Order)
	require.Less(t, elapsed, time.Second)
	require.Equal(t, 4, f.stock(t, "A"))
}

func checkoutOnlineThree(t *testing.T, f *fixture) *domain.Order {
	t.Helper()
	require.NoError(t, f.orders.SaveAddress(context.Background(), &domain.Address{ID: "addr-1", UserID: buyerID}))
	view, err := f.svc.Checkout(context.Background(), ordertypes.CheckoutInput{
		Channel:       domain.ChannelOnline,
		ActorID:       buyerID,
		AddressID:     "addr-1",
		PaymentMethod: "COD",
		Items: []ordertypes.LineInput{
			{ProductID: "A", Quantity: 1},
			{ProductID: "B", Quantity: 1},
			{ProductID: "C", Quantity: 1},
		},
	})
	require.NoError(t, err)
	f.events.reset()
	return view.Order
}

func TestUpdateItemStatuses_MajorityDeliveredThenAllDelivered(t *testing.T) {
	f := newFixture(t, product(t, "A", "1.00", "0", 5), product(t, "B", "1.00", "0", 5), product(t, "C", "1.00", "0", 5))
	order := checkoutOnlineThree(t, f)
	ids := itemIDs(order)
	require.Equal(t, domain.PaymentPending, order.PaymentStatus)

	partial, err := f.svc.UpdateItemStatuses(context.Background(), ordertypes.UpdateItemStatusInput{
		ActorID: sellerID,
		OrderID: order.ID,
		ItemIDs: ids[:2],
		Status:  "Delivered",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OrderDelivered, partial.Order.Order.Status)
	require.Equal(t, domain.PaymentPending, partial.Order.Order.PaymentStatus)
	require.False(t, partial.Transition.PaymentChanged())

	final, err := f.svc.UpdateItemStatuses(context.Background(), ordertypes.UpdateItemStatusInput{
		ActorID: sellerID,
		OrderID: order.ID,
		ItemIDs: ids[2:],
		Status:  "delivered",
	})
	require.NoError(t, err)
	require.Equal(t, domain.OrderDelivered, final.Order.Order.Status)
	require.Equal(t, domain.PaymentPaid, final.Order.Order.PaymentStatus)
	require.True(t, final.Transition.PaymentChanged())
}

func TestListOrders_RoundTripsCreatedOrder(t *testing.T) {
	f := newFixture(t, product(t, "A", "2.00", "1.50", 5), product(t, "B", "3.25", "0", 5), product(t, "C", "1.00", "0", 5))
	created := checkoutOnlineThree(t, f)

	listed, err := f.svc.ListOrders(context.Background(), buyerID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	got := listed[0].Order

	require.Equal(t, created.ID, got.ID)
	require.Equal(t, created.Status, got.Status)
	require.Equal(t, created.Amount.StringFixed(2), got.Amount.StringFixed(2))
	require.Equal(t, "5.75", got.Subtotal.StringFixed(2))
	require.Len(t, got.Items, len(created.Items))
	for i, item := range created.Items {
		require.Equal(t, item.ID, got.Items[i].ID)
		require.Equal(t, item.ProductID, got.Items[i].ProductID)
		require.Equal(t, item.Quantity, got.Items[i].Quantity)
		require.Equal(t, item.UnitPrice.StringFixed(2), got.Items[i].UnitPrice.StringFixed(2))
		require.Equal(t, item.Status, got.Items[i].Status)
	}
}
