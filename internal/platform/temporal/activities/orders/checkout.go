package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	inventorydomain "github.com/Apurer/order-engine/internal/domains/inventory/domain"
	inventoryports "github.com/Apurer/order-engine/internal/domains/inventory/ports"
	"github.com/Apurer/order-engine/internal/domains/orders/application"
	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
	orderports "github.com/Apurer/order-engine/internal/domains/orders/ports"
	"github.com/Apurer/order-engine/internal/shared/auth"
)

const (
	// PlaceSaleActivityName runs one checkout transaction.
	PlaceSaleActivityName = "orders.activities.PlaceSale"
)

// Application error types carried across the Temporal boundary. They are
// non-retryable: re-running the same checkout cannot change the outcome.
const (
	KindInvalidInput        = "InvalidInput"
	KindUnauthorized        = "Unauthorized"
	KindProductNotFound     = "ProductNotFound"
	KindInsufficientStock   = "InsufficientStock"
	KindOrderNotFound       = "OrderNotFound"
	KindAddressNotFound     = "AddressNotFound"
	KindIdempotencyConflict = "IdempotencyConflict"
)

var kinds = []struct {
	kind     string
	sentinel error
}{
	{KindInvalidInput, application.ErrInvalidInput},
	{KindUnauthorized, auth.ErrUnauthorized},
	{KindProductNotFound, inventoryports.ErrProductNotFound},
	{KindInsufficientStock, inventorydomain.ErrInsufficientStock},
	{KindOrderNotFound, orderports.ErrOrderNotFound},
	{KindAddressNotFound, orderports.ErrAddressNotFound},
	{KindIdempotencyConflict, orderports.ErrIdempotencyConflict},
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceSale commits a checkout. Business rejections are returned as
// non-retryable application errors; storage failures stay retryable.
//
// A retried attempt may follow one whose commit succeeded but whose result
// was lost, so a checkout without an idempotency key is keyed by its workflow
// id and the retry replays the stored order instead of selling again.
func (a *Activities) PlaceSale(ctx context.Context, input ordertypes.CheckoutInput) (*ordertypes.OrderProjection, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place sale activity not initialized", "channel", input.Channel)
		return nil, errors.New("place sale activity not initialized")
	}
	if strings.TrimSpace(input.IdempotencyKey) == "" {
		input.IdempotencyKey = WorkflowIdempotencyKey(activity.GetInfo(ctx).WorkflowExecution.ID)
	}
	logger.Info("PlaceSale activity started", "channel", input.Channel, "lines", len(input.Items))
	projection, err := a.service.Checkout(ctx, input)
	if err != nil {
		logger.Error("PlaceSale activity failed", "channel", input.Channel, "error", err)
		return nil, EncodeError(err)
	}
	if projection != nil && projection.Order != nil {
		logger.Info("PlaceSale activity completed", "orderId", projection.Order.ID, "orderNumber", projection.Order.OrderNumber)
	}
	return projection, nil
}

// WorkflowIdempotencyKey scopes a checkout to the workflow that placed it.
func WorkflowIdempotencyKey(workflowID string) string {
	return "workflow:" + workflowID
}

// EncodeError converts known business errors into typed non-retryable
// application errors. Unknown errors are returned unchanged.
func EncodeError(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			return temporal.NewNonRetryableApplicationError(err.Error(), k.kind, nil)
		}
	}
	return err
}

// DecodeError restores the business sentinel from an application error
// anywhere in err's chain, so callers can keep using errors.Is.
func DecodeError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	for _, k := range kinds {
		if appErr.Type() == k.kind {
			return fmt.Errorf("%w: %s", k.sentinel, appErr.Error())
		}
	}
	return err
}
