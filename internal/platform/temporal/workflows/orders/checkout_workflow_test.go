package orders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	inventorymemory "github.com/Apurer/order-engine/internal/domains/inventory/adapters/memory"
	inventorydomain "github.com/Apurer/order-engine/internal/domains/inventory/domain"
	ordermemory "github.com/Apurer/order-engine/internal/domains/orders/adapters/memory"
	"github.com/Apurer/order-engine/internal/domains/orders/application"
	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
	"github.com/Apurer/order-engine/internal/domains/orders/domain"
	orderports "github.com/Apurer/order-engine/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/order-engine/internal/platform/temporal/activities/orders"
	"github.com/Apurer/order-engine/internal/shared/auth"
)

type testEnv struct {
	*testsuite.TestWorkflowEnvironment
	inventory *inventorymemory.Store
	orders    *ordermemory.Store
}

func newTestEnv(t *testing.T, stock int) (*testsuite.TestWorkflowEnvironment, *inventorymemory.Store) {
	t.Helper()
	env := newTestEnvWith(t, stock, nil)
	return env.TestWorkflowEnvironment, env.inventory
}

// newTestEnvWith lets wrap interpose on the service the activity calls.
func newTestEnvWith(t *testing.T, stock int, wrap func(orderports.Service) orderports.Service) testEnv {
	t.Helper()
	inventory := inventorymemory.NewStore()
	product, err := inventorydomain.NewProduct("p-1", "Noodles", decimal.RequireFromString("1.20"), decimal.Zero, stock)
	require.NoError(t, err)
	_, err = inventory.SaveProduct(context.Background(), product)
	require.NoError(t, err)
	orders := ordermemory.NewStore(inventory)
	var svc orderports.Service = application.NewService(orders, orders, inventory, auth.NewAllowlist("seller"))
	if wrap != nil {
		svc = wrap(svc)
	}

	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(CheckoutWorkflow, workflow.RegisterOptions{Name: CheckoutWorkflowName})
	env.RegisterActivityWithOptions(orderactivities.NewActivities(svc).PlaceSale, activity.RegisterOptions{Name: orderactivities.PlaceSaleActivityName})
	return testEnv{TestWorkflowEnvironment: env, inventory: inventory, orders: orders}
}

// lostAckService commits the first checkout and then reports a storage
// failure, as when the connection drops before the commit acknowledgement.
type lostAckService struct {
	orderports.Service
	mu    sync.Mutex
	calls int
}

func (s *lostAckService) Checkout(ctx context.Context, input ordertypes.CheckoutInput) (*ordertypes.OrderProjection, error) {
	projection, err := s.Service.Checkout(ctx, input)
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()
	if err == nil && first {
		return nil, errors.New("connection reset before commit acknowledgement")
	}
	return projection, err
}

func TestCheckoutWorkflow_Completes(t *testing.T) {
	env, inventory := newTestEnv(t, 3)

	env.ExecuteWorkflow(CheckoutWorkflowName, CheckoutWorkflowInput{
		Command: ordertypes.CheckoutInput{
			Channel: domain.ChannelPOS,
			ActorID: "seller",
			Items:   []ordertypes.LineInput{{ProductID: "p-1", Quantity: 2}},
		},
		TraceID: "trace-1",
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var projection ordertypes.OrderProjection
	require.NoError(t, env.GetWorkflowResult(&projection))
	require.NotNil(t, projection.Order)
	require.Equal(t, "2.40", projection.Order.Amount.StringFixed(2))

	products, err := inventory.ProductsByID(context.Background(), []string{"p-1"})
	require.NoError(t, err)
	require.Equal(t, 1, products["p-1"].Stock)
}

func TestCheckoutWorkflow_InsufficientStockIsNotRetried(t *testing.T) {
	env, _ := newTestEnv(t, 1)

	env.ExecuteWorkflow(CheckoutWorkflowName, CheckoutWorkflowInput{
		Command: ordertypes.CheckoutInput{
			Channel: domain.ChannelPOS,
			ActorID: "seller",
			Items:   []ordertypes.LineInput{{ProductID: "p-1", Quantity: 5}},
		},
	})
	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	require.True(t, errors.Is(orderactivities.DecodeError(err), inventorydomain.ErrInsufficientStock))
}

func TestCheckoutWorkflow_RetryAfterLostCommitSellsOnce(t *testing.T) {
	flaky := &lostAckService{}
	env := newTestEnvWith(t, 5, func(inner orderports.Service) orderports.Service {
		flaky.Service = inner
		return flaky
	})

	env.ExecuteWorkflow(CheckoutWorkflowName, CheckoutWorkflowInput{
		Command: ordertypes.CheckoutInput{
			Channel: domain.ChannelPOS,
			ActorID: "seller",
			Items:   []ordertypes.LineInput{{ProductID: "p-1", Quantity: 2}},
		},
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	require.Equal(t, 2, flaky.calls)

	var projection ordertypes.OrderProjection
	require.NoError(t, env.GetWorkflowResult(&projection))
	require.NotNil(t, projection.Order)

	stored, err := env.orders.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, stored[0].ID, projection.Order.ID)

	products, err := env.inventory.ProductsByID(context.Background(), []string{"p-1"})
	require.NoError(t, err)
	require.Equal(t, 3, products["p-1"].Stock)
}
