//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Apurer/order-engine/test/pact"

	orderserver "github.com/Apurer/order-engine/go"
	inventorymemory "github.com/Apurer/order-engine/internal/domains/inventory/adapters/memory"
	inventoryobs "github.com/Apurer/order-engine/internal/domains/inventory/adapters/observability"
	inventoryapp "github.com/Apurer/order-engine/internal/domains/inventory/application"
	inventorydomain "github.com/Apurer/order-engine/internal/domains/inventory/domain"
	eventsmemory "github.com/Apurer/order-engine/internal/domains/orders/adapters/events/memory"
	ordermemory "github.com/Apurer/order-engine/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/order-engine/internal/domains/orders/adapters/observability"
	orderworkflows "github.com/Apurer/order-engine/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/order-engine/internal/domains/orders/application"
	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
	"github.com/Apurer/order-engine/internal/domains/orders/domain"
	"github.com/Apurer/order-engine/internal/shared/auth"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestOrderEngineProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateProductInStock: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t, pacttest.InStock)
			return nil, nil
		},
		pacttest.StateProductOutOfStock: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t, 0)
			return nil, nil
		},
		pacttest.StateOrderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t, pacttest.InStock)
			if setup {
				app.seedOrder(t)
			}
			return nil, nil
		},
		pacttest.StateNoOrders: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t, pacttest.InStock)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t, pacttest.InStock)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractProviderApp rebuilds its stores on every reset so ids restart from
// the same sequence.
type contractProviderApp struct {
	mu      sync.RWMutex
	router  *gin.Engine
	service *ordersapp.Service
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t, pacttest.InStock)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)
	app.server = server
	return app
}

func (a *contractProviderApp) reset(t testing.TB, stock int) {
	t.Helper()
	inventory := inventorymemory.NewStore()
	product, err := inventorydomain.NewProduct(pacttest.ProductID, "Pact Product", decimal.RequireFromString(pacttest.UnitPrice), decimal.Zero, stock)
	require.NoError(t, err)
	_, err = inventory.SaveProduct(context.Background(), product)
	require.NoError(t, err)

	orders := ordermemory.NewStore(inventory)
	sellers := auth.NewAllowlist(pacttest.SellerID)
	var (
		seqMu sync.Mutex
		seq   int
	)
	core := ordersapp.NewService(orders, orders, inventory, sellers,
		ordersapp.WithEventPublisher(eventsmemory.NewPublisher()),
		ordersapp.WithIDGenerator(func() string {
			seqMu.Lock()
			defer seqMu.Unlock()
			seq++
			return pacttest.SequentialID(seq)
		}),
	)
	orderService := orderobs.New(core)
	inventoryService := inventoryobs.New(inventoryapp.NewService(inventory, sellers))
	problems := orderserver.NewErrorResponder(nil, false)

	handlers := orderserver.ApiHandleFunctions{
		OrderAPI:     orderserver.NewOrderAPI(orderService, orderworkflows.NewInlineOrderWorkflows(orderService), problems),
		InventoryAPI: orderserver.NewInventoryAPI(inventoryService, problems),
	}
	router := gin.New()
	router.Use(gin.Recovery(), orderserver.ActorMiddleware())
	router = orderserver.NewRouterWithGinEngine(router, handlers)

	a.mu.Lock()
	a.router = router
	a.service = core
	a.mu.Unlock()
}

func (a *contractProviderApp) seedOrder(t testing.TB) {
	t.Helper()
	a.mu.RLock()
	service := a.service
	a.mu.RUnlock()
	view, err := service.Checkout(context.Background(), ordertypes.CheckoutInput{
		Channel: domain.ChannelPOS,
		ActorID: pacttest.SellerID,
		Items:   []ordertypes.LineInput{{ProductID: pacttest.ProductID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, pacttest.ExistingOrderID, view.Order.ID)
}
