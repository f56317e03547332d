package api

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"

	orderworkflows "github.com/Apurer/order-engine/internal/domains/orders/adapters/workflows"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheckoutOrchestrator_MemoryStoresStayInline(t *testing.T) {
	connected := false
	orchestrator, closeFn := CheckoutOrchestrator(&Components{SharedStorage: false}, discardLogger(), func() (client.Client, error) {
		connected = true
		return nil, errors.New("unexpected dial")
	})
	defer closeFn()

	assert.False(t, connected, "a worker cannot see this process's memory stores")
	_, inline := orchestrator.(*orderworkflows.InlineOrderWorkflows)
	assert.True(t, inline)
}

func TestCheckoutOrchestrator_FallsBackInlineWhenTemporalUnreachable(t *testing.T) {
	calls := 0
	orchestrator, closeFn := CheckoutOrchestrator(&Components{SharedStorage: true}, discardLogger(), func() (client.Client, error) {
		calls++
		return nil, errors.New("dial tcp 127.0.0.1:7233: connection refused")
	})
	defer closeFn()

	require.Equal(t, 1, calls)
	_, inline := orchestrator.(*orderworkflows.InlineOrderWorkflows)
	assert.True(t, inline)
}

func TestMemoryStores_AreProcessLocal(t *testing.T) {
	orders, inventory, shared, closeFn := memoryStores()
	defer closeFn()

	assert.NotNil(t, orders)
	assert.NotNil(t, inventory)
	assert.False(t, shared)
}
