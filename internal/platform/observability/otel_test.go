package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestInstruments_NilFallbacks(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.TracerProviderOrGlobal())
	assert.NotNil(t, instruments.Tracer("test"))
	assert.NotNil(t, instruments.Meter("test"))
}

func TestInit_CollectsMetrics(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	ctx := context.Background()
	instruments, shutdown, err := Init(ctx, "order-engine-test", WithEnvironment("development"), WithLogLevel(slog.LevelWarn))
	require.NoError(t, err)
	defer func() { _ = shutdown(ctx) }()

	assert.False(t, instruments.Logger.Enabled(ctx, slog.LevelInfo), "explicit level wins over the development default")

	counter, err := instruments.Meter("test").Int64Counter("orders.test.counter")
	require.NoError(t, err)
	counter.Add(ctx, 2)

	var rm metricdata.ResourceMetrics
	require.NoError(t, instruments.MetricReader.Collect(ctx, &rm))
	require.NotEmpty(t, rm.ScopeMetrics)
	assert.Equal(t, "orders.test.counter", rm.ScopeMetrics[0].Metrics[0].Name)
}
