package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func Test_Init_disabled(t *testing.T) {
	tel, err := Init(context.Background(), "test", Config{Enable: false, Exporter: ExporterPrometheus})
	require.NoError(t, err)
	assert.Nil(t, tel.MetricsHandler)
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func Test_Init_prometheus(t *testing.T) {
	ctx := context.Background()
	tel, err := Init(ctx, "test", Config{Enable: true, Exporter: ExporterPrometheus})
	require.NoError(t, err)
	defer tel.Shutdown(ctx)
	require.NotNil(t, tel.MetricsHandler)

	counter, err := otel.Meter("test").Int64Counter("test.requests")
	require.NoError(t, err)
	counter.Add(ctx, 3)

	rec := httptest.NewRecorder()
	tel.MetricsHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_requests")
}

func Test_Shutdown_nil(t *testing.T) {
	var tel *Telemetry
	assert.NoError(t, tel.Shutdown(context.Background()))
}
