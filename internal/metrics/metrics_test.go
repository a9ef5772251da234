package metrics_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/health"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/logger"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	memoryCache "github.com/halilbalik/WebTemelliGoruntuIsleme/internal/cache/memory"
	mockStorage "github.com/halilbalik/WebTemelliGoruntuIsleme/internal/storage/mock"
)

func TestRouter(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checker := &health.Checker{Ctx: ctx, Storage: &mockStorage.Provider{}, Cache: memoryCache.New(0), Log: log}
	checker.Run()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_operations_total",
		Help: "Test counter.",
	})
	counter.Inc()

	reg := metrics.NewRegistry("image_operators")
	reg.MustRegister(counter)

	ts := httptest.NewServer(metrics.Router(log, checker, reg))
	defer ts.Close()

	t.Run("prometheus", func(t *testing.T) {
		res, err := http.Get(ts.URL + "/metrics/prometheus")
		require.NoError(t, err)
		defer res.Body.Close()

		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, string(body), "test_operations_total 1")
		assert.Contains(t, string(body), "image_operators_build_info")
	})

	t.Run("health", func(t *testing.T) {
		res, err := http.Get(ts.URL + "/health")
		require.NoError(t, err)
		defer res.Body.Close()

		var status health.Status
		require.NoError(t, json.NewDecoder(res.Body).Decode(&status))

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, health.Status{Healthy: true, Cache: "healthy", Storage: "healthy"}, status)
	})

	t.Run("varz", func(t *testing.T) {
		res, err := http.Get(ts.URL + "/metrics")
		require.NoError(t, err)
		defer res.Body.Close()

		body, err := io.ReadAll(res.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, string(body), "http_requests_in_flight")
	})
}
