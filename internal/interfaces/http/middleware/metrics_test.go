package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// collectMetrics runs the given requests through a metered router and
// returns everything the manual reader saw.
func collectMetrics(t *testing.T, requests ...*http.Request) metricdata.ResourceMetrics {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	router := gin.New()
	router.Use(HTTPMetricsWithMeter(provider.Meter("http.server"), true))
	router.GET("/api/v1/sessions/:id", func(c *gin.Context) {
		c.String(http.StatusOK, `{"id":"%s"}`, c.Param("id"))
	})
	router.POST("/api/v1/webhooks/pipedrive", func(c *gin.Context) {
		c.Status(http.StatusAccepted)
	})

	for _, req := range requests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func TestHTTPMetricsRecordsRequests(t *testing.T) {
	rm := collectMetrics(t,
		httptest.NewRequest(http.MethodGet, "/api/v1/sessions/7f3a", nil),
		httptest.NewRequest(http.MethodGet, "/api/v1/sessions/9b21", nil),
	)

	m, ok := findMetric(rm, "http_server_request_total")
	require.True(t, ok, "request counter not exported")

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1, "both requests should share one route series")

	dp := sum.DataPoints[0]
	assert.Equal(t, int64(2), dp.Value)

	route, _ := dp.Attributes.Value(attribute.Key("http.route"))
	assert.Equal(t, "/api/v1/sessions/:id", route.AsString(), "must label by pattern, not raw path")

	status, _ := dp.Attributes.Value(attribute.Key("http.status_code"))
	assert.Equal(t, int64(http.StatusOK), status.AsInt64())
}

func TestHTTPMetricsRecordsDurationAndSizes(t *testing.T) {
	body := strings.NewReader(`{"event":"updated.deal","current":{"id":42}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/pipedrive", body)
	req.ContentLength = int64(body.Len())

	rm := collectMetrics(t, req)

	duration, ok := findMetric(rm, "http_server_request_duration_seconds")
	require.True(t, ok)
	durHist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, durHist.DataPoints, 1)
	assert.Equal(t, uint64(1), durHist.DataPoints[0].Count)

	reqSize, ok := findMetric(rm, "http_server_request_size_bytes")
	require.True(t, ok)
	sizeHist := reqSize.Data.(metricdata.Histogram[float64])
	require.Len(t, sizeHist.DataPoints, 1)
	assert.InDelta(t, 44, sizeHist.DataPoints[0].Sum, 1)
}

func TestHTTPMetricsUnmatchedRoute(t *testing.T) {
	rm := collectMetrics(t, httptest.NewRequest(http.MethodGet, "/no/such/route", nil))

	m, ok := findMetric(rm, "http_server_request_total")
	require.True(t, ok)
	sum := m.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)

	route, _ := sum.DataPoints[0].Attributes.Value(attribute.Key("http.route"))
	assert.Equal(t, "unknown", route.AsString())

	status, _ := sum.DataPoints[0].Attributes.Value(attribute.Key("http.status_code"))
	assert.Equal(t, int64(http.StatusNotFound), status.AsInt64())
}

func TestHTTPMetricsDisabled(t *testing.T) {
	t.Run("disabled flag", func(t *testing.T) {
		router := gin.New()
		router.Use(HTTPMetrics(HTTPMetricsConfig{Enabled: false}))
		router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("nil provider", func(t *testing.T) {
		router := gin.New()
		router.Use(HTTPMetrics(HTTPMetricsConfig{Enabled: true, MeterProvider: nil}))
		router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
