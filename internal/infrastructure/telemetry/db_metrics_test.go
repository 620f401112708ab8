package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newManualMeter(t *testing.T) (*sdkmetric.MeterProvider, func() metricdata.ResourceMetrics) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return provider, func() metricdata.ResourceMetrics {
		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(context.Background(), &rm))
		return rm
	}
}

func findExported(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func sumByAttr(t *testing.T, m metricdata.Metrics, key attribute.Key) map[string]int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	out := map[string]int64{}
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(key)
		out[v.AsString()] = dp.Value
	}
	return out
}

func TestDefaultDBMetricsConfig(t *testing.T) {
	cfg := DefaultDBMetricsConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, cfg.PoolStatsInterval)
}

func TestRecordQuery(t *testing.T) {
	provider, collect := newManualMeter(t)

	cfg := DefaultDBMetricsConfig()
	cfg.SlowQueryThreshold = 50 * time.Millisecond
	metrics, err := NewDBMetrics(provider.Meter("db.client"), cfg, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordQuery(ctx, "select", "sessions", 10*time.Millisecond)
	metrics.RecordQuery(ctx, "SELECT", "sessions", 5*time.Millisecond)
	metrics.RecordQuery(ctx, "insert", "certificates", 80*time.Millisecond)
	metrics.RecordQuery(ctx, "", "", 200*time.Millisecond)

	rm := collect()

	total, ok := findExported(rm, "db_query_total")
	require.True(t, ok)
	byOp := sumByAttr(t, total, AttrDBOperation)
	assert.Equal(t, int64(2), byOp["SELECT"], "operation casing must be normalized")
	assert.Equal(t, int64(1), byOp["INSERT"])
	assert.Equal(t, int64(1), byOp["UNKNOWN"])

	slow, ok := findExported(rm, "db_slow_query_total")
	require.True(t, ok)
	byTable := sumByAttr(t, slow, AttrDBTable)
	assert.Equal(t, int64(1), byTable["certificates"])
	assert.Equal(t, int64(1), byTable["unknown"])
	assert.NotContains(t, byTable, "sessions", "fast queries are not slow-counted")

	duration, ok := findExported(rm, "db_query_duration_seconds")
	require.True(t, ok)
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(4), count)
}

func TestDBMetricsPluginRecordsQueries(t *testing.T) {
	provider, collect := newManualMeter(t)

	metrics, err := NewDBMetrics(provider.Meter("db.client"), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	db := openTestDB(t)
	require.NoError(t, db.Use(NewDBMetricsPlugin(metrics, zap.NewNop())))

	require.NoError(t, db.Create(&unavailabilityRow{TrainerID: "t-9", Reason: "curso"}).Error)

	var rows []unavailabilityRow
	require.NoError(t, db.Find(&rows).Error)
	require.NoError(t, db.Exec("UPDATE unavailability_rows SET reason = 'baja'").Error)

	total, ok := findExported(collect(), "db_query_total")
	require.True(t, ok)
	byOp := sumByAttr(t, total, AttrDBOperation)
	assert.Equal(t, int64(1), byOp["INSERT"])
	assert.Equal(t, int64(1), byOp["SELECT"])
	assert.Equal(t, int64(1), byOp["UPDATE"], "raw statements detect the operation from SQL")
}

func TestSQLOperation(t *testing.T) {
	cases := map[string]string{
		"SELECT * FROM sessions":              "SELECT",
		"  select 1":                          "SELECT",
		"insert into orders values (1)":       "INSERT",
		"UPDATE deals SET stage = 'won'":      "UPDATE",
		"delete from unavailability":          "DELETE",
		"EXPLAIN ANALYZE SELECT 1":            "OTHER",
		"":                                    "OTHER",
		"WITH t AS (SELECT 1) SELECT * FROM t": "OTHER",
	}

	for sql, want := range cases {
		assert.Equal(t, want, sqlOperation(sql), sql)
	}
}

func TestCollectPoolStats(t *testing.T) {
	provider, collect := newManualMeter(t)

	metrics, err := NewDBMetrics(provider.Meter("db.client"), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	db := openTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	metrics.SetSQLDB(sqlDB)

	metrics.collectPoolStats(context.Background())

	rm := collect()
	for _, name := range []string{"db_pool_connections", "db_pool_connections_max"} {
		m, ok := findExported(rm, name)
		require.True(t, ok, name)
		assert.NotEmpty(t, m.Data.(metricdata.Gauge[int64]).DataPoints)
	}
}

func TestDBMetricsStopIsIdempotent(t *testing.T) {
	provider, _ := newManualMeter(t)

	metrics, err := NewDBMetrics(provider.Meter("db.client"), DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	db := openTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	metrics.SetSQLDB(sqlDB)
	metrics.StartPoolStatsCollection(context.Background())

	metrics.Stop()
	metrics.Stop()
}

func TestRegisterDBMetricsDisabled(t *testing.T) {
	db := openTestDB(t)

	cfg := DefaultDBMetricsConfig()
	cfg.Enabled = false

	metrics, err := RegisterDBMetrics(db, nil, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, metrics)
}
