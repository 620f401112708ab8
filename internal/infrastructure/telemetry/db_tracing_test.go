package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type unavailabilityRow struct {
	ID        uint   `gorm:"primaryKey"`
	TrainerID string `gorm:"size:36"`
	Reason    string `gorm:"size:100"`
	CreatedAt time.Time
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&unavailabilityRow{}))
	return db
}

// statementUnderSpan builds a gorm session whose statement context holds
// a recording span and a query start time, mimicking what markStart and
// otelgorm leave behind for annotateSpan.
func statementUnderSpan(t *testing.T, db *gorm.DB, started time.Time) (*gorm.DB, *tracetest.SpanRecorder, func()) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ctx, span := provider.Tracer("test").Start(context.Background(), "db.query")
	ctx = context.WithValue(ctx, queryStartKey, started)

	session := db.Session(&gorm.Session{NewDB: true})
	session.Statement.Context = ctx
	return session, recorder, func() { span.End() }
}

func endedAttrs(recorder *tracetest.SpanRecorder) map[string]any {
	attrs := map[string]any{}
	for _, a := range recorder.Ended()[0].Attributes() {
		attrs[string(a.Key)] = a.Value.AsInterface()
	}
	return attrs
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL, "bound variables stay out of spans by default")
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestRegisterOtelGorm(t *testing.T) {
	t.Run("disabled registers nothing", func(t *testing.T) {
		db := openTestDB(t)

		plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: false}, zap.NewNop())
		require.NoError(t, plugin.RegisterOtelGorm(db))

		assert.Nil(t, db.Callback().Create().Get("query_timing:before_create"))
	})

	t.Run("enabled registers callbacks and queries keep working", func(t *testing.T) {
		db := openTestDB(t)

		cfg := DefaultDBTracingConfig()
		cfg.Enabled = true
		plugin := NewDBTracingPlugin(cfg, zap.NewNop())
		require.NoError(t, plugin.RegisterOtelGorm(db))

		assert.NotNil(t, db.Callback().Create().Get("query_timing:before_create"))
		assert.NotNil(t, db.Callback().Query().Get("query_timing:after_query"))
		assert.NotNil(t, db.Callback().Raw().Get("query_timing:after_raw"))

		require.NoError(t, db.Create(&unavailabilityRow{TrainerID: "t-1", Reason: "vacaciones"}).Error)

		var rows []unavailabilityRow
		require.NoError(t, db.Find(&rows).Error)
		assert.Len(t, rows, 1)
	})
}

func TestMarkStart(t *testing.T) {
	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())
	db := openTestDB(t)

	session := db.Session(&gorm.Session{NewDB: true})
	session.Statement.Context = context.Background()
	plugin.markStart(session)

	_, ok := session.Statement.Context.Value(queryStartKey).(time.Time)
	assert.True(t, ok)
}

func TestAnnotateSpan(t *testing.T) {
	db := openTestDB(t)

	newPlugin := func(thresh time.Duration) *DBTracingPlugin {
		cfg := DefaultDBTracingConfig()
		cfg.Enabled = true
		cfg.SlowQueryThresh = thresh
		return NewDBTracingPlugin(cfg, zap.NewNop())
	}

	t.Run("records rows and table", func(t *testing.T) {
		session, recorder, end := statementUnderSpan(t, db, time.Now())
		session.Statement.RowsAffected = 3
		session.Statement.Table = "trainer_unavailability"

		newPlugin(time.Hour).annotateSpan(session)
		end()

		attrs := endedAttrs(recorder)
		assert.Equal(t, int64(3), attrs["db.rows_affected"])
		assert.Equal(t, "trainer_unavailability", attrs["db.sql.table"])
		assert.NotContains(t, attrs, "db.slow_query")
	})

	t.Run("flags slow queries with an event", func(t *testing.T) {
		session, recorder, end := statementUnderSpan(t, db, time.Now().Add(-time.Second))

		newPlugin(100 * time.Millisecond).annotateSpan(session)
		end()

		attrs := endedAttrs(recorder)
		assert.Equal(t, true, attrs["db.slow_query"])
		assert.GreaterOrEqual(t, attrs["db.query_duration_ms"], int64(1000))

		events := recorder.Ended()[0].Events()
		require.Len(t, events, 1)
		assert.Equal(t, "slow_query_warning", events[0].Name)

		eventAttrs := map[string]int64{}
		for _, a := range events[0].Attributes {
			eventAttrs[string(a.Key)] = a.Value.AsInt64()
		}
		assert.Equal(t, int64(100), eventAttrs["threshold_ms"])
	})

	t.Run("marks query failures on the span", func(t *testing.T) {
		session, recorder, end := statementUnderSpan(t, db, time.Now())
		session.Error = errors.New("pq: deadlock detected")

		newPlugin(time.Hour).annotateSpan(session)
		end()

		span := recorder.Ended()[0]
		assert.Equal(t, codes.Error, span.Status().Code)
		assert.Equal(t, "pq: deadlock detected", span.Status().Description)
	})

	t.Run("not found stays clean", func(t *testing.T) {
		session, recorder, end := statementUnderSpan(t, db, time.Now())
		session.Error = gorm.ErrRecordNotFound

		newPlugin(time.Hour).annotateSpan(session)
		end()

		assert.NotEqual(t, codes.Error, recorder.Ended()[0].Status().Code)
	})

	t.Run("nil statement context is a no-op", func(t *testing.T) {
		session := db.Session(&gorm.Session{NewDB: true})
		session.Statement.Context = nil

		newPlugin(time.Hour).annotateSpan(session)
	})
}
