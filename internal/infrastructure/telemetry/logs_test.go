package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// capturingProcessor keeps emitted records in memory for assertions.
type capturingProcessor struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (p *capturingProcessor) OnEmit(_ context.Context, r *sdklog.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, *r)
	return nil
}

func (p *capturingProcessor) Enabled(context.Context, sdklog.EnabledParameters) bool {
	return true
}

func (p *capturingProcessor) Shutdown(context.Context) error   { return nil }
func (p *capturingProcessor) ForceFlush(context.Context) error { return nil }

func (p *capturingProcessor) bodies() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.records))
	for i, r := range p.records {
		out[i] = r.Body().AsString()
	}
	return out
}

func capturingProvider(t *testing.T) (*LoggerProvider, *capturingProcessor) {
	t.Helper()

	proc := &capturingProcessor{}
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(proc))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return &LoggerProvider{
		provider: provider,
		logger:   zap.NewNop(),
		config:   LogsConfig{Enabled: true, ServiceName: "formax-backend"},
	}, proc
}

func TestNewLoggerProviderDisabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.ForceFlush(context.Background()))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestBridgeZapLogger(t *testing.T) {
	t.Run("disabled provider returns the base logger", func(t *testing.T) {
		base := zap.NewNop()

		lp, err := NewLoggerProvider(context.Background(), LogsConfig{Enabled: false}, zap.NewNop())
		require.NoError(t, err)

		assert.Same(t, base, BridgeZapLogger(base, lp, "formax-backend", "info"))
		assert.Same(t, base, BridgeZapLogger(base, nil, "formax-backend", "info"))
	})

	t.Run("mirrors records to the collector pipeline", func(t *testing.T) {
		lp, proc := capturingProvider(t)

		bridged := BridgeZapLogger(zap.NewNop(), lp, "formax-backend", "info")
		bridged.Info("session scheduled")
		bridged.Warn("trainer double booked")

		assert.Equal(t, []string{"session scheduled", "trainer double booked"}, proc.bodies())
	})

	t.Run("keeps writing to the base core", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		lp, proc := capturingProvider(t)

		bridged := BridgeZapLogger(zap.New(core), lp, "formax-backend", "info")
		bridged.Info("certificate issued")

		assert.Equal(t, 1, logs.FilterMessage("certificate issued").Len())
		assert.Equal(t, []string{"certificate issued"}, proc.bodies())
	})

	t.Run("level gates what crosses the bridge", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		lp, proc := capturingProvider(t)

		bridged := BridgeZapLogger(zap.New(core), lp, "formax-backend", "warn")
		bridged.Info("noisy detail")
		bridged.Error("renderer failed")

		assert.Equal(t, []string{"renderer failed"}, proc.bodies())
		// The base core keeps its own threshold.
		assert.Equal(t, 1, logs.FilterMessage("noisy detail").Len())
	})

	t.Run("unparseable level defaults to info", func(t *testing.T) {
		lp, proc := capturingProvider(t)

		bridged := BridgeZapLogger(zap.NewNop(), lp, "formax-backend", "verbose")
		bridged.Debug("skipped")
		bridged.Info("kept")

		assert.Equal(t, []string{"kept"}, proc.bodies())
	})
}

func TestMinLevelCoreWith(t *testing.T) {
	lp, proc := capturingProvider(t)

	core := newOTELCore(lp, "formax-backend", zapcore.WarnLevel)
	child := core.With([]zapcore.Field{zap.String("deal_id", "d-42")})

	assert.False(t, child.Enabled(zapcore.InfoLevel), "With must preserve the level gate")
	assert.True(t, child.Enabled(zapcore.ErrorLevel))

	logger := zap.New(child)
	logger.Info("dropped")
	logger.Error("kept")
	assert.Equal(t, []string{"kept"}, proc.bodies())
}
