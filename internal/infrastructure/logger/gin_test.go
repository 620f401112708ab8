package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveLogged(log *zap.Logger, path string, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		// Stand-in for the request ID middleware.
		c.Set("request_id", "req-19cd")
		c.Next()
	})
	router.Use(GinMiddleware(log))
	router.GET(path, handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGinMiddlewareLogsCompletedRequest(t *testing.T) {
	log, logs := observedLogger()

	serveLogged(log, "/api/v1/sessions", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "request completed", entry.Message)
	assert.Equal(t, "req-19cd", fieldValue(t, entry, "request_id"))
	assert.Equal(t, "GET", fieldValue(t, entry, "method"))
	assert.Equal(t, "/api/v1/sessions", fieldValue(t, entry, "path"))
}

func TestGinMiddlewareStatusLevels(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		level  zapcore.Level
	}{
		{"server errors log at error", "/api/v1/orders", http.StatusBadGateway, zapcore.ErrorLevel},
		{"client errors log at warn", "/api/v1/orders", http.StatusConflict, zapcore.WarnLevel},
		{"probes log at debug", "/health", http.StatusOK, zapcore.DebugLevel},
		{"success logs at info", "/api/v1/orders", http.StatusCreated, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, logs := observedLogger()

			serveLogged(log, tt.path, func(c *gin.Context) {
				c.Status(tt.status)
			})

			require.Equal(t, 1, logs.Len())
			assert.Equal(t, tt.level, logs.All()[0].Level)
		})
	}
}

func TestGinMiddlewarePlantsContextLogger(t *testing.T) {
	log, logs := observedLogger()

	var gotRequestID string
	serveLogged(log, "/api/v1/sessions", func(c *gin.Context) {
		ctx := c.Request.Context()
		gotRequestID = GetRequestID(ctx)
		FromContext(ctx).Info("conflict check ran")
		c.Status(http.StatusOK)
	})

	assert.Equal(t, "req-19cd", gotRequestID)

	entries := logs.FilterMessage("conflict check ran").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-19cd", fieldValue(t, entries[0], "request_id"))
}

func TestGinMiddlewareRecordsHandlerErrors(t *testing.T) {
	log, logs := observedLogger()

	serveLogged(log, "/api/v1/orders", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusInternalServerError)
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)

	var found bool
	for _, f := range entry.Context {
		if f.Key == "errors" {
			found = true
		}
	}
	assert.True(t, found, "gin errors should be attached to the log entry")
}

func TestRecovery(t *testing.T) {
	log, logs := observedLogger()

	router := gin.New()
	router.Use(Recovery(log))
	router.GET("/boom", func(c *gin.Context) {
		panic("certificate renderer exploded")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := logs.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "/boom", fieldValue(t, entries[0], "path"))
}
