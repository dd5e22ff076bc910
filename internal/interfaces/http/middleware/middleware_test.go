package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func serve(r http.Handler, target string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ─────────────────────────────────────────────────────────────────────────────
// RequestID
// ─────────────────────────────────────────────────────────────────────────────

func TestRequestID(t *testing.T) {
	t.Parallel()
	r := newEngine(RequestID())

	t.Run("generated", func(t *testing.T) {
		w := serve(r, "/ok", nil)
		id := w.Header().Get(HeaderRequestID)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		w := serve(r, "/ok", map[string]string{HeaderRequestID: "req-1"})
		assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))
		assert.Equal(t, "req-1", w.Body.String())
	})

	t.Run("oversized replaced", func(t *testing.T) {
		long := strings.Repeat("x", 200)
		w := serve(r, "/ok", map[string]string{HeaderRequestID: long})
		assert.NotEqual(t, long, w.Header().Get(HeaderRequestID))
		assert.Len(t, w.Header().Get(HeaderRequestID), 36)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// RequestLogging
// ─────────────────────────────────────────────────────────────────────────────

func TestRequestLogging_Levels(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)
	r := newEngine(RequestID(), RequestLogging(logging.NewLoggerFromCore(core), DefaultLoggingConfig()))

	serve(r, "/ok", nil)
	serve(r, "/bad", nil)
	serve(r, "/boom", nil)
	serve(r, "/healthz", nil)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, "/ok", fields["path"])
	assert.Equal(t, int64(200), fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRequestLogging_Slow(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(RequestLogging(logging.NewLoggerFromCore(core), LoggingConfig{SlowThreshold: time.Nanosecond}))
	r.GET("/slow", func(c *gin.Context) {
		time.Sleep(time.Millisecond)
		c.Status(http.StatusOK)
	})

	serve(r, "/slow", nil)
	require.Len(t, logs.All(), 1)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

// ─────────────────────────────────────────────────────────────────────────────
// Metrics
// ─────────────────────────────────────────────────────────────────────────────

type call struct {
	method, path string
	status       int
}

type fakeRecorder struct{ calls []call }

func (f *fakeRecorder) RecordHTTPRequest(method, path string, status int, _ time.Duration) {
	f.calls = append(f.calls, call{method, path, status})
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	t.Parallel()
	rec := &fakeRecorder{}
	r := newEngine(Metrics(rec))

	serve(r, "/items/42", nil)
	serve(r, "/bad", nil)

	assert.Equal(t, []call{
		{http.MethodGet, "/items/:id", http.StatusOK},
		{http.MethodGet, "/bad", http.StatusBadRequest},
	}, rec.calls)
}

//Personal.AI order the ending
