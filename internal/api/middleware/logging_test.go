package middleware_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

// captureLogs swaps the default logger for one writing JSON lines into a buffer.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })

	return &buf
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}

	return lines
}

func TestLogging(t *testing.T) {

	t.Run("Generates a correlation id and records the status", func(t *testing.T) {
		buf := captureLogs(t)

		var loggerSeen bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, loggerSeen = r.Context().Value(middleware.LoggerKey).(*slog.Logger)
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		})

		rr := httptest.NewRecorder()
		middleware.Logging(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil))

		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
		assert.True(t, loggerSeen)

		lines := logLines(t, buf)
		require.Len(t, lines, 2)
		assert.Equal(t, "Request completed", lines[1]["msg"])
		assert.EqualValues(t, http.StatusTeapot, lines[1]["http_status"])
		assert.EqualValues(t, len("short and stout"), lines[1]["response_bytes"])
		assert.Equal(t, rr.Header().Get(middleware.RequestIDHeader), lines[1]["correlation_id"])
	})

	t.Run("Keeps an incoming correlation id", func(t *testing.T) {
		captureLogs(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")

		rr := httptest.NewRecorder()
		middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", rr.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("Adds trace ids from the incoming span", func(t *testing.T) {
		buf := captureLogs(t)

		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
		req = req.WithContext(trace.ContextWithSpanContext(req.Context(), sc))

		middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
			ServeHTTP(httptest.NewRecorder(), req)

		lines := logLines(t, buf)
		require.NotEmpty(t, lines)
		assert.Equal(t, traceID.String(), lines[0]["trace_id"])
		assert.Equal(t, spanID.String(), lines[0]["span_id"])
	})

	t.Run("Server errors complete at error level", func(t *testing.T) {
		buf := captureLogs(t)

		middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

		lines := logLines(t, buf)
		require.Len(t, lines, 2)
		assert.Equal(t, "INFO", lines[0]["level"])
		assert.Equal(t, "ERROR", lines[1]["level"])
	})

	t.Run("Health and metrics polls log at debug", func(t *testing.T) {
		buf := captureLogs(t)

		middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
			ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		for _, line := range logLines(t, buf) {
			assert.Equal(t, "DEBUG", line["level"])
		}
	})
}
