package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	handler := Middleware(mux)
	counter := httpRequestsTotal.WithLabelValues("404", http.MethodGet, "GET /api/v1/orders/{id}")
	before := testutil.ToFloat64(counter)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/orders/abc", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/orders/def", nil))

	assert.InDelta(t, before+2, testutil.ToFloat64(counter), 0.001)
	assert.InDelta(t, 0, testutil.ToFloat64(httpRequestsInFlight), 0.001)
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	handler := Middleware(http.NewServeMux())
	counter := httpRequestsTotal.WithLabelValues("404", http.MethodGet, "unmatched")
	before := testutil.ToFloat64(counter)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0.001)
}

func TestRecordCheckout(t *testing.T) {
	counter := checkoutAttemptsTotal.WithLabelValues(CheckoutInsufficientStock)
	before := testutil.ToFloat64(counter)

	RecordCheckout(CheckoutInsufficientStock)

	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0.001)
}

func TestRecordNotification(t *testing.T) {
	counter := notificationsTotal.WithLabelValues("sent")
	before := testutil.ToFloat64(counter)

	RecordNotification("sent")

	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0.001)
}
