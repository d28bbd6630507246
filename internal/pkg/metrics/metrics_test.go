package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/pkg/metrics"
)

func TestMetrics_Counters(t *testing.T) {
	m := metrics.New()

	m.NotificationDelivered("courier", nil)
	m.NotificationDelivered("courier", errors.New("blocked"))
	m.NotificationDelivered("courier", nil)
	m.GeocoderCalled("yandex", errors.New("timeout"))
	m.ActionHandled("receiver", "accept_order", metrics.ResultRejected)
	m.EventPublished(nil)

	assert.InDelta(t, 2, testutil.ToFloat64(m.Notifications.WithLabelValues("courier", metrics.ResultOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Notifications.WithLabelValues("courier", metrics.ResultFailed)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Geocoder.WithLabelValues("yandex", metrics.ResultFailed)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Actions.WithLabelValues("receiver", "accept_order", "rejected")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Events.WithLabelValues(metrics.ResultOK)), 0)
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.RequestServed("/health", "200", 3*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fulfillment_http_requests_total{handler="/health",status="200"} 1`)
}

func TestMetrics_InstancesAreIndependent(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = metrics.New()
		_ = metrics.New()
	})
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.NotificationDelivered("client", nil)
		m.GeocoderCalled("nominatim", nil)
		m.ActionHandled("picker", "start_picking", metrics.ResultOK)
		m.EventPublished(nil)
		m.RequestServed("/health", "200", time.Millisecond)
	})
}
