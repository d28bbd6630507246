package notifications_test

import (
	"github.com/prometheus/client_golang/prometheus/testutil"

	"fulfillment/internal/pkg/metrics"
)

func testutilValue(m *metrics.Metrics, channel, result string) float64 {
	return testutil.ToFloat64(m.Notifications.WithLabelValues(channel, result))
}
