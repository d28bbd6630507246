package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	kafkaadapter "fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

type MockWriter struct{ mock.Mock }

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, kafkaadapter.ParseBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, kafkaadapter.ParseBrokers(""))
}

func TestPublisher_Publish(t *testing.T) {
	writer := new(MockWriter)
	event := ports.OrderEvent{
		EventID:      uuid.MustParse("6f1c2a43-52e4-4ab0-9a3e-1d3b0b5f7e10"),
		OrderID:      42,
		Status:       order.Shipping,
		ActingUserID: 300,
		OccurredAt:   time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != "42" {
			return false
		}
		var payload map[string]any
		if err := json.Unmarshal(msgs[0].Value, &payload); err != nil {
			return false
		}
		return payload["event_id"] == "6f1c2a43-52e4-4ab0-9a3e-1d3b0b5f7e10" &&
			payload["status"] == "SHIPPING" &&
			payload["order_id"] == float64(42) &&
			payload["acting_user_id"] == float64(300) &&
			payload["occurred_at"] == "2025-03-01T10:00:00Z"
	})).Return(nil).Once()

	require.NoError(t, kafkaadapter.NewPublisher(writer, nil).Publish(t.Context(), event))
	writer.AssertExpectations(t)
}

func TestPublisher_PublishFailure(t *testing.T) {
	writer := new(MockWriter)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	err := kafkaadapter.NewPublisher(writer, nil).Publish(t.Context(), ports.OrderEvent{OrderID: 1, Status: order.Pending})
	assert.ErrorIs(t, err, errs.ErrUpstreamUnavailable)
}
