// Package kafka publishes order status events.
package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"
)

// DefaultTopic receives every status change.
const DefaultTopic = "order.status_changed"

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NewWriter keys messages by order id so one order's events stay ordered
// within a partition.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
}

type eventPayload struct {
	EventID      string    `json:"event_id"`
	OrderID      int64     `json:"order_id"`
	Status       string    `json:"status"`
	ActingUserID int64     `json:"acting_user_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher implements ports.OrderEventPublisher.
type Publisher struct {
	writer  MessageWriter
	metrics *metrics.Metrics
}

func NewPublisher(writer MessageWriter, m *metrics.Metrics) *Publisher {
	return &Publisher{writer: writer, metrics: m}
}

func (p *Publisher) Publish(ctx context.Context, event ports.OrderEvent) error {
	data, err := json.Marshal(eventPayload{
		EventID:      event.EventID.String(),
		OrderID:      event.OrderID,
		Status:       event.Status.String(),
		ActingUserID: event.ActingUserID,
		OccurredAt:   event.OccurredAt.UTC(),
	})
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: data,
		Time:  time.Now().UTC(),
	})
	p.metrics.EventPublished(err)
	if err != nil {
		return errs.NewUpstreamUnavailableErrorWithCause("kafka", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
