// Package kafka publishes order notifications to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"marketplace/internal/core/ports"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	eventVersion = 1
	producerName = "order-core"
)

// Event is the JSON value of every published message.
type Event struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

// OrderPayload is the payload of order.processed and order.updated events.
type OrderPayload struct {
	OrderID string         `json:"order_id"`
	Status  string         `json:"status"`
	Data    map[string]any `json:"data,omitempty"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Notifier implements ports.Notifier. Messages are keyed by order id so all
// events of one order land on the same partition in order.
type Notifier struct {
	writer messageWriter
	now    func() time.Time
}

// NewNotifier creates a notifier writing synchronously to topic.
func NewNotifier(brokers []string, topic string) *Notifier {
	return newNotifier(&kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	})
}

func newNotifier(writer messageWriter) *Notifier {
	return &Notifier{writer: writer, now: time.Now}
}

// Send publishes one notification.
func (n *Notifier) Send(ctx context.Context, notification ports.Notification) error {
	payload, err := json.Marshal(OrderPayload{
		OrderID: notification.OrderID,
		Status:  notification.Status,
		Data:    notification.Data,
	})
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", notification.Event, err)
	}

	occurredAt := n.now().UTC()
	value, err := json.Marshal(Event{
		EventID:      uuid.NewString(),
		EventType:    notification.Event,
		EventVersion: eventVersion,
		OccurredAt:   occurredAt,
		Producer:     producerName,
		Payload:      payload,
	})
	if err != nil {
		return fmt.Errorf("encode %s event: %w", notification.Event, err)
	}

	err = n.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(notification.OrderID),
		Value: value,
		Time:  occurredAt,
		Headers: []kafkago.Header{
			{Key: "x-event-type", Value: []byte(notification.Event)},
			{Key: "x-event-version", Value: []byte(strconv.Itoa(eventVersion))},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s for order %s: %w", notification.Event, notification.OrderID, err)
	}
	return nil
}

// Close flushes pending messages and releases the writer.
func (n *Notifier) Close() error {
	return n.writer.Close()
}
