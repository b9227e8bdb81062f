package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventHandler processes one decoded notification event. Returning an error
// stops the consume loop.
type EventHandler func(ctx context.Context, event NotificationEvent) error

// Consumer reads notification events for the delivery worker.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume decodes and dispatches notification events until the reader fails
// or ctx is cancelled. A payload that does not decode is logged and skipped
// so a single bad message cannot wedge the group offset.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := dispatch(ctx, msg, handler); err != nil {
			return err
		}
	}
}

func dispatch(ctx context.Context, msg kafka.Message, handler EventHandler) error {
	var event NotificationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("drop undecodable message at offset %d: %v", msg.Offset, err)
		return nil
	}
	return handler(ctx, event)
}
