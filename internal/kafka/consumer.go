package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

type Consumer struct {
	reader *kafka.Reader
	logger *zap.Logger
}

func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		logger: logger,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

type PaymentEventHandler func(ctx context.Context, event PaymentEvent) error

// Consume reads until ctx is cancelled. Undecodable messages are logged and skipped;
// a handler error stops consumption and is returned.
func (c *Consumer) Consume(ctx context.Context, handler PaymentEventHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if err := dispatch(ctx, msg, handler, c.logger); err != nil {
			return err
		}
	}
}

func dispatch(ctx context.Context, msg kafka.Message, handler PaymentEventHandler, logger *zap.Logger) error {
	headers := msg.Headers
	ctx = otel.GetTextMapPropagator().Extract(ctx, headerCarrier{headers: &headers})

	var event PaymentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Warn("decode payment event", zap.Error(err), zap.Int64("offset", msg.Offset))
		return nil
	}
	return handler(ctx, event)
}
