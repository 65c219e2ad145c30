package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (k *DefaultKafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
			Topic: topic,
		})
	}

	return k.writer.WriteMessages(ctx, km...)
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}

// PublishForecastEvents writes events to forecast-events keyed by account, so
// one account's events stay ordered on one partition. Failed batches are
// retried with a linear backoff.
func PublishForecastEvents(ctx context.Context, pub domain.PublisherPort, events []ForecastEvent, maxRetries int) error {
	if len(events) == 0 {
		return nil
	}
	if maxRetries <= 0 {
		maxRetries = 1
	}

	msgs := make([]domain.Message, 0, len(events))
	for _, ev := range events {
		v, err := json.Marshal(ev)
		if err != nil {
			slog.Error("failed to marshal forecast event", "type", ev.Type, "account_id", ev.AccountID, "error", err)
			continue
		}
		msgs = append(msgs, domain.Message{Key: []byte(ev.AccountID), Value: v})
	}
	if len(msgs) == 0 {
		return fmt.Errorf("no valid messages to publish")
	}

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = pub.Publish(ctx, domain.TopicForecastEvents, msgs...); err == nil {
			return nil
		}
		slog.Warn("forecast events publish attempt failed", "attempt", attempt, "error", err)
		if attempt < maxRetries {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("publish %d forecast events after %d attempts: %w", len(msgs), maxRetries, err)
}
