package domain

import "context"

const (
	TopicForecastEvents   = "forecast-events"
	TopicPayoutsConfirmed = "payout-confirmed"
)

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(ctx context.Context, topic string, msgs ...Message) error
}

type SubscriberPort interface {
	Subscribe(ctx context.Context, topic, groupID string) (<-chan Message, error)
}
