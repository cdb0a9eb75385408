package event

import (
	"context"

	"ucoa-chat/internal/infrastructure/broker"
)

// BrokerDispatcher publishes events to the application exchange for other services.
type BrokerDispatcher struct {
	Publisher broker.Publisher
	Producer  string
}

func NewBrokerDispatcher(p broker.Publisher, producer string) *BrokerDispatcher {
	return &BrokerDispatcher{Publisher: p, Producer: producer}
}

func (d *BrokerDispatcher) Publish(ctx context.Context, evt ChatCreatedEvent) error {
	env := broker.Envelope{
		Meta: broker.Meta{
			ID:            evt.ID,
			CorrelationID: &evt.Chat.ID,
			Time:          evt.OccurredAt,
			Type:          ChatCreatedType,
		},
		Data: evt,
	}
	if d.Producer != "" {
		env.Meta.Producer = &d.Producer
	}
	return d.Publisher.Publish(ctx, ChatCreatedType, env)
}
