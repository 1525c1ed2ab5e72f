package kafka

import (
	"context"
	"fmt"

	"mebelmarket/internal/domain/order"
	"mebelmarket/internal/messaging"
)

var _ order.EventSink = (*EventMirror)(nil)

// EventMirror copies order lifecycle events to a Kafka topic so downstream
// consumers (analytics, fulfillment) see the same stream the live push does.
type EventMirror struct {
	pub messaging.Publisher
}

func NewEventMirror(pub messaging.Publisher) *EventMirror {
	return &EventMirror{pub: pub}
}

func (m *EventMirror) Publish(ctx context.Context, event order.Event) error {
	env, err := messaging.NewEnvelope(eventKey(event), string(event.Type), event.Data)
	if err != nil {
		return fmt.Errorf("build envelope: %w", err)
	}

	if err := m.pub.Publish(ctx, env); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

// eventKey keeps all events for one order in the same partition.
func eventKey(event order.Event) string {
	switch data := event.Data.(type) {
	case order.Order:
		return data.ID
	case map[string]string:
		return data["id"]
	default:
		return string(event.Type)
	}
}
