package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ai-imagestudio-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler processes one event off the bus. Returning an error naks
// the message and JetStream redelivers it.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber consumes domain events through a durable JetStream consumer.
type Subscriber struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewSubscriber opens its own connection. Publisher and Subscriber live in
// the same process today but stay separable so the worker side can move
// into its own deployment without touching this package.
func NewSubscriber(url string) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js}, nil
}

// Subscribe binds a durable consumer to a subject filter and starts
// delivering. The durable name pins consumer state across restarts, so a
// redeploy resumes where the previous process stopped.
func (s *Subscriber) Subscribe(subject string, durableName string, handler EventHandler) error {
	ctx := context.Background()

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, streamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	_, err = consumer.Consume(func(msg jetstream.Msg) {
		var payload map[string]interface{}
		if err := json.Unmarshal(msg.Data(), &payload); err != nil {
			// A body that never parses will never parse. Ack it away
			// instead of letting redelivery spin on it.
			log.Printf("Dropping unparseable event on %s: %v", msg.Subject(), err)
			msg.Ack()
			return
		}

		// The subject carries the type (events.<TYPE>); handlers strip
		// the prefix themselves.
		event := events.BaseEvent{
			Type:       msg.Subject(),
			Data:       payload,
			OccurredAt: time.Now(),
		}

		if err := handler(context.Background(), event); err != nil {
			log.Printf("Handler failed for event %s: %v", msg.Subject(), err)
			msg.Nak()
			return
		}

		msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	log.Printf("Subscribed to %s with durable %s", subject, durableName)
	return nil
}

// Close closes the connection.
func (s *Subscriber) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}
