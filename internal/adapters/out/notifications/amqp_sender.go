package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"bagpub/internal/core/ports"

	"github.com/jonboulle/clockwork"
	"github.com/streadway/amqp"
)

// Publisher is the part of *amqp.Channel the sender uses.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Message is the JSON body published for one notification.
type Message struct {
	Template   string         `json:"template"`
	Recipients []string       `json:"recipients"`
	Context    map[string]any `json:"context"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AMQPSender publishes notifications to a durable queue through the default exchange.
type AMQPSender struct {
	mu        sync.Mutex
	publisher Publisher
	queue     string
	clock     clockwork.Clock
	closers   []func() error
}

func NewAMQPSender(publisher Publisher, queue string, clock clockwork.Clock) *AMQPSender {
	return &AMQPSender{publisher: publisher, queue: queue, clock: clock}
}

// DialAMQP connects to the broker, opens a channel and declares queue as durable.
func DialAMQP(url, queue string, clock clockwork.Clock) (*AMQPSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	s := NewAMQPSender(ch, q.Name, clock)
	s.closers = []func() error{ch.Close, conn.Close}
	return s, nil
}

// Send publishes n as a persistent message. The channel does not take a context;
// a cancelled ctx is checked before publishing.
func (s *AMQPSender) Send(ctx context.Context, n ports.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := s.clock.Now()
	body, err := json.Marshal(Message{
		Template:   string(n.Template),
		Recipients: n.Recipients,
		Context:    n.Context,
		CreatedAt:  now,
	})
	if err != nil {
		return fmt.Errorf("encode notification %s: %w", n.Template, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publisher.Publish("", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Type:         string(n.Template),
		Body:         body,
	})
}

// Close closes the channel and connection opened by DialAMQP.
func (s *AMQPSender) Close() error {
	var firstErr error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
