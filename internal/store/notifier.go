package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/srithedesigner/bunniesBurger/internal/common/logger"
	"github.com/srithedesigner/bunniesBurger/internal/connections/rabbitmq"
	"github.com/srithedesigner/bunniesBurger/internal/domain"
)

// RabbitNotifier publishes and consumes change events on the pos.changes
// topic exchange. Routing key is "<stream>.<event>", so a consumer could
// also bind a subset of streams.
type RabbitNotifier struct {
	client *rabbitmq.Client
	tag    string
	log    *logger.Logger
	done   chan struct{}
	once   sync.Once

	mu     sync.Mutex
	events chan domain.ChangeEvent
}

func NewRabbitNotifier(client *rabbitmq.Client, consumerTag string, log *logger.Logger) *RabbitNotifier {
	return &RabbitNotifier{client: client, tag: consumerTag, log: log, done: make(chan struct{})}
}

func (n *RabbitNotifier) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	key := fmt.Sprintf("%s.%s", ev.Stream, ev.Kind)
	if err := n.client.Publish(ctx, rabbitmq.ChangesExchange, key, body); err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}

// Subscribe starts consuming all change events. Calling it again returns
// the already established channel; no duplicate subscription is created.
func (n *RabbitNotifier) Subscribe() (<-chan domain.ChangeEvent, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.events != nil {
		return n.events, nil
	}

	deliveries, err := n.client.ConsumeChanges(n.tag, []string{"#"})
	if err != nil {
		return nil, fmt.Errorf("consume changes: %w", err)
	}

	events := make(chan domain.ChangeEvent)
	go n.forward(deliveries, events)
	n.events = events
	return events, nil
}

// Close stops the forwarding goroutine even when the consumer is no
// longer draining the event channel. Safe to call more than once.
func (n *RabbitNotifier) Close() {
	n.once.Do(func() { close(n.done) })
}

// forward decodes deliveries onto events until the delivery channel
// closes or the notifier is closed.
func (n *RabbitNotifier) forward(deliveries <-chan amqp.Delivery, events chan<- domain.ChangeEvent) {
	defer close(events)
	for {
		select {
		case <-n.done:
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			var ev domain.ChangeEvent
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				n.log.Error("change_event_decode_failed", err, map[string]any{
					"routing_key": d.RoutingKey,
				})
				continue
			}
			select {
			case events <- ev:
			case <-n.done:
				return
			}
		}
	}
}
