package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/srithedesigner/bunniesBurger/internal/config"
)

// ChangesExchange carries one routing key per (stream, event) pair,
// e.g. "order_lines.update".
const ChangesExchange = "pos.changes"

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	acks <-chan amqp.Confirmation // publisher confirms
	mu   sync.Mutex               // serializes Publish while waiting for confirms
}

func (c *Client) Channel() *amqp.Channel { return c.ch }

func Dial(cfg config.RabbitMQConfig) (*Client, error) {
	vhost := cfg.VHost
	if vhost == "" {
		vhost = "/"
	}
	url := fmt.Sprintf("amqp://%s:%s@%s:%d/%s", cfg.User, cfg.Password, cfg.Host, cfg.Port, vhost)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &Client{conn: conn, ch: ch, acks: acks}, nil
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Client) Ping() error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// DeclareChanges declares the durable topic exchange for change events.
// Safe to call more than once.
func (c *Client) DeclareChanges() error {
	return c.ch.ExchangeDeclare(ChangesExchange, "topic", true, false, false, false, nil)
}

// Publish sends a message and waits for the broker ack.
func (c *Client) Publish(ctx context.Context, exchange, key string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ch.PublishWithContext(
		ctx,
		exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	); err != nil {
		return err
	}

	select {
	case conf := <-c.acks:
		if conf.Ack {
			return nil
		}
		return errors.New("publish NACK from broker")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ConsumeChanges binds an exclusive auto-named queue to the changes
// exchange and starts delivering matching messages. Each terminal gets
// its own queue, so every terminal sees every change.
func (c *Client) ConsumeChanges(consumerTag string, keys []string) (<-chan amqp.Delivery, error) {
	q, err := c.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		if err := c.ch.QueueBind(q.Name, key, ChangesExchange, false, nil); err != nil {
			return nil, err
		}
	}
	return c.ch.Consume(q.Name, consumerTag, true, true, false, false, nil)
}
