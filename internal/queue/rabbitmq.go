package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	headerRetryCount    = "x-retry-count"
	headerOriginalQueue = "x-original-queue"
	headerError         = "x-error"
)

// RabbitMQBroker publishes persistent JSON messages to durable queues. A
// failed delivery is republished with a growing delay until MaxRetries is
// spent, then parked on the queue's dead-letter twin.
type RabbitMQBroker struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	maxRetries int
	retryDelay time.Duration
	mu         sync.RWMutex
}

type Config struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

func NewRabbitMQBroker(cfg Config) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	broker := &RabbitMQBroker{
		conn:       conn,
		channel:    channel,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
	if broker.retryDelay <= 0 {
		broker.retryDelay = time.Second
	}

	for _, queueName := range Queues {
		for _, name := range []string{queueName, DeadLetterQueue(queueName)} {
			if err := broker.declareQueue(name); err != nil {
				broker.Close()
				return nil, err
			}
		}
	}

	return broker, nil
}

func (b *RabbitMQBroker) declareQueue(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// durable, not auto-deleted, not exclusive
	if _, err := b.channel.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}
	return nil
}

func (b *RabbitMQBroker) Publish(ctx context.Context, queueName string, message []byte) error {
	if err := b.publish(ctx, queueName, message, nil); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (b *RabbitMQBroker) publish(ctx context.Context, queueName string, body []byte, headers amqp.Table) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.channel.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
		Headers:      headers,
		Timestamp:    time.Now(),
	})
}

// Subscribe consumes queueName with manual acks until ctx is cancelled.
func (b *RabbitMQBroker) Subscribe(ctx context.Context, queueName string, handler MessageHandler) error {
	b.mu.RLock()
	msgs, err := b.channel.Consume(queueName, "", false, false, false, false, nil)
	b.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer on %s: %w", queueName, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				b.deliver(ctx, msg, handler, queueName)
			}
		}
	}()

	return nil
}

func (b *RabbitMQBroker) deliver(ctx context.Context, msg amqp.Delivery, handler MessageHandler, queueName string) {
	handlerErr := handler(ctx, msg.Body)
	if handlerErr == nil {
		msg.Ack(false)
		return
	}

	attempt := retryCount(msg.Headers)
	delay, retry := backoff(attempt, b.maxRetries, b.retryDelay)
	if !retry {
		_ = b.publish(ctx, DeadLetterQueue(queueName), msg.Body, amqp.Table{
			headerOriginalQueue: queueName,
			headerRetryCount:    int32(attempt),
			headerError:         handlerErr.Error(),
		})
		msg.Ack(false)
		return
	}

	select {
	case <-ctx.Done():
		// shutting down: hand the message back untouched
		msg.Nack(false, true)
		return
	case <-time.After(delay):
	}

	if err := b.publish(ctx, queueName, msg.Body, amqp.Table{headerRetryCount: int32(attempt + 1)}); err != nil {
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}

// retryCount reads the retry header. AMQP tables may decode integers with
// different widths.
func retryCount(headers amqp.Table) int {
	switch v := headers[headerRetryCount].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// backoff returns the delay before retry number attempt+1, doubling from
// base, or false once maxRetries attempts were made.
func backoff(attempt, maxRetries int, base time.Duration) (time.Duration, bool) {
	if attempt >= maxRetries {
		return 0, false
	}
	return base * time.Duration(1<<attempt), true
}

func (b *RabbitMQBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
