package event

import (
	"context"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

type MessageHandler func(ctx context.Context, d amqp.Delivery)

// amqpChannel is the part of *amqp.Channel the scoring topology and consumer use.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Cancel(consumer string, noWait bool) error
	Close() error
}

// Consumer feeds borrower.registered deliveries from one durable queue to a
// handler, one at a time. Deliveries are acked by the handler.
type Consumer struct {
	channel     amqpChannel
	queueName   string
	consumerTag string
	handler     MessageHandler
	logger      *slog.Logger
	cancel      context.CancelFunc
	done        chan struct{}
}

func NewConsumer(
	conn *amqp.Connection,
	exchangeName, queueName, consumerTag string,
	prefetch int,
	handler MessageHandler,
	logger *slog.Logger,
) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	c, err := newConsumer(ch, exchangeName, queueName, consumerTag, prefetch, handler, logger)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return c, nil
}

func newConsumer(
	ch amqpChannel,
	exchangeName, queueName, consumerTag string,
	prefetch int,
	handler MessageHandler,
	logger *slog.Logger,
) (*Consumer, error) {
	queue, err := declareScoringQueue(ch, exchangeName, queueName, prefetch, logger)
	if err != nil {
		return nil, err
	}
	return &Consumer{
		channel:     ch,
		queueName:   queue,
		consumerTag: consumerTag,
		handler:     handler,
		logger:      logger.With("component", "consumer", "queue", queue),
	}, nil
}

// declareScoringQueue makes sure the exchange and the durable queue exist, binds
// the queue to borrower.registered and caps unacked deliveries at prefetch
// (at least one). It returns the queue name the broker settled on.
func declareScoringQueue(ch amqpChannel, exchangeName, queueName string, prefetch int, logger *slog.Logger) (string, error) {
	if err := declareExchange(ch, exchangeName); err != nil {
		return "", err
	}

	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return "", fmt.Errorf("failed to declare queue '%s': %w", queueName, err)
	}
	if err := ch.QueueBind(q.Name, routingKeyBorrowerRegistered, exchangeName, false, nil); err != nil {
		return "", fmt.Errorf("failed to bind queue '%s' to '%s': %w", q.Name, routingKeyBorrowerRegistered, err)
	}

	if prefetch < 1 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return "", fmt.Errorf("failed to set prefetch to %d: %w", prefetch, err)
	}

	logger.Info("Scoring queue ready",
		"exchange", exchangeName,
		"queue", q.Name,
		"routing_key", routingKeyBorrowerRegistered,
		"prefetch", prefetch,
	)
	return q.Name, nil
}

// Start registers with the broker and handles deliveries until ctx ends, the
// delivery channel closes or Stop is called.
func (c *Consumer) Start(ctx context.Context) error {
	deliveries, err := c.channel.Consume(c.queueName, c.consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer '%s': %w", c.consumerTag, err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)
		c.logger.Info("Consuming scoring tasks")
		handled := consume(loopCtx, deliveries, c.handler, c.logger)
		c.logger.Info("Stopped consuming scoring tasks", "handled", handled)
	}()
	return nil
}

// consume hands each delivery to handler in arrival order and returns how
// many it handled.
func consume(ctx context.Context, deliveries <-chan amqp.Delivery, handler MessageHandler, logger *slog.Logger) int {
	handled := 0
	for {
		select {
		case <-ctx.Done():
			return handled
		case d, ok := <-deliveries:
			if !ok {
				logger.Warn("Delivery channel closed by the broker")
				return handled
			}
			handler(ctx, d)
			handled++
		}
	}
}

// Stop cancels the broker subscription, waits for the delivery in flight and
// closes the channel. It is a no-op before Start.
func (c *Consumer) Stop() {
	if c.cancel == nil {
		c.logger.Warn("Stop called on a consumer that was never started")
		return
	}
	c.cancel()

	if err := c.channel.Cancel(c.consumerTag, false); err != nil {
		c.logger.Warn("Failed to cancel consumer tag", "tag", c.consumerTag, "error", err)
	}
	<-c.done

	if err := c.channel.Close(); err != nil {
		c.logger.Error("Failed to close consumer channel", "error", err)
		return
	}
	c.logger.Info("Consumer stopped")
}
