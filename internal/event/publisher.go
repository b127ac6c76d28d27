package event

import (
	"context"
	"encoding/json"
	"fmt"
	"loan-engine/internal/domain/borrower"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var _ borrower.ScoringQueue = (*ScoringPublisher)(nil)

// ScoringPublisher enqueues credit scoring tasks on a RabbitMQ topic exchange
// for cmd/scoring-worker to consume.
type ScoringPublisher struct {
	conn         *amqp.Connection
	exchangeName string
	logger       *slog.Logger
	now          func() time.Time
}

func NewScoringPublisher(conn *amqp.Connection, exchangeName string, logger *slog.Logger) (*ScoringPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection cannot be nil")
	}
	if exchangeName == "" {
		return nil, fmt.Errorf("RabbitMQ exchange name cannot be empty")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	tempCh, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open temporary channel for exchange declaration: %w", err)
	}
	defer tempCh.Close()

	if err := declareExchange(tempCh, exchangeName); err != nil {
		return nil, err
	}
	logger.Info("Ensured RabbitMQ exchange exists", "exchange", exchangeName, "type", amqp.ExchangeTopic)

	return &ScoringPublisher{
		conn:         conn,
		exchangeName: exchangeName,
		logger:       logger.With("component", "ScoringPublisher", "exchange", exchangeName),
		now:          time.Now,
	}, nil
}

func (p *ScoringPublisher) EnqueueScoring(ctx context.Context, borrowerID string) error {
	return p.publish(ctx, routingKeyBorrowerRegistered, BorrowerRegisteredEvent{
		BorrowerID: borrowerID,
		Timestamp:  p.now().UTC(),
	})
}

func (p *ScoringPublisher) publish(ctx context.Context, routingKey string, payload any) error {
	logCtx := p.logger.With(slog.String("routingKey", routingKey))

	channel, err := p.conn.Channel()
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to open RabbitMQ channel", slog.Any("error", err))
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer channel.Close()

	msg, err := newPublishing(payload, p.now())
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to marshal event payload to JSON", slog.Any("error", err))
		return err
	}

	logCtx.DebugContext(ctx, "Publishing message", "bodySize", len(msg.Body))

	if err := channel.PublishWithContext(ctx, p.exchangeName, routingKey, false, false, msg); err != nil {
		logCtx.ErrorContext(ctx, "Failed to publish message to RabbitMQ", slog.Any("error", err))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logCtx.InfoContext(ctx, "Successfully published message")
	return nil
}

func newPublishing(payload any, ts time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ts,
		Body:         body,
		AppId:        publisherAppID,
	}, nil
}

func declareExchange(ch amqpChannel, exchangeName string) error {
	err := ch.ExchangeDeclare(
		exchangeName,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange '%s': %w", exchangeName, err)
	}
	return nil
}
