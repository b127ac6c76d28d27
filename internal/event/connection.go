package event

import (
	"fmt"
	"loan-engine/internal/config"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

func amqpURI(cfg config.RabbitMQConfig) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.Username, cfg.Password, cfg.Host, cfg.Port)
}

// Dial connects to the broker and logs when the connection drops.
func Dial(cfg config.RabbitMQConfig, logger *slog.Logger) (*amqp.Connection, error) {
	logger.Info("Connecting to RabbitMQ", "host", cfg.Host, "port", cfg.Port)
	conn, err := amqp.Dial(amqpURI(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	logger.Info("RabbitMQ connection established.")

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if closeErr, ok := <-closed; ok && closeErr != nil {
			logger.Error("RabbitMQ connection closed unexpectedly", slog.Any("error", closeErr))
		}
	}()

	return conn, nil
}
