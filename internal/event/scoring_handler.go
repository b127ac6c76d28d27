package event

import (
	"context"
	"encoding/json"
	"errors"
	"loan-engine/internal/domain/borrower"
	"loan-engine/internal/infrastructure/monitoring"
	"loan-engine/internal/pkg/apperrors"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ScoringHandler runs the credit scorer for each borrower.registered delivery.
// Missing borrowers and an unavailable ledger are acked and dropped; the score
// stays unset and the backfill job picks the borrower up again.
type ScoringHandler struct {
	scorer borrower.Scorer
	logger *slog.Logger
}

func NewScoringHandler(scorer borrower.Scorer, logger *slog.Logger) *ScoringHandler {
	if scorer == nil {
		panic("scorer cannot be nil for ScoringHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for ScoringHandler")
	}
	return &ScoringHandler{
		scorer: scorer,
		logger: logger.With("component", "ScoringHandler"),
	}
}

func (h *ScoringHandler) HandleDelivery(ctx context.Context, d amqp.Delivery) {
	logCtx := h.logger.With(slog.Uint64("deliveryTag", d.DeliveryTag), slog.String("routingKey", d.RoutingKey))
	processed := false

	defer func() {
		if r := recover(); r != nil {
			logCtx.ErrorContext(ctx, "Panic while handling scoring task", "panic", r)
		}
		if !processed {
			logCtx.WarnContext(ctx, "Message processing ended without explicit Ack/Nack")
			_ = d.Nack(false, false)
			monitoring.RecordScoringDelivery("nack")
		}
	}()

	if d.RoutingKey != routingKeyBorrowerRegistered {
		logCtx.WarnContext(ctx, "Received message with unknown routing key. Discarding.")
		_ = d.Reject(false)
		monitoring.RecordScoringDelivery("reject")
		processed = true
		return
	}

	var event BorrowerRegisteredEvent
	if err := json.Unmarshal(d.Body, &event); err != nil || event.BorrowerID == "" {
		logCtx.ErrorContext(ctx, "Failed to decode BorrowerRegisteredEvent", "error", err, "body", string(d.Body))
		_ = d.Nack(false, false)
		monitoring.RecordScoringDelivery("nack")
		processed = true
		return
	}

	logCtx = logCtx.With(slog.String("borrower_id", event.BorrowerID))
	logCtx.InfoContext(ctx, "Processing scoring task")

	_, err := h.scorer.ScoreBorrower(ctx, event.BorrowerID)
	switch {
	case err == nil, errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrSourceUnavailable):
		if ackErr := d.Ack(false); ackErr != nil {
			logCtx.ErrorContext(ctx, "Failed to acknowledge message", "error", ackErr)
		}
		monitoring.RecordScoringDelivery("ack")
	case d.Redelivered:
		logCtx.ErrorContext(ctx, "Scoring failed on redelivery, dropping task", "error", err)
		_ = d.Nack(false, false)
		monitoring.RecordScoringDelivery("nack")
	default:
		logCtx.WarnContext(ctx, "Scoring failed, requeueing task", "error", err)
		_ = d.Nack(false, true)
		monitoring.RecordScoringDelivery("requeue")
	}
	processed = true
}
