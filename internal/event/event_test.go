package event

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) ScoreBorrower(ctx context.Context, borrowerID string) (int, error) {
	args := m.Called(ctx, borrowerID)
	return args.Int(0), args.Error(1)
}

type ackCall struct {
	method   string
	tag      uint64
	multiple bool
	requeue  bool
}

// recordingAcknowledger captures the acknowledgement a handler sends for a delivery.
type recordingAcknowledger struct {
	mu    sync.Mutex
	calls []ackCall
}

func (a *recordingAcknowledger) Ack(tag uint64, multiple bool) error {
	a.record(ackCall{method: "ack", tag: tag, multiple: multiple})
	return nil
}

func (a *recordingAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.record(ackCall{method: "nack", tag: tag, multiple: multiple, requeue: requeue})
	return nil
}

func (a *recordingAcknowledger) Reject(tag uint64, requeue bool) error {
	a.record(ackCall{method: "reject", tag: tag, requeue: requeue})
	return nil
}

func (a *recordingAcknowledger) record(c ackCall) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, c)
}

func (a *recordingAcknowledger) recorded() []ackCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ackCall(nil), a.calls...)
}
