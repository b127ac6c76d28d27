package event

import "time"

const (
	routingKeyBorrowerRegistered = "borrower.registered"
	publisherAppID               = "loan-engine"
)

// BorrowerRegisteredEvent is the scoring task payload. Consumers load the
// borrower by ID, so only the key travels on the wire.
type BorrowerRegisteredEvent struct {
	BorrowerID string    `json:"borrower_id"`
	Timestamp  time.Time `json:"timestamp"`
}
