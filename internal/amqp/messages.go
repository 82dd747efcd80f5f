package amqp

import (
	"encoding/json"
	"time"
)

// Event operations
const (
	OpAdded    = "added"
	OpRemoved  = "removed"
	OpReplaced = "replaced"
)

// TransactionEvent announces a change to the transaction collection.
// Consumers that need the full record read it from the shared backend.
type TransactionEvent struct {
	Op          string    `json:"op"`
	ID          string    `json:"id"`
	Kind        string    `json:"kind,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Category    string    `json:"category,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewTransactionEvent stamps an event with the current time.
func NewTransactionEvent(op, id string) *TransactionEvent {
	return &TransactionEvent{
		Op:        op,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes an event body.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// RoutingKey is the key events for op are published with.
func RoutingKey(op string) string {
	return "transaction." + op
}
