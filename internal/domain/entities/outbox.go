package entities

import (
	"encoding/json"
	"time"
)

// OutboxEntry is a pending unit of remote work, created in the same local
// transaction as the mutation it mirrors and removed only after the remote
// call succeeded. Entries are replayed oldest-first.
type OutboxEntry struct {
	ID        string
	Table     string // domain.TableParticipants | TableRegistrations
	Op        string // domain.OpUpsert | OpDelete | OpRegisterRemote | OpCancelRemote
	Payload   json.RawMessage
	Status    string // domain.OutboxPending | OutboxBlockedOnAuth
	CreatedAt time.Time
}

// RegisterPayload is the payload of an OpRegisterRemote entry.
type RegisterPayload struct {
	EventID       string   `json:"event_id"`
	ParticipantID string   `json:"participant_id"`
	PaymentAmount *float64 `json:"payment_amount,omitempty"`
}

// CancelPayload is the payload of an OpCancelRemote entry.
type CancelPayload struct {
	ID string `json:"id"`
}

// DeletePayload is the payload of a participants OpDelete entry.
type DeletePayload struct {
	ID string `json:"id"`
}
