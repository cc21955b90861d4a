package entities

import "time"

// Registration is a participant's enrollment in one activity.
// Logical uniqueness key: (EventID, ParticipantID) among non-deleted rows.
// Cancellation is a tombstone (Deleted=true), never a physical delete, so
// remote peers observe it during pull.
type Registration struct {
	ID              string
	EventID         string
	ParticipantID   string
	ParticipantName string // denormalized for fast rendering without a join
	CreatedByUserID string
	PaymentStatus   string // domain.PaymentPending | PaymentPaid | PaymentWaived
	PaymentAmount   *float64
	PaymentMethod   string // domain.MethodCash | MethodBizum | MethodOther, empty if unset
	IsConfirmed     bool
	Deleted         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time // LWW merge key
}

// Live reports whether the registration is active (not cancelled).
func (r *Registration) Live() bool {
	return !r.Deleted
}
