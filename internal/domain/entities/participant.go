package entities

import "time"

// Participant is a person who can be registered for activities. It may
// represent the account holder or someone the account registers on behalf of.
// Participants are never hard-deleted; Deleted is a tombstone so registrations
// keep a valid reference.
type Participant struct {
	ID          string
	OwnerUserID string
	DisplayName string
	BirthYear   *int
	Notes       string
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time // LWW merge key
}
