package output

import (
	"context"

	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
)

// Tx is the transactional surface of the local store. All methods of a Tx run
// inside the same storage transaction; the transaction commits when the
// RunInTx callback returns nil and rolls back otherwise.
type Tx interface {
	// Participants.
	PutParticipant(ctx context.Context, p *entities.Participant) error
	GetParticipant(ctx context.Context, id string) (*entities.Participant, error)
	FirstParticipantByOwner(ctx context.Context, ownerUserID string) (*entities.Participant, error)
	ListParticipantsByOwner(ctx context.Context, ownerUserID string, includeDeleted bool) ([]entities.Participant, error)

	// Registrations.
	PutRegistration(ctx context.Context, r *entities.Registration) error
	GetRegistration(ctx context.Context, id string) (*entities.Registration, error)
	GetRegistrationByPair(ctx context.Context, eventID, participantID string) (*entities.Registration, error)
	ListLiveRegistrationsByEvent(ctx context.Context, eventID string) ([]entities.Registration, error)
	ListRegistrationsByCreator(ctx context.Context, createdByUserID string) ([]entities.Registration, error)
	ListRegistrations(ctx context.Context) ([]entities.Registration, error)

	// Outbox.
	AppendOutbox(ctx context.Context, e *entities.OutboxEntry) error
	ListOutboxOrdered(ctx context.Context) ([]entities.OutboxEntry, error)
	DeleteOutbox(ctx context.Context, id string) error
	MarkOutboxPending(ctx context.Context, id string) error

	// Key-value settings. KvGet returns "" when the key is absent.
	KvGet(ctx context.Context, key string) (string, error)
	KvSet(ctx context.Context, key, value string) error
}

// LocalStore is the durable local database. Methods called directly on the
// store run in an implicit single-operation transaction; RunInTx groups
// several mutations atomically. Committed transactions publish
// "store-changed:<table>" for every collection they touched.
type LocalStore interface {
	Tx
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}
