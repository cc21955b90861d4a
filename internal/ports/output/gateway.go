package output

import (
	"context"
	"time"

	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
)

// RemoteGateway abstracts the hosted backend: session resolution, table
// writes and the registration remote procedures. Every call may fail
// (network, auth, validation) and none is assumed exactly-once, so all
// operations issued through it must be safe to repeat. In particular the
// server-side register procedure is idempotent for an already registered
// (event, participant) pair.
type RemoteGateway interface {
	// Session returns the current authenticated session, or (nil, nil) when
	// there is none.
	Session(ctx context.Context) (*entities.Session, error)

	UpsertParticipant(ctx context.Context, p *entities.Participant) error
	SoftDeleteParticipant(ctx context.Context, id string, at time.Time) error

	// Incremental pull: all rows with updated_at strictly greater than since.
	ParticipantsSince(ctx context.Context, since time.Time) ([]entities.Participant, error)
	RegistrationsSince(ctx context.Context, since time.Time) ([]entities.Registration, error)

	// Remote procedures.
	Register(ctx context.Context, eventID, participantID string, amount *float64) error
	CancelRegistration(ctx context.Context, registrationID string) error
	MarkPaid(ctx context.Context, registrationID, method string, amount *float64) error
}
