package input

import (
	"context"

	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
)

// JoinOptions modulates a Join call.
type JoinOptions struct {
	// ParticipantID selects who to register. Empty means the session's own
	// ("self") participant, created on first use.
	ParticipantID string
	// AsOrganizer waives payment (amount 0, confirmed) and is only honored
	// for admin sessions.
	AsOrganizer bool
}

// RegistrationUseCase is the workflow surface consumed by presentation
// adapters. session may be nil (offline / not signed in); operations then
// record local state and defer remote identity to the next push.
type RegistrationUseCase interface {
	EnsureSelfParticipant(ctx context.Context, session *entities.Session) (*entities.Participant, error)
	AddParticipant(ctx context.Context, session *entities.Session, displayName string) (*entities.Participant, error)
	Join(ctx context.Context, activity *entities.Activity, session *entities.Session, opts JoinOptions) (string, error)
	Leave(ctx context.Context, activity *entities.Activity, session *entities.Session) error
	MarkPaid(ctx context.Context, session *entities.Session, registrationID, method string, amount *float64) error
}
