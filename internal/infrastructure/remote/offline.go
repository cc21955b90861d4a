package remote

import (
	"context"
	"errors"
	"time"

	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
	"github.com/jlsanzbreton/puebla-bot/internal/ports/output"
)

// ErrOffline is returned by every Unavailable call that would need the network.
var ErrOffline = errors.New("sin conexión con el backend")

var _ output.RemoteGateway = (*Unavailable)(nil)

// Unavailable is the gateway used when the backend cannot be reached at
// startup. It reports no session (so push is a clean no-op and outbox entries
// stay queued) and fails pulls, which leaves the pull cursor untouched.
type Unavailable struct{}

func (Unavailable) Session(context.Context) (*entities.Session, error) { return nil, nil }

func (Unavailable) UpsertParticipant(context.Context, *entities.Participant) error {
	return ErrOffline
}

func (Unavailable) SoftDeleteParticipant(context.Context, string, time.Time) error {
	return ErrOffline
}

func (Unavailable) ParticipantsSince(context.Context, time.Time) ([]entities.Participant, error) {
	return nil, ErrOffline
}

func (Unavailable) RegistrationsSince(context.Context, time.Time) ([]entities.Registration, error) {
	return nil, ErrOffline
}

func (Unavailable) Register(context.Context, string, string, *float64) error {
	return ErrOffline
}

func (Unavailable) CancelRegistration(context.Context, string) error { return ErrOffline }

func (Unavailable) MarkPaid(context.Context, string, string, *float64) error { return ErrOffline }
