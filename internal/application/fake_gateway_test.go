package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
	"github.com/jlsanzbreton/puebla-bot/internal/infrastructure/bus"
	"github.com/jlsanzbreton/puebla-bot/internal/infrastructure/localdb"
	"github.com/jlsanzbreton/puebla-bot/internal/ports/output"
)

// fakeGateway is a scriptable RemoteGateway: it records every call and can be
// told to fail specific operations.
type fakeGateway struct {
	mu sync.Mutex

	session    *entities.Session
	sessionErr error

	// failOn maps an operation name (register, cancel, upsertParticipant,
	// softDelete, participantsSince, registrationsSince, markPaid) to the
	// error it should return.
	failOn map[string]error

	calls []string

	remoteParticipants  []entities.Participant
	remoteRegistrations []entities.Registration
}

var _ output.RemoteGateway = (*fakeGateway)(nil)

func newFakeGateway(session *entities.Session) *fakeGateway {
	return &fakeGateway{session: session, failOn: map[string]error{}}
}

func (f *fakeGateway) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	op := call
	if i := strings.IndexByte(call, '('); i >= 0 {
		op = call[:i]
	}
	return f.failOn[op]
}

func (f *fakeGateway) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeGateway) Session(context.Context) (*entities.Session, error) {
	return f.session, f.sessionErr
}

func (f *fakeGateway) UpsertParticipant(_ context.Context, p *entities.Participant) error {
	return f.record(fmt.Sprintf("upsertParticipant(%s)", p.ID))
}

func (f *fakeGateway) SoftDeleteParticipant(_ context.Context, id string, _ time.Time) error {
	return f.record(fmt.Sprintf("softDelete(%s)", id))
}

func (f *fakeGateway) ParticipantsSince(_ context.Context, since time.Time) ([]entities.Participant, error) {
	if err := f.record(fmt.Sprintf("participantsSince(%s)", since.UTC().Format(time.RFC3339))); err != nil {
		return nil, err
	}
	return f.remoteParticipants, nil
}

func (f *fakeGateway) RegistrationsSince(_ context.Context, since time.Time) ([]entities.Registration, error) {
	if err := f.record(fmt.Sprintf("registrationsSince(%s)", since.UTC().Format(time.RFC3339))); err != nil {
		return nil, err
	}
	return f.remoteRegistrations, nil
}

func (f *fakeGateway) Register(_ context.Context, eventID, participantID string, _ *float64) error {
	return f.record(fmt.Sprintf("register(%s,%s)", eventID, participantID))
}

func (f *fakeGateway) CancelRegistration(_ context.Context, id string) error {
	return f.record(fmt.Sprintf("cancel(%s)", id))
}

func (f *fakeGateway) MarkPaid(_ context.Context, id, method string, _ *float64) error {
	return f.record(fmt.Sprintf("markPaid(%s,%s)", id, method))
}

// openStore creates a fresh SQLite store in a temp dir.
func openStore(t *testing.T) *localdb.Store {
	t.Helper()
	store, err := localdb.Open(t.TempDir()+"/fiestas.db", bus.New())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// testSession is a plain signed-in user.
func testSession() *entities.Session {
	return &entities.Session{
		UserID:      "u1",
		Email:       "ana@example.com",
		Role:        "user",
		DisplayName: "Ana",
	}
}

func adminSession() *entities.Session {
	return &entities.Session{
		UserID:      "admin1",
		Email:       "orga@example.com",
		Role:        "admin",
		DisplayName: "Organización",
	}
}

// fixedClock returns a deterministic, strictly advancing clock.
func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Millisecond)
		return now
	}
}

// sequentialIDs returns id generators like p-1, p-2, ...
func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
