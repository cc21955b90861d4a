package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlsanzbreton/puebla-bot/internal/domain"
	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
	"github.com/jlsanzbreton/puebla-bot/internal/infrastructure/bus"
	"github.com/jlsanzbreton/puebla-bot/internal/ports/output"
)

func mustAppendOutbox(t *testing.T, store output.LocalStore, id, table, op string, payload any, status string, at time.Time) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, store.AppendOutbox(context.Background(), &entities.OutboxEntry{
		ID:        id,
		Table:     table,
		Op:        op,
		Payload:   raw,
		Status:    status,
		CreatedAt: at,
	}))
}

func TestPushOutboxDrainsInOrder(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	gw := newFakeGateway(testSession())
	svc := NewSyncService(store, gw, nil)

	base := time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)
	mustAppendOutbox(t, store, "o1", domain.TableRegistrations, domain.OpRegisterRemote,
		entities.RegisterPayload{EventID: "actividad-1", ParticipantID: "p1"}, domain.OutboxPending, base)
	mustAppendOutbox(t, store, "o2", domain.TableRegistrations, domain.OpCancelRemote,
		entities.CancelPayload{ID: "reg-1"}, domain.OutboxPending, base.Add(time.Second))
	mustAppendOutbox(t, store, "o3", domain.TableParticipants, domain.OpDelete,
		entities.DeletePayload{ID: "p2"}, domain.OutboxPending, base.Add(2*time.Second))

	require.NoError(t, svc.PushOutbox(ctx))

	assert.Equal(t, []string{
		"register(actividad-1,p1)",
		"cancel(reg-1)",
		"softDelete(p2)",
	}, gw.callLog())

	left, err := store.ListOutboxOrdered(ctx)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPushOutboxStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	gw := newFakeGateway(testSession())
	gw.failOn["cancel"] = errors.New("backend caído")
	svc := NewSyncService(store, gw, nil)

	base := time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)
	mustAppendOutbox(t, store, "o1", domain.TableRegistrations, domain.OpRegisterRemote,
		entities.RegisterPayload{EventID: "actividad-1", ParticipantID: "p1"}, domain.OutboxPending, base)
	mustAppendOutbox(t, store, "o2", domain.TableRegistrations, domain.OpCancelRemote,
		entities.CancelPayload{ID: "reg-1"}, domain.OutboxPending, base.Add(time.Second))
	mustAppendOutbox(t, store, "o3", domain.TableRegistrations, domain.OpRegisterRemote,
		entities.RegisterPayload{EventID: "actividad-2", ParticipantID: "p1"}, domain.OutboxPending, base.Add(2*time.Second))

	require.NoError(t, svc.PushOutbox(ctx))

	// The failing entry and everything behind it stay queued, in order.
	left, err := store.ListOutboxOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, "o2", left[0].ID)
	assert.Equal(t, "o3", left[1].ID)

	// The entry behind the failure was never attempted.
	assert.Equal(t, []string{"register(actividad-1,p1)", "cancel(reg-1)"}, gw.callLog())

	// Once the backend recovers the tail drains.
	delete(gw.failOn, "cancel")
	require.NoError(t, svc.PushOutbox(ctx))
	left, err = store.ListOutboxOrdered(ctx)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPushOutboxReplaysParticipantUpsert(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	gw := newFakeGateway(testSession())
	svc := NewSyncService(store, gw, nil)

	at := time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)
	mustAppendOutbox(t, store, "o1", domain.TableParticipants, domain.OpUpsert,
		participantToWire(&entities.Participant{
			ID: "p1", OwnerUserID: "u1", DisplayName: "Ana",
			CreatedAt: at, UpdatedAt: at,
		}), domain.OutboxPending, at)

	require.NoError(t, svc.PushOutbox(ctx))
	assert.Equal(t, []string{"upsertParticipant(p1)"}, gw.callLog())
}

func TestPushOutboxWithoutSessionLeavesQueueUntouched(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	gw := newFakeGateway(nil)
	svc := NewSyncService(store, gw, nil)

	mustAppendOutbox(t, store, "o1", domain.TableRegistrations, domain.OpRegisterRemote,
		entities.RegisterPayload{EventID: "actividad-1", ParticipantID: "p1"}, domain.OutboxPending,
		time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC))

	require.NoError(t, svc.PushOutbox(ctx))

	assert.Empty(t, gw.callLog())
	left, err := store.ListOutboxOrdered(ctx)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestPushOutboxSessionErrorIsNotFatal(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	gw := newFakeGateway(nil)
	gw.sessionErr = errors.New("sin conexión")
	svc := NewSyncService(store, gw, nil)

	mustAppendOutbox(t, store, "o1", domain.TableRegistrations, domain.OpRegisterRemote,
		entities.RegisterPayload{EventID: "actividad-1", ParticipantID: "p1"}, domain.OutboxPending,
		time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC))

	require.NoError(t, svc.PushOutbox(ctx))
	assert.Empty(t, gw.callLog())
}

func TestPushOutboxSendsBlockedEntriesAfterSignIn(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	gw := newFakeGateway(testSession())
	svc := NewSyncService(store, gw, nil)

	mustAppendOutbox(t, store, "o1", domain.TableRegistrations, domain.OpRegisterRemote,
		entities.RegisterPayload{EventID: "actividad-1", ParticipantID: "p1"}, domain.OutboxBlockedOnAuth,
		time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC))

	require.NoError(t, svc.PushOutbox(ctx))

	assert.Equal(t, []string{"register(actividad-1,p1)"}, gw.callLog())
	left, err := store.ListOutboxOrdered(ctx)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestPushOutboxDropsUnknownEntries(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	gw := newFakeGateway(testSession())
	svc := NewSyncService(store, gw, nil)

	mustAppendOutbox(t, store, "o1", "kv", "upsert", map[string]string{"k": "v"}, domain.OutboxPending,
		time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC))

	require.NoError(t, svc.PushOutbox(ctx))

	assert.Empty(t, gw.callLog())
	left, err := store.ListOutboxOrdered(ctx)
	require.NoError(t, err)
	assert.Empty(t, left, "un-replayable entries must not wedge the queue")
}

func TestPushOutboxSignalsAuthStable(t *testing.T) {
	ctx := context.Background()
	eventBus := bus.New()
	authCh, cancelAuth := eventBus.Subscribe(domain.TopicAuthStable)
	defer cancelAuth()

	svc := NewSyncService(openStore(t), newFakeGateway(testSession()), eventBus)
	require.NoError(t, svc.PushOutbox(ctx))

	select {
	case <-authCh:
	case <-time.After(time.Second):
		t.Fatal("expected an auth-stable signal on an authenticated cycle")
	}
}

func TestPullChangesLastWriterWins(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	gw := newFakeGateway(testSession())
	svc := NewSyncService(store, gw, nil)

	older := time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 8, 12, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.PutRegistration(ctx, &entities.Registration{
		ID: "reg-local", EventID: "actividad-1", ParticipantID: "p1",
		ParticipantName: "Ana", PaymentStatus: domain.PaymentPending,
		CreatedAt: older, UpdatedAt: newer,
	}))
	require.NoError(t, store.PutRegistration(ctx, &entities.Registration{
		ID: "reg-stale", EventID: "actividad-2", ParticipantID: "p1",
		ParticipantName: "Ana", PaymentStatus: domain.PaymentPending,
		CreatedAt: older, UpdatedAt: older,
	}))

	gw.remoteRegistrations = []entities.Registration{
		// Older than the local copy: must be ignored.
		{ID: "reg-local", EventID: "actividad-1", ParticipantID: "p1",
			PaymentStatus: domain.PaymentPaid, CreatedAt: older, UpdatedAt: older},
		// Newer than the local copy: must be applied.
		{ID: "reg-stale", EventID: "actividad-2", ParticipantID: "p1",
			PaymentStatus: domain.PaymentPaid, CreatedAt: older, UpdatedAt: newer},
		// No local copy: must be inserted.
		{ID: "reg-new", EventID: "actividad-3", ParticipantID: "p2",
			PaymentStatus: domain.PaymentPending, CreatedAt: newer, UpdatedAt: newer},
	}

	require.NoError(t, svc.PullChanges(ctx))

	got, err := store.GetRegistration(ctx, "reg-local")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, got.PaymentStatus, "older remote row must not clobber local state")

	got, err = store.GetRegistration(ctx, "reg-stale")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)

	_, err = store.GetRegistration(ctx, "reg-new")
	require.NoError(t, err)
}

func TestPullChangesRemoteWinsOnTies(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	gw := newFakeGateway(testSession())
	svc := NewSyncService(store, gw, nil)

	at := time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.PutParticipant(ctx, &entities.Participant{
		ID: "p1", OwnerUserID: "u1", DisplayName: "Ana", CreatedAt: at, UpdatedAt: at,
	}))
	gw.remoteParticipants = []entities.Participant{
		{ID: "p1", OwnerUserID: "u1", DisplayName: "Ana María", CreatedAt: at, UpdatedAt: at},
	}

	require.NoError(t, svc.PullChanges(ctx))

	got, err := store.GetParticipant(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Ana María", got.DisplayName)
}

func TestPullChangesPreservesParticipantName(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	gw := newFakeGateway(testSession())
	svc := NewSyncService(store, gw, nil)

	older := time.Date(2025, 8, 10, 9, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)

	require.NoError(t, store.PutRegistration(ctx, &entities.Registration{
		ID: "reg-1", EventID: "actividad-1", ParticipantID: "p1",
		ParticipantName: "Ana", PaymentStatus: domain.PaymentPending,
		CreatedAt: older, UpdatedAt: older,
	}))

	gw.remoteRegistrations = []entities.Registration{
		// The backend does not denormalize names into registration rows.
		{ID: "reg-1", EventID: "actividad-1", ParticipantID: "p1",
			PaymentStatus: domain.PaymentPaid, CreatedAt: older, UpdatedAt: newer},
		{ID: "reg-2", EventID: "actividad-2", ParticipantID: "p9",
			PaymentStatus: domain.PaymentPending, CreatedAt: newer, UpdatedAt: newer},
	}

	require.NoError(t, svc.PullChanges(ctx))

	got, err := store.GetRegistration(ctx, "reg-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.ParticipantName)

	got, err = store.GetRegistration(ctx, "reg-2")
	require.NoError(t, err)
	assert.Equal(t, domain.UnknownParticipantName, got.ParticipantName)
}

func TestPullChangesCursorAdvancesOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	gw := newFakeGateway(testSession())
	svc := NewSyncService(store, gw, nil)
	svc.now = fixedClock(time.Date(2025, 8, 14, 12, 0, 0, 0, time.UTC))

	gw.failOn["registrationsSince"] = errors.New("backend caído")
	require.Error(t, svc.PullChanges(ctx))

	raw, err := store.KvGet(ctx, domain.KeyLastPullAt)
	require.NoError(t, err)
	assert.Empty(t, raw, "a failed pull must not move the watermark")

	delete(gw.failOn, "registrationsSince")
	require.NoError(t, svc.PullChanges(ctx))

	raw, err = store.KvGet(ctx, domain.KeyLastPullAt)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	cursor, err := time.Parse(time.RFC3339Nano, raw)
	require.NoError(t, err)

	// The next pull queries from the stored watermark, not from the epoch.
	gw.calls = nil
	require.NoError(t, svc.PullChanges(ctx))
	calls := gw.callLog()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0], cursor.UTC().Format(time.RFC3339))
}

func TestPullChangesFirstPullStartsAtEpoch(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	gw := newFakeGateway(testSession())
	svc := NewSyncService(store, gw, nil)

	require.NoError(t, svc.PullChanges(ctx))

	calls := gw.callLog()
	require.Len(t, calls, 2)
	assert.Equal(t, "participantsSince(1970-01-01T00:00:00Z)", calls[0])
	assert.Equal(t, "registrationsSince(1970-01-01T00:00:00Z)", calls[1])
}

func TestSyncAllPushesBeforePulling(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	gw := newFakeGateway(testSession())
	svc := NewSyncService(store, gw, nil)

	mustAppendOutbox(t, store, "o1", domain.TableRegistrations, domain.OpRegisterRemote,
		entities.RegisterPayload{EventID: "actividad-1", ParticipantID: "p1"}, domain.OutboxPending,
		time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC))

	require.NoError(t, svc.SyncAll(ctx))

	calls := gw.callLog()
	require.Len(t, calls, 3)
	assert.Equal(t, "register(actividad-1,p1)", calls[0])
	assert.Contains(t, calls[1], "participantsSince")
	assert.Contains(t, calls[2], "registrationsSince")
}
