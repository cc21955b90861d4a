package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jlsanzbreton/puebla-bot/internal/domain"
	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
	"github.com/jlsanzbreton/puebla-bot/internal/ports/input"
	"github.com/jlsanzbreton/puebla-bot/internal/ports/output"
)

var _ input.SyncUseCase = (*SyncService)(nil)

// pullEpoch is the cursor used when no pull has ever completed.
var pullEpoch = time.Unix(0, 0).UTC()

// SyncService reconciles local and remote state: it drains the outbox
// against the gateway (push), then merges remote deltas into the local store
// using last-writer-wins on updated_at (pull). Always push before pull so
// local intents are not overwritten before they are sent.
type SyncService struct {
	store   output.LocalStore
	gateway output.RemoteGateway
	bus     output.Bus
	now     func() time.Time
}

// NewSyncService constructs a SyncService. bus may be nil.
func NewSyncService(store output.LocalStore, gateway output.RemoteGateway, bus output.Bus) *SyncService {
	return &SyncService{store: store, gateway: gateway, bus: bus, now: time.Now}
}

// PushOutbox drains pending outbox entries in creation order.
//
// Without a valid session the phase is a silent no-op: entries stay queued
// until credentials are available, so no authenticated RPC is ever sent with
// no identity behind it. The first remote failure stops the cycle and leaves
// the rest of the queue intact; failures are assumed transient and the whole
// tail is retried on the next cycle, preserving replay order.
//
// Local store failures are returned; they are not retryable by waiting.
func (s *SyncService) PushOutbox(ctx context.Context) error {
	session, err := s.gateway.Session(ctx)
	if err != nil {
		log.Printf("pushOutbox: session lookup failed, skipping push: %v", err)
		return nil
	}
	if session == nil {
		log.Printf("pushOutbox: no authenticated session, skipping push")
		return nil
	}
	// An authenticated cycle is the moment auth state is known settled.
	s.publish(domain.TopicAuthStable)

	entries, err := s.store.ListOutboxOrdered(ctx)
	if err != nil {
		return fmt.Errorf("push outbox: %w", err)
	}

	for i := range entries {
		entry := &entries[i]
		if entry.Status == domain.OutboxBlockedOnAuth {
			// A session is available now; the entry is sendable again.
			if err := s.store.MarkOutboxPending(ctx, entry.ID); err != nil {
				return fmt.Errorf("push outbox: %w", err)
			}
		}
		if err := s.dispatch(ctx, entry); err != nil {
			log.Printf("pushOutbox: entry %s (%s/%s) failed, will retry later: %v",
				entry.ID, entry.Table, entry.Op, err)
			break
		}
		if err := s.store.DeleteOutbox(ctx, entry.ID); err != nil {
			return fmt.Errorf("push outbox: %w", err)
		}
		s.publish(domain.TopicOutboxChanged)
	}
	return nil
}

// dispatch replays one entry against the gateway. Unknown (table, op)
// combinations are logged and treated as replayed so they do not wedge the
// queue forever.
func (s *SyncService) dispatch(ctx context.Context, entry *entities.OutboxEntry) error {
	switch {
	case entry.Table == domain.TableParticipants && entry.Op == domain.OpUpsert:
		var w participantWire
		if err := json.Unmarshal(entry.Payload, &w); err != nil {
			return fmt.Errorf("decode participant payload: %w", err)
		}
		return s.gateway.UpsertParticipant(ctx, wireToParticipant(w))

	case entry.Table == domain.TableParticipants && entry.Op == domain.OpDelete:
		var p entities.DeletePayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return fmt.Errorf("decode delete payload: %w", err)
		}
		return s.gateway.SoftDeleteParticipant(ctx, p.ID, s.now())

	case entry.Table == domain.TableRegistrations && entry.Op == domain.OpRegisterRemote:
		var p entities.RegisterPayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return fmt.Errorf("decode register payload: %w", err)
		}
		return s.gateway.Register(ctx, p.EventID, p.ParticipantID, p.PaymentAmount)

	case entry.Table == domain.TableRegistrations && entry.Op == domain.OpCancelRemote:
		var p entities.CancelPayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return fmt.Errorf("decode cancel payload: %w", err)
		}
		return s.gateway.CancelRegistration(ctx, p.ID)
	}

	log.Printf("pushOutbox: dropping unknown outbox entry %s (%s/%s)", entry.ID, entry.Table, entry.Op)
	return nil
}

// PullChanges merges remote deltas since the last watermark.
//
// The cursor only advances after both collections merged cleanly; any error
// abandons the pull, so the next one retries from the same watermark
// (at-least-once, never lossy). Re-merging the same rows is idempotent under
// LWW.
func (s *SyncService) PullChanges(ctx context.Context) error {
	cursor, err := s.pullCursor(ctx)
	if err != nil {
		return err
	}

	participants, err := s.gateway.ParticipantsSince(ctx, cursor)
	if err != nil {
		return fmt.Errorf("pull participants: %w", err)
	}
	if err := s.mergeParticipants(ctx, participants); err != nil {
		return fmt.Errorf("merge participants: %w", err)
	}

	registrations, err := s.gateway.RegistrationsSince(ctx, cursor)
	if err != nil {
		return fmt.Errorf("pull registrations: %w", err)
	}
	if err := s.mergeRegistrations(ctx, registrations); err != nil {
		return fmt.Errorf("merge registrations: %w", err)
	}

	if err := s.store.KvSet(ctx, domain.KeyLastPullAt, s.now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("advance pull cursor: %w", err)
	}
	return nil
}

// SyncAll is one push-then-pull step. No internal retry scheduling; callers
// trigger it on reconnect events, timers or explicit user action.
func (s *SyncService) SyncAll(ctx context.Context) error {
	if err := s.PushOutbox(ctx); err != nil {
		return err
	}
	return s.PullChanges(ctx)
}

func (s *SyncService) pullCursor(ctx context.Context) (time.Time, error) {
	raw, err := s.store.KvGet(ctx, domain.KeyLastPullAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("read pull cursor: %w", err)
	}
	if raw == "" {
		return pullEpoch, nil
	}
	cursor, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse pull cursor %q: %w", raw, err)
	}
	return cursor, nil
}

func (s *SyncService) mergeParticipants(ctx context.Context, remote []entities.Participant) error {
	if len(remote) == 0 {
		return nil
	}
	return s.store.RunInTx(ctx, func(tx output.Tx) error {
		for i := range remote {
			row := remote[i]
			local, err := tx.GetParticipant(ctx, row.ID)
			if err != nil && !isNotFound(err) {
				return err
			}
			if !applyRemote(local != nil, localUpdatedAt(local), row.UpdatedAt) {
				continue
			}
			if err := tx.PutParticipant(ctx, &row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SyncService) mergeRegistrations(ctx context.Context, remote []entities.Registration) error {
	if len(remote) == 0 {
		return nil
	}
	return s.store.RunInTx(ctx, func(tx output.Tx) error {
		for i := range remote {
			row := remote[i]
			local, err := tx.GetRegistration(ctx, row.ID)
			if err != nil && !isNotFound(err) {
				return err
			}
			var localUpdated time.Time
			if local != nil {
				localUpdated = local.UpdatedAt
			}
			if !applyRemote(local != nil, localUpdated, row.UpdatedAt) {
				continue
			}
			// Keep the denormalized name: the remote row does not carry one.
			if row.ParticipantName == "" {
				if local != nil && local.ParticipantName != "" {
					row.ParticipantName = local.ParticipantName
				} else {
					row.ParticipantName = domain.UnknownParticipantName
				}
			}
			if err := tx.PutRegistration(ctx, &row); err != nil {
				return err
			}
		}
		return nil
	})
}

// applyRemote is the LWW rule: apply when no local row exists or the remote
// updated_at is greater than or equal to the local one. Equality favors the
// remote copy; the remote is authoritative on ties.
func applyRemote(hasLocal bool, localUpdated, remoteUpdated time.Time) bool {
	if !hasLocal {
		return true
	}
	return !remoteUpdated.Before(localUpdated)
}

func localUpdatedAt(p *entities.Participant) time.Time {
	if p == nil {
		return time.Time{}
	}
	return p.UpdatedAt
}

// isNotFound matches the store's not-found sentinels.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrParticipanteNoHay) || errors.Is(err, domain.ErrInscripcionNoHay)
}

func (s *SyncService) publish(topic string) {
	if s.bus != nil {
		s.bus.Publish(topic)
	}
}
