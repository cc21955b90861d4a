package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jlsanzbreton/puebla-bot/internal/domain"
	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
	"github.com/jlsanzbreton/puebla-bot/internal/ports/input"
	"github.com/jlsanzbreton/puebla-bot/internal/ports/output"
)

var _ input.RegistrationUseCase = (*RegistrationService)(nil)

// RegistrationService implements the join/leave workflow over the local
// store and the outbox. Every state change and its outbox mirror are written
// in one store transaction; remote durability is the sync engine's job.
type RegistrationService struct {
	store   output.LocalStore
	gateway output.RemoteGateway
	bus     output.Bus
	now     func() time.Time
	newID   func() string
	locks   *keyedMutex
}

// NewRegistrationService constructs a RegistrationService. bus may be nil.
func NewRegistrationService(store output.LocalStore, gateway output.RemoteGateway, bus output.Bus) *RegistrationService {
	return &RegistrationService{
		store:   store,
		gateway: gateway,
		bus:     bus,
		now:     time.Now,
		newID:   uuid.NewString,
		locks:   newKeyedMutex(),
	}
}

// EnsureSelfParticipant returns the session's own participant, creating it on
// first use. "Self" is by convention the oldest participant owned by the
// account. With a nil session the participant is created under an empty owner
// and adopted once an identity is available (its upsert stays blocked in the
// outbox until then).
func (s *RegistrationService) EnsureSelfParticipant(ctx context.Context, session *entities.Session) (*entities.Participant, error) {
	owner, name := selfIdentity(session)

	unlock := s.locks.lock("owner|" + owner)
	defer unlock()

	var self *entities.Participant
	err := s.store.RunInTx(ctx, func(tx output.Tx) error {
		existing, err := tx.FirstParticipantByOwner(ctx, owner)
		if err == nil {
			self = existing
			return nil
		}
		if !isNotFound(err) {
			return err
		}
		self = s.buildParticipant(owner, name)
		if err := tx.PutParticipant(ctx, self); err != nil {
			return err
		}
		return s.enqueueParticipantUpsert(ctx, tx, self, session)
	})
	if err != nil {
		return nil, fmt.Errorf("ensure self participant: %w", err)
	}
	s.publish(domain.TopicOutboxChanged)
	return self, nil
}

// AddParticipant creates a proxy participant under the session's account,
// e.g. a family member to register on behalf of. A case-insensitive name
// match returns the existing participant instead of duplicating it.
func (s *RegistrationService) AddParticipant(ctx context.Context, session *entities.Session, displayName string) (*entities.Participant, error) {
	if session == nil {
		return nil, domain.ErrSinSesion
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, domain.ErrNombreVacio
	}

	unlock := s.locks.lock("owner|" + session.UserID)
	defer unlock()

	var p *entities.Participant
	err := s.store.RunInTx(ctx, func(tx output.Tx) error {
		list, err := tx.ListParticipantsByOwner(ctx, session.UserID, false)
		if err != nil {
			return err
		}
		for i := range list {
			if strings.EqualFold(list[i].DisplayName, displayName) {
				p = &list[i]
				return nil
			}
		}
		p = s.buildParticipant(session.UserID, displayName)
		if err := tx.PutParticipant(ctx, p); err != nil {
			return err
		}
		return s.enqueueParticipantUpsert(ctx, tx, p, session)
	})
	if err != nil {
		return nil, fmt.Errorf("add participant: %w", err)
	}
	s.publish(domain.TopicOutboxChanged)
	return p, nil
}

// Join registers a participant for the activity.
//
// Pair state machine on (eventID, participantID):
//   - no row        -> create a live registration
//   - live row      -> return its id unchanged (idempotent)
//   - cancelled row -> reactivate it, never insert a second row
//
// Registering a participant owned by another account requires the admin role;
// the call is rejected before any state change otherwise. With no session the
// registration is still recorded locally and its outbox entry is marked
// blocked_on_auth so the next authenticated push can send it.
func (s *RegistrationService) Join(ctx context.Context, activity *entities.Activity, session *entities.Session, opts input.JoinOptions) (string, error) {
	if activity == nil {
		return "", domain.ErrActividadNoHay
	}
	if opts.AsOrganizer && !session.IsAdmin() {
		return "", domain.ErrNoAutorizado
	}

	participant, err := s.resolveParticipant(ctx, session, opts.ParticipantID)
	if err != nil {
		return "", err
	}
	if session != nil && participant.OwnerUserID != session.UserID && !session.IsAdmin() {
		return "", domain.ErrNoAutorizado
	}

	unlock := s.locks.lock(pairKey(activity.ID, participant.ID))
	defer unlock()

	now := s.now().UTC()
	var regID string
	err = s.store.RunInTx(ctx, func(tx output.Tx) error {
		existing, err := tx.GetRegistrationByPair(ctx, activity.ID, participant.ID)
		if err != nil && !isNotFound(err) {
			return err
		}

		if existing != nil && existing.Live() {
			regID = existing.ID
			return nil
		}

		var reg *entities.Registration
		if existing != nil {
			// Reactivate the tombstone instead of inserting a duplicate.
			reg = existing
			reg.Deleted = false
			reg.UpdatedAt = now
		} else {
			reg = &entities.Registration{
				ID:              s.newID(),
				EventID:         activity.ID,
				ParticipantID:   participant.ID,
				ParticipantName: participant.DisplayName,
				PaymentStatus:   domain.PaymentPending,
				PaymentAmount:   activity.PriceEUR,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if session != nil {
				reg.CreatedByUserID = session.UserID
			}
		}
		if opts.AsOrganizer {
			zero := 0.0
			reg.PaymentStatus = domain.PaymentWaived
			reg.PaymentAmount = &zero
			reg.IsConfirmed = true
		}
		if err := tx.PutRegistration(ctx, reg); err != nil {
			return err
		}
		regID = reg.ID

		payload, err := json.Marshal(entities.RegisterPayload{
			EventID:       reg.EventID,
			ParticipantID: reg.ParticipantID,
			PaymentAmount: reg.PaymentAmount,
		})
		if err != nil {
			return fmt.Errorf("encode register payload: %w", err)
		}
		return tx.AppendOutbox(ctx, &entities.OutboxEntry{
			ID:        s.newID(),
			Table:     domain.TableRegistrations,
			Op:        domain.OpRegisterRemote,
			Payload:   payload,
			Status:    s.outboxStatus(session),
			CreatedAt: now,
		})
	})
	if err != nil {
		return "", fmt.Errorf("join %s: %w", activity.ID, err)
	}
	s.publish(domain.TopicOutboxChanged)
	return regID, nil
}

// Leave cancels the acting participant's live registration for the activity.
// No live registration means no-op: no tombstone, no outbox entry, no error.
func (s *RegistrationService) Leave(ctx context.Context, activity *entities.Activity, session *entities.Session) error {
	if activity == nil {
		return domain.ErrActividadNoHay
	}

	owner, _ := selfIdentity(session)
	self, err := s.store.FirstParticipantByOwner(ctx, owner)
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("leave %s: %w", activity.ID, err)
	}

	unlock := s.locks.lock(pairKey(activity.ID, self.ID))
	defer unlock()

	now := s.now().UTC()
	changed := false
	err = s.store.RunInTx(ctx, func(tx output.Tx) error {
		reg, err := tx.GetRegistrationByPair(ctx, activity.ID, self.ID)
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if !reg.Live() {
			return nil
		}

		reg.Deleted = true
		reg.UpdatedAt = now
		if err := tx.PutRegistration(ctx, reg); err != nil {
			return err
		}

		payload, err := json.Marshal(entities.CancelPayload{ID: reg.ID})
		if err != nil {
			return fmt.Errorf("encode cancel payload: %w", err)
		}
		changed = true
		return tx.AppendOutbox(ctx, &entities.OutboxEntry{
			ID:        s.newID(),
			Table:     domain.TableRegistrations,
			Op:        domain.OpCancelRemote,
			Payload:   payload,
			Status:    s.outboxStatus(session),
			CreatedAt: now,
		})
	})
	if err != nil {
		return fmt.Errorf("leave %s: %w", activity.ID, err)
	}
	if changed {
		s.publish(domain.TopicOutboxChanged)
	}
	return nil
}

// MarkPaid records an in-person payment through the remote procedure. Admin
// only; the local copy catches up on the next pull.
func (s *RegistrationService) MarkPaid(ctx context.Context, session *entities.Session, registrationID, method string, amount *float64) error {
	if session == nil {
		return domain.ErrSinSesion
	}
	if !session.IsAdmin() {
		return domain.ErrNoAutorizado
	}
	switch method {
	case domain.MethodCash, domain.MethodBizum, domain.MethodOther:
	default:
		return domain.ErrMetodoPagoInvalido
	}
	if err := s.gateway.MarkPaid(ctx, registrationID, method, amount); err != nil {
		return fmt.Errorf("mark paid %s: %w", registrationID, err)
	}
	return nil
}

// resolveParticipant picks the participant to act on: an explicit id, or the
// session's self participant.
func (s *RegistrationService) resolveParticipant(ctx context.Context, session *entities.Session, participantID string) (*entities.Participant, error) {
	if participantID == "" {
		return s.EnsureSelfParticipant(ctx, session)
	}
	p, err := s.store.GetParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *RegistrationService) buildParticipant(owner, name string) *entities.Participant {
	now := s.now().UTC()
	return &entities.Participant{
		ID:          s.newID(),
		OwnerUserID: owner,
		DisplayName: name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *RegistrationService) enqueueParticipantUpsert(ctx context.Context, tx output.Tx, p *entities.Participant, session *entities.Session) error {
	payload, err := json.Marshal(participantToWire(p))
	if err != nil {
		return fmt.Errorf("encode participant payload: %w", err)
	}
	return tx.AppendOutbox(ctx, &entities.OutboxEntry{
		ID:        s.newID(),
		Table:     domain.TableParticipants,
		Op:        domain.OpUpsert,
		Payload:   payload,
		Status:    s.outboxStatus(session),
		CreatedAt: s.now().UTC(),
	})
}

// outboxStatus flags entries created without an identity so the retry logic
// has one source of truth for "what still needs sending".
func (s *RegistrationService) outboxStatus(session *entities.Session) string {
	if session == nil {
		return domain.OutboxBlockedOnAuth
	}
	return domain.OutboxPending
}

func (s *RegistrationService) publish(topic string) {
	if s.bus != nil {
		s.bus.Publish(topic)
	}
}

// selfIdentity derives the owner id and default display name for the
// session's own participant. Display name falls back to the email local part,
// then to a generic placeholder, as the web client does.
func selfIdentity(session *entities.Session) (owner, name string) {
	if session == nil {
		return "", "Usuario"
	}
	name = session.DisplayName
	if name == "" && session.Email != "" {
		name = strings.SplitN(session.Email, "@", 2)[0]
	}
	if name == "" {
		name = "Usuario"
	}
	return session.UserID, name
}

func pairKey(eventID, participantID string) string {
	return eventID + "|" + participantID
}
