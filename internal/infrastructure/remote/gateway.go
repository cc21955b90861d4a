// Package remote implements the RemoteGateway port against the hosted
// backend's Postgres: session-scoped table writes plus the api_* procedures
// (register, cancel, mark paid). Row-level security and idempotent
// registration live server-side; the gateway only speaks the contract.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
	"github.com/jlsanzbreton/puebla-bot/internal/ports/output"
)

var _ output.RemoteGateway = (*Gateway)(nil)

// Gateway talks to the backend through a pgx pool. identity is the signed-in
// account's email; empty means unauthenticated (push will no-op).
type Gateway struct {
	pool     *pgxpool.Pool
	identity string
}

// NewGateway constructs a Gateway.
func NewGateway(pool *pgxpool.Pool, identity string) *Gateway {
	return &Gateway{pool: pool, identity: identity}
}

// Session resolves the configured identity against the profiles table.
// Returns (nil, nil) when unauthenticated or when no profile matches.
func (g *Gateway) Session(ctx context.Context) (*entities.Session, error) {
	if g.identity == "" {
		return nil, nil
	}
	var s entities.Session
	err := g.pool.QueryRow(ctx, `
		SELECT id, email, COALESCE(display_name, ''), COALESCE(role, 'user')
		FROM profiles WHERE email = $1
	`, g.identity).Scan(&s.UserID, &s.Email, &s.DisplayName, &s.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// UpsertParticipant writes the full participant row by id.
func (g *Gateway) UpsertParticipant(ctx context.Context, p *entities.Participant) error {
	_, err := g.pool.Exec(ctx, `
		INSERT INTO participants (id, owner_user_id, display_name, birth_year, notes, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			owner_user_id = EXCLUDED.owner_user_id,
			display_name  = EXCLUDED.display_name,
			birth_year    = EXCLUDED.birth_year,
			notes         = EXCLUDED.notes,
			deleted       = EXCLUDED.deleted,
			updated_at    = EXCLUDED.updated_at
	`, p.ID, p.OwnerUserID, p.DisplayName, p.BirthYear, nilIfEmpty(p.Notes), p.Deleted,
		p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert participant: %w", err)
	}
	return nil
}

// SoftDeleteParticipant sets the tombstone and refreshes updated_at.
func (g *Gateway) SoftDeleteParticipant(ctx context.Context, id string, at time.Time) error {
	_, err := g.pool.Exec(ctx,
		`UPDATE participants SET deleted = TRUE, updated_at = $2 WHERE id = $1`,
		id, at.UTC())
	if err != nil {
		return fmt.Errorf("soft delete participant: %w", err)
	}
	return nil
}

// ParticipantsSince returns all rows with updated_at strictly after since.
func (g *Gateway) ParticipantsSince(ctx context.Context, since time.Time) ([]entities.Participant, error) {
	rows, err := g.pool.Query(ctx, `
		SELECT id, owner_user_id, display_name, birth_year, COALESCE(notes, ''), deleted, created_at, updated_at
		FROM participants
		WHERE updated_at > $1
		ORDER BY updated_at
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("pull participants: %w", err)
	}
	defer rows.Close()

	var out []entities.Participant
	for rows.Next() {
		var p entities.Participant
		if err := rows.Scan(&p.ID, &p.OwnerUserID, &p.DisplayName, &p.BirthYear,
			&p.Notes, &p.Deleted, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RegistrationsSince returns all rows with updated_at strictly after since.
// The remote table carries no denormalized participant name; the merge keeps
// the locally-known one.
func (g *Gateway) RegistrationsSince(ctx context.Context, since time.Time) ([]entities.Registration, error) {
	rows, err := g.pool.Query(ctx, `
		SELECT id, event_id, participant_id, created_by_user_id, payment_status,
		       payment_amount, payment_method, is_confirmed, deleted, created_at, updated_at
		FROM registrations
		WHERE updated_at > $1
		ORDER BY updated_at
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("pull registrations: %w", err)
	}
	defer rows.Close()

	var out []entities.Registration
	for rows.Next() {
		var (
			r      entities.Registration
			method *string
		)
		if err := rows.Scan(&r.ID, &r.EventID, &r.ParticipantID, &r.CreatedByUserID,
			&r.PaymentStatus, &r.PaymentAmount, &method, &r.IsConfirmed,
			&r.Deleted, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		if method != nil {
			r.PaymentMethod = *method
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Register calls the idempotent server-side registration procedure. A repeat
// call for an already registered pair does not create a second row.
func (g *Gateway) Register(ctx context.Context, eventID, participantID string, amount *float64) error {
	_, err := g.pool.Exec(ctx,
		`SELECT api_register($1, $2, $3)`, eventID, participantID, amount)
	if err != nil {
		return fmt.Errorf("api_register: %w", err)
	}
	return nil
}

// CancelRegistration marks the registration cancelled server-side.
func (g *Gateway) CancelRegistration(ctx context.Context, registrationID string) error {
	_, err := g.pool.Exec(ctx,
		`SELECT api_cancel_registration($1)`, registrationID)
	if err != nil {
		return fmt.Errorf("api_cancel_registration: %w", err)
	}
	return nil
}

// MarkPaid records a payment server-side (admin-only procedure).
func (g *Gateway) MarkPaid(ctx context.Context, registrationID, method string, amount *float64) error {
	_, err := g.pool.Exec(ctx,
		`SELECT api_mark_paid($1, $2, $3)`, registrationID, method, amount)
	if err != nil {
		return fmt.Errorf("api_mark_paid: %w", err)
	}
	return nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
