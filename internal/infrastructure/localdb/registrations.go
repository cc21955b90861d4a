package localdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jlsanzbreton/puebla-bot/internal/domain"
	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
)

const registrationColumns = `id, event_id, participant_id, participant_name, created_by_user_id,
	payment_status, payment_amount, payment_method, is_confirmed, deleted, created_at, updated_at`

// PutRegistration inserts or replaces the registration row by id.
func (q *queries) PutRegistration(ctx context.Context, r *entities.Registration) error {
	var amount sql.NullFloat64
	if r.PaymentAmount != nil {
		amount = sql.NullFloat64{Float64: *r.PaymentAmount, Valid: true}
	}
	var method sql.NullString
	if r.PaymentMethod != "" {
		method = sql.NullString{String: r.PaymentMethod, Valid: true}
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO registrations (`+registrationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			event_id           = excluded.event_id,
			participant_id     = excluded.participant_id,
			participant_name   = excluded.participant_name,
			created_by_user_id = excluded.created_by_user_id,
			payment_status     = excluded.payment_status,
			payment_amount     = excluded.payment_amount,
			payment_method     = excluded.payment_method,
			is_confirmed       = excluded.is_confirmed,
			deleted            = excluded.deleted,
			created_at         = excluded.created_at,
			updated_at         = excluded.updated_at
	`, r.ID, r.EventID, r.ParticipantID, r.ParticipantName, r.CreatedByUserID,
		r.PaymentStatus, amount, method, r.IsConfirmed, r.Deleted,
		fmtTime(r.CreatedAt), fmtTime(r.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put registration: %w", err)
	}
	q.touched(domain.TableRegistrations)
	return nil
}

// GetRegistration returns the registration by id, or ErrInscripcionNoHay.
func (q *queries) GetRegistration(ctx context.Context, id string) (*entities.Registration, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = ?`, id)
	return scanRegistration(row)
}

// GetRegistrationByPair returns the registration for (eventID, participantID)
// whatever its deleted flag, or ErrInscripcionNoHay. The workflow keeps at
// most one row per pair, reactivating cancelled ones instead of inserting.
func (q *queries) GetRegistrationByPair(ctx context.Context, eventID, participantID string) (*entities.Registration, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+registrationColumns+` FROM registrations
		WHERE event_id = ? AND participant_id = ?
		ORDER BY created_at, rowid
		LIMIT 1
	`, eventID, participantID)
	return scanRegistration(row)
}

// ListLiveRegistrationsByEvent returns the non-deleted registrations of one
// activity, oldest first.
func (q *queries) ListLiveRegistrationsByEvent(ctx context.Context, eventID string) ([]entities.Registration, error) {
	return q.listRegistrations(ctx, `
		SELECT `+registrationColumns+` FROM registrations
		WHERE event_id = ? AND deleted = 0
		ORDER BY created_at, rowid
	`, eventID)
}

// ListRegistrationsByCreator returns every registration recorded by the given
// account, cancelled ones included (the CSV export shows tombstones).
func (q *queries) ListRegistrationsByCreator(ctx context.Context, createdByUserID string) ([]entities.Registration, error) {
	return q.listRegistrations(ctx, `
		SELECT `+registrationColumns+` FROM registrations
		WHERE created_by_user_id = ?
		ORDER BY created_at, rowid
	`, createdByUserID)
}

// ListRegistrations returns every registration, oldest first.
func (q *queries) ListRegistrations(ctx context.Context) ([]entities.Registration, error) {
	return q.listRegistrations(ctx, `
		SELECT `+registrationColumns+` FROM registrations
		ORDER BY created_at, rowid
	`)
}

func (q *queries) listRegistrations(ctx context.Context, query string, args ...any) ([]entities.Registration, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var out []entities.Registration
	for rows.Next() {
		r, err := scanRegistrationFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func scanRegistrationFrom(sc rowScanner) (*entities.Registration, error) {
	var (
		r         entities.Registration
		amount    sql.NullFloat64
		method    sql.NullString
		createdAt string
		updatedAt string
	)
	err := sc.Scan(&r.ID, &r.EventID, &r.ParticipantID, &r.ParticipantName,
		&r.CreatedByUserID, &r.PaymentStatus, &amount, &method,
		&r.IsConfirmed, &r.Deleted, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if amount.Valid {
		a := amount.Float64
		r.PaymentAmount = &a
	}
	if method.Valid {
		r.PaymentMethod = method.String
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func scanRegistration(row *sql.Row) (*entities.Registration, error) {
	r, err := scanRegistrationFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInscripcionNoHay
	}
	if err != nil {
		return nil, fmt.Errorf("scan registration: %w", err)
	}
	return r, nil
}
