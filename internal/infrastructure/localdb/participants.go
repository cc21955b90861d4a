package localdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jlsanzbreton/puebla-bot/internal/domain"
	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
)

const participantColumns = `id, owner_user_id, display_name, birth_year, notes, deleted, created_at, updated_at`

// PutParticipant inserts or replaces the participant row by id.
func (q *queries) PutParticipant(ctx context.Context, p *entities.Participant) error {
	var birthYear sql.NullInt64
	if p.BirthYear != nil {
		birthYear = sql.NullInt64{Int64: int64(*p.BirthYear), Valid: true}
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO participants (`+participantColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_user_id = excluded.owner_user_id,
			display_name  = excluded.display_name,
			birth_year    = excluded.birth_year,
			notes         = excluded.notes,
			deleted       = excluded.deleted,
			created_at    = excluded.created_at,
			updated_at    = excluded.updated_at
	`, p.ID, p.OwnerUserID, p.DisplayName, birthYear, p.Notes, p.Deleted,
		fmtTime(p.CreatedAt), fmtTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put participant: %w", err)
	}
	q.touched(domain.TableParticipants)
	return nil
}

// GetParticipant returns the participant by id, or ErrParticipanteNoHay.
func (q *queries) GetParticipant(ctx context.Context, id string) (*entities.Participant, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE id = ?`, id)
	return scanParticipant(row)
}

// FirstParticipantByOwner returns the oldest live participant owned by the
// account ("self" by convention), or ErrParticipanteNoHay.
func (q *queries) FirstParticipantByOwner(ctx context.Context, ownerUserID string) (*entities.Participant, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+participantColumns+` FROM participants
		WHERE owner_user_id = ? AND deleted = 0
		ORDER BY created_at, rowid
		LIMIT 1
	`, ownerUserID)
	return scanParticipant(row)
}

// ListParticipantsByOwner returns the participants owned by the account,
// oldest first.
func (q *queries) ListParticipantsByOwner(ctx context.Context, ownerUserID string, includeDeleted bool) ([]entities.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE owner_user_id = ?`
	if !includeDeleted {
		query += ` AND deleted = 0`
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := q.db.QueryContext(ctx, query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var out []entities.Participant
	for rows.Next() {
		p, err := scanParticipantRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParticipantFrom(sc rowScanner) (*entities.Participant, error) {
	var (
		p         entities.Participant
		birthYear sql.NullInt64
		createdAt string
		updatedAt string
	)
	err := sc.Scan(&p.ID, &p.OwnerUserID, &p.DisplayName, &birthYear, &p.Notes,
		&p.Deleted, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if birthYear.Valid {
		y := int(birthYear.Int64)
		p.BirthYear = &y
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanParticipant(row *sql.Row) (*entities.Participant, error) {
	p, err := scanParticipantFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrParticipanteNoHay
	}
	if err != nil {
		return nil, fmt.Errorf("scan participant: %w", err)
	}
	return p, nil
}

func scanParticipantRow(rows *sql.Rows) (*entities.Participant, error) {
	p, err := scanParticipantFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("scan participant: %w", err)
	}
	return p, nil
}
