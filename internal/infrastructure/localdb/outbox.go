package localdb

import (
	"context"
	"fmt"

	"github.com/jlsanzbreton/puebla-bot/internal/domain"
	"github.com/jlsanzbreton/puebla-bot/internal/domain/entities"
)

// AppendOutbox appends a pending entry. ON CONFLICT DO NOTHING makes the
// append idempotent by id; entries are never mutated in place.
func (q *queries) AppendOutbox(ctx context.Context, e *entities.OutboxEntry) error {
	status := e.Status
	if status == "" {
		status = domain.OutboxPending
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO outbox (id, target_table, op, payload, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, e.ID, e.Table, e.Op, string(e.Payload), status, fmtTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("append outbox: %w", err)
	}
	q.touched("outbox")
	return nil
}

// ListOutboxOrdered returns all entries in creation order. rowid breaks ties
// between entries created within the same timestamp granularity.
func (q *queries) ListOutboxOrdered(ctx context.Context) ([]entities.OutboxEntry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, target_table, op, payload, status, created_at
		FROM outbox
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("list outbox: %w", err)
	}
	defer rows.Close()

	var out []entities.OutboxEntry
	for rows.Next() {
		var (
			e         entities.OutboxEntry
			payload   string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &e.Table, &e.Op, &payload, &e.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		e.Payload = []byte(payload)
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteOutbox removes one entry after its remote replay succeeded.
func (q *queries) DeleteOutbox(ctx context.Context, id string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM outbox WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete outbox entry: %w", err)
	}
	q.touched("outbox")
	return nil
}

// MarkOutboxPending flips a blocked_on_auth entry back to pending once a
// session is available.
func (q *queries) MarkOutboxPending(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE outbox SET status = ? WHERE id = ?`, domain.OutboxPending, id)
	if err != nil {
		return fmt.Errorf("mark outbox pending: %w", err)
	}
	q.touched("outbox")
	return nil
}
