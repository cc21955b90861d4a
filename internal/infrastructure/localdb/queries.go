package localdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so the same query code backs
// implicit single-operation transactions and explicit RunInTx blocks.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries holds the SQL for all four collections. touch is invoked once per
// mutated table so the store can publish change notifications after commit.
type queries struct {
	db    dbtx
	touch func(table string)
}

func (q *queries) touched(table string) {
	if q.touch != nil {
		q.touch(table)
	}
}

// Timestamps are persisted as RFC 3339 UTC strings; lexicographic order on
// the column matches chronological order, which the updated_at indexes rely on.
const timeLayout = time.RFC3339Nano

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
