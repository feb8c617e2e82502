package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bookkeep-dev/bookkeep/internal/store"
)

// Entry is one row in the audit log.
type Entry struct {
	ID        int64
	At        time.Time
	Actor     string
	Action    string
	Reference string
	Detail    string
}

// Record appends an audit entry inside an existing transaction, so the
// audit trail commits or rolls back together with the mutation it
// describes.
func Record(tx *sql.Tx, e Entry) error {
	at := e.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := tx.Exec(`
		INSERT INTO audit_log (at, actor, action, reference, detail)
		VALUES (?, ?, ?, ?, ?)`,
		at.Format(time.RFC3339), e.Actor, e.Action, e.Reference, e.Detail)
	if err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}
	return nil
}

// Log reads the audit trail.
type Log struct {
	store *store.Store
}

// NewLog creates an audit log reader.
func NewLog(st *store.Store) *Log {
	return &Log{store: st}
}

// List returns the most recent entries, newest first.
func (l *Log) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := l.store.DB().QueryContext(ctx, `
		SELECT id, at, actor, action, reference, detail
		FROM audit_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			at string
		)
		if err := rows.Scan(&e.ID, &at, &e.Actor, &e.Action, &e.Reference, &e.Detail); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		if e.At, err = time.Parse(time.RFC3339, at); err != nil {
			return nil, fmt.Errorf("parsing audit timestamp %q: %w", at, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
