package statedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Snapshot is one saved state of a session.
type Snapshot struct {
	ID        string
	SessionID string
	CreatedAt time.Time
	State     []byte
}

// SaveSnapshot appends state as the newest snapshot of the session and
// returns the snapshot id.
func (d *DB) SaveSnapshot(ctx context.Context, sessionID string, state []byte) (string, error) {
	id := uuid.NewString()
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, session_id, created_at, state) VALUES (?, ?, ?, ?)`,
		id, sessionID, time.Now().UTC().Format(time.RFC3339Nano), string(state),
	)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	return id, nil
}

// LoadLatest returns the newest snapshot of the session, or nil when the
// session has none.
func (d *DB) LoadLatest(ctx context.Context, sessionID string) (*Snapshot, error) {
	var (
		snap    Snapshot
		created string
		state   string
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT id, session_id, created_at, state FROM snapshots
         WHERE session_id = ? ORDER BY seq DESC LIMIT 1`,
		sessionID,
	).Scan(&snap.ID, &snap.SessionID, &created, &state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	snap.CreatedAt = parseTime(created)
	snap.State = []byte(state)
	return &snap, nil
}

// Prune deletes all but the newest keep snapshots of the session and
// returns how many were removed. keep below 1 is treated as 1.
func (d *DB) Prune(ctx context.Context, sessionID string, keep int) (int64, error) {
	if keep < 1 {
		keep = 1
	}
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM snapshots
         WHERE session_id = ? AND seq NOT IN (
             SELECT seq FROM snapshots WHERE session_id = ? ORDER BY seq DESC LIMIT ?
         )`,
		sessionID, sessionID, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
