package statedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewSession creates a session named name.
func (d *DB) NewSession(ctx context.Context, name string) (Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Session{}, errors.New("session name is empty")
	}
	now := time.Now().UTC()
	s := Session{ID: uuid.NewString(), Name: name, CreatedAt: now}

	_, err := d.db.ExecContext(ctx,
		`INSERT INTO sessions (id, name, created_at) VALUES (?, ?, ?)
         ON CONFLICT(name) DO NOTHING`,
		s.ID, s.Name, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Session{}, fmt.Errorf("insert session: %w", err)
	}

	existing, err := d.Session(ctx, name)
	if err != nil {
		return Session{}, err
	}
	if existing.ID != s.ID {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionExists, name)
	}
	return existing, nil
}

// Session returns the session named name, or ErrNoSession.
func (d *DB) Session(ctx context.Context, name string) (Session, error) {
	var (
		s       Session
		created string
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM sessions WHERE name = ?`, name,
	).Scan(&s.ID, &s.Name, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("%w: %s", ErrNoSession, name)
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	s.CreatedAt = parseTime(created)
	return s, nil
}

// EnsureSession returns the session named name, creating it if needed.
func (d *DB) EnsureSession(ctx context.Context, name string) (Session, error) {
	s, err := d.Session(ctx, name)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrNoSession) {
		return Session{}, err
	}
	s, err = d.NewSession(ctx, name)
	if errors.Is(err, ErrSessionExists) {
		return d.Session(ctx, name)
	}
	return s, err
}

// ListSessions returns every session ordered by name, with snapshot counts
// and the time of the newest snapshot.
func (d *DB) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT s.id, s.name, s.created_at, COUNT(p.seq), COALESCE(MAX(p.created_at), '')
         FROM sessions s
         LEFT JOIN snapshots p ON p.session_id = s.id
         GROUP BY s.id
         ORDER BY s.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			s                Session
			created, updated string
		)
		if err := rows.Scan(&s.ID, &s.Name, &created, &s.Snapshots, &updated); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.CreatedAt = parseTime(created)
		s.UpdatedAt = parseTime(updated)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// DeleteSession removes the session named name and all of its snapshots.
func (d *DB) DeleteSession(ctx context.Context, name string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM sessions WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNoSession, name)
	}
	return nil
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
