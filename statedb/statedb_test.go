package statedb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "state", "state.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenCreatesSchemaAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := db.NewSession(ctx, "default"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if _, err := db.Session(ctx, "default"); err != nil {
		t.Fatalf("session lost after reopen: %v", err)
	}
}

func TestOpenLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := Open(ctx, path); !errors.Is(err, ErrLocked) {
		t.Fatalf("second Open error = %v, want ErrLocked", err)
	}
}

func TestSessions(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	a, err := db.NewSession(ctx, "beta")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if a.ID == "" || a.CreatedAt.IsZero() {
		t.Fatalf("NewSession() = %#v", a)
	}
	if _, err := db.NewSession(ctx, "beta"); !errors.Is(err, ErrSessionExists) {
		t.Fatalf("duplicate NewSession error = %v, want ErrSessionExists", err)
	}
	if _, err := db.NewSession(ctx, "  "); err == nil {
		t.Fatal("expected error for empty name")
	}

	b, err := db.EnsureSession(ctx, "alpha")
	if err != nil {
		t.Fatalf("EnsureSession(new): %v", err)
	}
	again, err := db.EnsureSession(ctx, "alpha")
	if err != nil || again.ID != b.ID {
		t.Fatalf("EnsureSession(existing) = %#v, %v; want id %s", again, err, b.ID)
	}

	if _, err := db.SaveSnapshot(ctx, a.ID, []byte(`{}`)); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	list, err := db.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(list) != 2 || list[0].Name != "alpha" || list[1].Name != "beta" {
		t.Fatalf("ListSessions() = %#v", list)
	}
	if list[0].Snapshots != 0 || !list[0].UpdatedAt.IsZero() {
		t.Errorf("alpha = %#v, want no snapshots", list[0])
	}
	if list[1].Snapshots != 1 || list[1].UpdatedAt.IsZero() {
		t.Errorf("beta = %#v, want one snapshot", list[1])
	}
}

func TestDeleteSessionCascades(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	s, err := db.NewSession(ctx, "gone")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.SaveSnapshot(ctx, s.ID, []byte(`{"a":1}`)); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteSession(ctx, "gone"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := db.Session(ctx, "gone"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Session() after delete error = %v, want ErrNoSession", err)
	}
	if snap, err := db.LoadLatest(ctx, s.ID); err != nil || snap != nil {
		t.Fatalf("LoadLatest() after delete = %v, %v", snap, err)
	}
	if err := db.DeleteSession(ctx, "gone"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("second DeleteSession error = %v, want ErrNoSession", err)
	}
}

func TestSnapshotsLatestAndPrune(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	s, err := db.NewSession(ctx, "default")
	if err != nil {
		t.Fatal(err)
	}

	if snap, err := db.LoadLatest(ctx, s.ID); err != nil || snap != nil {
		t.Fatalf("LoadLatest() on empty session = %v, %v", snap, err)
	}

	var lastID string
	for _, state := range []string{`{"n":1}`, `{"n":2}`, `{"n":3}`} {
		lastID, err = db.SaveSnapshot(ctx, s.ID, []byte(state))
		if err != nil {
			t.Fatalf("SaveSnapshot: %v", err)
		}
	}

	snap, err := db.LoadLatest(ctx, s.ID)
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if snap.ID != lastID || string(snap.State) != `{"n":3}` {
		t.Fatalf("LoadLatest() = %s %s, want %s {\"n\":3}", snap.ID, snap.State, lastID)
	}

	n, err := db.Prune(ctx, s.ID, 1)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 2 {
		t.Fatalf("Prune() removed %d, want 2", n)
	}
	snap, err = db.LoadLatest(ctx, s.ID)
	if err != nil || snap == nil || string(snap.State) != `{"n":3}` {
		t.Fatalf("LoadLatest() after prune = %v, %v", snap, err)
	}
}

func TestSaveSnapshotUnknownSession(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.SaveSnapshot(context.Background(), "no-such-id", []byte(`{}`)); err == nil {
		t.Fatal("expected foreign key error")
	}
}
