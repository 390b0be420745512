// Package workspace opens an nwskit project: its .nwskit.yaml, the state
// database holding session snapshots, and the nwskit.lock checksums.
package workspace

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nwstranslate/nwskit/config"
	"github.com/nwstranslate/nwskit/lockfile"
	"github.com/nwstranslate/nwskit/statedb"
	"github.com/nwstranslate/nwskit/store"
)

// Workspace is an open project with one active session loaded.
type Workspace struct {
	Config  *config.File
	DB      *statedb.DB
	Lock    *lockfile.LockFile
	Session *store.Session

	info    statedb.Session
	saved   []byte
	savedAt time.Time
}

// Open loads the project at root and the newest snapshot of the named
// session, creating the session if needed. An empty session selects the
// configured default.
func Open(ctx context.Context, root, session string) (*Workspace, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if session = strings.TrimSpace(session); session == "" {
		session = cfg.Session
	}

	lf, err := lockfile.Load(cfg.LockFilePath())
	if err != nil {
		return nil, err
	}

	db, err := statedb.Open(ctx, cfg.StateDBPath())
	if err != nil {
		return nil, err
	}

	w := &Workspace{Config: cfg, DB: db, Lock: lf, Session: store.NewSession()}
	if err := w.load(ctx, session); err != nil {
		_ = db.Close()
		return nil, err
	}
	return w, nil
}

func (w *Workspace) load(ctx context.Context, name string) error {
	info, err := w.DB.EnsureSession(ctx, name)
	if err != nil {
		return err
	}
	w.info = info

	snap, err := w.DB.LoadLatest(ctx, info.ID)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}
	st, err := store.UnmarshalState(snap.State)
	if err != nil {
		return fmt.Errorf("session %q: %w", name, err)
	}
	w.Session.Restore(st)
	w.saved = snap.State
	w.savedAt = snap.CreatedAt
	return nil
}

// SessionName returns the name of the loaded session.
func (w *Workspace) SessionName() string {
	return w.info.Name
}

// SavedAt returns when the loaded state was last saved, or the zero time.
func (w *Workspace) SavedAt() time.Time {
	return w.savedAt
}

// Save stores the session state as a new snapshot when it differs from the
// last one, prunes old snapshots and writes the lock file. It reports whether
// a snapshot was written. The lock file is only written once it records
// something.
func (w *Workspace) Save(ctx context.Context) (bool, error) {
	data, err := w.Session.Snapshot().Marshal()
	if err != nil {
		return false, err
	}

	changed := !bytes.Equal(data, w.saved)
	if changed {
		if _, err := w.DB.SaveSnapshot(ctx, w.info.ID, data); err != nil {
			return false, err
		}
		if _, err := w.DB.Prune(ctx, w.info.ID, w.Config.KeepSnapshots); err != nil {
			return false, err
		}
		w.saved = data
		w.savedAt = time.Now().UTC()
	}

	if targets, _ := w.Lock.Stats(); targets > 0 {
		if err := w.Lock.Save(); err != nil {
			return changed, err
		}
	}
	return changed, nil
}

// Close releases the state database.
func (w *Workspace) Close() error {
	return w.DB.Close()
}
