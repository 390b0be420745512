// Package backup reads and writes portable session backups: a single JSON
// document carrying the UI, JSON and email datasets of one session.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nwstranslate/nwskit/store"
)

// ID identifies a backup document.
const ID = "nws-translate-backup"

// Version is the backup format version written by Encode.
const Version = 1

// ErrNotBackup is returned by Decode for JSON that is not a backup document.
var ErrNotBackup = errors.New("not an nwskit backup")

// File is the on-disk backup document.
type File struct {
	Date    string           `json:"date"`
	Email   store.EmailState `json:"email"`
	ID      string           `json:"id"`
	JSON    store.JSONState  `json:"json"`
	UI      store.UIState    `json:"ui"`
	Version int              `json:"version"`
}

// State returns the session state held by the backup.
func (f File) State() store.State {
	return store.State{UI: f.UI, JSON: f.JSON, Email: f.Email}
}

// Time parses the backup date. A malformed date yields the zero time.
func (f File) Time() time.Time {
	t, err := time.Parse(time.RFC3339, f.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Encode renders st as an indented backup document dated now.
func Encode(st store.State, now time.Time) ([]byte, error) {
	f := File{
		Date:    now.UTC().Format(time.RFC3339),
		Email:   st.Email,
		ID:      ID,
		JSON:    st.JSON,
		UI:      st.UI,
		Version: Version,
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a backup document. Documents with another id, or written
// by a newer format version, are rejected.
func Decode(data []byte) (File, error) {
	var probe struct {
		ID      string `json:"id"`
		Version int    `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrNotBackup, err)
	}
	if probe.ID != ID {
		return File{}, fmt.Errorf("%w: id %q", ErrNotBackup, probe.ID)
	}
	if probe.Version < 1 || probe.Version > Version {
		return File{}, fmt.Errorf("backup version %d is not supported (this build reads up to %d)", probe.Version, Version)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("decoding backup: %w", err)
	}
	return f, nil
}
