package backup

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nwstranslate/nwskit/emails"
	"github.com/nwstranslate/nwskit/records"
	"github.com/nwstranslate/nwskit/store"
)

func sampleState() store.State {
	s := store.NewSession()
	s.UI.SetOriginals("key: Value")
	s.UI.SetTranslation("key", "Waarde")
	s.UI.MarkUIConsistent("key")
	s.JSON.SetTranslations(records.Bundle{Songs: []records.Song{{Number: "1", Title: "Lied"}}})
	_ = s.Email.SetTranslation(emails.Persons, 2, emails.Email{Text: "Hallo [NAME]", Title: "Groet"})
	return s.Snapshot()
}

func TestEncodeDecode(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	data, err := Encode(sampleState(), now)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("backup is not JSON: %v", err)
	}
	for _, key := range []string{"date", "email", "id", "json", "ui", "version"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("backup lacks %q", key)
		}
	}

	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f.ID != ID || f.Version != Version {
		t.Fatalf("header = %q v%d", f.ID, f.Version)
	}
	if !f.Time().Equal(now) {
		t.Errorf("Time() = %v, want %v", f.Time(), now)
	}

	restored := store.NewSession()
	restored.Restore(f.State())
	if got := restored.UI.Translations().Value("key"); got != "Waarde" {
		t.Errorf("restored UI translation = %q", got)
	}
	if got := restored.UI.ConsistentUI(); len(got) != 1 || got[0] != "key" {
		t.Errorf("restored UI markers = %v", got)
	}
	if got := restored.JSON.Translations().Songs; len(got) != 1 || got[0].Title != "Lied" {
		t.Errorf("restored songs = %#v", got)
	}
	if got := restored.Email.Get(emails.Persons, 2).Translations.Title; got != "Groet" {
		t.Errorf("restored email title = %q", got)
	}
}

func TestDecodeRejectsForeignDocuments(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "hello"},
		{"other id", `{"id":"something-else","version":1}`},
		{"no id", `{"version":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode([]byte(tt.data)); !errors.Is(err, ErrNotBackup) {
				t.Fatalf("Decode() error = %v, want ErrNotBackup", err)
			}
		})
	}
}

func TestDecodeRejectsFutureVersion(t *testing.T) {
	_, err := Decode([]byte(`{"id":"nws-translate-backup","version":2}`))
	if err == nil || errors.Is(err, ErrNotBackup) || !strings.Contains(err.Error(), "version 2") {
		t.Fatalf("Decode() error = %v, want version error", err)
	}
}
