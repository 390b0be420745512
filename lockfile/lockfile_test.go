package lockfile

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func newLockFile() *LockFile {
	return &LockFile{
		Version:   Version,
		Checksums: make(map[string]map[string]string),
	}
}

func TestHashDeterministic(t *testing.T) {
	h1 := Hash("hello world")
	h2 := Hash("hello world")
	if h1 != h2 {
		t.Errorf("Hash not deterministic: %s != %s", h1, h2)
	}
	if h1 != "5eb63bbbe01eeed093cb22bb8f5acdc3" {
		t.Errorf("Hash(hello world) = %s", h1)
	}
	if h1 == Hash("different") {
		t.Errorf("Hash collision for different input")
	}
}

func TestLoadNonExistent(t *testing.T) {
	lf, err := Load(filepath.Join(t.TempDir(), LockFileName))
	if err != nil {
		t.Fatalf("Load returned error for non-existent file: %v", err)
	}
	if lf.Version != Version {
		t.Errorf("Version = %d, want %d", lf.Version, Version)
	}
	if len(lf.Checksums) != 0 {
		t.Errorf("Checksums not empty: %v", lf.Checksums)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", LockFileName)

	lf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	lf.Update(UIOriginals, "key", "Value")
	lf.Update(UIOriginals, "key2", "Value 2")
	lf.Update(TargetKey("email", "persons"), "1", EntryContent("text", "title"))

	if err := lf.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Lock file not created at %s: %v", path, err)
	}

	lf2, err := Load(path)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}

	targets, keys := lf2.Stats()
	if targets != 2 {
		t.Errorf("targets = %d, want 2", targets)
	}
	if keys != 3 {
		t.Errorf("keys = %d, want 3", keys)
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockFileName)
	if err := os.WriteFile(path, []byte("version: 99\nchecksums: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "newer") {
		t.Fatalf("Load() error = %v, want version error", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockFileName)
	if err := os.WriteFile(path, []byte("checksums: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestChangedKeys(t *testing.T) {
	lf := newLockFile()
	lf.Record(UIOriginals, map[string]string{
		"same":    "Same",
		"edited":  "Old text",
		"removed": "Gone",
	})

	changed := lf.ChangedKeys(UIOriginals, map[string]string{
		"same":   "Same",
		"edited": "New text",
		"added":  "Brand new",
	})

	want := []string{"edited", "removed"}
	if !reflect.DeepEqual(changed, want) {
		t.Fatalf("ChangedKeys() = %v, want %v", changed, want)
	}
}

func TestChangedKeysUnknownTarget(t *testing.T) {
	lf := newLockFile()
	if got := lf.ChangedKeys(UIOriginals, map[string]string{"a": "A"}); got != nil {
		t.Fatalf("ChangedKeys() on first import = %v, want nil", got)
	}
}

func TestRecordReplacesTarget(t *testing.T) {
	lf := newLockFile()
	lf.Record(UIOriginals, map[string]string{"a": "A", "b": "B"})
	lf.Record(UIOriginals, map[string]string{"a": "A"})

	if _, keys := lf.Stats(); keys != 1 {
		t.Fatalf("keys = %d, want 1", keys)
	}
	if got := lf.ChangedKeys(UIOriginals, map[string]string{"a": "A"}); len(got) != 0 {
		t.Fatalf("ChangedKeys() after Record = %v", got)
	}
}

func TestChanged(t *testing.T) {
	lf := newLockFile()
	target := TargetKey("email", "persons")
	lf.Update(target, "1", EntryContent("Title", "Text"))

	if lf.Changed(target, "1", EntryContent("Title", "Text")) {
		t.Fatal("Changed() = true for identical content")
	}
	if !lf.Changed(target, "1", EntryContent("Title", "New text")) {
		t.Fatal("Changed() = false for edited content")
	}
	if lf.Changed(target, "2", "anything") || lf.Changed("missing", "1", "x") {
		t.Fatal("Changed() = true for an unrecorded key")
	}
}

func TestTargets(t *testing.T) {
	lf := newLockFile()
	lf.Update("ui/originals", "k", "v")
	lf.Update("email/persons", "1", "v")
	lf.Update("email/other", "1", "v")

	want := []string{"email/other", "email/persons", "ui/originals"}
	if got := lf.Targets(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Targets() = %v, want %v", got, want)
	}
}

func TestEntryContent(t *testing.T) {
	if EntryContent("a", "bc") == EntryContent("ab", "c") {
		t.Error("field boundaries should be part of the content")
	}
	if got := TargetKey("email", "persons"); got != "email/persons" {
		t.Errorf("TargetKey() = %q", got)
	}
}

func TestSummary(t *testing.T) {
	lf := newLockFile()
	if lf.Summary() != "empty" {
		t.Errorf("empty summary = %q, want %q", lf.Summary(), "empty")
	}

	lf.Update(UIOriginals, "Hello", "Hello")
	lf.Update("email/persons", "1", "Hello")
	want := "2 targets, 2 keys (email/persons: 1 keys, ui/originals: 1 keys)"
	if got := lf.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestConcurrentAccess(t *testing.T) {
	lf := newLockFile()

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(n int) {
			key := "key" + string(rune('0'+n))
			lf.Update(UIOriginals, key, "value")
			lf.ChangedKeys(UIOriginals, map[string]string{key: "value"})
			lf.Stats()
			done <- true
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	_, keys := lf.Stats()
	if keys != 10 {
		t.Errorf("keys after concurrent writes = %d, want 10", keys)
	}
}
