// Package uifile implements reading and writing of NWS/NWP translation files.
//
// Two line-oriented syntaxes are supported:
//
//	key: Value 1                 (simple, used by NWS)
//	key2: Value 2
//
//	"____GENERAL____": "",       (quoted, used by NWP)
//	"key": "Value 1",
//	"key2": "Value 2"
//
// A file is in quoted syntax when it carries the reserved ____GENERAL____
// key. Both syntaxes parse into the same ordered key → value mapping (File),
// which is also the in-memory form of a ProgramUI.json file.
//
// The parser is lenient: lines without a recognisable key/value split are
// skipped. Round-tripping is mapping-level, not byte-level.
package uifile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ReservedKey marks a mapping (or raw file) as quoted NWP syntax.
const ReservedKey = "____GENERAL____"

// ---------------------------------------------------------------------------
// File model
// ---------------------------------------------------------------------------

// entry is a single key/value pair.
type entry struct {
	key   string
	value string
}

// File is an ordered mapping from translation key to value.
// The zero value is not usable; use New.
type File struct {
	// entries stores all pairs in document order.
	entries []entry
	// index maps key → index in entries for fast lookup.
	index map[string]int
}

// New returns an empty File.
func New() *File {
	return &File{index: make(map[string]int)}
}

// FromMap builds a File from m with keys in sorted order. Go maps carry no
// order, so callers that care about order should use Set instead.
func FromMap(m map[string]string) *File {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f := New()
	for _, k := range keys {
		f.Set(k, m[k])
	}
	return f
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Keys returns all keys in document order.
func (f *File) Keys() []string {
	if f == nil {
		return nil
	}
	keys := make([]string, len(f.entries))
	for i, e := range f.entries {
		keys[i] = e.key
	}
	return keys
}

// Len returns the number of entries.
func (f *File) Len() int {
	if f == nil {
		return 0
	}
	return len(f.entries)
}

// Get returns the value for key and whether it was found.
func (f *File) Get(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	if idx, ok := f.index[key]; ok {
		return f.entries[idx].value, true
	}
	return "", false
}

// Value returns the value for key, or "" when absent.
func (f *File) Value(key string) string {
	v, _ := f.Get(key)
	return v
}

// Has reports whether key is present (an empty value counts as present).
func (f *File) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Set inserts key or replaces its value. Replacing keeps the original position.
func (f *File) Set(key, value string) {
	if idx, ok := f.index[key]; ok {
		f.entries[idx].value = value
		return
	}
	f.index[key] = len(f.entries)
	f.entries = append(f.entries, entry{key: key, value: value})
}

// Delete removes key. Returns false if it was not present.
func (f *File) Delete(key string) bool {
	idx, ok := f.index[key]
	if !ok {
		return false
	}
	f.entries = append(f.entries[:idx], f.entries[idx+1:]...)
	delete(f.index, key)
	for i := idx; i < len(f.entries); i++ {
		f.index[f.entries[i].key] = i
	}
	return true
}

// Map returns a copy of the mapping without order.
func (f *File) Map() map[string]string {
	m := make(map[string]string, f.Len())
	if f == nil {
		return m
	}
	for _, e := range f.entries {
		m[e.key] = e.value
	}
	return m
}

// Clone returns a deep copy. A nil File clones to an empty one.
func (f *File) Clone() *File {
	c := New()
	if f == nil {
		return c
	}
	c.entries = make([]entry, len(f.entries))
	copy(c.entries, f.entries)
	for k, v := range f.index {
		c.index[k] = v
	}
	return c
}

// Equal reports mapping equality; order is ignored.
func (f *File) Equal(other *File) bool {
	if f.Len() != other.Len() {
		return false
	}
	if f == nil {
		return true
	}
	for _, e := range f.entries {
		v, ok := other.Get(e.key)
		if !ok || v != e.value {
			return false
		}
	}
	return true
}

// IsQuoted reports whether the mapping carries the reserved NWP key and
// therefore serializes in quoted syntax.
func (f *File) IsQuoted() bool {
	return f.Has(ReservedKey)
}

// Stats returns (total, translated, percentTranslated) for this file.
func (f *File) Stats() (int, int, float64) {
	total, translated := 0, 0
	for _, e := range f.entriesOrNil() {
		total++
		if e.value != "" {
			translated++
		}
	}
	pct := 0.0
	if total > 0 {
		pct = float64(translated) / float64(total) * 100
	}
	return total, translated, pct
}

// UntranslatedKeys returns keys whose value is empty.
func (f *File) UntranslatedKeys() []string {
	var keys []string
	for _, e := range f.entriesOrNil() {
		if e.value == "" {
			keys = append(keys, e.key)
		}
	}
	return keys
}

func (f *File) entriesOrNil() []entry {
	if f == nil {
		return nil
	}
	return f.entries
}

// ---------------------------------------------------------------------------
// Disk helpers
// ---------------------------------------------------------------------------

// ParseFile reads and parses a translation file from disk. Files with a
// .json extension are read as ProgramUI.json.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if filepath.Ext(path) == ".json" {
		f, err := ParseJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return f, nil
	}
	return Parse(string(data)), nil
}

// WriteFile serialises and writes to path, creating parent directories
// with 0755 permissions. A .json path is written as ProgramUI.json.
func (f *File) WriteFile(path string) error {
	var data []byte
	if filepath.Ext(path) == ".json" {
		var err error
		if data, err = f.MarshalIndent(); err != nil {
			return err
		}
	} else {
		data = []byte(f.Serialize())
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
