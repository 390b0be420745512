// Package lockfile implements nwskit.lock, a lock file that tracks MD5
// checksums of imported source values per target. Comparing a fresh import
// against it shows which reference strings changed since the last import,
// so override markers that were set against the old text can be dropped.
//
// The lock file lives next to .nwskit.yaml unless configured otherwise.
package lockfile

import (
	"crypto/md5"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// LockFileName is the default lock file name.
const LockFileName = "nwskit.lock"

// Version is the lock file format version.
const Version = 1

// Well-known targets.
const (
	// UIOriginals tracks the UI reference file, keyed by translation key.
	UIOriginals = "ui/originals"
)

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// LockFile represents the nwskit.lock file structure.
type LockFile struct {
	Version   int                          `yaml:"version"`
	Checksums map[string]map[string]string `yaml:"checksums"` // target -> key -> md5

	mu   sync.Mutex `yaml:"-"`
	path string     `yaml:"-"`
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Load reads the lock file at path.
// Returns an empty lock file if the file doesn't exist.
func Load(path string) (*LockFile, error) {
	lf := &LockFile{
		Version:   Version,
		Checksums: make(map[string]map[string]string),
		path:      path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lf, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	lf.path = path

	if lf.Version > Version {
		return nil, fmt.Errorf("%s: lock file version %d is newer than supported version %d", path, lf.Version, Version)
	}
	if lf.Checksums == nil {
		lf.Checksums = make(map[string]map[string]string)
	}

	return lf, nil
}

// Save writes the lock file to disk.
func (lf *LockFile) Save() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.path == "" {
		return fmt.Errorf("lock file path not set")
	}

	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(lf.path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", lf.path, err)
	}
	if err := os.WriteFile(lf.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", lf.path, err)
	}

	return nil
}

// Path returns the lock file path.
func (lf *LockFile) Path() string {
	return lf.path
}

// ---------------------------------------------------------------------------
// Checksum operations
// ---------------------------------------------------------------------------

// Hash computes the MD5 hex digest of a string.
func Hash(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}

// TargetKey joins target path elements, e.g. TargetKey("email", "persons")
// is "email/persons".
func TargetKey(parts ...string) string {
	return path.Join(parts...)
}

// EntryContent builds the content string hashed for a multi-field entry.
func EntryContent(fields ...string) string {
	return strings.Join(fields, "\x00")
}

// Update records the checksum of a single value.
func (lf *LockFile) Update(target, key, content string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.Checksums[target] == nil {
		lf.Checksums[target] = make(map[string]string)
	}
	lf.Checksums[target][key] = Hash(content)
}

// ChangedKeys returns, sorted, the keys whose recorded checksum no longer
// matches values, including recorded keys that values no longer contains.
// Keys that were never recorded are not reported.
func (lf *LockFile) ChangedKeys(target string, values map[string]string) []string {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	var changed []string
	for key, hash := range lf.Checksums[target] {
		content, ok := values[key]
		if !ok || Hash(content) != hash {
			changed = append(changed, key)
		}
	}
	sort.Strings(changed)
	return changed
}

// Record replaces the checksums of target with those of values. Keys not in
// values are forgotten.
func (lf *LockFile) Record(target string, values map[string]string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	sums := make(map[string]string, len(values))
	for key, content := range values {
		sums[key] = Hash(content)
	}
	lf.Checksums[target] = sums
}

// Changed reports whether key was recorded under target with a checksum
// other than that of content. Unrecorded keys are not changed.
func (lf *LockFile) Changed(target, key, content string) bool {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	hash, ok := lf.Checksums[target][key]
	return ok && hash != Hash(content)
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

// Stats returns the number of targets and total keys in the lock file.
func (lf *LockFile) Stats() (targets, keys int) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	targets = len(lf.Checksums)
	for _, m := range lf.Checksums {
		keys += len(m)
	}
	return
}

// Targets returns sorted list of target keys.
func (lf *LockFile) Targets() []string {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	targets := make([]string, 0, len(lf.Checksums))
	for t := range lf.Checksums {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	return targets
}

// Summary returns a human-readable summary string.
func (lf *LockFile) Summary() string {
	targets, keys := lf.Stats()
	if targets == 0 {
		return "empty"
	}

	var parts []string
	for _, t := range lf.Targets() {
		lf.mu.Lock()
		n := len(lf.Checksums[t])
		lf.mu.Unlock()
		parts = append(parts, fmt.Sprintf("%s: %d keys", t, n))
	}
	return fmt.Sprintf("%d targets, %d keys (%s)", targets, keys, strings.Join(parts, ", "))
}
