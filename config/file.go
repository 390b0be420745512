// Package config loads .nwskit.yaml, the per-project settings file, and
// detects importable datasets in a directory.
//
// A missing .nwskit.yaml is not an error: every field has a default, so a
// bare directory is a valid nwskit project.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// File is the top-level .nwskit.yaml structure.
type File struct {
	// StateDB is the SQLite state database, relative to the project root.
	StateDB string `yaml:"state_db,omitempty"`
	// LockFile is the reference checksum lock file, relative to the project root.
	LockFile string `yaml:"lock_file,omitempty"`
	// Session is the session used when --session is not given.
	Session string `yaml:"session,omitempty"`
	// Language is the language of nwskit's own messages ("nl" or "en").
	// Empty means detect from the environment.
	Language string `yaml:"language,omitempty"`
	// TargetLang is the language the datasets are translated into (BCP 47).
	TargetLang string `yaml:"target_lang,omitempty"`
	// ExportDir receives export archives, relative to the project root.
	ExportDir string `yaml:"export_dir,omitempty"`
	// KeepSnapshots is how many snapshots per session survive a save (default 20).
	KeepSnapshots int `yaml:"keep_snapshots,omitempty"`

	root string `yaml:"-"`
}

// FileName is the default config file name.
const FileName = ".nwskit.yaml"

// Defaults.
const (
	DefaultStateDB       = ".nwskit/state.db"
	DefaultSession       = "default"
	DefaultExportDir     = "export"
	DefaultKeepSnapshots = 20
	defaultLockFile      = "nwskit.lock"
)

// SupportedLanguages lists the message languages nwskit ships.
var SupportedLanguages = []string{"nl", "en"}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load loads and validates .nwskit.yaml from rootDir.
// Returns the defaults if no .nwskit.yaml exists.
func Load(rootDir string) (*File, error) {
	f := &File{}
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}
	f.root = abs
	f.applyDefaults()

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func (f *File) applyDefaults() {
	if f.StateDB == "" {
		f.StateDB = DefaultStateDB
	}
	if f.LockFile == "" {
		f.LockFile = defaultLockFile
	}
	if f.Session == "" {
		f.Session = DefaultSession
	}
	if f.ExportDir == "" {
		f.ExportDir = DefaultExportDir
	}
	if f.KeepSnapshots == 0 {
		f.KeepSnapshots = DefaultKeepSnapshots
	}
}

// Validate checks field values after defaults are applied.
func (f *File) Validate() error {
	if strings.TrimSpace(f.Session) == "" {
		return fmt.Errorf("session name is empty")
	}
	if f.KeepSnapshots < 0 {
		return fmt.Errorf("keep_snapshots must not be negative, got %d", f.KeepSnapshots)
	}
	if f.Language != "" && !isSupportedLanguage(f.Language) {
		return fmt.Errorf("language %q is not supported (valid: %s)", f.Language, strings.Join(SupportedLanguages, ", "))
	}
	if f.TargetLang != "" {
		if _, err := language.Parse(f.TargetLang); err != nil {
			return fmt.Errorf("target_lang %q is not a language tag: %w", f.TargetLang, err)
		}
	}
	return nil
}

func isSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// Save writes f to rootDir/.nwskit.yaml.
func (f *File) Save(rootDir string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(rootDir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Resolved paths
// ---------------------------------------------------------------------------

// Root returns the absolute project root.
func (f *File) Root() string {
	return f.root
}

// StateDBPath returns the absolute state database path.
func (f *File) StateDBPath() string {
	return f.abs(f.StateDB)
}

// LockFilePath returns the absolute lock file path.
func (f *File) LockFilePath() string {
	return f.abs(f.LockFile)
}

// TargetLangName returns the target language's own name followed by its
// tag, e.g. "Nederlands (nl)", or just the tag when it has no known name.
func (f *File) TargetLangName() string {
	if f.TargetLang == "" {
		return ""
	}
	tag, err := language.Parse(f.TargetLang)
	if err != nil {
		return f.TargetLang
	}
	name := display.Self.Name(tag)
	if name == "" {
		return f.TargetLang
	}
	return fmt.Sprintf("%s (%s)", name, f.TargetLang)
}

// ExportPath returns the absolute path of an export file called name.
func (f *File) ExportPath(name string) string {
	return filepath.Join(f.abs(f.ExportDir), name)
}

func (f *File) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(f.root, p)
}
