// nwskit: translation kit for the NWS program's UI strings, records and email templates.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nwstranslate/nwskit/backup"
	"github.com/nwstranslate/nwskit/config"
	"github.com/nwstranslate/nwskit/emails"
	"github.com/nwstranslate/nwskit/i18n"
	"github.com/nwstranslate/nwskit/records"
	"github.com/nwstranslate/nwskit/statedb"
	"github.com/nwstranslate/nwskit/workspace"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors, cleared by setupColors when stderr is not a terminal.
var (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func setupColors() {
	if shouldColorize(os.Stderr) {
		return
	}
	colorReset, colorRed, colorGreen, colorYellow, colorBlue = "", "", "", "", ""
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

func debugf(format string, args ...any) {
	if verbose {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir     string
	sessionName string
	verbose     bool
	jsonOutput  bool
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nwskit",
		Short: "Translation kit for NWS UI strings, records and email templates",
		Long: `nwskit: translation kit for the NWS program.

Keeps a translation session for three datasets and reports what is missing
or inconsistent before export:

  UI strings       reference (NWS) file, working translations, NWP file
  JSON records     literature, outlines, songs, tips
  Email templates  8 groups of numbered templates

Session state is stored in a local SQLite database (.nwskit/state.db);
every command that changes data saves a new snapshot.

Commands:
  init          Create .nwskit.yaml and the state database
  status        Show translation progress per dataset
  import        Load UI files, JSON records or email templates
  apply-remote  Replace the working UI translations with the remote file
  check         Report missing and inconsistent translations
  mark, unmark  Record or clear consistency overrides
  fix-tips      Give tips sharing a heading the same translated heading
  export        Write zip archives of the translated datasets
  backup        Save or restore a portable backup file
  session       Manage named sessions`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setup()
		},
	}

	// Global persistent flags, inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().StringVar(&sessionName, "session", "", "Session name (default from .nwskit.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug information")
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print reports as JSON")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newStatusCmd(),
		newImportCmd(),
		newApplyRemoteCmd(),
		newCheckCmd(),
		newMarkCmd(),
		newUnmarkCmd(),
		newFixTipsCmd(),
		newExportCmd(),
		newBackupCmd(),
		newSessionCmd(),
	)

	return root
}

// setup configures output and the message language. A broken .nwskit.yaml
// is reported later by the command that opens the workspace.
func setup() {
	setupColors()
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	lang := ""
	if cfg, err := config.Load(rootDir); err == nil {
		lang = cfg.Language
	}
	i18n.Init(lang)
	debugf("message language %q", i18n.Language())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// withWorkspace opens the project, runs fn and, when save is set, stores
// the session state afterwards.
func withWorkspace(ctx context.Context, save bool, fn func(w *workspace.Workspace) error) error {
	w, err := workspace.Open(ctx, rootDir, sessionName)
	if err != nil {
		return err
	}
	defer w.Close()
	debugf("session %q in %s", w.SessionName(), w.DB.Path())

	if err := fn(w); err != nil {
		return err
	}
	if !save {
		return nil
	}

	saved, err := w.Save(ctx)
	if err != nil {
		return err
	}
	if saved {
		debugf("snapshot saved for session %q", w.SessionName())
	} else {
		debugf("no changes to save")
	}
	return nil
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("nwskit version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// init (write .nwskit.yaml, create the state database)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	var (
		targetLang string
		language   string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .nwskit.yaml and the state database",
		Long: `Write a .nwskit.yaml with default settings and create the state database
with the default session. An existing .nwskit.yaml is kept unless --force
is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), targetLang, language, force)
		},
	}

	cmd.Flags().StringVar(&targetLang, "target-lang", "", "Language the datasets are translated into (e.g. nl)")
	cmd.Flags().StringVar(&language, "language", "", "Language of nwskit's messages (nl or en)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing .nwskit.yaml")

	return cmd
}

func runInit(ctx context.Context, targetLang, language string, force bool) error {
	path := filepath.Join(rootDir, config.FileName)
	if fileExists(path) && !force {
		logInfo("%s already exists (use --force to overwrite)", path)
	} else {
		cfg := &config.File{
			Session:    config.DefaultSession,
			Language:   language,
			TargetLang: targetLang,
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := os.MkdirAll(rootDir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", rootDir, err)
		}
		if err := cfg.Save(rootDir); err != nil {
			return err
		}
		logSuccess("Wrote %s", path)
	}

	return withWorkspace(ctx, false, func(w *workspace.Workspace) error {
		logSuccess("State database ready: %s (session %q)", w.DB.Path(), w.SessionName())
		return nil
	})
}

// ---------------------------------------------------------------------------
// status (read-only: translation progress per dataset)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show translation progress per dataset",
		Long: `Show the active session and how far each dataset is translated.
Does not modify any files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), false, func(w *workspace.Workspace) error {
				return runStatus(os.Stdout, w)
			})
		},
	}

	return cmd
}

// progressRow is one line of the status table.
type progressRow struct {
	Dataset    string `json:"dataset"`
	Translated int    `json:"translated"`
	Total      int    `json:"total"`
}

func (r progressRow) percent() int {
	if r.Total == 0 {
		return 0
	}
	return r.Translated * 100 / r.Total
}

func collectProgress(w *workspace.Workspace) []progressRow {
	s := w.Session
	var rows []progressRow

	refs := s.UI.References().Len()
	rows = append(rows, progressRow{"NWS", refs - len(s.UI.MissingNWS()), refs})
	if nwp := len(s.UI.NWPKeys()); nwp > 0 {
		rows = append(rows, progressRow{"NWP", nwp - len(s.UI.MissingNWP()), nwp})
	}

	originals := s.JSON.Originals()
	missing := map[records.Group]int{
		records.Literature: len(s.JSON.MissingLiterature()),
		records.Outlines:   len(s.JSON.MissingOutlines()),
		records.Songs:      len(s.JSON.MissingSongs()),
		records.Tips:       len(s.JSON.MissingTips()),
	}
	for _, g := range records.Groups {
		total := originals.Len(g)
		rows = append(rows, progressRow{string(g), max(total-missing[g], 0), total})
	}

	translations := s.Email.Translations()
	for _, info := range emails.Groups {
		done := 0
		for _, e := range translations[info.Key] {
			if !e.IsZero() {
				done++
			}
		}
		rows = append(rows, progressRow{"email/" + string(info.Key), done, info.Count})
	}
	return rows
}

func runStatus(out io.Writer, w *workspace.Workspace) error {
	rows := collectProgress(w)

	if jsonOutput {
		return writeJSON(out, map[string]any{
			"session":  w.SessionName(),
			"savedAt":  w.SavedAt(),
			"datasets": rows,
			"lockFile": w.Lock.Summary(),
		})
	}

	fmt.Fprintf(out, "\n%s%s%s\n", colorBlue, i18n.T("Session"), colorReset)
	fmt.Fprintln(out, strings.Repeat("─", 60))
	fmt.Fprintf(out, "  %-11s %s\n", i18n.T("Name:"), w.SessionName())
	fmt.Fprintf(out, "  %-11s %s\n", i18n.T("Root:"), w.Config.Root())
	if t := w.SavedAt(); !t.IsZero() {
		fmt.Fprintf(out, "  %-11s %s\n", i18n.T("Saved:"), t.Local().Format(time.DateTime))
	} else {
		fmt.Fprintf(out, "  %-11s %s\n", i18n.T("Saved:"), i18n.T("never"))
	}
	if w.Config.TargetLang != "" {
		fmt.Fprintf(out, "  %-11s %s\n", i18n.T("Target:"), w.Config.TargetLangName())
	}
	fmt.Fprintf(out, "  %-11s %s\n\n", i18n.T("Lock file:"), w.Lock.Summary())

	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			r.Dataset,
			fmt.Sprintf("%d/%d", r.Translated, r.Total),
			progressBar(r.percent(), 20),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{i18n.T("Dataset"), i18n.T("Translated"), i18n.T("Progress")},
		table,
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	))
	return nil
}

// progressBar renders percent as a colored bar of width cells followed by
// the number.
func progressBar(percent, width int) string {
	percent = min(max(percent, 0), 100)
	filled := percent * width / 100

	color := colorRed
	switch {
	case percent >= 100:
		color = colorGreen
	case percent >= 50:
		color = colorYellow
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return color + bar + colorReset + fmt.Sprintf(" %3d%%", percent)
}

// ---------------------------------------------------------------------------
// backup (portable state file)
// ---------------------------------------------------------------------------

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Save or restore a portable backup file",
	}

	save := &cobra.Command{
		Use:   "save FILE",
		Short: "Write the session state to a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), false, func(w *workspace.Workspace) error {
				data, err := backup.Encode(w.Session.Snapshot(), time.Now())
				if err != nil {
					return err
				}
				if err := writeFileAtomic(args[0], data); err != nil {
					return err
				}
				logSuccess("Backup of session %q written to %s", w.SessionName(), args[0])
				return nil
			})
		},
	}

	restore := &cobra.Command{
		Use:   "restore FILE",
		Short: "Replace the session state with a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			f, err := backup.Decode(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return withWorkspace(cmd.Context(), true, func(w *workspace.Workspace) error {
				w.Session.Restore(f.State())
				logSuccess("Restored backup from %s into session %q", f.Time().Local().Format(time.DateTime), w.SessionName())
				return nil
			})
		},
	}

	cmd.AddCommand(save, restore)
	return cmd
}

// ---------------------------------------------------------------------------
// session (named sessions in the state database)
// ---------------------------------------------------------------------------

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage named sessions",
	}

	create := &cobra.Command{
		Use:   "new NAME",
		Short: "Create an empty session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(db *statedb.DB) error {
				s, err := db.NewSession(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				logSuccess("Created session %q (%s)", s.Name, s.ID)
				logInfo("Use it with --session %s", s.Name)
				return nil
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(db *statedb.DB) error {
				sessions, err := db.ListSessions(cmd.Context())
				if err != nil {
					return err
				}
				return printSessions(os.Stdout, sessions)
			})
		},
	}

	remove := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a session and all of its snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(db *statedb.DB) error {
				if err := db.DeleteSession(cmd.Context(), args[0]); err != nil {
					return err
				}
				logSuccess("Deleted session %q", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(create, list, remove)
	return cmd
}

// withDB opens only the state database, for commands that do not load a
// session.
func withDB(ctx context.Context, fn func(db *statedb.DB) error) error {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return err
	}
	db, err := statedb.Open(ctx, cfg.StateDBPath())
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func printSessions(out io.Writer, sessions []statedb.Session) error {
	if jsonOutput {
		return writeJSON(out, sessions)
	}
	if len(sessions) == 0 {
		logInfo("No sessions yet. Run 'nwskit init' or any import command.")
		return nil
	}

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		updated := "-"
		if !s.UpdatedAt.IsZero() {
			updated = s.UpdatedAt.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{
			s.Name,
			fmt.Sprintf("%d", s.Snapshots),
			s.CreatedAt.Local().Format(time.DateTime),
			updated,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{i18n.T("Session"), i18n.T("Snapshots"), i18n.T("Created"), i18n.T("Updated")},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
	))
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s does not exist", path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
