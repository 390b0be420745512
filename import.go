package main

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nwstranslate/nwskit/config"
	"github.com/nwstranslate/nwskit/emails"
	"github.com/nwstranslate/nwskit/i18n"
	"github.com/nwstranslate/nwskit/lockfile"
	"github.com/nwstranslate/nwskit/records"
	"github.com/nwstranslate/nwskit/store"
	"github.com/nwstranslate/nwskit/uifile"
	"github.com/nwstranslate/nwskit/workspace"
)

// Dataset slots accepted by the import commands.
const (
	slotInput        = "input"
	slotOriginals    = "originals"
	slotTranslations = "translations"
	slotRemote       = "remote"
	slotNWP          = "nwp"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load UI files, JSON records or email templates",
		Long: `Load a dataset file into the active session.

  import ui originals|translations|remote|nwp FILE
  import json input|originals|translations GROUP FILE
  import email input|originals|translations GROUP NR FILE
  import dir DIR [--as originals|translations|input]

UI files use the simple "key: value" syntax or the quoted NWP syntax; a .json
file is read as ProgramUI.json. Importing new UI originals clears the
consistency markers of every key whose reference text changed.`,
	}

	cmd.AddCommand(
		newImportUICmd(),
		newImportJSONCmd(),
		newImportEmailCmd(),
		newImportDirCmd(),
	)
	return cmd
}

// ---------------------------------------------------------------------------
// import ui
// ---------------------------------------------------------------------------

func newImportUICmd() *cobra.Command {
	return &cobra.Command{
		Use:       "ui originals|translations|remote|nwp FILE",
		Short:     "Import a UI translation file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{slotOriginals, slotTranslations, slotRemote, slotNWP},
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, path := args[0], args[1]
			f, err := uifile.ParseFile(path)
			if err != nil {
				return err
			}
			return withWorkspace(cmd.Context(), true, func(w *workspace.Workspace) error {
				if err := importUI(w, slot, f); err != nil {
					return err
				}
				logSuccess("Imported %s as UI %s (%s)", path, slot, i18n.N("%d key", "%d keys", f.Len()))
				return nil
			})
		},
	}
}

func importUI(w *workspace.Workspace, slot string, f *uifile.File) error {
	ui := w.Session.UI
	switch slot {
	case slotOriginals:
		importUIOriginals(w, f)
	case slotTranslations:
		ui.SetTranslations(f)
	case slotRemote:
		ui.SetRemoteTranslations(f.Serialize())
		logInfo("Run 'nwskit apply-remote' to replace the working translations with it.")
	case slotNWP:
		ui.SetNWP(f.Serialize())
	default:
		return fmt.Errorf("unknown UI slot %q (valid: originals, translations, remote, nwp)", slot)
	}
	return nil
}

// importUIOriginals stores new reference strings and clears the consistency
// markers of every key whose reference changed since the last import.
func importUIOriginals(w *workspace.Workspace, f *uifile.File) {
	values := f.Map()
	changed := w.Lock.ChangedKeys(lockfile.UIOriginals, values)

	w.Session.UI.SetOriginals(f.Serialize())
	if len(changed) > 0 {
		w.Session.UI.ClearConsistentKeys(changed)
		logWarning(i18n.N(
			"%d reference string changed since the last import; its consistency markers were cleared",
			"%d reference strings changed since the last import; their consistency markers were cleared",
			len(changed)))
		debugf("changed keys: %s", strings.Join(changed, ", "))
	}
	w.Lock.Record(lockfile.UIOriginals, values)
}

// ---------------------------------------------------------------------------
// import json
// ---------------------------------------------------------------------------

func newImportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "json input|originals|translations GROUP FILE",
		Short: "Import a JSON record file (literature, outlines, songs, tips)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, path := args[0], args[2]
			g, err := records.ParseGroup(args[1])
			if err != nil {
				return err
			}
			data, err := readFile(path)
			if err != nil {
				return err
			}
			b, err := records.Decode(g, data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return withWorkspace(cmd.Context(), true, func(w *workspace.Workspace) error {
				if err := importRecords(w.Session.JSON, slot, b); err != nil {
					return err
				}
				logSuccess("Imported %s as %s %s (%d records)", path, g, slot, b.Len(g))
				return nil
			})
		},
	}
}

func importRecords(js *store.JSONStore, slot string, b records.Bundle) error {
	switch slot {
	case slotInput:
		js.SetInput(b)
	case slotOriginals:
		js.SetOriginals(b)
	case slotTranslations:
		js.SetTranslations(b)
	default:
		return fmt.Errorf("unknown record slot %q (valid: input, originals, translations)", slot)
	}
	return nil
}

// ---------------------------------------------------------------------------
// import email
// ---------------------------------------------------------------------------

func newImportEmailCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "email input|originals|translations GROUP NR FILE",
		Short: "Import one email template",
		Long: `Import one email template. A .json FILE holds {"text", "title"}; any other
file is the template text, titled by --title or by a <nr>_<title>.txt name.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, path := args[0], args[3]
			g, err := emails.ParseGroup(args[1])
			if err != nil {
				return err
			}
			nr, err := parseTemplateNr(g, args[2])
			if err != nil {
				return err
			}
			e, err := readEmail(path, title)
			if err != nil {
				return err
			}
			return withWorkspace(cmd.Context(), true, func(w *workspace.Workspace) error {
				set := store.EmailSet{g: {nr: e}}
				if err := importEmails(w, slot, set); err != nil {
					return err
				}
				logSuccess("Imported %s as %s %d %s", path, g, nr, slot)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Template title for plain-text files")
	return cmd
}

func parseTemplateNr(g emails.Group, s string) (int, error) {
	nr, err := strconv.Atoi(s)
	if err != nil || nr < 1 {
		return 0, fmt.Errorf("template number must be a positive integer, got %q", s)
	}
	if info, _ := g.Info(); nr > info.Count {
		logWarning("Group %s has %d templates; importing number %d anyway", g, info.Count, nr)
	}
	return nr, nil
}

var templateNameRe = regexp.MustCompile(`^\d+_(.+)\.txt$`)

func readEmail(path, title string) (emails.Email, error) {
	data, err := readFile(path)
	if err != nil {
		return emails.Email{}, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		e, err := emails.Decode(data)
		if err != nil {
			return emails.Email{}, fmt.Errorf("%s: %w", path, err)
		}
		if title != "" {
			e.Title = title
		}
		return e, nil
	}
	if title == "" {
		if m := templateNameRe.FindStringSubmatch(filepath.Base(path)); m != nil {
			title = m[1]
		}
	}
	return emails.Email{Text: strings.ReplaceAll(string(data), "\r", ""), Title: title}, nil
}

// importEmails writes set into slot. New originals are checked against the
// lock file so edited upstream templates are reported.
func importEmails(w *workspace.Workspace, slot string, set store.EmailSet) error {
	es := w.Session.Email
	switch slot {
	case slotInput:
		return es.SetInputs(set)
	case slotTranslations:
		return es.SetTranslations(set)
	case slotOriginals:
	default:
		return fmt.Errorf("unknown email slot %q (valid: input, originals, translations)", slot)
	}

	if err := es.SetOriginals(set); err != nil {
		return err
	}
	for g, byNr := range set {
		target := lockfile.TargetKey("email", string(g))
		for nr, e := range byNr {
			key := strconv.Itoa(nr)
			content := lockfile.EntryContent(e.Title, e.Text)
			if w.Lock.Changed(target, key, content) {
				logWarning("Original of %s %d changed since the last import; review its translation", g, nr)
			}
			w.Lock.Update(target, key, content)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// import dir
// ---------------------------------------------------------------------------

func newImportDirCmd() *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "dir DIR",
		Short: "Import every dataset found in a directory",
		Long: `Scan DIR for importable files and load them into one slot:

  *.txt                    UI file (quoted files are always imported as NWP)
  ProgramUI.json           UI file, preferred over a *.txt UI file
  literature.json, outlines.json, songs.json, tips.json
  DefaultEmailTemplates/<Group>/<nr>_<title>.txt

This is the layout written by 'nwskit export'. UI files are skipped when
importing as input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if as != slotInput && as != slotOriginals && as != slotTranslations {
				return fmt.Errorf("--as must be input, originals or translations, got %q", as)
			}
			src, err := config.Detect(args[0])
			if err != nil {
				return err
			}
			if src.Empty() {
				logWarning("Nothing to import in %s", args[0])
				return nil
			}
			return withWorkspace(cmd.Context(), true, func(w *workspace.Workspace) error {
				return importDir(w, src, as)
			})
		},
	}

	cmd.Flags().StringVar(&as, "as", slotTranslations, "Slot to import into: input, originals or translations")
	return cmd
}

func importDir(w *workspace.Workspace, src *config.Sources, slot string) error {
	if ui := src.ProgramUI; ui != "" || src.UIText != "" {
		if ui == "" {
			ui = src.UIText
		} else if src.UIText != "" {
			debugf("skipping %s, using %s", src.UIText, ui)
		}
		if slot == slotInput {
			logWarning("Skipping UI file %s: UI strings have no input slot", ui)
		} else {
			f, err := uifile.ParseFile(ui)
			if err != nil {
				return err
			}
			if err := importUI(w, slot, f); err != nil {
				return err
			}
			logSuccess("UI %s: %s (%s)", slot, ui, i18n.N("%d key", "%d keys", f.Len()))
		}
	}

	if src.NWPText != "" {
		f, err := uifile.ParseFile(src.NWPText)
		if err != nil {
			return err
		}
		w.Session.UI.SetNWP(f.Serialize())
		logSuccess("NWP: %s (%s)", src.NWPText, i18n.N("%d key", "%d keys", f.Len()))
	}

	var bundle records.Bundle
	for _, g := range records.Groups {
		path, ok := src.Records[g]
		if !ok {
			continue
		}
		data, err := readFile(path)
		if err != nil {
			return err
		}
		b, err := records.Decode(g, data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		bundle = bundle.With(b)
		logSuccess("%s %s: %s (%d records)", g, slot, path, b.Len(g))
	}
	if len(src.Records) > 0 {
		if err := importRecords(w.Session.JSON, slot, bundle); err != nil {
			return err
		}
	}

	if len(src.Emails) > 0 {
		set := make(store.EmailSet)
		for _, es := range src.Emails {
			e, err := readEmail(es.Path, es.Title)
			if err != nil {
				return err
			}
			if set[es.Group] == nil {
				set[es.Group] = make(map[int]emails.Email)
			}
			set[es.Group][es.Nr] = e
		}
		if err := importEmails(w, slot, set); err != nil {
			return err
		}
		logSuccess("Email %s: %d templates", slot, len(src.Emails))
	}
	return nil
}
