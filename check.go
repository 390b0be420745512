package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nwstranslate/nwskit/consistency"
	"github.com/nwstranslate/nwskit/emails"
	"github.com/nwstranslate/nwskit/i18n"
	"github.com/nwstranslate/nwskit/records"
	"github.com/nwstranslate/nwskit/store"
	"github.com/nwstranslate/nwskit/workspace"
)

// Report sections selectable by 'check'.
const (
	checkUI    = "ui"
	checkTerms = "terms"
	checkJSON  = "json"
	checkEmail = "email"
)

var checkSections = []string{checkUI, checkTerms, checkJSON, checkEmail}

// uiReport lists UI strings needing attention.
type uiReport struct {
	MissingNWS        []string                          `json:"missingNWS"`
	MissingNWP        []string                          `json:"missingNWP"`
	UIInconsistencies []consistency.UIMismatch          `json:"uiInconsistencies"`
	Placeholders      []consistency.PlaceholderMismatch `json:"placeholders"`
}

// jsonReport lists record problems.
type jsonReport struct {
	MissingLiterature []records.LiteratureItem    `json:"missingLiterature"`
	MissingOutlines   []records.Outline           `json:"missingOutlines"`
	MissingSongs      []records.Song              `json:"missingSongs"`
	MissingTips       []records.Tip               `json:"missingTips"`
	WrongLiterature   []consistency.FieldMismatch `json:"wrongLiterature"`
	InconsistentTips  []consistency.TipConflict   `json:"inconsistentTips"`
	ChangedGroups     []records.Group             `json:"changedGroups"`
}

// checkReport is the full output of 'check'. Unselected sections are nil.
type checkReport struct {
	UI     *uiReport                  `json:"ui,omitempty"`
	Terms  []consistency.TermConflict `json:"terms,omitempty"`
	JSON   *jsonReport                `json:"json,omitempty"`
	Emails store.EmailSet             `json:"email,omitempty"`
	Count  int                        `json:"count"`
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [ui|terms|json|email]...",
		Short: "Report missing and inconsistent translations",
		Long: `Report what still needs attention before export. Without arguments every
section is checked.

  ui     untranslated NWS and NWP keys, NWP/NWS mismatches, placeholder errors
  terms  two-word terms whose translation is not reused where they appear
  json   missing records, changed literature symbols, inconsistent tip headings
  email  templates whose placeholders differ from the original

Findings are reports, not failures: the exit status is 0.`,
		ValidArgs: checkSections,
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sections := args
			if len(sections) == 0 {
				sections = checkSections
			}
			return withWorkspace(cmd.Context(), false, func(w *workspace.Workspace) error {
				report := buildReport(w.Session, sections)
				if jsonOutput {
					return writeJSON(os.Stdout, report)
				}
				printReport(os.Stdout, report)
				return nil
			})
		},
	}

	return cmd
}

func buildReport(s *store.Session, sections []string) checkReport {
	var r checkReport
	if slices.Contains(sections, checkUI) {
		r.UI = &uiReport{
			MissingNWS:        s.UI.MissingNWS(),
			MissingNWP:        s.UI.MissingNWP(),
			UIInconsistencies: s.UI.UIInconsistencies(),
			Placeholders:      s.UI.PlaceholderMismatches(),
		}
		r.Count += len(r.UI.MissingNWS) + len(r.UI.MissingNWP) + len(r.UI.UIInconsistencies) + len(r.UI.Placeholders)
	}
	if slices.Contains(sections, checkTerms) {
		r.Terms = s.UI.InconsistentNWS()
		r.Count += len(r.Terms)
	}
	if slices.Contains(sections, checkJSON) {
		r.JSON = &jsonReport{
			MissingLiterature: s.JSON.MissingLiterature(),
			MissingOutlines:   s.JSON.MissingOutlines(),
			MissingSongs:      s.JSON.MissingSongs(),
			MissingTips:       s.JSON.MissingTips(),
			WrongLiterature:   s.JSON.WrongLiterature(),
			InconsistentTips:  s.JSON.InconsistentTips(),
			ChangedGroups:     s.JSON.ChangedGroups(),
		}
		j := r.JSON
		r.Count += len(j.MissingLiterature) + len(j.MissingOutlines) + len(j.MissingSongs) +
			len(j.MissingTips) + len(j.WrongLiterature) + len(j.InconsistentTips)
	}
	if slices.Contains(sections, checkEmail) {
		r.Emails = s.Email.Inconsistencies()
		for _, byNr := range r.Emails {
			r.Count += len(byNr)
		}
	}
	return r
}

func printReport(out io.Writer, r checkReport) {
	if r.UI != nil {
		printList(out, i18n.T("Untranslated NWS keys"), r.UI.MissingNWS)
		printList(out, i18n.T("Untranslated NWP keys"), r.UI.MissingNWP)
		if len(r.UI.UIInconsistencies) > 0 {
			rows := make([][]string, 0, len(r.UI.UIInconsistencies))
			for _, m := range r.UI.UIInconsistencies {
				rows = append(rows, []string{m.Key, displayValue(m.NWP), displayValue(m.NWS)})
			}
			printSection(out, i18n.T("NWP and NWS differ"), len(rows),
				renderTable([]string{i18n.T("Key"), "NWP", "NWS"}, rows, nil))
		}
		if len(r.UI.Placeholders) > 0 {
			rows := make([][]string, 0, len(r.UI.Placeholders))
			for _, p := range r.UI.Placeholders {
				rows = append(rows, []string{p.Key, bracketed(p.Missing), bracketed(p.Extra)})
			}
			printSection(out, i18n.T("Placeholder mismatches"), len(rows),
				renderTable([]string{i18n.T("Key"), i18n.T("Missing"), i18n.T("Extra")}, rows, nil))
		}
	}

	if len(r.Terms) > 0 {
		var rows [][]string
		for _, c := range r.Terms {
			for _, o := range c.Others {
				rows = append(rows, []string{
					c.Key + " (" + c.Original + ")",
					displayValue(c.Translation),
					o.Key,
					displayValue(o.Value),
				})
			}
		}
		printSection(out, i18n.T("Inconsistent terms"), len(r.Terms),
			renderTable([]string{i18n.T("Term"), i18n.T("Translation"), i18n.T("Used in"), i18n.T("Translation")}, rows, nil))
	}

	if j := r.JSON; j != nil {
		printJSONFindings(out, j)
	}

	if len(r.Emails) > 0 {
		var rows [][]string
		for _, info := range emails.Groups {
			byNr := r.Emails[info.Key]
			nrs := make([]int, 0, len(byNr))
			for nr := range byNr {
				nrs = append(nrs, nr)
			}
			slices.Sort(nrs)
			for _, nr := range nrs {
				rows = append(rows, []string{string(info.Key), strconv.Itoa(nr), byNr[nr].Title})
			}
		}
		printSection(out, i18n.T("Email placeholder mismatches"), len(rows),
			renderTable([]string{i18n.T("Group"), "Nr", i18n.T("Title")}, rows, []columnAlignment{alignLeft, alignRight}))
	}

	if r.Count == 0 {
		logSuccess("%s", i18n.T("No problems found"))
		return
	}
	logWarning("%s", i18n.N("%d problem found", "%d problems found", r.Count))
}

func printJSONFindings(out io.Writer, j *jsonReport) {
	if len(j.MissingLiterature) > 0 {
		items := make([]string, 0, len(j.MissingLiterature))
		for _, l := range j.MissingLiterature {
			items = append(items, fmt.Sprintf("%d %s", l.ID, l.Title))
		}
		printList(out, i18n.T("Untranslated literature"), items)
	}
	if len(j.MissingOutlines) > 0 {
		items := make([]string, 0, len(j.MissingOutlines))
		for _, o := range j.MissingOutlines {
			items = append(items, fmt.Sprintf("%d %s", o.Number, o.Title))
		}
		printList(out, i18n.T("Untranslated outlines"), items)
	}
	if len(j.MissingSongs) > 0 {
		items := make([]string, 0, len(j.MissingSongs))
		for _, s := range j.MissingSongs {
			items = append(items, s.Number+" "+s.Title)
		}
		printList(out, i18n.T("Untranslated songs"), items)
	}
	if len(j.MissingTips) > 0 {
		items := make([]string, 0, len(j.MissingTips))
		for _, t := range j.MissingTips {
			items = append(items, t.Heading)
		}
		printList(out, i18n.T("Untranslated tips"), items)
	}
	if len(j.WrongLiterature) > 0 {
		rows := make([][]string, 0, len(j.WrongLiterature))
		for _, m := range j.WrongLiterature {
			rows = append(rows, []string{strconv.Itoa(m.ID), m.Field, m.Original, displayValue(m.Translation)})
		}
		printSection(out, i18n.T("Literature fields that must not change"), len(rows),
			renderTable([]string{"ID", i18n.T("Field"), i18n.T("Original"), i18n.T("Translation")}, rows,
				[]columnAlignment{alignRight}))
	}
	if len(j.InconsistentTips) > 0 {
		rows := make([][]string, 0, len(j.InconsistentTips))
		for _, c := range j.InconsistentTips {
			indices := make([]string, 0, len(c.Tips))
			for _, t := range c.Tips {
				indices = append(indices, strconv.Itoa(t.Index))
			}
			rows = append(rows, []string{c.Heading, strings.Join(indices, " "), strings.Join(c.Translations, " | ")})
		}
		printSection(out, i18n.T("Tips with inconsistent headings"), len(rows),
			renderTable([]string{i18n.T("Heading"), i18n.T("Tips"), i18n.T("Translations")}, rows, nil))
		logInfo("Fix with: nwskit fix-tips HEADING INDEX...")
	}
	if len(j.ChangedGroups) > 0 {
		names := make([]string, 0, len(j.ChangedGroups))
		for _, g := range j.ChangedGroups {
			names = append(names, string(g))
		}
		logInfo("Translated groups differing from input: %s", strings.Join(names, ", "))
	}
}

func printSection(out io.Writer, title string, n int, body string) {
	fmt.Fprintf(out, "\n%s%s%s (%d)\n%s\n", colorBlue, title, colorReset, n, body)
}

func printList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s%s%s (%d)\n", colorBlue, title, colorReset, len(items))
	for _, it := range items {
		fmt.Fprintf(out, "  %s\n", it)
	}
}

// displayValue shows an empty translation as a visible marker.
func displayValue(s string) string {
	if s == "" {
		return i18n.T("<EMPTY TRANSLATION>")
	}
	return s
}

func bracketed(vars []string) string {
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = "[" + v + "]"
	}
	return strings.Join(out, " ")
}

// ---------------------------------------------------------------------------
// mark / unmark (consistency overrides)
// ---------------------------------------------------------------------------

func newMarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Mark a reported inconsistency as intended",
	}

	term := &cobra.Command{
		Use:   "term KEY OTHER",
		Short: "Accept that OTHER translates the term KEY differently",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), true, func(w *workspace.Workspace) error {
				if err := requireKeys(w, args...); err != nil {
					return err
				}
				w.Session.UI.MarkNWSConsistent(args[0], args[1])
				logSuccess("Marked %s as consistent with %s", args[1], args[0])
				return nil
			})
		},
	}

	ui := &cobra.Command{
		Use:   "ui KEY",
		Short: "Accept that NWP and NWS translate KEY differently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), true, func(w *workspace.Workspace) error {
				if err := requireKeys(w, args[0]); err != nil {
					return err
				}
				w.Session.UI.MarkUIConsistent(args[0])
				logSuccess("Marked %s as consistent between NWP and NWS", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(term, ui)
	return cmd
}

// requireKeys fails when a key is unknown to both the references and the
// translations.
func requireKeys(w *workspace.Workspace, keys ...string) error {
	known := w.Session.UI.Keys()
	for _, k := range keys {
		if !slices.Contains(known, k) {
			return fmt.Errorf("unknown UI key %q", k)
		}
	}
	return nil
}

func newUnmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unmark [KEY]...",
		Short: "Clear consistency markers (all of them without KEYs)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), true, func(w *workspace.Workspace) error {
				if len(args) == 0 {
					w.Session.UI.ClearAllConsistent()
					logSuccess("Cleared all consistency markers")
					return nil
				}
				w.Session.UI.ClearConsistentKeys(args)
				logSuccess("Cleared consistency markers of %s", strings.Join(args, ", "))
				return nil
			})
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// fix-tips, apply-remote
// ---------------------------------------------------------------------------

func newFixTipsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix-tips HEADING INDEX...",
		Short: "Set the translated heading of the given tips",
		Long: `Set the translated heading of every listed tip (by index, as shown by
'nwskit check json') to HEADING. Indices without a translated tip are skipped.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			heading := args[0]
			indices := make([]int, 0, len(args)-1)
			for _, a := range args[1:] {
				i, err := strconv.Atoi(a)
				if err != nil || i < 0 {
					return fmt.Errorf("tip index must be a non-negative integer, got %q", a)
				}
				indices = append(indices, i)
			}
			return withWorkspace(cmd.Context(), true, func(w *workspace.Workspace) error {
				n := w.Session.JSON.FixInconsistentTips(heading, indices)
				if n < len(indices) {
					logWarning("%d of %d indices have no translated tip", len(indices)-n, len(indices))
				}
				logSuccess("%s", i18n.N("Updated %d tip", "Updated %d tips", n))
				return nil
			})
		},
	}

	return cmd
}

func newApplyRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply-remote",
		Short: "Replace the working UI translations with the remote file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), true, func(w *workspace.Workspace) error {
				if !w.Session.UI.ApplyRemote() {
					logWarning("No remote translations imported. Use 'nwskit import ui remote FILE'.")
					return nil
				}
				logSuccess("Working translations replaced (%s)",
					i18n.N("%d key", "%d keys", w.Session.UI.Translations().Len()))
				return nil
			})
		},
	}

	return cmd
}
