package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nwstranslate/nwskit/export"
	"github.com/nwstranslate/nwskit/merge"
	"github.com/nwstranslate/nwskit/records"
	"github.com/nwstranslate/nwskit/workspace"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the translated datasets",
		Long: `Write the translated datasets. Relative default paths are resolved against
the export_dir of .nwskit.yaml.

  export ui [FILE]                    translation file in reference order (.txt, .json or .zip)
  export json [FILE.zip] [SLOT]       <group>.json per record group (SLOT defaults to translations)
  export emails [FILE.zip]            DefaultEmailTemplates/<Group>/<nr>_<title>.txt`,
	}

	cmd.AddCommand(newExportUICmd(), newExportJSONCmd(), newExportEmailsCmd())
	return cmd
}

// exportTarget returns args[0] or the default file in the export directory.
func exportTarget(w *workspace.Workspace, args []string, name string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return w.Config.ExportPath(name)
}

func newExportUICmd() *cobra.Command {
	var entry string

	cmd := &cobra.Command{
		Use:   "ui [FILE]",
		Short: "Export the UI translations in reference order",
		Long: `Export the working UI translations. Keys follow the reference order;
untranslated keys are left out and keys the reference no longer has are
appended. A .json FILE is written as ProgramUI.json, a .zip FILE holds one
translation file named by --entry.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), false, func(w *workspace.Workspace) error {
				refs := w.Session.UI.References()
				translations := w.Session.UI.Translations()
				if translations.Len() == 0 {
					return fmt.Errorf("no UI translations to export")
				}
				merged := merge.Merge(refs, translations)
				if obsolete := merge.Obsolete(refs, translations); len(obsolete) > 0 && refs.Len() > 0 {
					logWarning("%d keys are not in the reference file: %s", len(obsolete), strings.Join(obsolete, ", "))
				}

				path := exportTarget(w, args, "nws.txt")
				if strings.EqualFold(filepath.Ext(path), ".zip") {
					var buf bytes.Buffer
					if err := export.UI(&buf, entry, merged); err != nil {
						return err
					}
					if err := writeFileAtomic(path, buf.Bytes()); err != nil {
						return err
					}
				} else if err := merged.WriteFile(path); err != nil {
					return err
				}
				logSuccess("Exported %d UI strings to %s", merged.Len(), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&entry, "entry", "nws.txt", "File name inside a .zip archive")
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "json [FILE.zip] [input|originals|translations]",
		Short:     "Export the record groups as <group>.json files",
		Args:      cobra.MaximumNArgs(2),
		ValidArgs: []string{slotInput, slotOriginals, slotTranslations},
		RunE: func(cmd *cobra.Command, args []string) error {
			slot := slotTranslations
			if len(args) == 2 {
				slot = args[1]
			}
			return withWorkspace(cmd.Context(), false, func(w *workspace.Workspace) error {
				var b records.Bundle
				switch slot {
				case slotInput:
					b = w.Session.JSON.Input()
				case slotOriginals:
					b = w.Session.JSON.Originals()
				case slotTranslations:
					b = w.Session.JSON.Translations()
				default:
					return fmt.Errorf("unknown record slot %q (valid: input, originals, translations)", slot)
				}

				var files []export.JSONFile
				for _, g := range records.Groups {
					if b.Has(g) {
						files = append(files, export.JSONFile{Name: string(g), Data: b.Value(g)})
					}
				}
				if len(files) == 0 {
					return fmt.Errorf("no %s records to export", slot)
				}

				var buf bytes.Buffer
				if err := export.JSON(&buf, files); err != nil {
					return err
				}
				path := exportTarget(w, args, "json-"+slot+".zip")
				if err := writeFileAtomic(path, buf.Bytes()); err != nil {
					return err
				}
				logSuccess("Exported %d record groups to %s", len(files), path)
				return nil
			})
		},
	}

	return cmd
}

func newExportEmailsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emails [FILE.zip]",
		Short: "Export the translated email templates",
		Long: `Export every translated template. Each needs a text and a title; when any
template is incomplete all problems are listed and nothing is written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), false, func(w *workspace.Workspace) error {
				items := w.Session.Email.Items()
				var buf bytes.Buffer
				if err := export.Emails(&buf, items); err != nil {
					return err
				}
				path := exportTarget(w, args, "emails.zip")
				if err := writeFileAtomic(path, buf.Bytes()); err != nil {
					return err
				}
				logSuccess("Exported %d email templates to %s", len(items), path)
				return nil
			})
		},
	}

	return cmd
}
