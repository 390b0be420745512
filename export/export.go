// Package export writes translation results as zip archives ready to be
// handed back to the program's maintainers.
package export

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nwstranslate/nwskit/emails"
	"github.com/nwstranslate/nwskit/uifile"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// JSONFile is one JSON document of a JSON export.
type JSONFile struct {
	// Name is the entry name without the .json extension.
	Name string `validate:"required"`
	Data any
}

// JSON writes each file as <name>.json, pretty-printed with two-space
// indentation. At least one file is required.
func JSON(w io.Writer, files []JSONFile) error {
	if len(files) == 0 {
		return errors.New("nothing to export")
	}
	for i, f := range files {
		if err := validate.Struct(f); err != nil {
			return fmt.Errorf("file %d: name is required", i)
		}
	}

	zw := zip.NewWriter(w)
	for _, f := range files {
		data, err := json.MarshalIndent(f.Data, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding %s: %w", f.Name, err)
		}
		if err := writeEntry(zw, f.Name+".json", data); err != nil {
			return err
		}
	}
	return zw.Close()
}

// emailFile mirrors the constraints every exported template must meet.
type emailFile struct {
	Group string `validate:"required"`
	Nr    int    `validate:"gt=0"`
	Text  string `validate:"required"`
	Title string `validate:"required,excludesall=/\\"`
}

// Emails writes each template's text to
// DefaultEmailTemplates/<Group>/<nr>_<title>.txt. Every item needs a known
// group, a positive number, a text and a title; all problems are reported
// together and nothing is written when any item is invalid.
func Emails(w io.Writer, items []emails.Item) error {
	if len(items) == 0 {
		return errors.New("nothing to export")
	}

	var errs []error
	for _, it := range items {
		f := emailFile{Group: string(it.Group), Nr: it.Nr, Text: it.Text, Title: it.Title}
		if err := validate.Struct(f); err != nil {
			errs = append(errs, fmt.Errorf("%s %d: %s", it.Group, it.Nr, describe(err)))
			continue
		}
		if !it.Group.Valid() {
			errs = append(errs, fmt.Errorf("%s %d: unknown group", it.Group, it.Nr))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, it := range items {
		name := emails.ExportPath(it.Group, it.Nr, it.Title)
		if err := writeEntry(zw, name, []byte(it.Text)); err != nil {
			return err
		}
	}
	return zw.Close()
}

// UI writes f as a single translation file entry.
func UI(w io.Writer, name string, f *uifile.File) error {
	if name == "" {
		return errors.New("file name is required")
	}
	zw := zip.NewWriter(w)
	if err := writeEntry(zw, name, []byte(f.Serialize())); err != nil {
		return err
	}
	return zw.Close()
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "gt":
			parts = append(parts, field+" must be positive")
		case "excludesall":
			parts = append(parts, field+" must not contain a path separator")
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return strings.Join(parts, ", ")
}
