package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Wire shapes mirror the records with pointers where the upload must carry
// the field even though an empty value is allowed.

type literatureWire struct {
	ID           *int    `json:"id" validate:"required"`
	CategoryName string  `json:"categoryName" validate:"required"`
	ItemNumber   *string `json:"itemNumber" validate:"required"`
	Symbol       *string `json:"symbol" validate:"required"`
	Title        string  `json:"title" validate:"required"`
}

type outlineWire struct {
	Number  *int    `json:"number" validate:"required,gt=0"`
	Title   *string `json:"title"`
	Updated *string `json:"updated" validate:"required"`
	Notes   *string `json:"notes"`
}

type songWire struct {
	Number string `json:"number" validate:"required"`
	Title  string `json:"title" validate:"required"`
}

type tipWire struct {
	Heading string `json:"heading" validate:"required"`
	Text    string `json:"text" validate:"required"`
	URL     string `json:"url" validate:"required,http_url"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so errors match the uploaded document.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeLiterature decodes and validates a literature JSON array.
func DecodeLiterature(data []byte) ([]LiteratureItem, error) {
	wire, err := decodeStrict[literatureWire](data)
	if err != nil {
		return nil, err
	}
	out := make([]LiteratureItem, len(wire))
	for i, w := range wire {
		out[i] = LiteratureItem{
			ID:           *w.ID,
			CategoryName: w.CategoryName,
			ItemNumber:   *w.ItemNumber,
			Symbol:       *w.Symbol,
			Title:        w.Title,
		}
	}
	return out, nil
}

// DecodeOutlines decodes and validates an outlines JSON array.
func DecodeOutlines(data []byte) ([]Outline, error) {
	wire, err := decodeStrict[outlineWire](data)
	if err != nil {
		return nil, err
	}
	out := make([]Outline, len(wire))
	for i, w := range wire {
		out[i] = Outline{Number: *w.Number, Updated: *w.Updated}
		if w.Title != nil {
			out[i].Title = *w.Title
		}
		if w.Notes != nil {
			out[i].Notes = *w.Notes
		}
	}
	return out, nil
}

// DecodeSongs decodes and validates a songs JSON array.
func DecodeSongs(data []byte) ([]Song, error) {
	wire, err := decodeStrict[songWire](data)
	if err != nil {
		return nil, err
	}
	out := make([]Song, len(wire))
	for i, w := range wire {
		out[i] = Song(w)
	}
	return out, nil
}

// DecodeTips decodes and validates a tips JSON array.
func DecodeTips(data []byte) ([]Tip, error) {
	wire, err := decodeStrict[tipWire](data)
	if err != nil {
		return nil, err
	}
	out := make([]Tip, len(wire))
	for i, w := range wire {
		out[i] = Tip(w)
	}
	return out, nil
}

// Decode decodes data as the array for group g and returns it in a Bundle.
// Nothing is returned on failure, so callers commit only validated records.
func Decode(g Group, data []byte) (Bundle, error) {
	var (
		b   Bundle
		err error
	)
	switch g {
	case Literature:
		b.Literature, err = DecodeLiterature(data)
	case Outlines:
		b.Outlines, err = DecodeOutlines(data)
	case Songs:
		b.Songs, err = DecodeSongs(data)
	case Tips:
		b.Tips, err = DecodeTips(data)
	default:
		return Bundle{}, fmt.Errorf("unknown record group %q", g)
	}
	if err != nil {
		return Bundle{}, fmt.Errorf("%s: %w", g, err)
	}
	return b, nil
}

// decodeStrict decodes a JSON array rejecting unknown fields, then validates
// every item. All item problems are reported together.
func decodeStrict[T any](data []byte) ([]T, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var items []T
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if items == nil {
		return nil, errors.New("parsing JSON: expected an array")
	}

	var errs []error
	for i := range items {
		if err := validate.Struct(&items[i]); err != nil {
			errs = append(errs, itemError(i, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return items, nil
}

func itemError(index int, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("item %d: %w", index, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s (%s)", fe.Field(), describeTag(fe.Tag())))
	}
	return fmt.Errorf("item %d: invalid %s", index, strings.Join(parts, ", "))
}

func describeTag(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "gt":
		return "must be positive"
	case "http_url":
		return "must be an http(s) URL"
	}
	return "failed " + tag
}
