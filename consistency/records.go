// Package consistency derives translation problems from an original
// (source-language) dataset and its translation: missing items, diverging
// field values, placeholder mismatches and inconsistent repeated terms.
//
// Every function is a pure read of its arguments. Absent data yields empty
// results, never an error.
package consistency

import (
	"reflect"

	"github.com/nwstranslate/nwskit/records"
)

// MissingLiterature returns the originals whose ID has no translation.
func MissingLiterature(originals, translations []records.LiteratureItem) []records.LiteratureItem {
	ids := make(map[int]bool, len(translations))
	for _, t := range translations {
		ids[t.ID] = true
	}
	var missing []records.LiteratureItem
	for _, o := range originals {
		if !ids[o.ID] {
			missing = append(missing, o)
		}
	}
	return missing
}

// MissingOutlines returns the titled originals that have no translation with
// the same number and both a title and an update date.
func MissingOutlines(originals, translations []records.Outline) []records.Outline {
	done := make(map[int]bool, len(translations))
	for _, t := range translations {
		if t.Title != "" && t.Updated != "" {
			done[t.Number] = true
		}
	}
	var missing []records.Outline
	for _, o := range originals {
		if o.Title != "" && !done[o.Number] {
			missing = append(missing, o)
		}
	}
	return missing
}

// MissingSongs returns the originals whose number has no translation.
func MissingSongs(originals, translations []records.Song) []records.Song {
	numbers := make(map[string]bool, len(translations))
	for _, t := range translations {
		numbers[t.Number] = true
	}
	var missing []records.Song
	for _, o := range originals {
		if !numbers[o.Number] {
			missing = append(missing, o)
		}
	}
	return missing
}

// MissingTips returns the originals whose position has no translated heading.
func MissingTips(originals, translations []records.Tip) []records.Tip {
	var missing []records.Tip
	for i, o := range originals {
		if i >= len(translations) || translations[i].Heading == "" {
			missing = append(missing, o)
		}
	}
	return missing
}

// FieldMismatch is a literature field that must not change in translation
// but does.
type FieldMismatch struct {
	ID          int    `json:"id"`
	Field       string `json:"field"`
	Original    string `json:"original"`
	Translation string `json:"translation"`
}

// WrongLiterature compares categoryName, itemNumber and symbol of every
// translated literature item with its original. Titles are translated and
// therefore not compared.
func WrongLiterature(originals, translations []records.LiteratureItem) []FieldMismatch {
	byID := make(map[int]records.LiteratureItem, len(translations))
	for _, t := range translations {
		if _, dup := byID[t.ID]; !dup {
			byID[t.ID] = t
		}
	}

	var wrong []FieldMismatch
	for _, o := range originals {
		t, ok := byID[o.ID]
		if !ok {
			continue
		}
		for _, f := range []struct{ name, orig, tr string }{
			{"categoryName", o.CategoryName, t.CategoryName},
			{"itemNumber", o.ItemNumber, t.ItemNumber},
			{"symbol", o.Symbol, t.Symbol},
		} {
			if f.orig != f.tr {
				wrong = append(wrong, FieldMismatch{ID: o.ID, Field: f.name, Original: f.orig, Translation: f.tr})
			}
		}
	}
	return wrong
}

// TipRef points at one translated tip.
type TipRef struct {
	Index       int    `json:"index"`
	Translation string `json:"translation"`
}

// TipConflict is a heading shared by several original tips whose
// translations disagree.
type TipConflict struct {
	Heading      string   `json:"heading"`
	Tips         []TipRef `json:"tips"`
	Translations []string `json:"translations"`
}

// InconsistentTips groups original tips by heading and reports the groups
// of two or more translated tips whose translated headings differ. Tips
// without a translated heading are left out of their group. Groups appear in
// order of first appearance.
func InconsistentTips(originals, translations []records.Tip) []TipConflict {
	var order []string
	groups := make(map[string][]TipRef)
	for i, o := range originals {
		if i >= len(translations) || translations[i].Heading == "" {
			continue
		}
		if _, seen := groups[o.Heading]; !seen {
			order = append(order, o.Heading)
		}
		groups[o.Heading] = append(groups[o.Heading], TipRef{Index: i, Translation: translations[i].Heading})
	}

	var conflicts []TipConflict
	for _, heading := range order {
		tips := groups[heading]
		if len(tips) < 2 {
			continue
		}
		distinct := distinctTranslations(tips)
		if len(distinct) < 2 {
			continue
		}
		conflicts = append(conflicts, TipConflict{Heading: heading, Tips: tips, Translations: distinct})
	}
	return conflicts
}

func distinctTranslations(tips []TipRef) []string {
	seen := make(map[string]bool, len(tips))
	var out []string
	for _, t := range tips {
		if !seen[t.Translation] {
			seen[t.Translation] = true
			out = append(out, t.Translation)
		}
	}
	return out
}

// ChangedGroups returns the groups whose draft input differs from their
// current translations. A group with neither is unchanged.
func ChangedGroups(input, translations records.Bundle) []records.Group {
	var changed []records.Group
	for _, g := range records.Groups {
		if input.Len(g) == 0 && translations.Len(g) == 0 {
			continue
		}
		if !reflect.DeepEqual(input.Value(g), translations.Value(g)) {
			changed = append(changed, g)
		}
	}
	return changed
}
