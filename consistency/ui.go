package consistency

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/nwstranslate/nwskit/placeholder"
	"github.com/nwstranslate/nwskit/uifile"
)

// internalPrefix marks NWP bookkeeping keys such as ____GENERAL____.
const internalPrefix = "____"

// TermUse is a reference entry that embeds a term, with its current
// translation.
type TermUse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TermConflict is a two-word term whose translation is not reused by
// entries that embed it.
type TermConflict struct {
	Key         string    `json:"key"`
	Original    string    `json:"original"`
	Translation string    `json:"translation"`
	Others      []TermUse `json:"others"`
}

// IsTerm reports whether a reference value is a candidate term: exactly
// two words separated by a single space.
func IsTerm(value string) bool {
	return len(strings.Split(value, " ")) == 2
}

// InconsistentTerms checks that every two-word reference term is translated
// the same way inside longer reference entries that embed it. An entry
// embeds a term when its value ends with the term or contains the term
// followed by a space.
//
// A match is dropped when consistent[termKey] lists the entry, or when the
// entry's translation already contains the term's translation (ignoring
// case). An untranslated term therefore never conflicts.
func InconsistentTerms(reference, translations *uifile.File, consistent map[string][]string) []TermConflict {
	fold := cases.Fold()
	keys := reference.Keys()

	var conflicts []TermConflict
	for _, key := range keys {
		term := reference.Value(key)
		if !IsTerm(term) {
			continue
		}
		termTr := fold.String(translations.Value(key))

		var others []TermUse
		for _, k := range keys {
			if k == key || slices.Contains(consistent[key], k) {
				continue
			}
			v := reference.Value(k)
			if !strings.HasSuffix(v, term) && !strings.Contains(v, term+" ") {
				continue
			}
			tr := translations.Value(k)
			if strings.Contains(fold.String(tr), termTr) {
				continue
			}
			others = append(others, TermUse{Key: k, Value: tr})
		}
		if len(others) == 0 {
			continue
		}
		conflicts = append(conflicts, TermConflict{
			Key:         key,
			Original:    term,
			Translation: translations.Value(key),
			Others:      others,
		})
	}
	return conflicts
}

// UIMismatch is a key translated differently in NWP and NWS.
type UIMismatch struct {
	Key string `json:"key"`
	NWP string `json:"nwp"`
	NWS string `json:"nws"`
}

// NWPKeys returns the NWP keys without internal bookkeeping keys.
func NWPKeys(nwp *uifile.File) []string {
	var keys []string
	for _, k := range nwp.Keys() {
		if !strings.HasPrefix(k, internalPrefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

// UIInconsistencies compares the NWP translation of every NWP key that is
// also a known NWS key with the NWS translation. Keys listed in consistent
// are skipped. Absent values compare as "".
func UIInconsistencies(nwp, translations *uifile.File, known []string, consistent []string) []UIMismatch {
	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[k] = true
	}

	var out []UIMismatch
	for _, key := range NWPKeys(nwp) {
		if !knownSet[key] || slices.Contains(consistent, key) {
			continue
		}
		a, b := nwp.Value(key), translations.Value(key)
		if a != b {
			out = append(out, UIMismatch{Key: key, NWP: a, NWS: b})
		}
	}
	return out
}

// PlaceholderMismatch is a translated UI string whose placeholder variables
// differ from its reference.
type PlaceholderMismatch struct {
	Key     string   `json:"key"`
	Missing []string `json:"missing,omitempty"`
	Extra   []string `json:"extra,omitempty"`
}

// UIPlaceholders returns, in reference order, the non-empty translations
// whose placeholder variables do not match the reference value.
func UIPlaceholders(reference, translations *uifile.File) []PlaceholderMismatch {
	var out []PlaceholderMismatch
	for _, k := range reference.Keys() {
		ref := reference.Value(k)
		tr, ok := translations.Get(k)
		if !ok || tr == "" || placeholder.Match(ref, tr) {
			continue
		}
		out = append(out, PlaceholderMismatch{
			Key:     k,
			Missing: placeholder.Missing(ref, tr),
			Extra:   placeholder.Extra(ref, tr),
		})
	}
	return out
}

// MissingUI returns the reference keys that have no translation entry.
// An empty translation counts as present.
func MissingUI(reference, translations *uifile.File) []string {
	var missing []string
	for _, k := range reference.Keys() {
		if !translations.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// MissingNWP returns the NWP keys whose translation is empty.
func MissingNWP(nwp *uifile.File) []string {
	var missing []string
	for _, k := range NWPKeys(nwp) {
		if nwp.Value(k) == "" {
			missing = append(missing, k)
		}
	}
	return missing
}

// UnionKeys returns the translation keys followed by the reference keys
// that are not translated, without duplicates.
func UnionKeys(translations, reference *uifile.File) []string {
	keys := translations.Keys()
	seen := make(map[string]bool, len(keys)+reference.Len())
	for _, k := range keys {
		seen[k] = true
	}
	for _, k := range reference.Keys() {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}
