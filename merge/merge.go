// Package merge lines a translation file up with its reference file,
// the way msgmerge lines a PO file up with its template.
package merge

import (
	"github.com/nwstranslate/nwskit/uifile"
)

// Merge returns the translations reordered to follow the reference.
//   - Translated reference keys come first, in reference order.
//   - Reference keys without a translation entry are left out.
//   - Keys that are no longer in the reference are kept at the end.
//   - A reserved NWP key in translations stays first so the result keeps
//     quoted syntax.
func Merge(reference, translations *uifile.File) *uifile.File {
	result := uifile.New()

	if v, ok := translations.Get(uifile.ReservedKey); ok {
		result.Set(uifile.ReservedKey, v)
	}

	// Process reference entries in order
	for _, key := range reference.Keys() {
		if key == uifile.ReservedKey {
			continue
		}
		if v, ok := translations.Get(key); ok {
			result.Set(key, v)
		}
	}

	// Append keys the reference no longer has
	for _, key := range Obsolete(reference, translations) {
		result.Set(key, translations.Value(key))
	}

	return result
}

// Obsolete returns the translation keys missing from the reference, in
// translation order. The reserved NWP key is never obsolete.
func Obsolete(reference, translations *uifile.File) []string {
	var keys []string
	for _, key := range translations.Keys() {
		if key != uifile.ReservedKey && !reference.Has(key) {
			keys = append(keys, key)
		}
	}
	return keys
}
