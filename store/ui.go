package store

import (
	"slices"
	"sync"

	"github.com/nwstranslate/nwskit/consistency"
	"github.com/nwstranslate/nwskit/uifile"
)

// UIState is the durable part of a UIStore.
type UIState struct {
	// ConsistentNWS maps a term key to the embedding keys the user marked
	// as consistent with it.
	ConsistentNWS map[string][]string `json:"consistentNWS"`
	// ConsistentUI lists the keys whose NWP/NWS difference was accepted.
	ConsistentUI []string `json:"consistentUI"`

	NWPString       string       `json:"nwpString,omitempty"`
	NWPTranslations *uifile.File `json:"nwpTranslations,omitempty"`

	// OriginalsString is the raw reference (source-language) file.
	OriginalsString string       `json:"originalsString"`
	Translations    *uifile.File `json:"translations"`
	// TranslationsString is the raw translation file last pulled from the
	// remote side. It is not applied until ApplyRemote.
	TranslationsString string `json:"translationsString"`
}

func (s UIState) clone() UIState {
	out := s
	out.ConsistentNWS = cloneSet(s.ConsistentNWS)
	out.ConsistentUI = append([]string{}, s.ConsistentUI...)
	if s.NWPTranslations != nil {
		out.NWPTranslations = s.NWPTranslations.Clone()
	}
	out.Translations = s.Translations.Clone()
	return out
}

// UIStore holds the UI-string datasets and the override markers.
type UIStore struct {
	mu    sync.Mutex
	state UIState
	views views
}

// NewUIStore returns an empty UIStore.
func NewUIStore() *UIStore {
	s := &UIStore{}
	s.reset()
	return s
}

func (s *UIStore) reset() {
	s.state = UIState{
		ConsistentNWS: map[string][]string{},
		ConsistentUI:  []string{},
		Translations:  uifile.New(),
	}
	s.views.invalidate()
}

// Reset drops all UI data and markers.
func (s *UIStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Snapshot returns a deep copy of the store's state.
func (s *UIStore) Snapshot() UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Restore replaces the store's state with a copy of st.
func (s *UIStore) Restore(st UIState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st.clone()
	s.views.invalidate()
}

// update applies fn to a copy of the state and commits it in one assignment.
func (s *UIStore) update(fn func(st *UIState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.clone()
	fn(&next)
	s.state = next
	s.views.invalidate()
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// SetOriginals stores the raw reference file.
func (s *UIStore) SetOriginals(text string) {
	s.update(func(st *UIState) { st.OriginalsString = text })
}

// SetTranslations replaces the working translations with a copy of f.
func (s *UIStore) SetTranslations(f *uifile.File) {
	s.update(func(st *UIState) { st.Translations = f.Clone() })
}

// SetTranslation sets one working translation.
func (s *UIStore) SetTranslation(key, value string) {
	s.update(func(st *UIState) { st.Translations.Set(key, value) })
}

// SetRemoteTranslations stores the raw remote translation file.
func (s *UIStore) SetRemoteTranslations(text string) {
	s.update(func(st *UIState) { st.TranslationsString = text })
}

// ApplyRemote adopts the parsed remote translations as working
// translations. It reports false when no remote file is stored.
func (s *UIStore) ApplyRemote() bool {
	applied := false
	s.update(func(st *UIState) {
		if st.TranslationsString == "" {
			return
		}
		st.Translations = uifile.Parse(st.TranslationsString)
		applied = true
	})
	return applied
}

// SetNWP stores the raw NWP file together with its parsed mapping.
func (s *UIStore) SetNWP(text string) {
	s.update(func(st *UIState) {
		st.NWPString = text
		st.NWPTranslations = uifile.Parse(text)
	})
}

// MarkNWSConsistent suppresses the term conflict between key and other.
func (s *UIStore) MarkNWSConsistent(key, other string) {
	s.update(func(st *UIState) {
		if !slices.Contains(st.ConsistentNWS[key], other) {
			st.ConsistentNWS[key] = append(st.ConsistentNWS[key], other)
		}
	})
}

// MarkUIConsistent accepts the NWP/NWS difference of key.
func (s *UIStore) MarkUIConsistent(key string) {
	s.update(func(st *UIState) {
		if !slices.Contains(st.ConsistentUI, key) {
			st.ConsistentUI = append(st.ConsistentUI, key)
		}
	})
}

// ClearConsistentKeys removes the markers that involve any of keys. A listed
// term key keeps its entry with an empty suppression set; listed keys are
// dropped from every other suppression set and from the UI markers.
func (s *UIStore) ClearConsistentKeys(keys []string) {
	s.update(func(st *UIState) {
		for k, others := range st.ConsistentNWS {
			if slices.Contains(keys, k) {
				st.ConsistentNWS[k] = []string{}
				continue
			}
			st.ConsistentNWS[k] = slices.DeleteFunc(others, func(o string) bool {
				return slices.Contains(keys, o)
			})
		}
		st.ConsistentUI = slices.DeleteFunc(st.ConsistentUI, func(k string) bool {
			return slices.Contains(keys, k)
		})
	})
}

// ClearAllConsistent removes every override marker.
func (s *UIStore) ClearAllConsistent() {
	s.update(func(st *UIState) {
		st.ConsistentNWS = map[string][]string{}
		st.ConsistentUI = []string{}
	})
}

// ---------------------------------------------------------------------------
// Derived views
// ---------------------------------------------------------------------------

func (s *UIStore) references() *uifile.File {
	return cached(&s.views, "references", func() *uifile.File {
		return uifile.Parse(s.state.OriginalsString)
	})
}

func (s *UIStore) keys() []string {
	return cached(&s.views, "keys", func() []string {
		return consistency.UnionKeys(s.state.Translations, s.references())
	})
}

// References returns the parsed reference file.
func (s *UIStore) References() *uifile.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.references().Clone()
}

// Translations returns a copy of the working translations.
func (s *UIStore) Translations() *uifile.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Translations.Clone()
}

// RemoteTranslations returns the parsed remote translation file.
func (s *UIStore) RemoteTranslations() *uifile.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cached(&s.views, "remoteTranslations", func() *uifile.File {
		return uifile.Parse(s.state.TranslationsString)
	}).Clone()
}

// RemoteNWP returns the parsed raw NWP file.
func (s *UIStore) RemoteNWP() *uifile.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cached(&s.views, "remoteNWP", func() *uifile.File {
		return uifile.Parse(s.state.NWPString)
	}).Clone()
}

// NWPTranslations returns a copy of the parsed NWP mapping, or nil when no
// NWP file was imported.
func (s *UIStore) NWPTranslations() *uifile.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.NWPTranslations == nil {
		return nil
	}
	return s.state.NWPTranslations.Clone()
}

// Keys returns the translation keys followed by untranslated reference keys.
func (s *UIStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.keys())
}

// NWPKeys returns the NWP keys without internal bookkeeping keys.
func (s *UIStore) NWPKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(cached(&s.views, "nwpKeys", func() []string {
		return consistency.NWPKeys(s.state.NWPTranslations)
	}))
}

// MissingNWS returns the reference keys without a working translation.
func (s *UIStore) MissingNWS() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(cached(&s.views, "missingNWS", func() []string {
		return consistency.MissingUI(s.references(), s.state.Translations)
	}))
}

// MissingNWP returns the NWP keys with an empty translation.
func (s *UIStore) MissingNWP() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(cached(&s.views, "missingNWP", func() []string {
		return consistency.MissingNWP(s.state.NWPTranslations)
	}))
}

// InconsistentNWS returns the term conflicts that are not suppressed.
func (s *UIStore) InconsistentNWS() []consistency.TermConflict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(cached(&s.views, "inconsistentNWS", func() []consistency.TermConflict {
		return consistency.InconsistentTerms(s.references(), s.state.Translations, s.state.ConsistentNWS)
	}))
}

// UIInconsistencies returns the keys translated differently in NWP and NWS.
func (s *UIStore) UIInconsistencies() []consistency.UIMismatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(cached(&s.views, "uiInconsistencies", func() []consistency.UIMismatch {
		return consistency.UIInconsistencies(s.state.NWPTranslations, s.state.Translations, s.keys(), s.state.ConsistentUI)
	}))
}

// PlaceholderMismatches returns the translations whose placeholder
// variables differ from the reference.
func (s *UIStore) PlaceholderMismatches() []consistency.PlaceholderMismatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(cached(&s.views, "placeholders", func() []consistency.PlaceholderMismatch {
		return consistency.UIPlaceholders(s.references(), s.state.Translations)
	}))
}

// ConsistentNWS returns a copy of the term markers.
func (s *UIStore) ConsistentNWS() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSet(s.state.ConsistentNWS)
}

// ConsistentUI returns a copy of the UI markers.
func (s *UIStore) ConsistentUI() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.ConsistentUI)
}
