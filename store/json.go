package store

import (
	"slices"
	"sync"

	"github.com/nwstranslate/nwskit/consistency"
	"github.com/nwstranslate/nwskit/records"
)

// JSONState is the durable part of a JSONStore. Each bundle holds one slot
// of every group's {input, originals, translations} triple; a nil slice is
// an empty slot.
type JSONState struct {
	Input        records.Bundle `json:"input"`
	Originals    records.Bundle `json:"originals"`
	Translations records.Bundle `json:"translations"`
}

func (s JSONState) clone() JSONState {
	return JSONState{
		Input:        cloneBundle(s.Input),
		Originals:    cloneBundle(s.Originals),
		Translations: cloneBundle(s.Translations),
	}
}

func cloneBundle(b records.Bundle) records.Bundle {
	return records.Bundle{
		Literature: slices.Clone(b.Literature),
		Outlines:   slices.Clone(b.Outlines),
		Songs:      slices.Clone(b.Songs),
		Tips:       slices.Clone(b.Tips),
	}
}

// JSONStore holds the structured record datasets.
type JSONStore struct {
	mu    sync.Mutex
	state JSONState
	views views
}

// NewJSONStore returns an empty JSONStore.
func NewJSONStore() *JSONStore {
	return &JSONStore{}
}

// Reset drops all record data.
func (s *JSONStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = JSONState{}
	s.views.invalidate()
}

// Snapshot returns a deep copy of the store's state.
func (s *JSONStore) Snapshot() JSONState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Restore replaces the store's state with a copy of st.
func (s *JSONStore) Restore(st JSONState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st.clone()
	s.views.invalidate()
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// SetInput replaces the draft input of every group b provides. Other groups
// and the originals and translations slots are left untouched.
func (s *JSONStore) SetInput(b records.Bundle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Input = s.state.Input.With(cloneBundle(b))
	s.views.invalidate()
}

// SetOriginals replaces the originals of every group b provides.
func (s *JSONStore) SetOriginals(b records.Bundle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Originals = s.state.Originals.With(cloneBundle(b))
	s.views.invalidate()
}

// SetTranslations replaces the translations of every group b provides,
// restricted to groups when any are given.
func (s *JSONStore) SetTranslations(b records.Bundle, groups ...records.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Translations = s.state.Translations.With(cloneBundle(b), groups...)
	s.views.invalidate()
}

// FixInconsistentTips sets the translated heading of the tips at indices to
// heading. Indices without a translated tip are skipped. It returns the
// number of tips rewritten.
func (s *JSONStore) FixInconsistentTips(heading string, indices []int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	tips := slices.Clone(s.state.Translations.Tips)
	n := 0
	for _, i := range indices {
		if i < 0 || i >= len(tips) {
			continue
		}
		tips[i].Heading = heading
		n++
	}
	if n == 0 {
		return 0
	}
	s.state.Translations.Tips = tips
	s.views.invalidate()
	return n
}

// ---------------------------------------------------------------------------
// Derived views
// ---------------------------------------------------------------------------

// Input returns the draft input of every group.
func (s *JSONStore) Input() records.Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBundle(s.state.Input)
}

// Originals returns the originals of every group.
func (s *JSONStore) Originals() records.Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBundle(s.state.Originals)
}

// Translations returns the translations of every group.
func (s *JSONStore) Translations() records.Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBundle(s.state.Translations)
}

func (s *JSONStore) MissingLiterature() []records.LiteratureItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(cached(&s.views, "missingLiterature", func() []records.LiteratureItem {
		return consistency.MissingLiterature(s.state.Originals.Literature, s.state.Translations.Literature)
	}))
}

func (s *JSONStore) MissingOutlines() []records.Outline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(cached(&s.views, "missingOutlines", func() []records.Outline {
		return consistency.MissingOutlines(s.state.Originals.Outlines, s.state.Translations.Outlines)
	}))
}

func (s *JSONStore) MissingSongs() []records.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(cached(&s.views, "missingSongs", func() []records.Song {
		return consistency.MissingSongs(s.state.Originals.Songs, s.state.Translations.Songs)
	}))
}

func (s *JSONStore) MissingTips() []records.Tip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(cached(&s.views, "missingTips", func() []records.Tip {
		return consistency.MissingTips(s.state.Originals.Tips, s.state.Translations.Tips)
	}))
}

// WrongLiterature returns the literature fields changed by translation.
func (s *JSONStore) WrongLiterature() []consistency.FieldMismatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(cached(&s.views, "wrongLiterature", func() []consistency.FieldMismatch {
		return consistency.WrongLiterature(s.state.Originals.Literature, s.state.Translations.Literature)
	}))
}

// InconsistentTips returns the shared headings translated in more than one
// way.
func (s *JSONStore) InconsistentTips() []consistency.TipConflict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(cached(&s.views, "inconsistentTips", func() []consistency.TipConflict {
		return consistency.InconsistentTips(s.state.Originals.Tips, s.state.Translations.Tips)
	}))
}

// ChangedGroups returns the groups whose draft input differs from their
// translations.
func (s *JSONStore) ChangedGroups() []records.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(cached(&s.views, "changedGroups", func() []records.Group {
		return consistency.ChangedGroups(s.state.Input, s.state.Translations)
	}))
}
