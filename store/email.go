package store

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/nwstranslate/nwskit/consistency"
	"github.com/nwstranslate/nwskit/emails"
)

// EmailTriple is the full record of one template position.
type EmailTriple struct {
	Input        emails.Email `json:"input"`
	Originals    emails.Email `json:"originals"`
	Translations emails.Email `json:"translations"`
}

// EmailState is the durable part of an EmailStore: per group, the triples
// keyed by template number.
type EmailState map[emails.Group]map[int]EmailTriple

func (s EmailState) clone() EmailState {
	out := make(EmailState, len(s))
	for g, m := range s {
		out[g] = maps.Clone(m)
	}
	return out
}

// EmailSet is one slot of many templates: per group, emails keyed by
// template number.
type EmailSet map[emails.Group]map[int]emails.Email

// EmailStore holds the email template datasets.
type EmailStore struct {
	mu    sync.Mutex
	state EmailState
	views views
}

// NewEmailStore returns an empty EmailStore.
func NewEmailStore() *EmailStore {
	return &EmailStore{state: EmailState{}}
}

// Reset drops all templates.
func (s *EmailStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = EmailState{}
	s.views.invalidate()
}

// Snapshot returns a deep copy of the store's state.
func (s *EmailStore) Snapshot() EmailState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Restore replaces the store's state with a copy of st.
func (s *EmailStore) Restore(st EmailState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st.clone()
	s.views.invalidate()
}

// Get returns the triple at (g, nr). Positions never written return an
// all-empty triple.
func (s *EmailStore) Get(g emails.Group, nr int) EmailTriple {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state[g][nr]
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// slot selects one field of a triple.
type slot func(t *EmailTriple) *emails.Email

func inputSlot(t *EmailTriple) *emails.Email        { return &t.Input }
func originalsSlot(t *EmailTriple) *emails.Email    { return &t.Originals }
func translationsSlot(t *EmailTriple) *emails.Email { return &t.Translations }

// write stores set into one slot. Each touched group is rebuilt and assigned
// once; the other two slots of every triple are kept.
func (s *EmailStore) write(set EmailSet, sl slot, only []emails.Group) error {
	for g := range set {
		if !g.Valid() {
			return fmt.Errorf("%w %q", ErrUnknownGroup, g)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, info := range emails.Groups {
		items, ok := set[info.Key]
		if !ok || (len(only) > 0 && !slices.Contains(only, info.Key)) {
			continue
		}
		next := maps.Clone(s.state[info.Key])
		if next == nil {
			next = make(map[int]EmailTriple, len(items))
		}
		for nr, e := range items {
			t := next[nr]
			*sl(&t) = e
			next[nr] = t
		}
		s.state[info.Key] = next
	}
	s.views.invalidate()
	return nil
}

// SetInputs stores draft inputs.
func (s *EmailStore) SetInputs(set EmailSet) error {
	return s.write(set, inputSlot, nil)
}

// SetOriginals stores originals.
func (s *EmailStore) SetOriginals(set EmailSet) error {
	return s.write(set, originalsSlot, nil)
}

// SetTranslations stores translations, restricted to groups when any are
// given.
func (s *EmailStore) SetTranslations(set EmailSet, groups ...emails.Group) error {
	return s.write(set, translationsSlot, groups)
}

// SetTranslation stores the translation of one template.
func (s *EmailStore) SetTranslation(g emails.Group, nr int, e emails.Email) error {
	return s.write(EmailSet{g: {nr: e}}, translationsSlot, nil)
}

// ---------------------------------------------------------------------------
// Derived views
// ---------------------------------------------------------------------------

func (s *EmailStore) project(sl slot) EmailSet {
	out := make(EmailSet, len(s.state))
	for _, info := range emails.Groups {
		triples, ok := s.state[info.Key]
		if !ok {
			continue
		}
		m := make(map[int]emails.Email, len(triples))
		for nr, t := range triples {
			m[nr] = *sl(&t)
		}
		out[info.Key] = m
	}
	return out
}

// Inputs returns the draft inputs per group.
func (s *EmailStore) Inputs() EmailSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project(inputSlot)
}

// Originals returns the originals per group.
func (s *EmailStore) Originals() EmailSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project(originalsSlot)
}

// Translations returns the translations per group.
func (s *EmailStore) Translations() EmailSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project(translationsSlot)
}

// Inconsistencies returns, per group, the originals whose placeholder
// variables the translation does not reproduce. Groups without findings are
// left out.
func (s *EmailStore) Inconsistencies() EmailSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := cached(&s.views, "inconsistencies", func() EmailSet {
		originals := s.project(originalsSlot)
		translations := s.project(translationsSlot)
		out := EmailSet{}
		for _, info := range emails.Groups {
			if bad := consistency.EmailInconsistencies(originals[info.Key], translations[info.Key]); len(bad) > 0 {
				out[info.Key] = bad
			}
		}
		return out
	})
	out := make(EmailSet, len(found))
	for g, m := range found {
		out[g] = maps.Clone(m)
	}
	return out
}

// Items returns every non-empty translation in group order, then by number.
func (s *EmailStore) Items() []emails.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(cached(&s.views, "items", func() []emails.Item {
		var items []emails.Item
		for _, info := range emails.Groups {
			triples := s.state[info.Key]
			for _, nr := range slices.Sorted(maps.Keys(triples)) {
				if t := triples[nr].Translations; !t.IsZero() {
					items = append(items, emails.Item{Group: info.Key, Nr: nr, Email: t})
				}
			}
		}
		return items
	}))
}
