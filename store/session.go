package store

import (
	"encoding/json"
	"fmt"
)

// State is the complete durable state of a Session.
type State struct {
	UI    UIState    `json:"ui"`
	JSON  JSONState  `json:"json"`
	Email EmailState `json:"email"`
}

// Marshal encodes the state for storage.
func (st State) Marshal() ([]byte, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// UnmarshalState decodes a state written by State.Marshal.
func UnmarshalState(data []byte) (State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("decoding state: %w", err)
	}
	return st, nil
}

// Session groups the three stores of one translation session.
type Session struct {
	UI    *UIStore
	JSON  *JSONStore
	Email *EmailStore
}

// NewSession returns a session with empty stores.
func NewSession() *Session {
	return &Session{
		UI:    NewUIStore(),
		JSON:  NewJSONStore(),
		Email: NewEmailStore(),
	}
}

// Snapshot returns a copy of every store's state. Each store is copied under
// its own lock.
func (s *Session) Snapshot() State {
	return State{
		UI:    s.UI.Snapshot(),
		JSON:  s.JSON.Snapshot(),
		Email: s.Email.Snapshot(),
	}
}

// Restore replaces every store's state.
func (s *Session) Restore(st State) {
	s.UI.Restore(st.UI)
	s.JSON.Restore(st.JSON)
	s.Email.Restore(st.Email)
}

// Reset empties every store.
func (s *Session) Reset() {
	s.UI.Reset()
	s.JSON.Reset()
	s.Email.Reset()
}
