// Package store holds the working datasets of a translation session: the
// UI strings, the structured JSON records and the email templates.
//
// Each store is an explicit value owned by its caller. All writes go through
// methods that take the store's mutex, build the new value for the affected
// group and assign it once, so readers never observe a half-applied update.
// Derived views (missing items, inconsistencies, projections) are computed
// on demand and cached until the next write.
package store

import (
	"errors"
)

// ErrUnknownGroup is returned when a write names a group that is not part of
// the fixed group set.
var ErrUnknownGroup = errors.New("unknown group")

// views caches derived values between writes. The zero value is ready to use.
type views struct {
	version uint64
	cache   map[string]any
}

// invalidate drops every cached view. Callers hold the store's mutex.
func (v *views) invalidate() {
	v.version++
	v.cache = nil
}

// cached returns the view stored under name, computing it first if the store
// changed since it was last computed. Callers hold the store's mutex.
func cached[T any](v *views, name string, compute func() T) T {
	if val, ok := v.cache[name]; ok {
		return val.(T)
	}
	val := compute()
	if v.cache == nil {
		v.cache = make(map[string]any)
	}
	v.cache[name] = val
	return val
}

// cloneSet deep-copies a key to key-list map.
func cloneSet(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string{}, v...)
	}
	return out
}
