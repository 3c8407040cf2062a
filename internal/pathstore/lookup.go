package pathstore

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Lookup returns the value stored under key in m.
//
// When the key is missing and create is set, newValue is stored under key
// and returned. The boolean result reports whether a value is returned.
func Lookup[V any](m *orderedmap.OrderedMap[string, V], key string, create bool, newValue func() V) (V, bool) {
	var zero V
	if m == nil {
		return zero, false
	}
	if v, ok := m.Get(key); ok {
		return v, true
	}
	if !create {
		return zero, false
	}
	v := newValue()
	m.Set(key, v)
	return v, true
}
