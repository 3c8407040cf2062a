package receipts

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/iancoleman/orderedmap"
)

// Extra holds the members of a JSON object that the typed record does not
// declare, in input order, so they survive a load and save cycle.
type Extra struct {
	keys   []string
	values map[string]json.RawMessage
}

// Keys returns the unknown member names in input order.
func (e Extra) Keys() []string {
	return slices.Clone(e.keys)
}

// Get returns the raw JSON of the unknown member key.
func (e Extra) Get(key string) (json.RawMessage, bool) {
	v, ok := e.values[key]
	return v, ok
}

// splitExtra collects the members of the object data whose names are not
// listed in known.
func splitExtra(data []byte, known ...string) (Extra, error) {
	order := orderedmap.New()
	if err := json.Unmarshal(data, order); err != nil {
		return Extra{}, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Extra{}, err
	}

	var e Extra
	for _, k := range order.Keys() {
		if slices.Contains(known, k) {
			continue
		}
		if e.values == nil {
			e.values = make(map[string]json.RawMessage)
		}
		e.keys = append(e.keys, k)
		e.values[k] = raw[k]
	}
	return e, nil
}

// appendTo adds the unknown members after the last member of the encoded
// object obj.
func (e Extra) appendTo(obj []byte) ([]byte, error) {
	if len(e.keys) == 0 {
		return obj, nil
	}

	obj = bytes.TrimRight(obj, " \n")
	var buf bytes.Buffer
	buf.Write(obj[:len(obj)-1])
	for _, k := range e.keys {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(e.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
