// Package pathstore provides get-or-create access to trees of nested
// mappings addressed by an ordered sequence of keys.
//
// Two flavours are offered:
//
//   - Node, an insertion-ordered JSON object used for raw documents whose
//     shape is not known yet (see Seek, SetOrCreate and Decode);
//   - Lookup, a typed get-or-create helper over ordered maps once a document
//     has been decoded into concrete records.
//
// Every mapping created here keeps keys in insertion order so that listings
// built on top of it are stable.
package pathstore

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/iancoleman/orderedmap"
)

// Node is an insertion-ordered JSON object. After Decode, values are one of
// *Node, []any, float64, string, bool or nil.
type Node = orderedmap.OrderedMap

// NewNode returns an empty Node.
func NewNode() *Node {
	return orderedmap.New()
}

// ErrNotObject is returned by Decode when the top-level value is not a JSON
// object.
var ErrNotObject = errors.New("top-level value is not an object")

// Decode parses data into a Node, keeping the key order of the input at
// every level.
func Decode(data []byte) (*Node, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return nil, ErrNotObject
	}

	root := NewNode()
	if err := json.Unmarshal(data, root); err != nil {
		return nil, err
	}
	adopt(root)
	return root, nil
}

// adopt replaces nested objects, which the decoder stores by value, with
// pointers so they can be changed in place.
func adopt(n *Node) {
	for _, k := range n.Keys() {
		v, _ := n.Get(k)
		n.Set(k, adoptValue(v))
	}
}

func adoptValue(v any) any {
	switch t := v.(type) {
	case orderedmap.OrderedMap:
		p := &t
		adopt(p)
		return p
	case *orderedmap.OrderedMap:
		adopt(t)
		return t
	case []any:
		for i := range t {
			t[i] = adoptValue(t[i])
		}
		return t
	default:
		return v
	}
}
