package pathstore

// Seek returns the value stored at the nested path keys under root.
//
// It reports false when any key along the path is absent or when an
// intermediate value is not itself a *Node. It never fails otherwise.
func Seek(root *Node, keys ...string) (any, bool) {
	if root == nil || len(keys) == 0 {
		return nil, false
	}

	level := root
	for _, key := range keys[:len(keys)-1] {
		v, _ := level.Get(key)
		next, ok := v.(*Node)
		if !ok {
			return nil, false
		}
		level = next
	}
	return level.Get(keys[len(keys)-1])
}

// SetOrCreate walks keys under root, creating an empty *Node for every
// missing intermediate key, and stores value at the last key. It returns
// value.
//
// An intermediate value that is not a *Node is replaced by an empty one.
// With no keys nothing is stored.
func SetOrCreate(root *Node, value any, keys ...string) any {
	if root == nil || len(keys) == 0 {
		return value
	}

	level := root
	for _, key := range keys[:len(keys)-1] {
		v, _ := level.Get(key)
		next, ok := v.(*Node)
		if !ok {
			next = NewNode()
			level.Set(key, next)
		}
		level = next
	}
	level.Set(keys[len(keys)-1], value)
	return value
}
