package models

import (
	"fmt"
	"sort"
)

// Metadata is the explicit extension point on entities and inputs. Values
// are restricted to JSON primitives so it never becomes an untyped bag of
// nested objects.
type Metadata map[string]any

// Validate rejects keys that are empty and values that are not primitives.
func (m Metadata) Validate() error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if k == "" {
			return fmt.Errorf("metadata key must not be empty")
		}
		switch m[k].(type) {
		case nil, string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
		default:
			return fmt.Errorf("metadata %q: value of type %T is not a primitive", k, m[k])
		}
	}
	return nil
}

// Clone returns a shallow copy; values are primitives so it is also deep.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
