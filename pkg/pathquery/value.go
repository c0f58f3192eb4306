package pathquery

import (
	"bytes"
	"encoding/json"
	"iter"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"
)

// MapEntry is a single key/value pair of a Map.
type MapEntry struct {
	Key   string
	Value any
}

// Map is an insertion-ordered string-keyed mapping, the preferred mapping
// representation for documents. Entry order drives wildcard, descendant,
// filter and regex iteration, which keeps evaluation deterministic.
type Map []MapEntry

// Get returns the value of the first entry with the given key.
func (m Map) Get(key string) (any, bool) {
	for _, entry := range m {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}

// MarshalJSON emits the entries as a JSON object in entry order.
func (m Map) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, entry := range m {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		b.Write(value)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// MarshalYAML emits the entries as a YAML mapping in entry order.
func (m Map) MarshalYAML() (any, error) {
	out := make(yaml.MapSlice, 0, len(m))
	for _, entry := range m {
		out = append(out, yaml.MapItem{Key: entry.Key, Value: entry.Value})
	}
	return out, nil
}

// mappingEntries returns a deterministic iterator over a mapping value.
// Map iterates in entry order; plain map[string]any in sorted key order.
func mappingEntries(doc any) (iter.Seq2[string, any], bool) {
	switch current := doc.(type) {
	case Map:
		return func(yield func(string, any) bool) {
			for _, entry := range current {
				if !yield(entry.Key, entry.Value) {
					return
				}
			}
		}, true
	case map[string]any:
		return func(yield func(string, any) bool) {
			for _, key := range slices.Sorted(maps.Keys(current)) {
				if !yield(key, current[key]) {
					return
				}
			}
		}, true
	default:
		return nil, false
	}
}

func lookupKey(doc any, key string) (any, bool) {
	switch current := doc.(type) {
	case Map:
		return current.Get(key)
	case map[string]any:
		value, ok := current[key]
		return value, ok
	default:
		return nil, false
	}
}

func sequenceValue(doc any) ([]any, bool) {
	seq, ok := doc.([]any)
	return seq, ok
}
