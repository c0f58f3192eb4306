package pathquery

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestMapGet(t *testing.T) {
	m := Map{
		{Key: "a", Value: int64(1)},
		{Key: "b", Value: int64(2)},
		{Key: "a", Value: int64(3)},
	}

	value, ok := m.Get("a")
	if !ok {
		t.Fatal("Get(\"a\") reported missing")
	}
	if value != int64(1) {
		t.Errorf("Get(\"a\") = %v, want first entry value 1", value)
	}

	if _, ok := m.Get("missing"); ok {
		t.Error("Get(\"missing\") reported present")
	}
}

func TestMapMarshalJSONPreservesOrder(t *testing.T) {
	m := Map{
		{Key: "z", Value: int64(1)},
		{Key: "a", Value: Map{{Key: "nested", Value: "x"}}},
		{Key: "m", Value: []any{int64(1), int64(2)}},
	}

	payload, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}

	want := `{"z":1,"a":{"nested":"x"},"m":[1,2]}`
	if string(payload) != want {
		t.Errorf("json.Marshal() = %s, want %s", payload, want)
	}
}

func TestMapMarshalYAMLPreservesOrder(t *testing.T) {
	m := Map{
		{Key: "z", Value: int64(1)},
		{Key: "a", Value: "two"},
	}

	payload, err := yaml.Marshal(m)
	if err != nil {
		t.Fatalf("yaml.Marshal() error: %v", err)
	}

	want := "z: 1\na: two\n"
	if string(payload) != want {
		t.Errorf("yaml.Marshal() = %q, want %q", payload, want)
	}
}

func TestMappingEntriesOrder(t *testing.T) {
	ordered, ok := mappingEntries(Map{
		{Key: "b", Value: int64(1)},
		{Key: "a", Value: int64(2)},
	})
	if !ok {
		t.Fatal("mappingEntries(Map) reported not a mapping")
	}
	var keys []string
	for key := range ordered {
		keys = append(keys, key)
	}
	if !reflect.DeepEqual(keys, []string{"b", "a"}) {
		t.Errorf("Map iteration order = %v, want entry order", keys)
	}

	sorted, ok := mappingEntries(map[string]any{"b": 1, "c": 2, "a": 3})
	if !ok {
		t.Fatal("mappingEntries(map) reported not a mapping")
	}
	keys = nil
	for key := range sorted {
		keys = append(keys, key)
	}
	if !reflect.DeepEqual(keys, []string{"a", "b", "c"}) {
		t.Errorf("map iteration order = %v, want sorted keys", keys)
	}

	if _, ok := mappingEntries([]any{1}); ok {
		t.Error("mappingEntries([]any) reported a mapping")
	}
}
