package pathquery

import (
	"errors"
	"iter"
	"testing"
)

// rivalKeyDescriptor collides with the built-in key tag.
type rivalKeyDescriptor struct{}

func (rivalKeyDescriptor) Type() string { return "key" }

func (rivalKeyDescriptor) Parse(string) (Segment, int, error) { return nil, 0, nil }

func (rivalKeyDescriptor) Evaluate(Segment, any) iter.Seq[any] {
	return func(func(any) bool) {}
}

func (rivalKeyDescriptor) Encode(Segment) (Record, error) { return Record{}, nil }

func (rivalKeyDescriptor) Decode(Record) (Segment, error) { return nil, nil }

func TestRegistryDuplicateTag(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(keyDescriptor{}); err != nil {
		t.Fatalf("Register(key) error: %v", err)
	}
	if err := registry.Register(indexDescriptor{}); err != nil {
		t.Fatalf("Register(index) error: %v", err)
	}

	before := registry.Descriptors()

	err := registry.Register(rivalKeyDescriptor{})
	if !errors.Is(err, ErrDuplicateSegmentType) {
		t.Fatalf("Register(duplicate) error = %v, want ErrDuplicateSegmentType", err)
	}

	after := registry.Descriptors()
	if len(after) != len(before) {
		t.Fatalf("failed registration changed the registry: %d descriptors, want %d", len(after), len(before))
	}
	for i := range before {
		if before[i].Type() != after[i].Type() {
			t.Errorf("descriptor %d changed: %q -> %q", i, before[i].Type(), after[i].Type())
		}
	}
}

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(keyDescriptor{}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	d, err := registry.Lookup("key")
	if err != nil {
		t.Fatalf("Lookup(\"key\") error: %v", err)
	}
	if d.Type() != "key" {
		t.Errorf("Lookup(\"key\").Type() = %q, want %q", d.Type(), "key")
	}

	if _, err := registry.Lookup("nope"); !errors.Is(err, ErrUnknownSegmentType) {
		t.Errorf("Lookup(\"nope\") error = %v, want ErrUnknownSegmentType", err)
	}
}

func TestRegistryPreservesOrder(t *testing.T) {
	registry := NewRegistry()
	for _, d := range Builtins() {
		if err := registry.Register(d); err != nil {
			t.Fatalf("Register(%q) error: %v", d.Type(), err)
		}
	}

	want := []string{"key", "index", "slice", "descendant", "wildcard", "filter", "regex_key"}
	got := registry.Descriptors()
	if len(got) != len(want) {
		t.Fatalf("Descriptors() returned %d entries, want %d", len(got), len(want))
	}
	for i, tag := range want {
		if got[i].Type() != tag {
			t.Errorf("Descriptors()[%d].Type() = %q, want %q", i, got[i].Type(), tag)
		}
	}
}

func TestRegisterThroughEngine(t *testing.T) {
	engine := New()
	if err := engine.Register(rivalKeyDescriptor{}); !errors.Is(err, ErrDuplicateSegmentType) {
		t.Errorf("Register(duplicate) error = %v, want ErrDuplicateSegmentType", err)
	}
}
