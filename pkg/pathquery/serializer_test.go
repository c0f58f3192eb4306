package pathquery

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestMarshalASTFieldSets(t *testing.T) {
	engine := New()
	p, err := engine.Parse("store['a key'][3][1:10:2].**.*[?(@.price < 10)].~r/^b/i")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	records, err := engine.MarshalAST(p)
	if err != nil {
		t.Fatalf("MarshalAST() error: %v", err)
	}

	want := []Record{
		{"$type": "key", "name": "store"},
		{"$type": "key", "name": "a key"},
		{"$type": "index", "index": 3},
		{"$type": "slice", "start": 1, "stop": 10, "step": 2},
		{"$type": "descendant"},
		{"$type": "wildcard"},
		{"$type": "filter", "predicate": "@.price < 10"},
		{"$type": "regex_key", "pattern": "^b", "flags": "i"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("MarshalAST() = %v, want %v", records, want)
	}
}

func TestMarshalASTOmitsAbsentSliceBounds(t *testing.T) {
	engine := New()
	p, err := engine.Parse("book[::-1]")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	records, err := engine.MarshalAST(p)
	if err != nil {
		t.Fatalf("MarshalAST() error: %v", err)
	}

	want := []Record{
		{"$type": "key", "name": "book"},
		{"$type": "slice", "step": -1},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("MarshalAST() = %v, want %v", records, want)
	}
}

func TestASTRoundTrip(t *testing.T) {
	paths := []string{
		"store.book[*].title",
		"store['a key'][3][1:10:2].**.*[?(@.price < 10 and @.category == 'fiction')].~r/^ab\\/c$/im",
		"book[-1][:2][::-1]",
		"[?(not @.done)]",
		"",
	}

	engine := New()
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			p, err := engine.Parse(path)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", path, err)
			}

			records, err := engine.MarshalAST(p)
			if err != nil {
				t.Fatalf("MarshalAST() error: %v", err)
			}
			back, err := engine.UnmarshalAST(records)
			if err != nil {
				t.Fatalf("UnmarshalAST() error: %v", err)
			}
			if !back.Equal(p) {
				t.Errorf("round trip changed the path: %v -> %v", p, back)
			}
		})
	}
}

func TestASTRoundTripThroughJSON(t *testing.T) {
	engine := New()
	p, err := engine.Parse("store.book[0][1:3][?(@.price < 10)].~r/^b/i.*.**")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	records, err := engine.MarshalAST(p)
	if err != nil {
		t.Fatalf("MarshalAST() error: %v", err)
	}

	payload, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}

	var decoded []Record
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	back, err := engine.UnmarshalAST(decoded)
	if err != nil {
		t.Fatalf("UnmarshalAST() error: %v", err)
	}
	if !back.Equal(p) {
		t.Errorf("JSON round trip changed the path: %v -> %v", p, back)
	}
}

func TestUnmarshalASTErrors(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    error
	}{
		{
			name:    "unknown_tag",
			records: []Record{{"$type": "nope"}},
			want:    ErrUnknownSegmentType,
		},
		{
			name:    "missing_tag",
			records: []Record{{"name": "store"}},
			want:    ErrMalformedRecord,
		},
		{
			name:    "mistyped_tag",
			records: []Record{{"$type": 7}},
			want:    ErrMalformedRecord,
		},
		{
			name:    "key_missing_name",
			records: []Record{{"$type": "key"}},
			want:    ErrMalformedRecord,
		},
		{
			name:    "key_mistyped_name",
			records: []Record{{"$type": "key", "name": 42}},
			want:    ErrMalformedRecord,
		},
		{
			name:    "index_missing",
			records: []Record{{"$type": "index"}},
			want:    ErrMalformedRecord,
		},
		{
			name:    "index_fractional",
			records: []Record{{"$type": "index", "index": 1.5}},
			want:    ErrMalformedRecord,
		},
		{
			name:    "slice_step_zero",
			records: []Record{{"$type": "slice", "step": 0}},
			want:    ErrMalformedRecord,
		},
		{
			name:    "slice_mistyped_bound",
			records: []Record{{"$type": "slice", "start": "x"}},
			want:    ErrMalformedRecord,
		},
		{
			name:    "filter_missing_predicate",
			records: []Record{{"$type": "filter"}},
			want:    ErrMalformedRecord,
		},
		{
			name:    "filter_invalid_predicate",
			records: []Record{{"$type": "filter", "predicate": "price <"}},
			want:    ErrMalformedRecord,
		},
		{
			name:    "regex_missing_flags",
			records: []Record{{"$type": "regex_key", "pattern": "^a"}},
			want:    ErrMalformedRecord,
		},
		{
			name:    "regex_invalid_pattern",
			records: []Record{{"$type": "regex_key", "pattern": "a(", "flags": ""}},
			want:    ErrMalformedRecord,
		},
		{
			name: "no_partial_path_before_unknown_tag",
			records: []Record{
				{"$type": "key", "name": "store"},
				{"$type": "nope"},
			},
			want: ErrUnknownSegmentType,
		},
	}

	engine := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := engine.UnmarshalAST(tt.records)
			if !errors.Is(err, tt.want) {
				t.Fatalf("UnmarshalAST() error = %v, want %v", err, tt.want)
			}
			if p != nil {
				t.Errorf("UnmarshalAST() returned partial path %v on error", p)
			}
		})
	}
}

func TestMarshalASTUnregisteredSegment(t *testing.T) {
	engine := NewEmpty()
	if err := engine.Register(keyDescriptor{}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	p := Path{KeySegment{Name: "a"}, WildcardSegment{}}
	if _, err := engine.MarshalAST(p); !errors.Is(err, ErrUnknownSegmentType) {
		t.Errorf("MarshalAST() error = %v, want ErrUnknownSegmentType", err)
	}
}

func TestUnmarshalASTAcceptsJSONNumbers(t *testing.T) {
	engine := New()
	records := []Record{
		{"$type": "index", "index": json.Number("3")},
		{"$type": "slice", "start": float64(1), "stop": json.Number("5")},
	}

	p, err := engine.UnmarshalAST(records)
	if err != nil {
		t.Fatalf("UnmarshalAST() error: %v", err)
	}
	want := Path{
		IndexSegment{Index: 3},
		SliceSegment{Start: intPtr(1), Stop: intPtr(5)},
	}
	if !p.Equal(want) {
		t.Errorf("UnmarshalAST() = %v, want %v", p, want)
	}
}
