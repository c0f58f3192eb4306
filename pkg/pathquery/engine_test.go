package pathquery

import (
	"errors"
	"iter"
	"reflect"
	"strings"
	"testing"
)

func storeDoc() Map {
	return Map{
		{Key: "store", Value: Map{
			{Key: "book", Value: []any{
				Map{
					{Key: "category", Value: "reference"},
					{Key: "author", Value: "Nigel Rees"},
					{Key: "title", Value: "Sayings of the Century"},
					{Key: "price", Value: 8.95},
				},
				Map{
					{Key: "category", Value: "fiction"},
					{Key: "author", Value: "Evelyn Waugh"},
					{Key: "title", Value: "Sword of Honour"},
					{Key: "price", Value: 12.99},
				},
				Map{
					{Key: "category", Value: "fiction"},
					{Key: "author", Value: "Herman Melville"},
					{Key: "title", Value: "Moby Dick"},
					{Key: "isbn", Value: "0-553-21311-3"},
					{Key: "price", Value: 8.99},
				},
				Map{
					{Key: "category", Value: "fiction"},
					{Key: "author", Value: "J. R. R. Tolkien"},
					{Key: "title", Value: "The Lord of the Rings"},
					{Key: "isbn", Value: "0-395-19395-8"},
					{Key: "price", Value: 22.99},
				},
			}},
			{Key: "bicycle", Value: Map{
				{Key: "color", Value: "red"},
				{Key: "price", Value: int64(399)},
			}},
		}},
	}
}

func TestFindAll(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		expect []any
	}{
		{
			name:   "wildcard_titles",
			path:   "store.book[*].title",
			expect: []any{"Sayings of the Century", "Sword of Honour", "Moby Dick", "The Lord of the Rings"},
		},
		{
			name:   "wildcard_authors",
			path:   "store.book[*].author",
			expect: []any{"Nigel Rees", "Evelyn Waugh", "Herman Melville", "J. R. R. Tolkien"},
		},
		{
			name:   "descendant_prices",
			path:   "store.**.price",
			expect: []any{8.95, 12.99, 8.99, 22.99, int64(399)},
		},
		{
			name:   "descendant_color",
			path:   "**.color",
			expect: []any{"red"},
		},
		{
			name:   "index",
			path:   "store.book[2].title",
			expect: []any{"Moby Dick"},
		},
		{
			name:   "negative_index",
			path:   "store.book[-1].title",
			expect: []any{"The Lord of the Rings"},
		},
		{
			name:   "slice_first_two",
			path:   "store.book[:2].title",
			expect: []any{"Sayings of the Century", "Sword of Honour"},
		},
		{
			name:   "slice_middle",
			path:   "store.book[1:3].title",
			expect: []any{"Sword of Honour", "Moby Dick"},
		},
		{
			name:   "slice_every_second",
			path:   "store.book[::2].title",
			expect: []any{"Sayings of the Century", "Moby Dick"},
		},
		{
			name:   "slice_reversed",
			path:   "store.book[::-1].title",
			expect: []any{"The Lord of the Rings", "Moby Dick", "Sword of Honour", "Sayings of the Century"},
		},
		{
			name:   "slice_open_start",
			path:   "store.book[1:].author",
			expect: []any{"Evelyn Waugh", "Herman Melville", "J. R. R. Tolkien"},
		},
		{
			name:   "filter_cheap_books",
			path:   "store.book[?(@.price < 10)].title",
			expect: []any{"Sayings of the Century", "Moby Dick"},
		},
		{
			name:   "filter_connectives",
			path:   "store.book[?(@.category == 'fiction' and @.price < 10)].title",
			expect: []any{"Moby Dick"},
		},
		{
			name:   "filter_existence",
			path:   "store.book[?(@.isbn)].title",
			expect: []any{"Moby Dick", "The Lord of the Rings"},
		},
		{
			name:   "filter_negated_existence",
			path:   "store.book[?(not @.isbn)].title",
			expect: []any{"Sayings of the Century", "Sword of Honour"},
		},
		{
			name:   "mapping_wildcard_in_order",
			path:   "store.bicycle.*",
			expect: []any{"red", int64(399)},
		},
		{
			name:   "quoted_key",
			path:   "store.bicycle['color']",
			expect: []any{"red"},
		},
		{
			name:   "regex_key",
			path:   "store.~r/b.+/.color",
			expect: []any{"red"},
		},
		{
			name:   "regex_key_case_insensitive",
			path:   "store.~r/BICYCLE/i.color",
			expect: []any{"red"},
		},
		{
			name:   "missing_key",
			path:   "store.missing",
			expect: nil,
		},
		{
			name:   "index_out_of_range",
			path:   "store.book[99].title",
			expect: nil,
		},
		{
			name:   "key_into_sequence",
			path:   "store.book.title",
			expect: nil,
		},
		{
			name:   "index_into_mapping",
			path:   "store[0]",
			expect: nil,
		},
	}

	engine := New()
	doc := storeDoc()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.FindAll(tt.path, doc)
			if err != nil {
				t.Fatalf("FindAll(%q) error: %v", tt.path, err)
			}
			if !reflect.DeepEqual(got, tt.expect) {
				t.Errorf("FindAll(%q) = %v, want %v", tt.path, got, tt.expect)
			}
		})
	}
}

func TestFindAllEmptyPathIsIdentity(t *testing.T) {
	doc := storeDoc()
	got, err := New().FindAll("", doc)
	if err != nil {
		t.Fatalf("FindAll(\"\") error: %v", err)
	}
	if !reflect.DeepEqual(got, []any{any(doc)}) {
		t.Errorf("FindAll(\"\") = %v, want the document itself", got)
	}
}

func TestFindAllIsDeterministic(t *testing.T) {
	engine := New()
	doc := storeDoc()
	const path = "store.**.price"

	first, err := engine.FindAll(path, doc)
	if err != nil {
		t.Fatalf("FindAll(%q) error: %v", path, err)
	}
	second, err := engine.FindAll(path, doc)
	if err != nil {
		t.Fatalf("FindAll(%q) error: %v", path, err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated FindAll(%q) differ: %v vs %v", path, first, second)
	}
}

func TestFindAllSortsPlainMapKeys(t *testing.T) {
	doc := map[string]any{"b": int64(2), "a": int64(1), "c": int64(3)}
	got, err := New().FindAll("*", doc)
	if err != nil {
		t.Fatalf("FindAll(\"*\") error: %v", err)
	}
	want := []any{int64(1), int64(2), int64(3)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindAll(\"*\") = %v, want %v", got, want)
	}
}

func TestFindFirst(t *testing.T) {
	engine := New()
	doc := storeDoc()

	got, err := engine.FindFirst("store.book[*].title", doc)
	if err != nil {
		t.Fatalf("FindFirst() error: %v", err)
	}
	if got != "Sayings of the Century" {
		t.Errorf("FindFirst() = %v, want %q", got, "Sayings of the Century")
	}

	if _, err := engine.FindFirst("store.missing", doc); !errors.Is(err, ErrNoMatch) {
		t.Errorf("FindFirst() error = %v, want ErrNoMatch", err)
	}
}

func TestFindFirstMatchesHeadOfFindAll(t *testing.T) {
	engine := New()
	doc := storeDoc()

	paths := []string{
		"store.book[*].title",
		"store.**.price",
		"store.book[?(@.price < 10)].title",
		"store.missing",
		"store.book[99]",
	}

	for _, path := range paths {
		all, err := engine.FindAll(path, doc)
		if err != nil {
			t.Fatalf("FindAll(%q) error: %v", path, err)
		}
		first, err := engine.FindFirst(path, doc)
		if len(all) == 0 {
			if !errors.Is(err, ErrNoMatch) {
				t.Errorf("FindFirst(%q) error = %v, want ErrNoMatch", path, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("FindFirst(%q) error: %v", path, err)
		}
		if !reflect.DeepEqual(first, all[0]) {
			t.Errorf("FindFirst(%q) = %v, want first of FindAll %v", path, first, all[0])
		}
	}
}

func TestDefaultEngineConveniences(t *testing.T) {
	doc := storeDoc()

	p, err := Parse("store.book[0].title")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(p) != 4 {
		t.Fatalf("Parse() produced %d segments, want 4", len(p))
	}

	all, err := FindAll("store.book[*].title", doc)
	if err != nil {
		t.Fatalf("FindAll() error: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("FindAll() returned %d matches, want 4", len(all))
	}

	first, err := FindFirst("store.book[*].title", doc)
	if err != nil {
		t.Fatalf("FindFirst() error: %v", err)
	}
	if first != "Sayings of the Century" {
		t.Errorf("FindFirst() = %v, want %q", first, "Sayings of the Century")
	}
}

func TestWildcardRequiresRegistration(t *testing.T) {
	engine := NewEmpty()
	if err := engine.Register(keyDescriptor{}); err != nil {
		t.Fatalf("Register(key) error: %v", err)
	}

	if _, err := engine.Parse("user.*"); !errors.Is(err, ErrSyntax) {
		t.Fatalf("Parse(\"user.*\") error = %v, want ErrSyntax", err)
	}

	if err := engine.Register(wildcardDescriptor{}); err != nil {
		t.Fatalf("Register(wildcard) error: %v", err)
	}
	p, err := engine.Parse("user.*")
	if err != nil {
		t.Fatalf("Parse(\"user.*\") error after registration: %v", err)
	}
	want := Path{KeySegment{Name: "user"}, WildcardSegment{}}
	if !p.Equal(want) {
		t.Errorf("Parse(\"user.*\") = %v, want %v", p, want)
	}
}

func TestEvaluateUnregisteredSegment(t *testing.T) {
	engine := NewEmpty()
	if err := engine.Register(keyDescriptor{}); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	p := Path{KeySegment{Name: "a"}, WildcardSegment{}}
	if _, err := engine.FindAllPath(p, storeDoc()); !errors.Is(err, ErrUnknownSegmentType) {
		t.Errorf("FindAllPath() error = %v, want ErrUnknownSegmentType", err)
	}
	if _, err := engine.FindFirstPath(p, storeDoc()); !errors.Is(err, ErrUnknownSegmentType) {
		t.Errorf("FindFirstPath() error = %v, want ErrUnknownSegmentType", err)
	}
}

// tapSegment counts how many sequence elements its descriptor hands
// downstream, which makes FindFirst's early exit observable.
type tapSegment struct{}

func (tapSegment) Type() string { return "tap" }

func (tapSegment) String() string { return "<tap>" }

func (tapSegment) Equal(other Segment) bool {
	_, ok := other.(tapSegment)
	return ok
}

type tapDescriptor struct {
	yielded *int
}

func (tapDescriptor) Type() string { return "tap" }

func (tapDescriptor) Parse(input string) (Segment, int, error) {
	if !strings.HasPrefix(input, "<tap>") {
		return nil, 0, nil
	}
	return tapSegment{}, len("<tap>"), nil
}

func (d tapDescriptor) Evaluate(_ Segment, doc any) iter.Seq[any] {
	return func(yield func(any) bool) {
		seq, ok := doc.([]any)
		if !ok {
			return
		}
		for _, value := range seq {
			*d.yielded++
			if !yield(value) {
				return
			}
		}
	}
}

func (tapDescriptor) Encode(Segment) (Record, error) {
	return Record{}, nil
}

func (tapDescriptor) Decode(Record) (Segment, error) {
	return tapSegment{}, nil
}

func TestFindFirstShortCircuits(t *testing.T) {
	yielded := 0
	engine := New()
	if err := engine.Register(tapDescriptor{yielded: &yielded}); err != nil {
		t.Fatalf("Register(tap) error: %v", err)
	}

	got, err := engine.FindFirst("store.book.<tap>.title", storeDoc())
	if err != nil {
		t.Fatalf("FindFirst() error: %v", err)
	}
	if got != "Sayings of the Century" {
		t.Errorf("FindFirst() = %v, want %q", got, "Sayings of the Century")
	}
	if yielded != 1 {
		t.Errorf("FindFirst() pulled %d elements through the pipeline, want 1", yielded)
	}

	yielded = 0
	all, err := engine.FindAll("store.book.<tap>.title", storeDoc())
	if err != nil {
		t.Fatalf("FindAll() error: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("FindAll() returned %d matches, want 4", len(all))
	}
	if yielded != 4 {
		t.Errorf("FindAll() pulled %d elements, want 4", yielded)
	}
}

func TestDescendantBeatsWildcardOrdering(t *testing.T) {
	p, err := New().Parse("**")
	if err != nil {
		t.Fatalf("Parse(\"**\") error: %v", err)
	}
	want := Path{DescendantSegment{}}
	if !p.Equal(want) {
		t.Errorf("Parse(\"**\") = %v, want a single descendant segment", p)
	}
}
