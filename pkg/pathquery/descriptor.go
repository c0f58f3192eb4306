package pathquery

import (
	"iter"

	"github.com/jacoelho/dq/pkg/pathquery/internal/number"
)

// TypeField is the record key carrying the segment tag.
const TypeField = "$type"

// Record is the tagged JSON-compatible serialized form of one segment.
type Record = map[string]any

// Descriptor bundles the capabilities of one segment kind: parsing its
// syntax fragment, evaluating a segment against a document value, and
// converting segments to and from records.
type Descriptor interface {
	// Type returns the unique registry tag.
	Type() string

	// Parse inspects the unconsumed remainder of a path expression,
	// starting at the segment's first significant character. It returns
	// (nil, 0, nil) when the remainder does not begin with this segment's
	// syntax, or the parsed segment and the number of bytes consumed
	// (always > 0). A non-nil error aborts the whole parse; it is
	// returned once the descriptor has committed to its leading
	// delimiter and found the interior malformed.
	Parse(input string) (Segment, int, error)

	// Evaluate yields the zero or more values the segment selects from
	// one incoming document value. Absence of a match is not an error.
	Evaluate(seg Segment, doc any) iter.Seq[any]

	// Encode returns the segment's record fields. The engine adds the
	// $type tag.
	Encode(seg Segment) (Record, error)

	// Decode reconstructs a segment from a record. It fails with
	// ErrMalformedRecord when required fields are missing or mistyped.
	Decode(rec Record) (Segment, error)
}

// Builtins returns the built-in descriptors in default registration
// order. Descendant precedes Wildcard so `**` is never consumed as two
// `*` segments; the remaining built-ins have disjoint leading syntax.
func Builtins() []Descriptor {
	return []Descriptor{
		keyDescriptor{},
		indexDescriptor{},
		sliceDescriptor{},
		descendantDescriptor{},
		wildcardDescriptor{},
		filterDescriptor{},
		regexKeyDescriptor{},
	}
}

func recordString(rec Record, field string) (string, error) {
	raw, ok := rec[field]
	if !ok {
		return "", malformedRecord("missing field %q", field)
	}
	value, ok := raw.(string)
	if !ok {
		return "", malformedRecord("field %q must be a string, got %T", field, raw)
	}
	return value, nil
}

func recordInt(rec Record, field string) (int, error) {
	raw, ok := rec[field]
	if !ok {
		return 0, malformedRecord("missing field %q", field)
	}
	value, err := number.ToStrictInt(raw)
	if err != nil {
		return 0, malformedRecord("field %q: %v", field, err)
	}
	return value, nil
}

func recordOptionalInt(rec Record, field string) (*int, error) {
	raw, ok := rec[field]
	if !ok || raw == nil {
		return nil, nil
	}
	value, err := number.ToStrictInt(raw)
	if err != nil {
		return nil, malformedRecord("field %q: %v", field, err)
	}
	return &value, nil
}
