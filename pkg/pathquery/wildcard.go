package pathquery

import (
	"fmt"
	"iter"
)

// WildcardSegment selects every value of a mapping or every element of a
// sequence, in document order.
type WildcardSegment struct{}

func (WildcardSegment) Type() string { return "wildcard" }

func (WildcardSegment) String() string { return "*" }

func (WildcardSegment) Equal(other Segment) bool {
	_, ok := other.(WildcardSegment)
	return ok
}

type wildcardDescriptor struct{}

func (wildcardDescriptor) Type() string { return "wildcard" }

// Parse accepts `*` and the bracketed form `[*]`.
func (wildcardDescriptor) Parse(input string) (Segment, int, error) {
	if input == "" {
		return nil, 0, nil
	}
	if input[0] == '*' {
		return WildcardSegment{}, 1, nil
	}
	if len(input) >= 3 && input[0] == '[' && input[1] == '*' && input[2] == ']' {
		return WildcardSegment{}, 3, nil
	}
	return nil, 0, nil
}

func (wildcardDescriptor) Evaluate(_ Segment, doc any) iter.Seq[any] {
	return func(yield func(any) bool) {
		if entries, ok := mappingEntries(doc); ok {
			for _, value := range entries {
				if !yield(value) {
					return
				}
			}
			return
		}
		if seq, ok := sequenceValue(doc); ok {
			for _, value := range seq {
				if !yield(value) {
					return
				}
			}
		}
	}
}

func (wildcardDescriptor) Encode(seg Segment) (Record, error) {
	if _, ok := seg.(WildcardSegment); !ok {
		return nil, fmt.Errorf("pathquery: cannot encode %T as a wildcard segment", seg)
	}
	return Record{}, nil
}

func (wildcardDescriptor) Decode(Record) (Segment, error) {
	return WildcardSegment{}, nil
}
