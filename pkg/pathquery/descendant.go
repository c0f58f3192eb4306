package pathquery

import (
	"fmt"
	"iter"
)

// DescendantSegment selects the incoming value itself and every value
// reachable through mapping values or sequence elements, in pre-order.
type DescendantSegment struct{}

func (DescendantSegment) Type() string { return "descendant" }

func (DescendantSegment) String() string { return "**" }

func (DescendantSegment) Equal(other Segment) bool {
	_, ok := other.(DescendantSegment)
	return ok
}

type descendantDescriptor struct{}

func (descendantDescriptor) Type() string { return "descendant" }

// Parse accepts `**`. It must be registered before the wildcard
// descriptor, which would otherwise consume the first `*` alone.
func (descendantDescriptor) Parse(input string) (Segment, int, error) {
	if len(input) < 2 || input[0] != '*' || input[1] != '*' {
		return nil, 0, nil
	}
	return DescendantSegment{}, 2, nil
}

func (descendantDescriptor) Evaluate(_ Segment, doc any) iter.Seq[any] {
	return func(yield func(any) bool) {
		walkDescendants(doc, yield)
	}
}

// walkDescendants yields value, then recurses into its children. The
// parent always precedes its children; siblings keep document order.
func walkDescendants(value any, yield func(any) bool) bool {
	if !yield(value) {
		return false
	}
	if entries, ok := mappingEntries(value); ok {
		for _, child := range entries {
			if !walkDescendants(child, yield) {
				return false
			}
		}
		return true
	}
	if seq, ok := sequenceValue(value); ok {
		for _, child := range seq {
			if !walkDescendants(child, yield) {
				return false
			}
		}
	}
	return true
}

func (descendantDescriptor) Encode(seg Segment) (Record, error) {
	if _, ok := seg.(DescendantSegment); !ok {
		return nil, fmt.Errorf("pathquery: cannot encode %T as a descendant segment", seg)
	}
	return Record{}, nil
}

func (descendantDescriptor) Decode(Record) (Segment, error) {
	return DescendantSegment{}, nil
}
