package pathquery

import (
	"fmt"
	"iter"
	"strconv"
)

// IndexSegment selects one sequence element. Negative indices count from
// the end, -1 being the last element.
type IndexSegment struct {
	Index int
}

func (s IndexSegment) Type() string { return "index" }

func (s IndexSegment) String() string {
	return "[" + strconv.Itoa(s.Index) + "]"
}

func (s IndexSegment) Equal(other Segment) bool {
	o, ok := other.(IndexSegment)
	return ok && o.Index == s.Index
}

type indexDescriptor struct{}

func (indexDescriptor) Type() string { return "index" }

// Parse accepts [i] with an optional leading minus. Bracket content that
// is not a plain integer (a slice, a quoted name, a filter) is left for
// other descriptors.
func (indexDescriptor) Parse(input string) (Segment, int, error) {
	if input == "" || input[0] != '[' {
		return nil, 0, nil
	}

	pos := 1
	if pos < len(input) && input[pos] == '-' {
		pos++
	}
	digitStart := pos
	for pos < len(input) && input[pos] >= '0' && input[pos] <= '9' {
		pos++
	}
	if pos == digitStart || pos >= len(input) || input[pos] != ']' {
		return nil, 0, nil
	}

	index, err := strconv.Atoi(input[1:pos])
	if err != nil {
		return nil, 0, fmt.Errorf("index %q out of range", input[1:pos])
	}
	return IndexSegment{Index: index}, pos + 1, nil
}

func (indexDescriptor) Evaluate(seg Segment, doc any) iter.Seq[any] {
	return func(yield func(any) bool) {
		index, ok := seg.(IndexSegment)
		if !ok {
			return
		}
		seq, ok := sequenceValue(doc)
		if !ok {
			return
		}
		i := index.Index
		if i < 0 {
			i += len(seq)
		}
		if i < 0 || i >= len(seq) {
			return
		}
		yield(seq[i])
	}
}

func (indexDescriptor) Encode(seg Segment) (Record, error) {
	index, ok := seg.(IndexSegment)
	if !ok {
		return nil, fmt.Errorf("pathquery: cannot encode %T as an index segment", seg)
	}
	return Record{"index": index.Index}, nil
}

func (indexDescriptor) Decode(rec Record) (Segment, error) {
	index, err := recordInt(rec, "index")
	if err != nil {
		return nil, err
	}
	return IndexSegment{Index: index}, nil
}
