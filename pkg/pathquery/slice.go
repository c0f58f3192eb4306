package pathquery

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// SliceSegment selects a subsequence with conventional slicing
// semantics: optional bounds, negative bounds counted from the end, and
// a negative step for reverse order. Nil fields mean "omitted".
type SliceSegment struct {
	Start *int
	Stop  *int
	Step  *int
}

func (s SliceSegment) Type() string { return "slice" }

func (s SliceSegment) String() string {
	var b strings.Builder
	b.WriteByte('[')
	if s.Start != nil {
		b.WriteString(strconv.Itoa(*s.Start))
	}
	b.WriteByte(':')
	if s.Stop != nil {
		b.WriteString(strconv.Itoa(*s.Stop))
	}
	if s.Step != nil {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(*s.Step))
	}
	b.WriteByte(']')
	return b.String()
}

func (s SliceSegment) Equal(other Segment) bool {
	o, ok := other.(SliceSegment)
	return ok && intPtrEqual(o.Start, s.Start) && intPtrEqual(o.Stop, s.Stop) && intPtrEqual(o.Step, s.Step)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type sliceDescriptor struct{}

func (sliceDescriptor) Type() string { return "slice" }

// Parse accepts [a:b] and [a:b:c] with optional signed integer parts.
// Plain integers never reach here: the index descriptor runs first.
func (sliceDescriptor) Parse(input string) (Segment, int, error) {
	if input == "" || input[0] != '[' {
		return nil, 0, nil
	}
	end := strings.IndexByte(input, ']')
	if end == -1 {
		return nil, 0, nil
	}
	interior := input[1:end]
	if !strings.Contains(interior, ":") {
		return nil, 0, nil
	}
	for i := 0; i < len(interior); i++ {
		if !isSliceByte(interior[i]) {
			return nil, 0, nil
		}
	}

	parts := strings.Split(interior, ":")
	if len(parts) > 3 {
		return nil, 0, fmt.Errorf("slice has too many colons")
	}

	var seg SliceSegment
	var err error
	if seg.Start, err = parseSliceBound(parts[0]); err != nil {
		return nil, 0, err
	}
	if seg.Stop, err = parseSliceBound(parts[1]); err != nil {
		return nil, 0, err
	}
	if len(parts) == 3 {
		if seg.Step, err = parseSliceBound(parts[2]); err != nil {
			return nil, 0, err
		}
		if seg.Step != nil && *seg.Step == 0 {
			return nil, 0, fmt.Errorf("slice step cannot be zero")
		}
	}

	return seg, end + 1, nil
}

func isSliceByte(b byte) bool {
	return b == ':' || b == '-' || (b >= '0' && b <= '9')
}

func parseSliceBound(part string) (*int, error) {
	if part == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(part)
	if err != nil {
		return nil, fmt.Errorf("slice bound %q is not an integer", part)
	}
	return &value, nil
}

func (sliceDescriptor) Evaluate(seg Segment, doc any) iter.Seq[any] {
	return func(yield func(any) bool) {
		s, ok := seg.(SliceSegment)
		if !ok {
			return
		}
		seq, ok := sequenceValue(doc)
		if !ok {
			return
		}

		step := 1
		if s.Step != nil {
			step = *s.Step
		}
		lo, hi := sliceRange(s.Start, s.Stop, step, len(seq))

		if step > 0 {
			for i := lo; i < hi; i += step {
				if !yield(seq[i]) {
					return
				}
			}
		} else {
			for i := lo; i > hi; i += step {
				if !yield(seq[i]) {
					return
				}
			}
		}
	}
}

// sliceRange resolves optional bounds against a concrete length the way
// conventional slicing does: negative bounds count from the end, then
// everything is clamped to the iterable range for the step direction.
func sliceRange(start, stop *int, step, length int) (int, int) {
	if step > 0 {
		return resolveSliceBound(start, 0, length, 0, length),
			resolveSliceBound(stop, length, length, 0, length)
	}
	return resolveSliceBound(start, length-1, length, -1, length-1),
		resolveSliceBound(stop, -1, length, -1, length-1)
}

func resolveSliceBound(bound *int, def, length, lowest, highest int) int {
	if bound == nil {
		return def
	}
	value := *bound
	if value < 0 {
		value += length
	}
	if value < lowest {
		value = lowest
	}
	if value > highest {
		value = highest
	}
	return value
}

func (sliceDescriptor) Encode(seg Segment) (Record, error) {
	s, ok := seg.(SliceSegment)
	if !ok {
		return nil, fmt.Errorf("pathquery: cannot encode %T as a slice segment", seg)
	}
	rec := Record{}
	if s.Start != nil {
		rec["start"] = *s.Start
	}
	if s.Stop != nil {
		rec["stop"] = *s.Stop
	}
	if s.Step != nil {
		rec["step"] = *s.Step
	}
	return rec, nil
}

func (sliceDescriptor) Decode(rec Record) (Segment, error) {
	var seg SliceSegment
	var err error
	if seg.Start, err = recordOptionalInt(rec, "start"); err != nil {
		return nil, err
	}
	if seg.Stop, err = recordOptionalInt(rec, "stop"); err != nil {
		return nil, err
	}
	if seg.Step, err = recordOptionalInt(rec, "step"); err != nil {
		return nil, err
	}
	if seg.Step != nil && *seg.Step == 0 {
		return nil, malformedRecord("slice step cannot be zero")
	}
	return seg, nil
}
