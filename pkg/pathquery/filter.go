package pathquery

import (
	"fmt"
	"iter"
	"strings"

	"github.com/jacoelho/dq/pkg/pathquery/predicate"
)

// FilterSegment keeps the elements of a sequence, or the values of a
// mapping, for which its predicate evaluates truthy. The predicate is
// compiled when the path is parsed; a predicate syntax error is a
// parse-time error, never an evaluation-time one.
type FilterSegment struct {
	Predicate *predicate.Expr
}

// NewFilterSegment compiles a predicate expression into a filter segment.
func NewFilterSegment(expr string) (FilterSegment, error) {
	compiled, err := predicate.Parse(expr)
	if err != nil {
		return FilterSegment{}, err
	}
	return FilterSegment{Predicate: compiled}, nil
}

func (s FilterSegment) Type() string { return "filter" }

func (s FilterSegment) String() string {
	return "[?(" + s.Predicate.Text() + ")]"
}

func (s FilterSegment) Equal(other Segment) bool {
	o, ok := other.(FilterSegment)
	return ok && s.Predicate.Equal(o.Predicate)
}

type filterDescriptor struct{}

func (filterDescriptor) Type() string { return "filter" }

// Parse accepts [?(<expr>)]. The leading `[?(` commits: a malformed
// interior aborts the whole parse instead of falling through to other
// descriptors.
func (filterDescriptor) Parse(input string) (Segment, int, error) {
	if !strings.HasPrefix(input, "[?(") {
		return nil, 0, nil
	}

	interior, end, err := scanPredicate(input)
	if err != nil {
		return nil, 0, err
	}

	seg, err := NewFilterSegment(interior)
	if err != nil {
		return nil, 0, err
	}
	return seg, end, nil
}

// scanPredicate finds the `)]` closing a filter, tracking parenthesis
// depth and skipping quoted strings so `)` inside the predicate does not
// end the segment early.
func scanPredicate(input string) (string, int, error) {
	depth := 1
	var quote byte

	for pos := 3; pos < len(input); pos++ {
		ch := input[pos]

		if quote != 0 {
			if ch == '\\' {
				pos++
			} else if ch == quote {
				quote = 0
			}
			continue
		}

		switch ch {
		case '\'', '"':
			quote = ch
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				if pos+1 >= len(input) || input[pos+1] != ']' {
					return "", 0, fmt.Errorf("filter must close with ')]'")
				}
				return input[3:pos], pos + 2, nil
			}
		}
	}

	return "", 0, fmt.Errorf("unterminated filter expression")
}

func (filterDescriptor) Evaluate(seg Segment, doc any) iter.Seq[any] {
	return func(yield func(any) bool) {
		filter, ok := seg.(FilterSegment)
		if !ok {
			return
		}
		if seq, found := sequenceValue(doc); found {
			for _, candidate := range seq {
				if !filter.Predicate.Truthy(candidate) {
					continue
				}
				if !yield(candidate) {
					return
				}
			}
			return
		}
		if entries, found := mappingEntries(doc); found {
			for _, candidate := range entries {
				if !filter.Predicate.Truthy(candidate) {
					continue
				}
				if !yield(candidate) {
					return
				}
			}
		}
	}
}

func (filterDescriptor) Encode(seg Segment) (Record, error) {
	filter, ok := seg.(FilterSegment)
	if !ok {
		return nil, fmt.Errorf("pathquery: cannot encode %T as a filter segment", seg)
	}
	return Record{"predicate": filter.Predicate.Text()}, nil
}

func (filterDescriptor) Decode(rec Record) (Segment, error) {
	text, err := recordString(rec, "predicate")
	if err != nil {
		return nil, err
	}
	seg, err := NewFilterSegment(text)
	if err != nil {
		return nil, malformedRecord("field %q: %v", "predicate", err)
	}
	return seg, nil
}
