package pathquery

import (
	"errors"
	"fmt"
)

// parsePath walks the expression with a cursor, offering the unconsumed
// remainder to the registry's descriptors in registration order. Between
// segments a single `.` separator is skipped; an empty expression yields
// an empty path.
func parsePath(registry *Registry, input string) (Path, error) {
	var path Path
	pos := 0

	for pos < len(input) {
		if pos > 0 && input[pos] == '.' {
			pos++
			if pos == len(input) {
				return nil, &SyntaxError{
					Offset: pos,
					Reason: "expression cannot end with a separator",
				}
			}
		}

		remainder := input[pos:]
		seg, consumed, err := parseSegmentAt(registry.ordered, remainder)
		if err != nil {
			var syntaxErr *SyntaxError
			if errors.As(err, &syntaxErr) {
				return nil, err
			}
			return nil, &SyntaxError{Offset: pos, Remainder: remainder, Reason: err.Error()}
		}
		if seg == nil {
			return nil, &SyntaxError{
				Offset:    pos,
				Remainder: remainder,
				Reason:    "no registered segment matches",
			}
		}

		path = append(path, seg)
		pos += consumed
	}

	return path, nil
}

func parseSegmentAt(descriptors []Descriptor, remainder string) (Segment, int, error) {
	for _, d := range descriptors {
		seg, consumed, err := d.Parse(remainder)
		if err != nil {
			return nil, 0, err
		}
		if seg == nil {
			continue
		}
		if consumed <= 0 {
			return nil, 0, fmt.Errorf("segment type %q matched without consuming input", d.Type())
		}
		return seg, consumed, nil
	}
	return nil, 0, nil
}
