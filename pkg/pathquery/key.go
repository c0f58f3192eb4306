package pathquery

import (
	"fmt"
	"iter"
	"strings"
)

// KeySegment selects the value of a single mapping key.
type KeySegment struct {
	Name string
}

func (s KeySegment) Type() string { return "key" }

func (s KeySegment) String() string {
	if isBareKey(s.Name) {
		return s.Name
	}
	return "['" + escapeQuoted(s.Name, '\'') + "']"
}

func (s KeySegment) Equal(other Segment) bool {
	o, ok := other.(KeySegment)
	return ok && o.Name == s.Name
}

type keyDescriptor struct{}

func (keyDescriptor) Type() string { return "key" }

// Parse accepts a bare name or a bracket-quoted name (['...'] / ["..."]).
// A lone `[` is left for later descriptors; `['` commits.
func (keyDescriptor) Parse(input string) (Segment, int, error) {
	if input == "" {
		return nil, 0, nil
	}

	if input[0] == '[' {
		if len(input) < 2 || (input[1] != '\'' && input[1] != '"') {
			return nil, 0, nil
		}
		name, consumed, err := parseQuotedKey(input)
		if err != nil {
			return nil, 0, err
		}
		return KeySegment{Name: name}, consumed, nil
	}

	end := 0
	for end < len(input) && isBareKeyByte(input[end]) {
		end++
	}
	if end == 0 {
		return nil, 0, nil
	}
	return KeySegment{Name: input[:end]}, end, nil
}

func (keyDescriptor) Evaluate(seg Segment, doc any) iter.Seq[any] {
	return func(yield func(any) bool) {
		key, ok := seg.(KeySegment)
		if !ok {
			return
		}
		if value, found := lookupKey(doc, key.Name); found {
			yield(value)
		}
	}
}

func (keyDescriptor) Encode(seg Segment) (Record, error) {
	key, ok := seg.(KeySegment)
	if !ok {
		return nil, fmt.Errorf("pathquery: cannot encode %T as a key segment", seg)
	}
	return Record{"name": key.Name}, nil
}

func (keyDescriptor) Decode(rec Record) (Segment, error) {
	name, err := recordString(rec, "name")
	if err != nil {
		return nil, err
	}
	return KeySegment{Name: name}, nil
}

// parseQuotedKey consumes ['name'] or ["name"] with \', \" and \\
// escapes, returning the unescaped name and the bytes consumed.
func parseQuotedKey(input string) (string, int, error) {
	quote := input[1]
	var b strings.Builder

	pos := 2
	for pos < len(input) {
		ch := input[pos]
		if ch == quote {
			if pos+1 >= len(input) || input[pos+1] != ']' {
				return "", 0, fmt.Errorf("quoted key must close with ']'")
			}
			return b.String(), pos + 2, nil
		}
		if ch == '\\' {
			pos++
			if pos >= len(input) {
				break
			}
			escaped := input[pos]
			switch escaped {
			case '\\', '\'', '"':
				b.WriteByte(escaped)
			default:
				b.WriteByte('\\')
				b.WriteByte(escaped)
			}
			pos++
			continue
		}
		b.WriteByte(ch)
		pos++
	}

	return "", 0, fmt.Errorf("unterminated quoted key")
}

func isBareKey(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isBareKeyByte(name[i]) {
			return false
		}
	}
	return true
}

func isBareKeyByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_' || b == '-'
}

func escapeQuoted(name string, quote byte) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		if name[i] == quote || name[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(name[i])
	}
	return b.String()
}
