package pathquery

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
)

// RegexKeySegment selects the value of every mapping key whose full name
// matches the pattern, in mapping order. Supported flags are i
// (case-insensitive), m (multi-line ^/$) and s (dot matches newline).
type RegexKeySegment struct {
	pattern string
	flags   string
	re      *regexp.Regexp
}

// NewRegexKeySegment compiles a regex key segment. The pattern is
// implicitly anchored to match whole key names.
func NewRegexKeySegment(pattern, flags string) (RegexKeySegment, error) {
	for i := 0; i < len(flags); i++ {
		switch flags[i] {
		case 'i', 'm', 's':
		default:
			return RegexKeySegment{}, fmt.Errorf("unsupported regex flag %q", flags[i])
		}
	}

	group := "(?:" + pattern + ")"
	if flags != "" {
		group = "(?" + flags + ":" + pattern + ")"
	}
	re, err := regexp.Compile(`\A` + group + `\z`)
	if err != nil {
		return RegexKeySegment{}, fmt.Errorf("invalid regex pattern %q: %v", pattern, err)
	}

	return RegexKeySegment{pattern: pattern, flags: flags, re: re}, nil
}

// Pattern returns the uncompiled pattern text.
func (s RegexKeySegment) Pattern() string { return s.pattern }

// Flags returns the flag letters the segment was built with.
func (s RegexKeySegment) Flags() string { return s.flags }

func (s RegexKeySegment) Type() string { return "regex_key" }

func (s RegexKeySegment) String() string {
	return "~r/" + strings.ReplaceAll(s.pattern, "/", `\/`) + "/" + s.flags
}

func (s RegexKeySegment) Equal(other Segment) bool {
	o, ok := other.(RegexKeySegment)
	return ok && o.pattern == s.pattern && o.flags == s.flags
}

type regexKeyDescriptor struct{}

func (regexKeyDescriptor) Type() string { return "regex_key" }

// Parse accepts ~r/pattern/flags. `\/` escapes a slash inside the
// pattern; every other escape is kept for the regexp engine.
func (regexKeyDescriptor) Parse(input string) (Segment, int, error) {
	if !strings.HasPrefix(input, "~r/") {
		return nil, 0, nil
	}

	var pattern strings.Builder
	pos := 3
	closed := false
	for pos < len(input) {
		ch := input[pos]
		if ch == '\\' && pos+1 < len(input) {
			if input[pos+1] == '/' {
				pattern.WriteByte('/')
			} else {
				pattern.WriteByte(ch)
				pattern.WriteByte(input[pos+1])
			}
			pos += 2
			continue
		}
		if ch == '/' {
			closed = true
			pos++
			break
		}
		pattern.WriteByte(ch)
		pos++
	}
	if !closed {
		return nil, 0, fmt.Errorf("unterminated regex, missing closing '/'")
	}

	flagsStart := pos
	for pos < len(input) && input[pos] >= 'a' && input[pos] <= 'z' {
		pos++
	}
	flags := input[flagsStart:pos]

	seg, err := NewRegexKeySegment(pattern.String(), flags)
	if err != nil {
		return nil, 0, err
	}
	return seg, pos, nil
}

func (regexKeyDescriptor) Evaluate(seg Segment, doc any) iter.Seq[any] {
	return func(yield func(any) bool) {
		regex, ok := seg.(RegexKeySegment)
		if !ok {
			return
		}
		entries, ok := mappingEntries(doc)
		if !ok {
			return
		}
		for key, value := range entries {
			if !regex.re.MatchString(key) {
				continue
			}
			if !yield(value) {
				return
			}
		}
	}
}

func (regexKeyDescriptor) Encode(seg Segment) (Record, error) {
	regex, ok := seg.(RegexKeySegment)
	if !ok {
		return nil, fmt.Errorf("pathquery: cannot encode %T as a regex key segment", seg)
	}
	return Record{"pattern": regex.pattern, "flags": regex.flags}, nil
}

func (regexKeyDescriptor) Decode(rec Record) (Segment, error) {
	pattern, err := recordString(rec, "pattern")
	if err != nil {
		return nil, err
	}
	flags, err := recordString(rec, "flags")
	if err != nil {
		return nil, err
	}
	seg, err := NewRegexKeySegment(pattern, flags)
	if err != nil {
		return nil, malformedRecord("%v", err)
	}
	return seg, nil
}
