// Package fuzzy provides an approximate key-matching segment for
// pathquery engines. It is registered explicitly:
//
//	engine := pathquery.New()
//	if err := engine.Register(fuzzy.Descriptor()); err != nil { ... }
//
// The segment is written ~f/term/ or ~f/term/0.9 and selects the value
// of every mapping key whose normalized Levenshtein similarity to term
// is at least the threshold. The package exists on its own feet: it
// implements the full descriptor contract, including records, using
// only the exported pathquery surface.
package fuzzy

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/jacoelho/dq/pkg/pathquery"
	"github.com/jacoelho/dq/pkg/pathquery/internal/number"
)

// DefaultThreshold is the similarity cutoff used when the expression
// omits one.
const DefaultThreshold = 0.75

// Type is the registry tag of the fuzzy key segment.
const Type = "fuzzy_key"

// KeySegment selects the value of every mapping key similar enough to
// its term, in mapping order. Similarity is 1 - distance/longest, where
// distance is the Levenshtein distance in runes and longest is the rune
// length of the longer of the two strings.
type KeySegment struct {
	term      string
	threshold float64
}

// NewKeySegment builds a fuzzy key segment. The threshold must lie
// within [0, 1].
func NewKeySegment(term string, threshold float64) (KeySegment, error) {
	if threshold < 0 || threshold > 1 {
		return KeySegment{}, fmt.Errorf("fuzzy threshold %v must be between 0 and 1", threshold)
	}
	return KeySegment{term: term, threshold: threshold}, nil
}

// Term returns the text keys are compared against.
func (s KeySegment) Term() string { return s.term }

// Threshold returns the similarity cutoff.
func (s KeySegment) Threshold() float64 { return s.threshold }

func (s KeySegment) Type() string { return Type }

func (s KeySegment) String() string {
	return "~f/" + termEscaper.Replace(s.term) + "/" + strconv.FormatFloat(s.threshold, 'f', -1, 64)
}

func (s KeySegment) Equal(other pathquery.Segment) bool {
	o, ok := other.(KeySegment)
	return ok && o.term == s.term && o.threshold == s.threshold
}

func (s KeySegment) matches(key string) bool {
	longest := max(utf8.RuneCountInString(s.term), utf8.RuneCountInString(key))
	if longest == 0 {
		return true
	}
	distance := levenshtein.ComputeDistance(s.term, key)
	return 1-float64(distance)/float64(longest) >= s.threshold
}

var termEscaper = strings.NewReplacer(`\`, `\\`, `/`, `\/`)

// Descriptor returns the fuzzy key descriptor, ready for registration.
func Descriptor() pathquery.Descriptor { return descriptor{} }

type descriptor struct{}

func (descriptor) Type() string { return Type }

// Parse accepts ~f/term/ and ~f/term/0.9. Inside the term, `\/` escapes
// a slash and `\\` a backslash; other escapes are kept verbatim. The
// threshold must start with a digit, so a `.` after the closing slash
// is always a path separator.
func (descriptor) Parse(input string) (pathquery.Segment, int, error) {
	if !strings.HasPrefix(input, "~f/") {
		return nil, 0, nil
	}

	var term strings.Builder
	pos := 3
	closed := false
	for pos < len(input) {
		ch := input[pos]
		if ch == '\\' && pos+1 < len(input) {
			switch input[pos+1] {
			case '/', '\\':
				term.WriteByte(input[pos+1])
			default:
				term.WriteByte(ch)
				term.WriteByte(input[pos+1])
			}
			pos += 2
			continue
		}
		if ch == '/' {
			closed = true
			pos++
			break
		}
		term.WriteByte(ch)
		pos++
	}
	if !closed {
		return nil, 0, fmt.Errorf("unterminated fuzzy key, missing closing '/'")
	}

	threshold := DefaultThreshold
	start := pos
	for pos < len(input) && isDigit(input[pos]) {
		pos++
	}
	if pos > start && pos+1 < len(input) && input[pos] == '.' && isDigit(input[pos+1]) {
		pos++
		for pos < len(input) && isDigit(input[pos]) {
			pos++
		}
	}
	if pos > start {
		parsed, err := strconv.ParseFloat(input[start:pos], 64)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid fuzzy threshold %q", input[start:pos])
		}
		threshold = parsed
	}

	seg, err := NewKeySegment(term.String(), threshold)
	if err != nil {
		return nil, 0, err
	}
	return seg, pos, nil
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func (descriptor) Evaluate(seg pathquery.Segment, doc any) iter.Seq[any] {
	return func(yield func(any) bool) {
		key, ok := seg.(KeySegment)
		if !ok {
			return
		}
		switch m := doc.(type) {
		case pathquery.Map:
			for _, entry := range m {
				if !key.matches(entry.Key) {
					continue
				}
				if !yield(entry.Value) {
					return
				}
			}
		case map[string]any:
			for _, name := range slices.Sorted(maps.Keys(m)) {
				if !key.matches(name) {
					continue
				}
				if !yield(m[name]) {
					return
				}
			}
		}
	}
}

func (descriptor) Encode(seg pathquery.Segment) (pathquery.Record, error) {
	key, ok := seg.(KeySegment)
	if !ok {
		return nil, fmt.Errorf("fuzzy: cannot encode %T as a fuzzy key segment", seg)
	}
	return pathquery.Record{"term": key.term, "threshold": key.threshold}, nil
}

func (descriptor) Decode(rec pathquery.Record) (pathquery.Segment, error) {
	raw, ok := rec["term"]
	if !ok {
		return nil, malformedRecord("missing field %q", "term")
	}
	term, ok := raw.(string)
	if !ok {
		return nil, malformedRecord("field %q must be a string, got %T", "term", raw)
	}

	raw, ok = rec["threshold"]
	if !ok {
		return nil, malformedRecord("missing field %q", "threshold")
	}
	threshold, ok := number.ToFloat64(raw)
	if !ok {
		return nil, malformedRecord("field %q must be a number, got %T", "threshold", raw)
	}

	seg, err := NewKeySegment(term, threshold)
	if err != nil {
		return nil, malformedRecord("%v", err)
	}
	return seg, nil
}

func malformedRecord(format string, args ...any) error {
	return fmt.Errorf("%w: %s", pathquery.ErrMalformedRecord, fmt.Sprintf(format, args...))
}
