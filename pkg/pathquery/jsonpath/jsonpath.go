// Package jsonpath renders parsed paths as RFC 9535 JSONPath
// expressions, for handing queries to tools that speak the standard
// syntax. Translation is exact or refused: a segment whose semantics
// RFC 9535 cannot express fails with ErrUntranslatable instead of
// producing an expression that selects something else.
package jsonpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jacoelho/dq/pkg/pathquery"
	"github.com/jacoelho/dq/pkg/pathquery/predicate"
)

// ErrUntranslatable indicates a path with no RFC 9535 equivalent, such
// as a regex key segment or a predicate testing truthiness.
var ErrUntranslatable = errors.New("jsonpath: no RFC 9535 equivalent")

// Expression renders a parsed path as an RFC 9535 JSONPath expression.
// An empty path renders as `$`.
func Expression(p pathquery.Path) (string, error) {
	var b strings.Builder
	b.WriteByte('$')

	descendant := false
	for _, seg := range p {
		if _, ok := seg.(pathquery.DescendantSegment); ok {
			if descendant {
				return "", fmt.Errorf("%w: consecutive '**' segments", ErrUntranslatable)
			}
			descendant = true
			continue
		}
		text, err := segmentText(seg, descendant)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
		descendant = false
	}
	if descendant {
		// `**` yields the visited nodes themselves; `..` only ever
		// applies a further selector to them.
		return "", fmt.Errorf("%w: '**' must be followed by another segment", ErrUntranslatable)
	}

	return b.String(), nil
}

func segmentText(seg pathquery.Segment, descendant bool) (string, error) {
	prefix := ""
	if descendant {
		prefix = ".."
	}

	switch s := seg.(type) {
	case pathquery.KeySegment:
		if isShorthand(s.Name) {
			if descendant {
				return ".." + s.Name, nil
			}
			return "." + s.Name, nil
		}
		return prefix + "['" + escapeString(s.Name) + "']", nil
	case pathquery.IndexSegment:
		return prefix + "[" + strconv.Itoa(s.Index) + "]", nil
	case pathquery.SliceSegment:
		return prefix + sliceText(s), nil
	case pathquery.WildcardSegment:
		return prefix + "[*]", nil
	case pathquery.FilterSegment:
		inner, _, err := logicalText(s.Predicate.Root())
		if err != nil {
			return "", err
		}
		return prefix + "[?(" + inner + ")]", nil
	default:
		return "", fmt.Errorf("%w: segment type %q", ErrUntranslatable, seg.Type())
	}
}

func sliceText(s pathquery.SliceSegment) string {
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

// RFC logical operator precedence, loosest first.
const (
	precOr = iota + 1
	precAnd
	precBasic
)

// logicalText renders a predicate node as an RFC logical expression.
// Bare sub-paths and literals are refused: the predicate language tests
// their truthiness, while an RFC test expression checks existence, and
// the two disagree on present-but-falsy values.
func logicalText(n predicate.Node) (string, int, error) {
	switch v := n.(type) {
	case predicate.Binary:
		switch v.Op {
		case predicate.OpOr:
			return connectiveText(v, "||", precOr)
		case predicate.OpAnd:
			return connectiveText(v, "&&", precAnd)
		default:
			left, err := comparableText(v.Left)
			if err != nil {
				return "", 0, err
			}
			right, err := comparableText(v.Right)
			if err != nil {
				return "", 0, err
			}
			return left + " " + v.Op.String() + " " + right, precBasic, nil
		}
	case predicate.Not:
		inner, _, err := logicalText(v.Operand)
		if err != nil {
			return "", 0, err
		}
		return "!(" + inner + ")", precBasic, nil
	case predicate.Path:
		return "", 0, fmt.Errorf("%w: predicate tests truthiness of %s", ErrUntranslatable, candidateText(v))
	case predicate.Literal:
		return "", 0, fmt.Errorf("%w: predicate uses a bare literal", ErrUntranslatable)
	default:
		return "", 0, fmt.Errorf("%w: predicate node %T", ErrUntranslatable, n)
	}
}

func connectiveText(v predicate.Binary, op string, prec int) (string, int, error) {
	left, err := operandText(v.Left, prec)
	if err != nil {
		return "", 0, err
	}
	right, err := operandText(v.Right, prec)
	if err != nil {
		return "", 0, err
	}
	return left + " " + op + " " + right, prec, nil
}

func operandText(n predicate.Node, min int) (string, error) {
	text, prec, err := logicalText(n)
	if err != nil {
		return "", err
	}
	if prec < min {
		return "(" + text + ")", nil
	}
	return text, nil
}

func comparableText(n predicate.Node) (string, error) {
	switch v := n.(type) {
	case predicate.Literal:
		return literalText(v.Value)
	case predicate.Path:
		return candidateText(v), nil
	default:
		return "", fmt.Errorf("%w: comparison operands must be literals or candidate sub-paths", ErrUntranslatable)
	}
}

func literalText(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "null", nil
	case bool:
		return strconv.FormatBool(v), nil
	case string:
		return "'" + escapeString(v) + "'", nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: literal %T", ErrUntranslatable, value)
	}
}

func candidateText(p predicate.Path) string {
	var b strings.Builder
	b.WriteByte('@')
	for _, step := range p.Steps {
		switch step.Kind {
		case predicate.StepName:
			if isShorthand(step.Name) {
				b.WriteByte('.')
				b.WriteString(step.Name)
			} else {
				b.WriteString("['")
				b.WriteString(escapeString(step.Name))
				b.WriteString("']")
			}
		case predicate.StepIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(step.Index))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// isShorthand reports whether a name fits the RFC member-name-shorthand
// form. Anything else, dashed keys included, is rendered bracketed.
func isShorthand(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
		case ch >= '0' && ch <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
