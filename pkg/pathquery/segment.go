package pathquery

import "strings"

// Segment is one parsed unit of a path expression, tagged by its segment
// type. Segments are immutable once constructed.
type Segment interface {
	// Type returns the segment's registry tag.
	Type() string

	// String returns the segment's canonical expression text.
	String() string

	// Equal reports structural equality with another segment.
	Equal(Segment) bool
}

// Path is an ordered sequence of segments produced by a single parse. It
// can be evaluated any number of times against any document.
type Path []Segment

// String renders the path in canonical expression form. Re-parsing the
// result on the registry that produced the path yields an equal path.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		text := seg.String()
		if i > 0 && !strings.HasPrefix(text, "[") {
			b.WriteByte('.')
		}
		b.WriteString(text)
	}
	return b.String()
}

// Equal reports whether both paths have equal segments in the same order.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !p[i].Equal(other[i]) {
			return false
		}
	}
	return true
}
