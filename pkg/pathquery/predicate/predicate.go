// Package predicate implements the filter expression language used by
// path queries: comparisons (==, !=, <, <=, >, >=) over candidate
// sub-paths (@.field, @['field'], @[index]) and literals, combined with
// and, or, not and parentheses.
//
// Expressions are compiled once; evaluation is total. An unresolved
// sub-path makes the enclosing comparison false rather than failing, so
// filtering a heterogeneous collection never errors.
package predicate

// Expr is a compiled predicate expression.
type Expr struct {
	text string
	root Node
}

// Parse compiles a predicate expression.
func Parse(input string) (*Expr, error) {
	root, err := parse(input)
	if err != nil {
		return nil, err
	}
	return &Expr{text: input, root: root}, nil
}

// Text returns the source text the expression was compiled from.
func (e *Expr) Text() string {
	return e.text
}

// Root returns the root node of the compiled tree, for consumers that
// translate or inspect expressions rather than evaluate them.
func (e *Expr) Root() Node {
	return e.root
}

// Truthy evaluates the expression against a candidate value.
func (e *Expr) Truthy(candidate any) bool {
	return isTruthy(evalNode(e.root, candidate))
}

// Equal reports whether both expressions were compiled from the same text.
func (e *Expr) Equal(other *Expr) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.text == other.text
}
