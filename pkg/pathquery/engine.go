package pathquery

import "sync"

// Engine owns one registry and is the entry point for parsing,
// evaluating and serializing path expressions. Register all extension
// descriptors before sharing an engine; afterwards it is read-only and
// safe for concurrent use.
type Engine struct {
	registry *Registry
}

// New returns an engine with the built-in descriptors registered.
func New() *Engine {
	e := NewEmpty()
	for _, d := range Builtins() {
		// built-in tags are distinct, Register cannot fail
		_ = e.Register(d)
	}
	return e
}

// NewEmpty returns an engine with no descriptors registered.
func NewEmpty() *Engine {
	return &Engine{registry: NewRegistry()}
}

// Register adds a segment descriptor to the engine's registry.
func (e *Engine) Register(d Descriptor) error {
	return e.registry.Register(d)
}

// Parse compiles a path expression into a Path.
func (e *Engine) Parse(input string) (Path, error) {
	return parsePath(e.registry, input)
}

// FindAll parses the expression and returns every match in evaluation
// order. No matches is not an error: the result is simply empty.
func (e *Engine) FindAll(path string, doc any) ([]any, error) {
	p, err := e.Parse(path)
	if err != nil {
		return nil, err
	}
	return e.FindAllPath(p, doc)
}

// FindAllPath returns every match of an already-parsed path.
func (e *Engine) FindAllPath(p Path, doc any) ([]any, error) {
	seq, err := evaluate(e.registry, p, doc)
	if err != nil {
		return nil, err
	}
	var matches []any
	for value := range seq {
		matches = append(matches, value)
	}
	return matches, nil
}

// FindFirst parses the expression and returns its first match, or
// ErrNoMatch. Evaluation stops as soon as the first match is produced.
func (e *Engine) FindFirst(path string, doc any) (any, error) {
	p, err := e.Parse(path)
	if err != nil {
		return nil, err
	}
	return e.FindFirstPath(p, doc)
}

// FindFirstPath returns the first match of an already-parsed path, or
// ErrNoMatch.
func (e *Engine) FindFirstPath(p Path, doc any) (any, error) {
	seq, err := evaluate(e.registry, p, doc)
	if err != nil {
		return nil, err
	}
	for value := range seq {
		return value, nil
	}
	return nil, ErrNoMatch
}

// MarshalAST converts a path to its tagged-record wire form.
func (e *Engine) MarshalAST(p Path) ([]Record, error) {
	return marshalAST(e.registry, p)
}

// UnmarshalAST reconstructs a path from tagged records.
func (e *Engine) UnmarshalAST(records []Record) (Path, error) {
	return unmarshalAST(e.registry, records)
}

// defaultEngine backs the package-level convenience functions. It only
// ever carries the built-ins; extensions go through an explicit Engine.
var defaultEngine = sync.OnceValue(New)

// Parse compiles a path expression with the default engine.
func Parse(input string) (Path, error) {
	return defaultEngine().Parse(input)
}

// FindAll returns every match of the expression with the default engine.
func FindAll(path string, doc any) ([]any, error) {
	return defaultEngine().FindAll(path, doc)
}

// FindFirst returns the first match of the expression with the default
// engine, or ErrNoMatch.
func FindFirst(path string, doc any) (any, error) {
	return defaultEngine().FindFirst(path, doc)
}
