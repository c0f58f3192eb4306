package pathquery

import "iter"

// evaluate resolves every segment's descriptor up front, so a path
// carrying an unregistered tag fails before any value is produced, then
// returns the lazy fan-out pipeline over the document.
func evaluate(registry *Registry, p Path, doc any) (iter.Seq[any], error) {
	descriptors := make([]Descriptor, len(p))
	for i, seg := range p {
		d, err := registry.Lookup(seg.Type())
		if err != nil {
			return nil, err
		}
		descriptors[i] = d
	}

	return func(yield func(any) bool) {
		evaluateFrom(descriptors, p, 0, doc, yield)
	}, nil
}

// evaluateFrom threads value through p[from:], flat-mapping each
// segment's outputs through the rest of the pipeline in order. It
// returns false once yield does, which suspends every enclosing fan-out
// and gives FindFirst its early exit.
func evaluateFrom(descriptors []Descriptor, p Path, from int, value any, yield func(any) bool) bool {
	if from == len(p) {
		return yield(value)
	}

	more := true
	descriptors[from].Evaluate(p[from], value)(func(next any) bool {
		if !evaluateFrom(descriptors, p, from+1, next, yield) {
			more = false
			return false
		}
		return true
	})
	return more
}
