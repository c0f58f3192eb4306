package pathquery

import (
	"fmt"
	"slices"
)

// Registry is an ordered, tag-unique collection of descriptors.
// Registration order is parse precedence: the first descriptor whose
// Parse matches at a cursor position wins.
//
// Registration is a single-goroutine build phase. Once building is done
// a Registry is read-only and safe for concurrent use.
type Registry struct {
	ordered []Descriptor
	byTag   map[string]Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byTag: make(map[string]Descriptor)}
}

// Register appends a descriptor. Registering a tag that is already
// present fails with ErrDuplicateSegmentType and leaves the registry
// unchanged.
func (r *Registry) Register(d Descriptor) error {
	tag := d.Type()
	if tag == "" {
		return fmt.Errorf("pathquery: descriptor type tag cannot be empty")
	}
	if _, exists := r.byTag[tag]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateSegmentType, tag)
	}
	r.ordered = append(r.ordered, d)
	r.byTag[tag] = d
	return nil
}

// Lookup returns the descriptor registered under tag, or
// ErrUnknownSegmentType.
func (r *Registry) Lookup(tag string) (Descriptor, error) {
	d, ok := r.byTag[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSegmentType, tag)
	}
	return d, nil
}

// Descriptors returns the descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	return slices.Clone(r.ordered)
}
