package tool

import (
	"fmt"
	"sync"
)

// Registry maps tool kinds to descriptors and preserves registration order,
// which the decision prompt depends on.
type Registry struct {
	mu    sync.RWMutex
	order []Kind
	tools map[Kind]Descriptor
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[Kind]Descriptor)}
}

// Register adds a descriptor. A kind may be registered only once.
func (r *Registry) Register(d Descriptor) error {
	if d.Kind == KindUnknown {
		return fmt.Errorf("register tool: unknown kind")
	}
	if d.Invoke == nil {
		return fmt.Errorf("register %s: nil handler", d.Name())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[d.Kind]; exists {
		return fmt.Errorf("register %s: %w", d.Name(), ErrDuplicateTool)
	}
	r.tools[d.Kind] = d
	r.order = append(r.order, d.Kind)
	return nil
}

// DescribeAll returns "<name>: <summary>" lines in registration order.
func (r *Registry) DescribeAll() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := make([]string, 0, len(r.order))
	for _, kind := range r.order {
		d := r.tools[kind]
		lines = append(lines, d.Name()+": "+d.Summary())
	}
	return lines
}

// Lookup resolves a wire name to its descriptor.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	kind, ok := ParseKind(name)
	if !ok {
		return Descriptor{}, fmt.Errorf("%q: %w", name, ErrToolNotFound)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.tools[kind]
	if !ok {
		return Descriptor{}, fmt.Errorf("%q: %w", name, ErrToolNotFound)
	}
	return d, nil
}

// Descriptors returns all descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, kind := range r.order {
		out = append(out, r.tools[kind])
	}
	return out
}
