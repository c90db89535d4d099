package runtime

import (
	"fmt"
	"sort"
)

// Environment is one scope frame: a name to value mapping plus a link to the
// frame it was pushed on top of. The frame without a parent is the global frame.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new frame, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the parent frame (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// IsGlobal reports whether e is the outermost frame.
func (e *Environment) IsGlobal() bool {
	return e.parent == nil
}

// Define inserts or shadows a binding in this frame.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Lookup walks the chain outward and returns the nearest binding together with
// the frame that holds it.
func (e *Environment) Lookup(name string) (Value, *Environment, bool) {
	for frame := e; frame != nil; frame = frame.parent {
		if v, ok := frame.values[name]; ok {
			return v, frame, true
		}
	}
	return nil, nil, false
}

// Get retrieves a binding, searching outward through the chain.
func (e *Environment) Get(name string) (Value, error) {
	if v, _, ok := e.Lookup(name); ok {
		return v, nil
	}
	return nil, fmt.Errorf("undefined symbol '%s'", name)
}

// Keys returns this frame's names in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extend pushes a new child frame.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
