package action

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Mapper provides "dynamic" injection of actions in services.
// A service names the steps it delegates to its domain logic, gets a default
// implementation for each, and tests can swap a single step for a stub
// without the service having to know.
type Mapper struct {
	actions map[string]any
}

func (m *Mapper) Add(name string, fn any) *Mapper {
	if m.actions == nil {
		m.actions = make(map[string]any)
	}

	m.actions[name] = fn

	return m
}

func (m *Mapper) Get(name string) (any, error) {
	v, ok := m.actions[name]
	if !ok {
		return nil, errors.New("no action found for: " + name)
	}

	return v, nil
}

func (m *Mapper) All() []string {
	return slices.Collect(maps.Keys(m.actions))
}

// Lookup gets the named action and asserts it to the expected function type.
func Lookup[T any](m *Mapper, name string) (T, error) {
	var zero T

	v, err := m.Get(name)
	if err != nil {
		return zero, err
	}

	fn, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("action %q is %T, not %T", name, v, zero)
	}

	return fn, nil
}
