// Package registry maps module-type names to constructors. Population is a
// module-implementation concern; the engine only consumes Lookup.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/orchid/internal/module"
)

// Provider is implemented by module packages that register their factories
// into a registry.
type Provider interface {
	Register(r *Registry)
}

// Registry holds the module factories for one application instance.
type Registry struct {
	factories map[string]module.Factory
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]module.Factory),
	}
}

// RegisterFactory registers the factory for a module type. Registering the
// same name twice is a programmer error and panics.
func (r *Registry) RegisterFactory(name string, factory module.Factory) {
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("module factory with name '%s' already registered", name))
	}
	slog.Debug("Registering module factory.", "name", name)
	r.factories[name] = factory
}

// Lookup returns the factory for a module type, or UnknownModuleTypeError
// if none is registered under that name.
func (r *Registry) Lookup(name string) (module.Factory, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, &UnknownModuleTypeError{Name: name}
	}
	return factory, nil
}

// Types returns the registered module-type names in sorted order.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
