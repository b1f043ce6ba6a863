package provider

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Factory builds a Client from its configuration. cfg.Name is always the
// name the factory was registered under.
type Factory func(cfg Config) (Client, error)

// Registry maps provider names to factories. Use NewRegistry; transports
// register with the package-level registry from init.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

var defaultRegistry = NewRegistry()

// Register adds factory under name.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.factories[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateProvider, name)
	}
	r.factories[name] = factory
	return nil
}

// Build runs the factory registered as name without validating cfg.
func (r *Registry) Build(name string, cfg Config) (Client, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %s)", ErrUnknownProvider, name, strings.Join(r.Names(), ", "))
	}
	cfg.Name = name
	return factory(cfg)
}

// FromConfig validates cfg and builds the client it names.
func (r *Registry) FromConfig(cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid provider config: %w", err)
	}
	return r.Build(cfg.Name, cfg)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.factories))
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Register adds factory to the package registry. It is meant for init
// functions and panics on a duplicate name:
//
//	func init() {
//		provider.Register("openai", func(cfg provider.Config) (provider.Client, error) {
//			return New(cfg)
//		})
//	}
func Register(name string, factory Factory) {
	if err := defaultRegistry.Register(name, factory); err != nil {
		panic(err)
	}
}

// New builds the named client from the package registry.
func New(name string, cfg Config) (Client, error) {
	return defaultRegistry.Build(name, cfg)
}

// FromConfig validates cfg and builds cfg.Name from the package registry.
func FromConfig(cfg Config) (Client, error) {
	return defaultRegistry.FromConfig(cfg)
}

// Available returns the providers in the package registry.
func Available() []string {
	return defaultRegistry.Names()
}

// IsRegistered reports whether the package registry has name.
func IsRegistered(name string) bool {
	return defaultRegistry.Has(name)
}
