package hostfuncs

import (
	"context"
	"fmt"
	"sort"
)

// Registry is an immutable collection of named capabilities. Once created
// via NewRegistry, handlers cannot be added or removed, which keeps lookups
// lock-free while concurrent sessions dispatch through it.
type Registry struct {
	handlers map[string]ByteHandler
	names    []string // sorted for consistent iteration
}

// registryBuilder accumulates configuration during registry construction.
type registryBuilder struct {
	handlers   map[string]ByteHandler
	middleware []Middleware
	errors     []error
}

// NewRegistry creates an immutable Registry with the given options. Returns
// an error if any capability name is empty or registered twice.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	b := &registryBuilder{
		handlers: make(map[string]ByteHandler),
	}

	for _, opt := range opts {
		opt(b)
	}

	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	names := make([]string, 0, len(b.handlers))
	for name := range b.handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	// Apply the middleware chain to every handler; reverse order so the
	// first registered middleware wraps outermost.
	wrapped := make(map[string]ByteHandler, len(b.handlers))
	for name, handler := range b.handlers {
		h := handler
		for i := len(b.middleware) - 1; i >= 0; i-- {
			h = b.middleware[i](h)
		}
		wrapped[name] = h
	}

	return &Registry{handlers: wrapped, names: names}, nil
}

// Invoke dispatches a capability call by name through its middleware chain.
func (r *Registry) Invoke(ctx context.Context, name string, payload []byte) ([]byte, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown capability: %q", name)
	}
	return handler(WithCapabilityName(ctx, name), payload)
}

// Has reports whether a capability with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names returns a sorted copy of all registered capability names.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// WithByteHandler registers a raw ByteHandler under the given name.
func WithByteHandler(name string, handler ByteHandler) RegistryOption {
	return func(b *registryBuilder) {
		if err := b.addHandler(name, handler); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}

// WithMiddleware appends middleware to the chain. Middleware executes in
// FIFO order (first added wraps outermost).
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}

func (b *registryBuilder) addHandler(name string, handler ByteHandler) error {
	if name == "" {
		return fmt.Errorf("capability name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("capability %q has a nil handler", name)
	}
	if _, exists := b.handlers[name]; exists {
		return fmt.Errorf("duplicate capability name: %q", name)
	}
	b.handlers[name] = handler
	return nil
}
