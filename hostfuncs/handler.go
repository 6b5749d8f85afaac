package hostfuncs

import (
	"context"
)

// ByteHandler is a capability in its raw form: JSON or raw bytes in, bytes
// out. An error returned here aborts the calling script inside the
// environment.
type ByteHandler func(ctx context.Context, payload []byte) ([]byte, error)

// Middleware wraps a ByteHandler with cross-cutting behavior. Middleware
// executes in FIFO order (first registered wraps outermost, onion model).
type Middleware func(next ByteHandler) ByteHandler

// RegistryOption configures a Registry during construction.
type RegistryOption func(*registryBuilder)

type capabilityNameKey struct{}

// WithCapabilityName returns a context carrying the capability name, for
// middleware and handlers invoked through the registry.
func WithCapabilityName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, capabilityNameKey{}, name)
}

// CapabilityNameFrom returns the capability name stored by the registry
// dispatch, or "unknown" outside a dispatch.
func CapabilityNameFrom(ctx context.Context) string {
	if name, ok := ctx.Value(capabilityNameKey{}).(string); ok {
		return name
	}
	return "unknown"
}
