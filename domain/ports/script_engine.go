package ports

import (
	"context"
)

// HostFunc is a capability callable from inside an environment. The input
// bytes come from the environment; the returned bytes, if any, go back to
// it. Errors abort the calling script.
type HostFunc func(ctx context.Context, payload []byte) ([]byte, error)

// ScriptEngine creates isolated execution environments. One engine may serve
// many concurrent sessions; each NewEnvironment call must return a fresh
// environment sharing no mutable state with any other.
type ScriptEngine interface {
	// NewEnvironment allocates an isolated environment with no capabilities
	// bound and no code evaluated.
	NewEnvironment(ctx context.Context) (Environment, error)
}

// Environment is one isolated execution context. Implementations need no
// internal locking: a session drives its environment from a single
// goroutine.
type Environment interface {
	// Bind exposes fn inside the environment under the given name. All
	// binds happen before any Run.
	Bind(name string, fn HostFunc) error

	// Run evaluates src inside the environment. The name identifies the
	// script in errors and diagnostics. Script exceptions are returned as
	// errors, never panics.
	Run(ctx context.Context, name, src string) error

	// Close tears the environment down. The environment is unusable
	// afterwards. Close is idempotent.
	Close() error
}
