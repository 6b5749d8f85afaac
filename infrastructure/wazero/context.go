package wazero

import (
	"context"

	"github.com/dball/federation/hostfuncs"
)

// contextKey is a private type for context keys.
type contextKey struct {
	name string
}

var callRegistryKey = &contextKey{name: "call_registry"}

// withCallRegistry attaches the capability registry for one call. The
// host module functions look it up when the guest calls in, which is
// how a shared runtime serves per-call rendezvous slots and latches.
func withCallRegistry(ctx context.Context, registry *hostfuncs.Registry) context.Context {
	return context.WithValue(ctx, callRegistryKey, registry)
}

// callRegistryFrom retrieves the per-call capability registry.
func callRegistryFrom(ctx context.Context) (*hostfuncs.Registry, bool) {
	registry, ok := ctx.Value(callRegistryKey).(*hostfuncs.Registry)
	return registry, ok
}
