// Package ports defines the swappable seams of the bridge.
// Domain and host logic depend on these abstractions; infrastructure
// adapters (goja, wazero) implement them.
package ports
