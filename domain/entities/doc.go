// Package entities provides the core domain types for the federation bridge.
// These types serve dual purpose: host-side domain entities AND the JSON
// shapes exchanged with the embedded composition/planning module. Field names
// are snake-free on the Go side and camelCase at the module boundary.
package entities
