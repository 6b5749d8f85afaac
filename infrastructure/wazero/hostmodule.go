package wazero

import (
	"context"
	"log/slog"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/dball/federation/hostfuncs"
)

// HostModuleName is the import module under which the guest sees the
// host capabilities.
const HostModuleName = "federation_host"

// guestAllocate is the guest export used to obtain memory for request
// and response bytes.
const guestAllocate = "allocate"

// maxRequestSize limits the size of capability payloads read from
// guest memory.
const maxRequestSize uint32 = 16 << 20

// registerHostModule exports the capability set under HostModuleName.
// The functions are registered once per runtime; the handlers they
// dispatch to are resolved per call from the invocation context.
func registerHostModule(ctx context.Context, runtime wazero.Runtime, logger *slog.Logger) error {
	builder := runtime.NewHostModuleBuilder(HostModuleName)
	for _, name := range []string{hostfuncs.CapabilityPrint, hostfuncs.CapabilityDeliverResult} {
		capability := name // capture for closure
		builder.NewFunctionBuilder().
			WithFunc(func(ctx context.Context, mod api.Module, packed uint64) uint64 {
				return dispatchCapability(ctx, mod, packed, capability, logger)
			}).
			Export(capability)
	}
	_, err := builder.Instantiate(ctx)
	return err
}

// dispatchCapability handles one capability call from the guest. It
// reads the payload from guest memory, invokes the per-call handler
// and writes any response back. Handler failures are not surfaced to
// the guest; the registry's latches carry them to the caller, and the
// guest sees an empty response.
func dispatchCapability(ctx context.Context, mod api.Module, packed uint64, name string, logger *slog.Logger) uint64 {
	registry, ok := callRegistryFrom(ctx)
	if !ok {
		logger.ErrorContext(ctx, "capability called outside a bridge call", "capability", name)
		return 0
	}

	ptr, length := unpackPtrLen(packed)
	if length > maxRequestSize {
		logger.ErrorContext(ctx, "capability payload exceeds size limit",
			"capability", name, "size", length, "limit", maxRequestSize)
		return 0
	}
	payload, ok := mod.Memory().Read(ptr, length)
	if !ok {
		logger.ErrorContext(ctx, "failed to read capability payload from guest memory",
			"capability", name, "ptr", ptr, "len", length)
		return 0
	}

	response, err := registry.Invoke(ctx, name, payload)
	if err != nil {
		return 0
	}
	if len(response) == 0 {
		return 0
	}
	return writeResponse(ctx, mod, response, logger)
}

// writeResponse allocates guest memory and writes the response bytes.
// Returns the packed ptr+len, or 0 on failure.
func writeResponse(ctx context.Context, mod api.Module, data []byte, logger *slog.Logger) uint64 {
	allocate := mod.ExportedFunction(guestAllocate)
	if allocate == nil {
		logger.ErrorContext(ctx, "guest module missing allocate export")
		return 0
	}
	results, err := allocate.Call(ctx, uint64(len(data)))
	if err != nil {
		logger.ErrorContext(ctx, "guest allocate failed", "error", err)
		return 0
	}
	ptr := uint32(results[0])
	if !mod.Memory().Write(ptr, data) {
		logger.ErrorContext(ctx, "failed to write response into guest memory",
			"ptr", ptr, "len", len(data))
		return 0
	}
	return packPtrLen(ptr, uint32(len(data)))
}

// packPtrLen packs a pointer and length into a single i64. Upper 32
// bits: pointer, lower 32 bits: length.
func packPtrLen(ptr, length uint32) uint64 {
	return (uint64(ptr) << 32) | uint64(length)
}

// unpackPtrLen unpacks a pointer and length from a packed i64.
func unpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> 32)
	length = uint32(packed & 0xFFFFFFFF)
	return ptr, length
}
