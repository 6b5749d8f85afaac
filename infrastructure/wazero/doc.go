// Package wazero implements the bridge on a WebAssembly build of the
// module, executed by the wazero runtime.
//
// The artifact is compiled once at construction and validated for the
// "compose", "plan" and "allocate" exports. Each call instantiates a
// fresh anonymous instance from the compiled module, so concurrent
// calls never share guest memory.
//
// Host capabilities live in a module named "federation_host". Each
// export takes a packed i64 (pointer in the upper 32 bits, length in
// the lower 32) addressing the request bytes in guest memory, and
// returns a packed i64 addressing the response, or 0 when there is
// none. Response memory is obtained through the guest's "allocate"
// export. The capability set is built per call and travels to the host
// functions on the invocation context.
//
// Results follow the same contract as the scripted build: the guest
// reports exactly once through the result delivery capability, and
// diagnostic bytes flow through the print capability to the configured
// sink.
package wazero
