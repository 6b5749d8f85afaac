package hostfuncs

import (
	"context"
	"io"

	domainerrors "github.com/dball/federation/domain/errors"
)

// CapabilityPrint is the name under which the diagnostic print capability is
// bound inside the environment.
const CapabilityPrint = "__federation_print"

// Print returns the capability that appends raw diagnostic bytes from the
// module to sink, verbatim. The module may call it any number of times,
// including zero.
//
// A sink write failure is latched and never returned: diagnostics are
// host-side plumbing, and a broken stderr pipe must not surface inside the
// environment as a composition problem. The session reads the latch after
// the call.
func Print(sink io.Writer, latch *ErrorLatch) ByteHandler {
	return func(_ context.Context, payload []byte) ([]byte, error) {
		if _, err := sink.Write(payload); err != nil {
			latch.Set(&domainerrors.DiagnosticSinkError{Err: err})
		}
		return nil, nil
	}
}
