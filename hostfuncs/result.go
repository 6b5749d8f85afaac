package hostfuncs

import (
	"context"

	domainerrors "github.com/dball/federation/domain/errors"
	"github.com/dball/federation/internal/rendezvous"
	"github.com/dball/federation/wireformat"
)

// CapabilityDeliverResult is the name under which the result delivery
// capability is bound inside the environment.
const CapabilityDeliverResult = "__federation_deliver_result"

// DeliverResult returns the capability that accepts the module's single
// result payload, decodes it as the success-or-errors union, and publishes
// it into the slot.
//
// Contract breaks are handled loudly twice over: the violation is returned
// (aborting the calling script) and latched (so the session still sees it if
// the module swallows the abort). A payload that does not decode, or a
// second delivery, is never silently dropped.
func DeliverResult[E any](slot *rendezvous.Slot[wireformat.Result[E]], violations *ErrorLatch) ByteHandler {
	return func(_ context.Context, payload []byte) ([]byte, error) {
		result, err := wireformat.DecodeResult[E](payload)
		if err != nil {
			violation := &domainerrors.ContractViolationError{
				Reason: "undecodable result payload",
				Err:    err,
			}
			violations.Set(violation)
			return nil, violation
		}
		if err := slot.Deliver(result); err != nil {
			violation := &domainerrors.ContractViolationError{
				Reason: "result delivered more than once",
				Err:    err,
			}
			violations.Set(violation)
			return nil, violation
		}
		return nil, nil
	}
}
