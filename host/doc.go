// Package host drives one module call end to end: environment
// allocation, capability binding, bootstrap, module and input
// evaluation, driver trigger, and the one-shot result rendezvous.
//
// The session is a straight line through the states
//
//	created → capabilities → bootstrap → module → input → triggered →
//	awaited → closed
//
// logged at debug level and recorded on an otel span. The environment
// is closed on every exit path.
//
// Run is parameterized by the error element type of the call, so the
// compose and plan call-shapes share it verbatim:
//
//	data, contentErrs, err := host.Run[entities.CompositionError](ctx, engine, call)
//
// A non-nil err is a bridge failure, typed per domain/errors; content
// failures come back as the second return and never as err.
package host
