// Package hostfuncs provides the host capability surface of the bridge: an
// immutable registry of named byte handlers, the middleware chain around
// them, and the two capabilities the execution environment may call (print
// and deliver-result). Nothing else is reachable from inside an environment.
package hostfuncs
