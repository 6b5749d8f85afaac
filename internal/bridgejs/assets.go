// Package bridgejs carries the embedded scripts that make up the
// composition and planning module: the host bootstrap, the vendored
// bridge bundle, and the two driver scripts that invoke it.
//
// The scripts are embedded so the library has no runtime file
// dependencies. Script names are exported because they appear in
// execution fault messages and tracing attributes.
package bridgejs

import _ "embed"

// Script names, in the order an environment loads them.
const (
	BootstrapName     = "runtime.js"
	ModuleName        = "bridge.js"
	ComposeDriverName = "do_compose.js"
	PlanDriverName    = "do_plan.js"
)

// Bootstrap adapts the host capabilities into the globals the module
// expects: print, a console shim, and done.
//
//go:embed js/runtime.js
var Bootstrap string

// Module is the vendored composition and planning bundle. It defines a
// single global, bridge, exposing composeServices and buildQueryPlan.
//
//go:embed dist/bridge.js
var Module string

// ComposeDriver reads the serviceList global and delivers the result of
// bridge.composeServices through done.
//
//go:embed js/do_compose.js
var ComposeDriver string

// PlanDriver reads the context and options globals and delivers the
// result of bridge.buildQueryPlan through done.
//
//go:embed js/do_plan.js
var PlanDriver string
