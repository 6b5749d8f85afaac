// Package errors provides the bridge failure taxonomy: everything that can
// go wrong between the caller and the embedded module, other than the module
// itself reporting composition or planning problems. All types support
// errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrNoResult reports that the driver script ran to completion without the
// module ever delivering a result. Either outcome path should have fired;
// neither did.
var ErrNoResult = stdErrors.New("module completed without delivering a result")

// ConstructionStep names the environment setup phase that failed.
type ConstructionStep string

const (
	// StepCapabilities is the binding of host capabilities into the
	// environment.
	StepCapabilities ConstructionStep = "capabilities"
	// StepBootstrap is the evaluation of the bootstrap script.
	StepBootstrap ConstructionStep = "bootstrap"
	// StepModule is the evaluation of the embedded module itself.
	StepModule ConstructionStep = "module"
	// StepInput is the evaluation of the marshaled request globals.
	StepInput ConstructionStep = "input"
)

// ConstructionError reports a failure while assembling the execution
// environment, before the driver script ever runs. These indicate a broken
// bridge deployment, not bad caller input, and retrying will not help.
type ConstructionError struct {
	Err    error
	Step   ConstructionStep
	Script string
}

func (e *ConstructionError) Error() string {
	if e.Script != "" {
		return fmt.Sprintf("environment construction failed at %s step (%s): %v", e.Step, e.Script, e.Err)
	}
	return fmt.Sprintf("environment construction failed at %s step: %v", e.Step, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// ContractViolationError reports that the module broke the bridge protocol:
// it delivered a result more than once, or delivered a payload that does not
// decode as the success-or-errors union. This usually means the embedded
// module and the host code are out of step.
type ContractViolationError struct {
	Err    error
	Reason string
}

func (e *ContractViolationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("module contract violation: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("module contract violation: %s", e.Reason)
}

func (e *ContractViolationError) Unwrap() error {
	return e.Err
}

// ExecutionFaultError reports that the driver script faulted before a result
// was delivered: an unrecovered exception, an interrupt, or an engine-level
// failure mid-run.
type ExecutionFaultError struct {
	Err    error
	Script string
}

func (e *ExecutionFaultError) Error() string {
	return fmt.Sprintf("execution fault in %s: %v", e.Script, e.Err)
}

func (e *ExecutionFaultError) Unwrap() error {
	return e.Err
}

// DiagnosticSinkError reports that writing module diagnostics to the
// configured sink failed. The failure is latched during the call and
// surfaced afterwards; the module never observes it.
type DiagnosticSinkError struct {
	Err error
}

func (e *DiagnosticSinkError) Error() string {
	return fmt.Sprintf("diagnostic sink write failed: %v", e.Err)
}

func (e *DiagnosticSinkError) Unwrap() error {
	return e.Err
}
